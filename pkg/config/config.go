// Package config loads graphshake.toml.
//
// A configuration file is optional. Values it sets override the loader
// settings carried in the graph file; command-line flags override both.
//
//	[loader]
//	env = "production"
//
//	[transform]
//	target = "es2017"
//	loader = "jsx"
//
//	[transform.envs.production]
//	minify_syntax = true
//	define = { "process.env.NODE_ENV" = "\"production\"" }
//
//	[engine]
//	source_maps = true
//
//	[cache]
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/graphshake/internal/esbuildopt"
	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
)

// FileName is the configuration file looked up by [Find].
const FileName = "graphshake.toml"

// Config is the decoded configuration file.
type Config struct {
	Loader    LoaderConfig           `toml:"loader"`
	Transform graph.TransformOptions `toml:"transform"`
	Engine    EngineConfig           `toml:"engine"`
	Cache     CacheConfig            `toml:"cache"`
}

// LoaderConfig overrides the graph's loader settings.
type LoaderConfig struct {
	BaseURL string `toml:"base_url"`
	Env     string `toml:"env"`
}

// EngineConfig configures the bundling run.
type EngineConfig struct {
	SourceMaps bool `toml:"source_maps"`
	// NoPrime disables transpiling reachable modules before bundling.
	NoPrime bool `toml:"no_prime"`
}

// CacheConfig selects the transpile cache backend.
type CacheConfig struct {
	// Disabled turns caching off.
	Disabled bool `toml:"disabled"`
	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`
	// RedisURL selects the redis backend when set.
	RedisURL string `toml:"redis_url"`
}

// Load reads and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(string(data))
}

// Parse decodes and validates TOML configuration text. Unknown keys are
// rejected.
func Parse(text string) (*Config, error) {
	var c Config
	md, err := toml.Decode(text, &c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Find returns the path of FileName in dir or the nearest parent that has
// one, or "" when there is none.
func Find(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate checks transform option names, including every environment.
func (c *Config) Validate() error {
	if err := validateTransform("transform", c.Transform); err != nil {
		return err
	}
	for name, env := range c.Transform.Envs {
		if len(env.Envs) > 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "transform.envs.%s: nested envs are not allowed", name)
		}
		if err := validateTransform("transform.envs."+name, env); err != nil {
			return err
		}
	}
	if c.Cache.Disabled && c.Cache.RedisURL != "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache: redis_url set while cache is disabled")
	}
	return nil
}

func validateTransform(section string, o graph.TransformOptions) error {
	if o.Target != "" {
		if _, err := esbuildopt.Target(o.Target); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.target", section)
		}
	}
	if o.Loader != "" {
		if _, err := esbuildopt.Loader(o.Loader); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.loader", section)
		}
	}
	if o.JSX != "" {
		if _, err := esbuildopt.JSX(o.JSX); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s.jsx", section)
		}
	}
	return nil
}

// Apply overrides g's loader with the values c sets.
func (c *Config) Apply(g *graph.Graph) {
	if c == nil {
		return
	}
	if c.Loader.BaseURL != "" {
		g.Loader.BaseURL = c.Loader.BaseURL
	}
	if c.Loader.Env != "" {
		g.Loader.Env = c.Loader.Env
	}
	if !c.Transform.IsZero() {
		g.Loader.Transform = c.Transform
	}
}
