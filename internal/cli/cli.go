package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphshake/pkg/buildinfo"
	"github.com/matzehuels/graphshake/pkg/cache"
	"github.com/matzehuels/graphshake/pkg/config"
	"github.com/matzehuels/graphshake/pkg/treeshake"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "graphshake"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Graphshake tree-shakes resolved module graphs",
		Long:         `Graphshake takes a fully resolved module dependency graph, bundles it one module at a time with esbuild, and writes the tree-shaken code of every ES module back into the graph. Non-ES modules are stood in for by generated shims that export exactly the names their importers use.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.shakeCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shaker Factory
// =============================================================================

// newShaker creates a tree-shaker for CLI use. The returned close function
// releases the cache.
func (c *CLI) newShaker(ctx context.Context, cfg *config.Config, noCache bool) (*treeshake.Shaker, func(), error) {
	ch, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := ch.Close(); err != nil {
			c.Logger.Warn("close cache", "error", err)
		}
	}
	return treeshake.NewShaker(nil, ch, c.Logger), closeFn, nil
}

func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisURL != "" {
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/graphshake/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// loadConfig reads the config file at path. An empty path looks for
// graphshake.toml next to the graph file and in its parents; finding none
// yields an empty configuration.
func loadConfig(path, graphPath string) (*config.Config, error) {
	if path == "" {
		path = config.Find(filepath.Dir(graphPath))
	}
	if path == "" {
		return &config.Config{}, nil
	}
	return config.Load(path)
}
