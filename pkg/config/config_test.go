package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
)

const sample = `
[loader]
env = "production"

[transform]
target = "es2017"
loader = "jsx"

[transform.envs.production]
minify_syntax = true
define = { "process.env.NODE_ENV" = "\"production\"" }

[engine]
source_maps = true

[cache]
redis_url = "redis://localhost:6379/0"
`

func TestParse(t *testing.T) {
	c, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.Loader.Env != "production" || c.Transform.Target != "es2017" {
		t.Errorf("config = %+v", c)
	}
	prod, ok := c.Transform.Envs["production"]
	if !ok || !prod.MinifySyntax || prod.Define["process.env.NODE_ENV"] != `"production"` {
		t.Errorf("production env = %+v", prod)
	}
	if !c.Engine.SourceMaps || c.Cache.RedisURL == "" {
		t.Errorf("engine/cache = %+v / %+v", c.Engine, c.Cache)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", "[transform\ntarget = 1"},
		{"unknown key", "[engine]\nturbo = true\n"},
		{"bad target", "[transform]\ntarget = \"es1999\"\n"},
		{"bad env loader", "[transform.envs.dev]\nloader = \"coffee\"\n"},
		{"redis while disabled", "[cache]\ndisabled = true\nredis_url = \"redis://x\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.text); !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadAndFind(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(root, FileName)
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	found := Find(nested)
	if found != path {
		t.Fatalf("Find = %q, want %q", found, path)
	}
	if _, err := Load(found); err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err := Load(filepath.Join(root, "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestApply(t *testing.T) {
	c, err := Parse(sample)
	if err != nil {
		t.Fatal(err)
	}
	g := graph.New()
	g.Loader = graph.Loader{BaseURL: "/srv", Env: "dev"}
	c.Apply(g)

	if g.Loader.BaseURL != "/srv" || g.Loader.Env != "production" {
		t.Errorf("loader = %+v", g.Loader)
	}
	opts := g.Loader.Options()
	if opts.Target != "es2017" || !opts.MinifySyntax {
		t.Errorf("effective options = %+v", opts)
	}

	var empty *Config
	empty.Apply(g) // no-op
}
