package adapter

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/graphshake/pkg/engine"
	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
	"github.com/matzehuels/graphshake/pkg/transpile"
)

func setup(t *testing.T) (*Adapter, *graph.Graph, *engine.Collector) {
	t.Helper()
	g := graph.New()
	for _, n := range []*graph.Node{
		{
			ID:                 "main",
			Format:             graph.FormatESModule,
			Source:             "import { foo } from \"./util\";\nconsole.log(foo);\n",
			Dependencies:       []string{"util"},
			OriginalSpecifiers: []string{"./util"},
		},
		{ID: "util", Format: graph.FormatOther, Source: "module.exports.foo = 1;"},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	g.Mains = []string{"main"}

	tr, err := transpile.New(graph.TransformOptions{}, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	diags := &engine.Collector{}
	return New(g, nil, tr, diags, nil), g, diags
}

func TestResolve(t *testing.T) {
	a, _, _ := setup(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		specifier string
		importer  string
		want      string
		wantCode  errors.Code
	}{
		{"entry", "main", "", "main", ""},
		{"dependency", "./util", "main", "util", ""},
		{"unknown specifier", "./nope", "main", "", errors.ErrCodeUnresolvedSpecifier},
		{"unknown importer", "./util", "ghost", "", errors.ErrCodeUnresolvedSpecifier},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := a.Resolve(ctx, tt.specifier, tt.importer)
			if tt.wantCode != "" {
				if !errors.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Resolve = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadAndTransform(t *testing.T) {
	a, g, diags := setup(t)
	ctx := context.Background()

	src, err := a.Load(ctx, "main")
	if err != nil {
		t.Fatal(err)
	}
	main, _ := g.Node("main")
	if src != main.Source {
		t.Errorf("ES module source not served verbatim")
	}

	// Before main is transformed, util has no dependants.
	if shim, _ := a.Load(ctx, "util"); shim != "export default {};\n" {
		t.Errorf("early shim = %q", shim)
	}

	mod, err := a.Transform(ctx, src, "main")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(mod.Code, "./util") || mod.Map == "" {
		t.Errorf("transform output = %+v", mod)
	}

	shim, err := a.Load(ctx, "util")
	if err != nil {
		t.Fatal(err)
	}
	if shim != "export let foo = {};\n" {
		t.Errorf("shim = %q", shim)
	}

	// Non-ES code passes through the transform untouched.
	out, err := a.Transform(ctx, shim, "util")
	if err != nil || out.Code != shim || out.Map != "" {
		t.Errorf("passthrough = %+v, %v", out, err)
	}

	if len(diags.List()) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags.List())
	}
}

func TestLoadMissingNode(t *testing.T) {
	a, _, diags := setup(t)
	src, err := a.Load(context.Background(), "ghost")
	if err != nil {
		t.Fatal(err)
	}
	if src != "export default {};\n" {
		t.Errorf("src = %q", src)
	}
	if diags.Warnings() != 1 {
		t.Errorf("warnings = %d, want 1", diags.Warnings())
	}
}

func TestTransformError(t *testing.T) {
	a, _, _ := setup(t)
	_, err := a.Transform(context.Background(), "export let = ;", "main")
	if !errors.Is(err, errors.ErrCodeTransformFailed) {
		t.Fatalf("err = %v, want TRANSFORM_FAILED", err)
	}
}
