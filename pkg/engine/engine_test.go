package engine

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/graphshake/pkg/errors"
)

// mapHooks resolves through a fixed table and loads from an in-memory map.
type mapHooks struct {
	sources  map[string]string
	resolve  map[string]map[string]string // importer -> specifier -> id
	loaded   []string
	resolved int
}

func (h *mapHooks) Resolve(_ context.Context, specifier, importer string) (string, error) {
	h.resolved++
	if importer == "" {
		return specifier, nil
	}
	id, ok := h.resolve[importer][specifier]
	if !ok {
		return "", errors.UnresolvedSpecifier(specifier, importer)
	}
	return id, nil
}

func (h *mapHooks) Load(_ context.Context, id string) (string, error) {
	h.loaded = append(h.loaded, id)
	src, ok := h.sources[id]
	if !ok {
		return "", errors.MissingNode(id)
	}
	return src, nil
}

func (h *mapHooks) Transform(_ context.Context, code, _ string) (*Module, error) {
	return &Module{Code: code}, nil
}

func newMapHooks() *mapHooks {
	return &mapHooks{
		sources: map[string]string{
			"app/main": `import { foo } from "./util";
console.log(foo);
`,
			"app/util": `import "lib/side";
export let foo = {};
`,
			"lib/side": `globalThis.ready = true;
`,
		},
		resolve: map[string]map[string]string{
			"app/main": {"./util": "app/util"},
			"app/util": {"lib/side": "lib/side"},
		},
	}
}

func TestESBuildRun(t *testing.T) {
	hooks := newMapHooks()
	out, err := NewESBuild(nil).Run(context.Background(), "app/main", hooks, Options{PreserveModules: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(out.Chunks) != 3 {
		t.Fatalf("chunks = %d, want 3", len(out.Chunks))
	}
	wantOrder := []string{"app/main", "app/util", "lib/side"}
	for i, c := range out.Chunks {
		if c.Name != wantOrder[i] {
			t.Errorf("chunk[%d] = %q, want %q", i, c.Name, wantOrder[i])
		}
		if c.ModuleID() != c.Name {
			t.Errorf("chunk %q ModuleID = %q", c.Name, c.ModuleID())
		}
	}

	main, ok := out.Chunk("app/main")
	if !ok {
		t.Fatal("missing app/main chunk")
	}
	if len(main.Imports) != 1 || main.Imports[0] != "app/util" {
		t.Errorf("main imports = %v, want [app/util]", main.Imports)
	}
	if !strings.Contains(main.Code, `"app/util"`) {
		t.Errorf("main code does not import app/util by id:\n%s", main.Code)
	}

	side, _ := out.Chunk("lib/side")
	if len(side.Imports) != 0 {
		t.Errorf("side imports = %v, want none", side.Imports)
	}
	if main.Map != "" {
		t.Error("source map emitted without SourceMaps")
	}
	for _, c := range out.Chunks {
		if strings.Contains(c.Code, "// graphshake") {
			t.Errorf("chunk %q keeps a module path comment:\n%s", c.Name, c.Code)
		}
	}
}

func TestESBuildRunShakesExports(t *testing.T) {
	hooks := &mapHooks{
		sources: map[string]string{
			"app/main": `import { used } from "./lib";
export const api = used + 1;
export const spare = 2;
`,
			"app/lib": `export const used = 1;
export function unusedExport() { return "unused"; }
`,
		},
		resolve: map[string]map[string]string{
			"app/main": {"./lib": "app/lib"},
		},
	}
	out, err := NewESBuild(nil).Run(context.Background(), "app/main", hooks, Options{PreserveModules: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	lib, ok := out.Chunk("app/lib")
	if !ok {
		t.Fatal("missing app/lib chunk")
	}
	if strings.Contains(lib.Code, "unusedExport") {
		t.Errorf("lib keeps an export nothing imports:\n%s", lib.Code)
	}
	if !reflect.DeepEqual(lib.Exports, []string{"used"}) {
		t.Errorf("lib exports = %v, want [used]", lib.Exports)
	}

	main, _ := out.Chunk("app/main")
	if !reflect.DeepEqual(main.Exports, []string{"api", "spare"}) {
		t.Errorf("entry exports = %v, want [api spare]", main.Exports)
	}
}

func TestESBuildRunPrunesImports(t *testing.T) {
	tests := []struct {
		name       string
		lib        string
		wantImport []string
		wantChunks []string
	}{
		{
			name:       "side effect free",
			lib:        "export const x = 1;\n",
			wantImport: []string{"app/other"},
			wantChunks: []string{"app/main", "app/other"},
		},
		{
			name:       "side effects",
			lib:        "globalThis.installed = true;\nexport const x = 1;\n",
			wantImport: []string{"app/lib", "app/other"},
			wantChunks: []string{"app/main", "app/lib", "app/other"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hooks := &mapHooks{
				sources: map[string]string{
					"app/main": `import { x } from "./lib";
import { y } from "./other";
console.log(y);
`,
					"app/lib":   tt.lib,
					"app/other": "export const y = 2;\n",
				},
				resolve: map[string]map[string]string{
					"app/main": {"./lib": "app/lib", "./other": "app/other"},
				},
			}
			out, err := NewESBuild(nil).Run(context.Background(), "app/main", hooks, Options{PreserveModules: true})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}

			main, _ := out.Chunk("app/main")
			if !reflect.DeepEqual(main.Imports, tt.wantImport) {
				t.Errorf("main imports = %v, want %v", main.Imports, tt.wantImport)
			}
			if strings.Contains(main.Code, "{ x }") {
				t.Errorf("main keeps the unused binding:\n%s", main.Code)
			}
			var names []string
			for _, c := range out.Chunks {
				names = append(names, c.Name)
			}
			if !reflect.DeepEqual(names, tt.wantChunks) {
				t.Errorf("chunks = %v, want %v", names, tt.wantChunks)
			}
		})
	}
}

func TestESBuildRunSourceMaps(t *testing.T) {
	out, err := NewESBuild(nil).Run(context.Background(), "app/main", newMapHooks(), Options{PreserveModules: true, SourceMaps: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, c := range out.Chunks {
		if !strings.Contains(c.Map, `"mappings"`) {
			t.Errorf("chunk %q has no source map", c.Name)
		}
	}
}

func TestESBuildRunHookError(t *testing.T) {
	hooks := newMapHooks()
	delete(hooks.resolve, "app/util")

	_, err := NewESBuild(nil).Run(context.Background(), "app/main", hooks, Options{PreserveModules: true})
	if !errors.Is(err, errors.ErrCodeUnresolvedSpecifier) {
		t.Fatalf("err = %v, want UNRESOLVED_SPECIFIER", err)
	}
}

func TestESBuildRunSyntaxError(t *testing.T) {
	hooks := newMapHooks()
	hooks.sources["app/util"] = "export let = ;"

	_, err := NewESBuild(nil).Run(context.Background(), "app/main", hooks, Options{PreserveModules: true})
	if !errors.Is(err, errors.ErrCodeEngineFailed) {
		t.Fatalf("err = %v, want ENGINE_FAILED", err)
	}
}

func TestESBuildRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hooks := newMapHooks()
	if _, err := NewESBuild(nil).Run(ctx, "app/main", hooks, Options{PreserveModules: true}); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if len(hooks.loaded) != 0 {
		t.Errorf("loaded %v after cancel", hooks.loaded)
	}
}

func TestESBuildRequiresPreserveModules(t *testing.T) {
	_, err := NewESBuild(nil).Run(context.Background(), "app/main", newMapHooks(), Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("err = %v, want UNSUPPORTED", err)
	}
}

func TestInlineSourceMap(t *testing.T) {
	got := inlineSourceMap("a;", `{"version":3}`)
	want := "a;\n//# sourceMappingURL=data:application/json;base64,eyJ2ZXJzaW9uIjozfQ==\n"
	if got != want {
		t.Errorf("inlineSourceMap = %q, want %q", got, want)
	}
}

func TestMetafileExports(t *testing.T) {
	m, err := parseMetafile(`{
		"inputs": {},
		"outputs": {
			"chunk.js": {"bytes": 10, "imports": [], "exports": ["a", "default"]},
			"chunk.js.map": {"bytes": 5, "imports": [], "exports": []}
		}
	}`)
	if err != nil {
		t.Fatalf("parseMetafile: %v", err)
	}
	if got := m.exports(); !reflect.DeepEqual(got, []string{"a", "default"}) {
		t.Errorf("exports = %v, want [a default]", got)
	}
}

func TestCollector(t *testing.T) {
	var c Collector
	c.Infof("a", "loaded %d", 1)
	c.Warnf("b", "shimmed")
	c.Warnf("", "global")

	if c.Warnings() != 2 {
		t.Errorf("Warnings = %d, want 2", c.Warnings())
	}
	list := c.List()
	if len(list) != 3 {
		t.Fatalf("List len = %d", len(list))
	}
	if got := list[0].String(); got != "info: a: loaded 1" {
		t.Errorf("String = %q", got)
	}
	if got := list[2].String(); got != "warning: global" {
		t.Errorf("String = %q", got)
	}
}

func TestReexport(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  string
	}{
		{name: "side effects only", want: "import \"app/util\";\n"},
		{name: "names", names: []string{"foo", "default"}, want: "export { foo, default } from \"app/util\";\n"},
		{name: "string name", names: []string{"a-b"}, want: "export { \"a-b\" } from \"app/util\";\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := reexport("app/util", tt.names); got != tt.want {
				t.Errorf("reexport = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCutKeepsLinesForSourceMaps(t *testing.T) {
	code := "// graphshake:app/a\nvar a = 1;\n"
	tests := []struct {
		name       string
		sourceMaps bool
		want       string
	}{
		{name: "plain", want: "var a = 1;\n"},
		{name: "source maps", sourceMaps: true, want: "\nvar a = 1;\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &run{opts: Options{SourceMaps: tt.sourceMaps}}
			end := strings.Index(code, "\n")
			if !isPathComment(code[:end]) {
				t.Fatalf("%q is not recognized as a path comment", code[:end])
			}
			if got := applyEdits(code, []edit{r.cut(code, 0, end)}); got != tt.want {
				t.Errorf("applyEdits = %q, want %q", got, tt.want)
			}
		})
	}
}
