package shim

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/graphshake/pkg/graph"
)

func esNode(id string, deps, specs []string, imports ...graph.Import) *graph.Node {
	return &graph.Node{
		ID:                 id,
		Format:             graph.FormatESModule,
		Dependencies:       deps,
		OriginalSpecifiers: specs,
		Manifest:           &graph.ImportManifest{Imports: imports},
	}
}

func named(source string, names ...string) graph.Import {
	imp := graph.Import{Source: source}
	for _, n := range names {
		imp.Specifiers = append(imp.Specifiers, graph.ImportSpecifier{Local: n, Imported: n})
	}
	return imp
}

func build(t *testing.T, nodes ...*graph.Node) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestSynthesize(t *testing.T) {
	r := graph.DependencyResolver{}

	t.Run("single named import", func(t *testing.T) {
		g := build(t,
			esNode("main", []string{"util"}, []string{"./util"}, named("./util", "foo")),
			&graph.Node{ID: "util", Dependants: []string{"main"}},
		)
		s := Synthesize(g, r, "util")
		if s.Code != "export let foo = {};\n" {
			t.Errorf("code = %q", s.Code)
		}
	})

	t.Run("no dependants", func(t *testing.T) {
		g := build(t, &graph.Node{ID: "lonely"})
		s := Synthesize(g, r, "lonely")
		if s.Code != "export default {};\n" || len(s.Exports) != 0 {
			t.Errorf("shim = %+v", s)
		}
	})

	t.Run("missing node", func(t *testing.T) {
		s := Synthesize(graph.New(), r, "ghost")
		if s.Code != "export default {};\n" {
			t.Errorf("code = %q", s.Code)
		}
	})

	t.Run("deduplicates default", func(t *testing.T) {
		def := graph.Import{Source: "c", Specifiers: []graph.ImportSpecifier{{Local: "c", Imported: "default"}}}
		g := build(t,
			esNode("a", []string{"c"}, []string{"c"}, def),
			esNode("b", []string{"c"}, []string{"c"}, def),
			&graph.Node{ID: "c", Dependants: []string{"a", "b"}},
		)
		s := Synthesize(g, r, "c")
		if strings.Count(s.Code, "export default {}") != 1 {
			t.Errorf("code = %q, want exactly one default export", s.Code)
		}
	})

	t.Run("union in first-seen order", func(t *testing.T) {
		g := build(t,
			esNode("a", []string{"lib"}, []string{"lib"}, named("lib", "x", "y")),
			esNode("b", []string{"lib"}, []string{"../lib"}, named("../lib", "y", "z")),
			&graph.Node{ID: "lib", Dependants: []string{"a", "b"}},
		)
		got := Exports(g, r, "lib")
		if want := []string{"x", "y", "z"}; !reflect.DeepEqual(got, want) {
			t.Errorf("exports = %v, want %v", got, want)
		}
	})

	t.Run("ignores imports of other modules", func(t *testing.T) {
		g := build(t,
			esNode("a", []string{"lib", "other"}, []string{"lib", "other"},
				named("lib", "x"), named("other", "nope")),
			&graph.Node{ID: "lib", Dependants: []string{"a"}},
			&graph.Node{ID: "other"},
		)
		if got := Exports(g, r, "lib"); !reflect.DeepEqual(got, []string{"x"}) {
			t.Errorf("exports = %v", got)
		}
	})

	t.Run("namespace import contributes nothing", func(t *testing.T) {
		ns := graph.Import{Source: "lib", Specifiers: []graph.ImportSpecifier{{Local: "L", Imported: "*"}}}
		g := build(t,
			esNode("a", []string{"lib"}, []string{"lib"}, ns),
			&graph.Node{ID: "lib", Dependants: []string{"a"}},
		)
		if s := Synthesize(g, r, "lib"); s.Code != "export default {};\n" {
			t.Errorf("code = %q", s.Code)
		}
	})

	t.Run("dependant without manifest", func(t *testing.T) {
		a := esNode("a", []string{"lib"}, []string{"lib"})
		a.Manifest = nil
		g := build(t, a, &graph.Node{ID: "lib", Dependants: []string{"a"}})
		if got := Exports(g, r, "lib"); len(got) != 0 {
			t.Errorf("exports = %v", got)
		}
	})
}

func TestCode(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{nil, "export default {};\n"},
		{[]string{"default", "foo"}, "export default {};\nexport let foo = {};\n"},
		{[]string{"$x", "_y1"}, "export let $x = {};\nexport let _y1 = {};\n"},
		{[]string{"a-b", "delete"}, "let __shim0 = {};\nexport { __shim0 as \"a-b\" };\nlet __shim1 = {};\nexport { __shim1 as \"delete\" };\n"},
	}
	for _, tt := range tests {
		if got := Code(tt.names); got != tt.want {
			t.Errorf("Code(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}
