package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/graphshake/pkg/graph"
)

func testGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, n := range []*graph.Node{
		{ID: "main", Format: graph.FormatESModule, Dependencies: []string{"util"}, OriginalSpecifiers: []string{"./util"}, EmittedCode: "x();"},
		{ID: "util", Format: graph.FormatOther, Meta: graph.Metadata{"format": "cjs"}, Dependants: []string{"main"}},
	} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	g.Mains = []string{"main"}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{})
	for _, want := range []string{
		`"main" [label="main", penwidth=3];`,
		`"util" [label="util", style="rounded,filled,dashed"`,
		`"main" -> "util";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTDetailed(t *testing.T) {
	dot := ToDOT(testGraph(t), Options{Detailed: true})
	for _, want := range []string{
		`format: cjs`,
		`dependants: 1`,
		`emitted: 4 B`,
		`[label="./util", fontsize=16]`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" viewBox="0.00 0.00 120.50 80.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 120.50 80.00" width="120" height="80">`) {
		t.Errorf("normalizeViewBox = %s", out)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}
