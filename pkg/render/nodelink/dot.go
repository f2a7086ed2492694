package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphshake/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds format and size information to node labels and
	// specifiers to edges. When false, only the module id is shown.
	Detailed bool
}

// ToDOT converts a module graph to Graphviz DOT format. The resulting DOT
// string can be rendered using [RenderSVG].
//
// Edges point from importer to dependency. Dependency ids missing from the
// graph still get an edge, to a node Graphviz creates implicitly.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, slices.Contains(g.Mains, n.ID))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range g.Nodes() {
		for i, dep := range n.Dependencies {
			if opts.Detailed && i < len(n.OriginalSpecifiers) && n.OriginalSpecifiers[i] != dep {
				fmt.Fprintf(&buf, "  %q -> %q [label=%q, fontsize=16];\n", n.ID, dep, n.OriginalSpecifiers[i])
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q;\n", n.ID, dep)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *graph.Node, detailed bool) string {
	if !detailed {
		return n.ID
	}

	format := n.Format.String()
	if label, ok := n.Meta["format"].(string); ok && !n.IsESModule() {
		format = label
	}
	parts := []string{"format: " + format}
	if n.Manifest != nil {
		parts = append(parts, fmt.Sprintf("imports: %d", len(n.Manifest.Imports)))
	}
	if len(n.Dependants) > 0 {
		parts = append(parts, fmt.Sprintf("dependants: %d", len(n.Dependants)))
	}
	if n.EmittedCode != "" {
		parts = append(parts, fmt.Sprintf("emitted: %d B", len(n.EmittedCode)))
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n *graph.Node, label string, main bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !n.IsESModule() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=black")
	}
	if main {
		attrs = append(attrs, "penwidth=3")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root svg tag to a zero-origin viewBox with
// matching pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
