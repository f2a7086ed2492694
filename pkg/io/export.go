package io

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"

	"github.com/matzehuels/graphshake/pkg/graph"
)

// WriteJSON encodes g as JSON and writes it to w. Sources are written
// inline and non-ES format labels are restored from meta["format"], so
// the output can be re-imported with [ReadJSON].
func WriteJSON(g *graph.Graph, w io.Writer) error {
	out := graphFile{
		Mains:  g.Mains,
		Loader: g.Loader,
		Nodes:  make([]node, 0, g.Len()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, fromNode(n))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func fromNode(n *graph.Node) node {
	src := n.Source
	nd := node{
		ID:           n.ID,
		Format:       n.Format.String(),
		Source:       &src,
		Dependencies: n.Dependencies,
		Specifiers:   n.OriginalSpecifiers,
		Dependants:   n.Dependants,
		Manifest:     n.Manifest,
		EmittedCode:  n.EmittedCode,
		EmittedMap:   n.EmittedMap,
	}
	meta := maps.Clone(n.Meta)
	if label, ok := meta[metaFormat].(string); ok && n.Format == graph.FormatOther {
		nd.Format = label
		delete(meta, metaFormat)
	}
	if len(meta) > 0 {
		nd.Meta = meta
	}
	return nd
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *graph.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
