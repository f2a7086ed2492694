// Package nodelink renders module graphs as node-link diagrams.
//
// # Overview
//
// This package produces directed graph visualizations using Graphviz, where
// modules appear as boxes connected by import arrows. ES modules are drawn
// as solid boxes; shimmed (non-ES) modules are dashed and grey, and entry
// points have a bold outline.
//
// # Usage
//
// Convert a graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Detailed: node labels include the format, manifest size and emitted
//     size; edges are labelled with their import specifiers
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package nodelink
