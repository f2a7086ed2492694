// Package render groups the visualization outputs for module graphs.
//
// The [nodelink] subpackage renders module graphs as directed node-link
// diagrams using Graphviz. ES modules are solid boxes; shimmed modules are
// dashed and grey so the boundary of what was actually shaken is visible.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [nodelink]: github.com/matzehuels/graphshake/pkg/render/nodelink
package render
