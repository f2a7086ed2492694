// Package pkg provides the core libraries for graphshake, a graph-driven
// tree-shaker for JavaScript module graphs.
//
// # Overview
//
// Graphshake takes a module graph that was resolved elsewhere (every node
// already knows the canonical ids of its imports) and drives a bundling
// engine over it in preserve-modules mode. ES modules are transpiled and
// shaken; every other module is replaced by a synthesized ES stub that
// exports exactly the names its ES importers ask for. The emitted code is
// written back onto the graph.
//
// The pkg directory is organized into these areas:
//
//  1. [graph] - Module graph, nodes, import manifests and the resolver
//  2. [treeshake] - Orchestration (validate → prime → bundle → merge)
//  3. [adapter], [shim], [transpile], [merge] - The individual stages
//  4. [engine] - The bundling engine interface and its esbuild implementation
//  5. [io], [config], [cache] - Graph files, graphshake.toml and result caching
//
// # Architecture
//
//	graph.json (+ graphshake.toml)
//	         ↓
//	    [io] package (decode nodes, sources, loader options)
//	         ↓
//	    [treeshake] package (prime: [transpile] every reachable ES module)
//	         ↓
//	    [engine] package (Resolve/Load/Transform through [adapter])
//	         ↓
//	    [merge] package (emitted code + surviving imports)
//	         ↓
//	    graph.shaken.json
//
// # Quick Start
//
//	g, err := io.ImportJSON("graph.json")
//	if err != nil {
//	    return err
//	}
//	result, err := treeshake.NewShaker(nil, nil, logger).Run(ctx, g, treeshake.Options{})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Summary())
//	return io.ExportJSON(g, "graph.shaken.json")
//
// # Supporting Packages
//
// [errors] - Structured error codes shared by every stage and the CLI.
//
// [observability] - Hook interfaces for shake, transpile, cache and merge
// events. No-op by default.
//
// [render/nodelink] - Graphviz DOT and SVG output for a module graph, with
// shimmed modules drawn dashed.
//
// [buildinfo] - Version, commit and engine version reporting.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/treeshake/... # Specific package
//	go test -run Example        # Examples only
//
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/graph
// [treeshake]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/treeshake
// [adapter]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/adapter
// [shim]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/shim
// [transpile]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/transpile
// [merge]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/merge
// [engine]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/engine
// [io]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/io
// [config]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/render/nodelink
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphshake/pkg/buildinfo
package pkg
