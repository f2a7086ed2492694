// Package graph provides the module graph that graphshake tree-shakes.
//
// The graph is built by an external dependency resolver before graphshake
// runs. This package only models it: one [Node] per source module, keyed by
// its canonical module id, plus the entry points ([Graph.Mains]) and the
// loader configuration ([Loader]) that the transpile stage consumes.
//
// # Core Types
//
//   - [Graph]: Keyed node store with entry points and loader configuration
//   - [Node]: One source module (format, source, dependency lists, results)
//   - [ImportManifest]: The import statements of an ES module
//   - [Resolver]: Maps import specifiers to canonical ids and back
//
// # Field Ownership
//
// A tree-shake run mutates nodes in two phases with a single writer each:
//
//	Manifest, Dependants                transpile stage
//	Dependencies, OriginalSpecifiers,   result merge
//	EmittedCode, EmittedMap
//
// Nodes are never created or removed during a run.
//
// # Formats
//
// Only [FormatESModule] nodes are transpiled and analyzed. Every other
// format (CommonJS, AMD, globals) is [FormatOther] and is represented to the
// bundling engine by a synthetic shim instead of its real source.
//
// # Concurrency
//
// Graph is not safe for concurrent writes. The tree-shake pipeline mutates
// it from one goroutine at a time.
package graph
