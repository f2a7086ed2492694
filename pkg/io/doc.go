// Package io provides JSON import and export for module graphs.
//
// # Overview
//
// A graph file is what a dependency resolver hands to graphshake: every
// module it resolved, keyed by canonical id, with each module's resolved
// dependencies and the specifiers they were written as. After a tree-shake
// the same format carries the results back, with emitted code, recorded
// dependants and import manifests filled in.
//
// # JSON Format
//
//	{
//	  "mains": ["app/main.js"],
//	  "loader": {"env": "production", "transform": {"target": "es2017"}},
//	  "nodes": [
//	    {
//	      "id": "app/main.js",
//	      "format": "es6",
//	      "file": "src/main.js",
//	      "dependencies": ["app/util.js"],
//	      "specifiers": ["./util"]
//	    },
//	    {"id": "app/util.js", "format": "cjs", "source": "exports.foo = 1;"}
//	  ]
//	}
//
// # Node Fields
//
// Required:
//   - id: Canonical module id
//
// Optional:
//   - format: "es6" (also "esm", "es", "module") or any other label, which
//     is kept in meta["format"] and written back unchanged
//   - source: Module source text
//   - file: Path of the source relative to the graph file, used when
//     source is absent
//   - dependencies / specifiers: Parallel lists of resolved ids and the
//     literal specifiers they were imported as
//   - dependants, manifest, emitted_code, emitted_map: Tree-shake results
//   - meta: Freeform object carried through unchanged
//
// # Import
//
// Use [ImportJSON] to read a graph from a file path, or [ReadJSON] to read
// from any io.Reader:
//
//	g, err := io.ImportJSON("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportJSON] to write a graph to a file, or [WriteJSON] to write to any
// io.Writer. Sources are always written inline.
package io
