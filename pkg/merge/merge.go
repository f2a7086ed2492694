// Package merge writes engine output back into the module graph.
//
// For every chunk built from an ES module, the module's emitted code is
// stored on its node, and its dependency lists are replaced by the imports
// that survived tree-shaking. Non-ES modules are left as they were.
package merge

import (
	"context"

	"github.com/matzehuels/graphshake/pkg/engine"
	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
	"github.com/matzehuels/graphshake/pkg/observability"
)

// Result reports what Merge changed.
type Result struct {
	// Merged are the ids of nodes that received emitted code.
	Merged []string
	// Skipped are chunk modules that were not merged (non-ES or absent).
	Skipped []string
}

type update struct {
	node  *graph.Node
	chunk *engine.Chunk
	ids   []string
	specs []string
}

// Merge applies out to g. Either every update is applied or, on error,
// none is.
//
// The surviving imports of a chunk are mapped to module ids through the
// imported chunks. Each id's specifier comes from the resolver, falling
// back to the id itself. Dependency lists are only replaced when the chunk
// kept at least one import.
func Merge(ctx context.Context, g *graph.Graph, r graph.Resolver, out *engine.Output) (*Result, error) {
	if r == nil {
		r = graph.DependencyResolver{}
	}
	res := &Result{}
	var updates []update

	for _, chunk := range out.Chunks {
		id := chunk.ModuleID()
		n, ok := g.Node(id)
		if !ok || !n.IsESModule() {
			res.Skipped = append(res.Skipped, id)
			continue
		}

		u := update{node: n, chunk: chunk}
		for _, name := range chunk.Imports {
			imported, ok := out.Chunk(name)
			if !ok || imported.ModuleID() == "" {
				return nil, errors.New(errors.ErrCodeMergeFailed, "chunk %s imports unknown chunk %s", chunk.Name, name)
			}
			depID := imported.ModuleID()
			spec, ok := r.IDToSpecifier(n, depID)
			if !ok {
				spec = depID
			}
			u.ids = append(u.ids, depID)
			u.specs = append(u.specs, spec)
		}
		updates = append(updates, u)
	}

	for _, u := range updates {
		if len(u.ids) > 0 {
			if err := u.node.SetDependencies(u.ids, u.specs); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInternal, err, "merge %s", u.node.ID)
			}
		}
		u.node.EmittedCode = u.chunk.Code
		u.node.EmittedMap = u.chunk.Map
		res.Merged = append(res.Merged, u.node.ID)
		observability.Shake().OnMerge(ctx, u.node.ID, len(u.node.Dependencies))
	}
	return res, nil
}
