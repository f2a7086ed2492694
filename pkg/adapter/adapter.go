// Package adapter connects a module graph to a bundling engine.
//
// The [Adapter] implements [engine.Hooks]: it resolves specifiers through
// the graph's resolver, serves ES module sources from the graph and shims
// for everything else, and runs the transpile stage on ES modules as the
// engine transforms them.
package adapter

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphshake/pkg/engine"
	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
	"github.com/matzehuels/graphshake/pkg/observability"
	"github.com/matzehuels/graphshake/pkg/shim"
	"github.com/matzehuels/graphshake/pkg/transpile"
)

// Adapter serves engine hook calls from a graph.
type Adapter struct {
	graph      *graph.Graph
	resolver   graph.Resolver
	transpiler *transpile.Transpiler
	diags      *engine.Collector
	logger     *log.Logger
}

// New creates an adapter over g. Diagnostics about shimmed or unknown
// modules go to diags, which may be nil.
func New(g *graph.Graph, r graph.Resolver, t *transpile.Transpiler, diags *engine.Collector, logger *log.Logger) *Adapter {
	if r == nil {
		r = graph.DependencyResolver{}
	}
	if diags == nil {
		diags = &engine.Collector{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Adapter{graph: g, resolver: r, transpiler: t, diags: diags, logger: logger}
}

// Resolve maps specifier, as written in importer, to a canonical id. The
// entry point (empty importer) resolves to itself.
func (a *Adapter) Resolve(_ context.Context, specifier, importer string) (string, error) {
	if importer == "" {
		return specifier, nil
	}
	n, ok := a.graph.Node(importer)
	if !ok {
		return "", errors.UnresolvedSpecifier(specifier, importer)
	}
	id, ok := a.resolver.SpecifierToID(n, specifier)
	if !ok {
		return "", errors.UnresolvedSpecifier(specifier, importer)
	}
	return id, nil
}

// Load returns the source of ES module id, or a synthesized shim for any
// other id. Ids missing from the graph are shimmed with a warning.
func (a *Adapter) Load(ctx context.Context, id string) (string, error) {
	n, ok := a.graph.Node(id)
	if n.IsESModule() {
		return n.Source, nil
	}
	if !ok {
		a.diags.Warnf(id, "module is not in the graph; loaded as an empty shim")
	}

	s := shim.Synthesize(a.graph, a.resolver, id)
	observability.Shake().OnShim(ctx, id, len(s.Exports))
	if ok && len(n.Dependants) > 0 && len(s.Exports) == 0 {
		a.diags.Infof(id, "dependants import no named bindings; shimmed with a default export")
	}
	a.logger.Debug("shim", "module", id, "exports", s.Exports)
	return s.Code, nil
}

// Transform runs the transpile stage on ES modules and passes any other
// code through unchanged.
func (a *Adapter) Transform(ctx context.Context, code, id string) (*engine.Module, error) {
	n, ok := a.graph.Node(id)
	if !ok || !n.IsESModule() {
		return &engine.Module{Code: code}, nil
	}
	res, err := a.transpiler.Transpile(ctx, a.graph, n, code)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		a.diags.Warnf(id, "%s", w)
	}
	return &engine.Module{Code: res.Code, Map: res.Map}, nil
}

// Ensure Adapter implements engine.Hooks.
var _ engine.Hooks = (*Adapter)(nil)
