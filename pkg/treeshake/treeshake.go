// Package treeshake runs a complete tree-shake over a module graph.
//
// A run has four stages:
//
//  1. Validate: check entry points and dependency lists
//  2. Prime: transpile every ES module reachable from the entry, recording
//     dependants on the nodes they import
//  3. Bundle: drive the engine from the entry through an [adapter.Adapter]
//     in preserve-modules mode
//  4. Merge: write emitted code and surviving imports back to the graph
//
// The prime stage makes shim contents independent of the order in which
// the engine happens to load modules: by the time any non-ES module is
// shimmed, every reachable ES importer has already reported the names it
// needs.
//
// # Usage
//
//	shaker := treeshake.NewShaker(nil, c, logger)
//	result, err := shaker.Run(ctx, g, treeshake.Options{SourceMaps: true})
//	if err != nil {
//	    return err
//	}
//	for _, id := range result.Merged {
//	    n, _ := g.Node(id)
//	    fmt.Println(id, len(n.EmittedCode))
//	}
package treeshake

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphshake/pkg/adapter"
	"github.com/matzehuels/graphshake/pkg/cache"
	"github.com/matzehuels/graphshake/pkg/engine"
	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
	"github.com/matzehuels/graphshake/pkg/merge"
	"github.com/matzehuels/graphshake/pkg/observability"
	"github.com/matzehuels/graphshake/pkg/transpile"
)

// Options configures one run.
type Options struct {
	// Resolver maps specifiers to ids. Nil uses [graph.DependencyResolver].
	Resolver graph.Resolver
	// Transform overrides the graph loader's transform options when non-zero.
	Transform graph.TransformOptions
	// SourceMaps stores a source map for every emitted module.
	SourceMaps bool
	// NoPrime skips the prime stage. Shims then only see importers the
	// engine transformed before loading them.
	NoPrime bool
}

// Stats reports counts and timings of a run.
type Stats struct {
	Nodes       int           `json:"nodes"`
	Primed      int           `json:"primed"`
	Chunks      int           `json:"chunks"`
	Merged      int           `json:"merged"`
	PrimeTime   time.Duration `json:"prime_time"`
	BundleTime  time.Duration `json:"bundle_time"`
	MergeTime   time.Duration `json:"merge_time"`
	TotalTime   time.Duration `json:"total_time"`
	Diagnostics int           `json:"diagnostics"`
}

// Result is the outcome of a successful run. The graph itself carries the
// emitted code.
type Result struct {
	RunID       string              `json:"run_id"`
	Entry       string              `json:"entry"`
	Merged      []string            `json:"merged"`
	Diagnostics []engine.Diagnostic `json:"diagnostics,omitempty"`
	Stats       Stats               `json:"stats"`
}

// Shaker runs tree-shakes. It holds no per-run state, so one Shaker may
// serve concurrent runs on different graphs.
type Shaker struct {
	Engine engine.Engine
	Cache  cache.Cache
	Logger *log.Logger
}

// NewShaker creates a Shaker. A nil engine selects esbuild; a nil cache
// disables caching; a nil logger discards output.
func NewShaker(eng engine.Engine, c cache.Cache, logger *log.Logger) *Shaker {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if eng == nil {
		eng = engine.NewESBuild(logger)
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Shaker{Engine: eng, Cache: c, Logger: logger}
}

// Run tree-shakes g from its first entry point and merges the result back
// into g. On error the graph's emitted code and dependency lists are left
// unchanged, though dependants and manifests may have been recorded.
func (s *Shaker) Run(ctx context.Context, g *graph.Graph, opts Options) (_ *Result, err error) {
	start := time.Now()
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "validate graph")
	}
	entry, _ := g.Entry()
	resolver := opts.Resolver
	if resolver == nil {
		resolver = graph.DependencyResolver{}
	}

	res := &Result{RunID: uuid.NewString(), Entry: entry}
	res.Stats.Nodes = g.Len()
	logger := s.Logger.With("run", res.RunID[:8])

	hooks := observability.Shake()
	hooks.OnShakeStart(ctx, entry, g.Len())
	defer func() {
		hooks.OnShakeComplete(ctx, entry, res.Stats.Chunks, time.Since(start), err)
	}()

	tropts := g.Loader.Options()
	if !opts.Transform.IsZero() {
		tropts = opts.Transform
	}
	tr, err := transpile.New(tropts, resolver, s.Cache, logger)
	if err != nil {
		return nil, err
	}

	// Stage 1: Prime
	if !opts.NoPrime {
		primeStart := time.Now()
		n, err := s.prime(ctx, g, tr, entry)
		if err != nil {
			return nil, err
		}
		res.Stats.Primed = n
		res.Stats.PrimeTime = time.Since(primeStart)
		logger.Info("primed modules", "count", n, "duration", res.Stats.PrimeTime)
	}

	// Stage 2: Bundle
	bundleStart := time.Now()
	diags := &engine.Collector{}
	ad := adapter.New(g, resolver, tr, diags, logger)
	out, err := s.Engine.Run(ctx, entry, ad, engine.Options{
		PreserveModules: true,
		SourceMaps:      opts.SourceMaps,
		Target:          tropts.Target,
	})
	if err != nil {
		return nil, stageError(ctx, err)
	}
	res.Stats.Chunks = len(out.Chunks)
	res.Stats.BundleTime = time.Since(bundleStart)
	for _, d := range out.Diagnostics {
		diags.Add(d)
	}
	logger.Info("bundled", "entry", entry, "chunks", len(out.Chunks), "duration", res.Stats.BundleTime)

	// Stage 3: Merge
	mergeStart := time.Now()
	merged, err := merge.Merge(ctx, g, resolver, out)
	if err != nil {
		return nil, err
	}
	res.Merged = merged.Merged
	res.Stats.Merged = len(merged.Merged)
	res.Stats.MergeTime = time.Since(mergeStart)

	res.Diagnostics = diags.List()
	res.Stats.Diagnostics = len(res.Diagnostics)
	res.Stats.TotalTime = time.Since(start)
	for _, d := range res.Diagnostics {
		if d.Severity == engine.SeverityWarning {
			logger.Warn(d.Text, "module", d.Module)
		} else {
			logger.Debug(d.Text, "module", d.Module)
		}
	}
	logger.Info("merged", "modules", res.Stats.Merged, "duration", res.Stats.MergeTime)
	return res, nil
}

// prime transpiles the ES modules reachable from entry, breadth-first.
func (s *Shaker) prime(ctx context.Context, g *graph.Graph, tr *transpile.Transpiler, entry string) (int, error) {
	count := 0
	for _, id := range g.Reachable(entry) {
		if err := ctx.Err(); err != nil {
			return count, err
		}
		n, _ := g.Node(id)
		if !n.IsESModule() {
			continue
		}
		if _, err := tr.Transpile(ctx, g, n, n.Source); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// stageError keeps coded errors and cancellation as they are and wraps
// anything else as an engine failure.
func stageError(ctx context.Context, err error) error {
	if errors.GetCode(err) != "" || ctx.Err() != nil {
		return err
	}
	return errors.Wrap(errors.ErrCodeEngineFailed, err, "bundle")
}

// Summary formats a one-line description of r.
func (r *Result) Summary() string {
	return fmt.Sprintf("%d modules, %d chunks, %d merged, %d diagnostics in %s",
		r.Stats.Nodes, r.Stats.Chunks, r.Stats.Merged, r.Stats.Diagnostics, r.Stats.TotalTime.Round(time.Millisecond))
}
