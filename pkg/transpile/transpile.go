// Package transpile implements the transpile stage of a tree-shake run.
//
// For each ES module the engine loads, the stage:
//  1. compiles the source with esbuild's transform API to the configured
//     language level, keeping import and export statements intact
//  2. extracts the module's [graph.ImportManifest] from the original source
//  3. records the module as a dependant of every graph node it imports
//
// Step 3 is what shim synthesis later reads to decide which names a
// non-ES module must export. Results of steps 1 and 2 depend only on the
// module id, source and options, and are cached.
package transpile

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/graphshake/internal/esbuildopt"
	"github.com/matzehuels/graphshake/pkg/cache"
	"github.com/matzehuels/graphshake/pkg/errors"
	"github.com/matzehuels/graphshake/pkg/graph"
	"github.com/matzehuels/graphshake/pkg/observability"
)

// keyType labels transpile entries in cache hook events.
const keyType = "transpile"

// Result is the output of transpiling one module.
type Result struct {
	Code     string                `json:"code"`
	Map      string                `json:"map,omitempty"`
	Manifest *graph.ImportManifest `json:"manifest"`
	Warnings []string              `json:"warnings,omitempty"`
}

// Transpiler compiles ES modules and records their import relationships.
// It is safe for concurrent use, but Transpile mutates graph nodes and
// must not run concurrently on the same graph.
type Transpiler struct {
	opts     graph.TransformOptions
	esbuild  api.TransformOptions
	resolver graph.Resolver
	cache    cache.Cache
	logger   *log.Logger

	mu   sync.Mutex
	memo map[string]*Result
}

// New creates a Transpiler for the effective transform options opts
// (see [graph.Loader.Options]). A nil resolver selects
// [graph.DependencyResolver]; a nil cache disables caching.
func New(opts graph.TransformOptions, resolver graph.Resolver, c cache.Cache, logger *log.Logger) (*Transpiler, error) {
	es, err := esbuildOptions(opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "transform options")
	}
	if resolver == nil {
		resolver = graph.DependencyResolver{}
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Transpiler{
		opts:     opts,
		esbuild:  es,
		resolver: resolver,
		cache:    c,
		logger:   logger,
		memo:     make(map[string]*Result),
	}, nil
}

func esbuildOptions(opts graph.TransformOptions) (api.TransformOptions, error) {
	target, err := esbuildopt.Target(opts.Target)
	if err != nil {
		return api.TransformOptions{}, err
	}
	loader, err := esbuildopt.Loader(opts.Loader)
	if err != nil {
		return api.TransformOptions{}, err
	}
	jsx, err := esbuildopt.JSX(opts.JSX)
	if err != nil {
		return api.TransformOptions{}, err
	}
	return api.TransformOptions{
		Target:       target,
		Loader:       loader,
		JSX:          jsx,
		JSXFactory:   opts.JSXFactory,
		JSXFragment:  opts.JSXFragment,
		Define:       opts.Define,
		MinifySyntax: opts.MinifySyntax,
		KeepNames:    opts.KeepNames,
		Sourcemap:    api.SourceMapExternal,
		LogLevel:     api.LogLevelSilent,
	}, nil
}

// Transpile runs the full stage for ES module n with loaded code: it
// compiles code, stores the manifest on n and records n as a dependant of
// every node its imports resolve to. Imports that do not resolve, or
// resolve to ids absent from g, are skipped.
func (t *Transpiler) Transpile(ctx context.Context, g *graph.Graph, n *graph.Node, code string) (*Result, error) {
	if !n.IsESModule() {
		return nil, errors.New(errors.ErrCodeInvalidInput, "transpile %s: not an ES module", n.ID)
	}
	res, err := t.Compile(ctx, n.ID, code)
	if err != nil {
		return nil, err
	}
	n.Manifest = res.Manifest
	t.recordDependants(g, n)
	return res, nil
}

func (t *Transpiler) recordDependants(g *graph.Graph, n *graph.Node) {
	for _, spec := range n.Manifest.Sources() {
		id, ok := t.resolver.SpecifierToID(n, spec)
		if !ok {
			t.logger.Debug("unresolved import", "module", n.ID, "specifier", spec)
			continue
		}
		dep, ok := g.Node(id)
		if !ok {
			continue
		}
		if dep.AddDependant(n.ID) {
			t.logger.Debug("dependant", "module", id, "importer", n.ID)
		}
	}
}

// Compile transpiles source and extracts its import manifest without
// touching any graph. Results are memoized for the Transpiler's lifetime
// and stored in the cache.
func (t *Transpiler) Compile(ctx context.Context, id, source string) (res *Result, err error) {
	start := time.Now()
	key := cache.TranspileKey(id, source, t.opts)
	cached := false
	defer func() {
		observability.Transpile().OnTranspile(ctx, id, cached, time.Since(start), err)
	}()

	t.mu.Lock()
	memo, ok := t.memo[key]
	t.mu.Unlock()
	if ok {
		cached = true
		return memo, nil
	}

	if res = t.fromCache(ctx, key); res != nil {
		cached = true
		t.remember(key, res)
		return res, nil
	}

	res, err = t.compile(ctx, id, source)
	if err != nil {
		return nil, err
	}
	t.remember(key, res)
	t.store(ctx, key, res)
	return res, nil
}

func (t *Transpiler) compile(ctx context.Context, id, source string) (*Result, error) {
	opts := t.esbuild
	opts.Sourcefile = id
	out := api.Transform(source, opts)
	if len(out.Errors) > 0 {
		return nil, errors.New(errors.ErrCodeTransformFailed, "transpile %s: %s", id, esbuildopt.Messages(out.Errors))
	}

	manifest, err := ParseManifest(ctx, source, t.opts.Loader)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeTransformFailed, err, "parse imports of %s", id)
	}

	res := &Result{Code: string(out.Code), Map: string(out.Map), Manifest: manifest}
	for _, w := range out.Warnings {
		res.Warnings = append(res.Warnings, esbuildopt.Message(w))
	}
	t.logger.Debug("transpiled", "module", id, "imports", len(manifest.Imports), "bytes", len(res.Code))
	return res, nil
}

func (t *Transpiler) remember(key string, res *Result) {
	t.mu.Lock()
	t.memo[key] = res
	t.mu.Unlock()
}

func (t *Transpiler) fromCache(ctx context.Context, key string) *Result {
	data, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		t.logger.Warn("cache read failed", "error", err)
		return nil
	}
	if !ok {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil
	}
	var res Result
	if err := json.Unmarshal(data, &res); err != nil || res.Manifest == nil {
		t.logger.Warn("discarding corrupt cache entry", "key", key)
		_ = t.cache.Delete(ctx, key)
		return nil
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return &res
}

func (t *Transpiler) store(ctx context.Context, key string, res *Result) {
	data, err := json.Marshal(res)
	if err != nil {
		return
	}
	if err := t.cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
		t.logger.Warn("cache write failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}
