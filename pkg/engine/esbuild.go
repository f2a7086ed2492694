package engine

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/matzehuels/graphshake/internal/esbuildopt"
	"github.com/matzehuels/graphshake/pkg/errors"
)

// namespace is the esbuild namespace modules loaded through hooks live in.
const namespace = "graphshake"

// entryNamespace holds the generated entry point of a build that keeps
// only some of a module's exports.
const entryNamespace = "graphshake-entry"

// pluginName identifies graphshake in esbuild messages.
const pluginName = "graphshake"

// ESBuild is an [Engine] backed by esbuild's Go API.
//
// esbuild has no preserve-modules output mode, so ESBuild runs one build
// per module with every import the module makes marked external under its
// canonical id. A run has three passes:
//
//   - discovery loads and transforms every reachable module once and
//     records its import edges;
//   - modules are then built importers first. The entry keeps all of its
//     exports. Any other module is built from a generated entry that
//     re-exports only the names its importers use, and each chunk's
//     imports are pruned to the bindings its code references. An import
//     with no used binding survives as `import "id"` only when the target
//     has side effects;
//   - chunks no longer imported from the entry are dropped.
type ESBuild struct {
	Logger *log.Logger
}

// NewESBuild returns an esbuild-backed engine. A nil logger discards output.
func NewESBuild(logger *log.Logger) *ESBuild {
	return &ESBuild{Logger: logger}
}

// Run implements [Engine].
func (e *ESBuild) Run(ctx context.Context, entry string, hooks Hooks, opts Options) (*Output, error) {
	if !opts.PreserveModules {
		return nil, errors.New(errors.ErrCodeUnsupported, "esbuild engine only supports preserve-modules output")
	}
	target, err := esbuildopt.Target(opts.Target)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "engine target")
	}

	r := &run{
		ctx:      ctx,
		hooks:    hooks,
		opts:     opts,
		target:   target,
		logger:   e.Logger,
		modules:  make(map[string]*module),
		resolved: make(map[[2]string]string),
		effects:  make(map[string]bool),
	}
	if err := r.discover(entry); err != nil {
		return nil, err
	}
	for _, m := range r.shakeOrder(entry) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := r.shake(m, m.id == entry); err != nil {
			return nil, err
		}
	}

	out := &Output{Chunks: r.live(entry)}
	out.Diagnostics = r.diags.List()
	return out, nil
}

// run holds the state of one Run call.
type run struct {
	ctx    context.Context
	hooks  Hooks
	opts   Options
	target api.Target
	logger *log.Logger
	diags  Collector

	// order lists modules in discovery (breadth-first) order.
	order []*module
	// effects memoizes hasEffects.
	effects map[string]bool

	// mu serializes hook calls; esbuild may invoke plugin callbacks from
	// several goroutines within one build. It also guards the fields below.
	mu       sync.Mutex
	modules  map[string]*module
	resolved map[[2]string]string // {importer, specifier} -> id
	// virtual is the generated entry of the current build, if any.
	virtual string
	// err is the first hook error. It is returned as-is so callers see
	// the hook's own error code rather than a generic engine failure.
	err error
}

// built is the output of one esbuild build.
type built struct {
	code      string
	sourceMap string
	exports   []string
}

// build bundles id with its imports external. A non-empty virtual is used
// as the entry point in place of id itself. Only chunk builds report
// warnings and honor SourceMaps.
func (r *run) build(id, virtual string, chunk bool) (*built, error) {
	sourcemap := api.SourceMapNone
	if chunk && r.opts.SourceMaps {
		sourcemap = api.SourceMapExternal
	}

	r.mu.Lock()
	r.virtual = virtual
	r.mu.Unlock()

	result := api.Build(api.BuildOptions{
		EntryPoints: []string{id},
		Bundle:      true,
		Write:       false,
		Metafile:    true,
		Format:      api.FormatESModule,
		Platform:    api.PlatformNeutral,
		Target:      r.target,
		Outfile:     "chunk.js",
		Sourcemap:   sourcemap,
		TreeShaking: api.TreeShakingTrue,
		LogLevel:    api.LogLevelSilent,
		Plugins:     []api.Plugin{r.plugin()},
	})

	r.mu.Lock()
	hookErr := r.err
	r.mu.Unlock()
	if hookErr != nil {
		return nil, hookErr
	}
	if len(result.Errors) > 0 {
		return nil, errors.New(errors.ErrCodeEngineFailed, "build %s: %s", id, esbuildopt.Messages(result.Errors))
	}
	if chunk {
		for _, w := range result.Warnings {
			r.diags.Warnf(id, "%s", esbuildopt.Message(w))
		}
	}

	b := &built{}
	for _, f := range result.OutputFiles {
		switch {
		case strings.HasSuffix(f.Path, ".js.map"):
			b.sourceMap = string(f.Contents)
		case filepath.Ext(f.Path) == ".js":
			b.code = string(f.Contents)
		}
	}

	meta, err := parseMetafile(result.Metafile)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeEngineFailed, err, "read metafile for %s", id)
	}
	b.exports = meta.exports()
	return b, nil
}

func (r *run) plugin() api.Plugin {
	return api.Plugin{
		Name: pluginName,
		Setup: func(b api.PluginBuild) {
			b.OnResolve(api.OnResolveOptions{Filter: ".*"}, r.onResolve)
			b.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: namespace}, r.onLoad)
			b.OnLoad(api.OnLoadOptions{Filter: ".*", Namespace: entryNamespace}, r.onLoadEntry)
		},
	}
}

func (r *run) onResolve(args api.OnResolveArgs) (api.OnResolveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return api.OnResolveResult{}, r.err
	}

	switch {
	case args.Kind == api.ResolveEntryPoint && r.virtual != "":
		return api.OnResolveResult{Path: args.Path, Namespace: entryNamespace}, nil
	case args.Namespace == entryNamespace:
		// The generated entry only imports the module being built.
		return api.OnResolveResult{Path: args.Path, Namespace: namespace}, nil
	}

	importer := args.Importer
	if args.Kind == api.ResolveEntryPoint {
		importer = ""
	}
	id, err := r.resolveLocked(args.Path, importer)
	if err != nil {
		r.err = err
		return api.OnResolveResult{}, err
	}
	if importer == "" {
		return api.OnResolveResult{Path: id, Namespace: namespace}, nil
	}
	return api.OnResolveResult{Path: id, External: true}, nil
}

func (r *run) onLoad(args api.OnLoadArgs) (api.OnLoadResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return api.OnLoadResult{}, r.err
	}
	if err := r.ctx.Err(); err != nil {
		r.err = err
		return api.OnLoadResult{}, err
	}

	m, err := r.loadLocked(args.Path)
	if err != nil {
		r.err = err
		return api.OnLoadResult{}, err
	}
	contents := m.code.Code
	if r.opts.SourceMaps && m.code.Map != "" {
		contents = inlineSourceMap(contents, m.code.Map)
	}
	return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
}

func (r *run) onLoadEntry(api.OnLoadArgs) (api.OnLoadResult, error) {
	r.mu.Lock()
	contents := r.virtual
	r.mu.Unlock()
	return api.OnLoadResult{Contents: &contents, Loader: api.LoaderJS}, nil
}

func (r *run) load(id string) (*module, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(id)
}

// loadLocked loads and transforms id through the hooks, once per run.
func (r *run) loadLocked(id string) (*module, error) {
	if m, ok := r.modules[id]; ok {
		return m, nil
	}
	code, err := r.hooks.Load(r.ctx, id)
	if err != nil {
		return nil, err
	}
	mod, err := r.hooks.Transform(r.ctx, code, id)
	if err != nil {
		return nil, err
	}
	m := &module{id: id, code: mod}
	r.modules[id] = m
	return m, nil
}

func (r *run) resolve(specifier, importer string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolveLocked(specifier, importer)
}

// resolveLocked calls the resolve hook once per importer and specifier.
func (r *run) resolveLocked(specifier, importer string) (string, error) {
	key := [2]string{importer, specifier}
	if id, ok := r.resolved[key]; ok {
		return id, nil
	}
	id, err := r.hooks.Resolve(r.ctx, specifier, importer)
	if err != nil {
		return "", err
	}
	r.resolved[key] = id
	return id, nil
}

// inlineSourceMap appends map as a data URL so esbuild chains it into the
// chunk's own source map.
func inlineSourceMap(code, sourceMap string) string {
	var b strings.Builder
	b.WriteString(code)
	if !strings.HasSuffix(code, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString("//# sourceMappingURL=data:application/json;base64,")
	b.WriteString(base64.StdEncoding.EncodeToString([]byte(sourceMap)))
	b.WriteByte('\n')
	return b.String()
}

// Ensure ESBuild implements Engine.
var _ Engine = (*ESBuild)(nil)
