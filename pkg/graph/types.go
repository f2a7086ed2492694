package graph

import (
	"slices"
	"strings"
)

// Format is the module format of a node. Graphshake only distinguishes ES
// modules from everything else.
type Format int

const (
	// FormatOther is any non-ES module format (CommonJS, AMD, global scripts).
	FormatOther Format = iota
	// FormatESModule is an ES module; its imports can be analyzed statically.
	FormatESModule
)

// esModuleLabels lists the format labels the graph builder uses for ES modules.
var esModuleLabels = []string{"es6", "esm", "es", "module"}

// ParseFormat converts a format label from a graph file into a Format.
// Unknown labels map to FormatOther.
func ParseFormat(label string) Format {
	if slices.Contains(esModuleLabels, strings.ToLower(strings.TrimSpace(label))) {
		return FormatESModule
	}
	return FormatOther
}

// String returns the canonical label of the format.
func (f Format) String() string {
	if f == FormatESModule {
		return "es6"
	}
	return "other"
}

// DefaultImport is the imported name of a default import.
const DefaultImport = "default"

// NamespaceImport is the imported name recorded for `import * as ns`.
const NamespaceImport = "*"

// ImportSpecifier is one binding of an import statement.
type ImportSpecifier struct {
	Local    string `json:"local"`    // Name bound in the importing module
	Imported string `json:"imported"` // Name exported by the source module
}

// Import is one import statement: its literal source specifier and bindings.
// Side-effect imports (`import "x"`) have no specifiers.
type Import struct {
	Source     string            `json:"source"`
	Specifiers []ImportSpecifier `json:"specifiers,omitempty"`
}

// ImportManifest is the structural record of a module's import statements,
// in source order.
type ImportManifest struct {
	Imports []Import `json:"imports"`
}

// Sources returns the distinct source specifiers in first-seen order.
func (m *ImportManifest) Sources() []string {
	if m == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool, len(m.Imports))
	for _, imp := range m.Imports {
		if !seen[imp.Source] {
			seen[imp.Source] = true
			out = append(out, imp.Source)
		}
	}
	return out
}

// Metadata stores arbitrary key-value pairs carried through from the graph file.
type Metadata map[string]any

// Node is one source module in the graph.
type Node struct {
	// ID is the canonical module id. It is the graph key and never changes.
	ID string
	// Format selects between analysis (ES modules) and shimming (everything else).
	Format Format
	// Source is the loadable source text. Graphshake never modifies it.
	Source string

	// Dependencies are the canonical ids this node imports, in order.
	Dependencies []string
	// OriginalSpecifiers are the literal specifiers matching Dependencies 1:1.
	OriginalSpecifiers []string

	// Dependants are ids of ES modules observed importing this node.
	// Only meaningful for FormatOther nodes.
	Dependants []string
	// Manifest is the node's import manifest, set by the transpile stage
	// for ES modules only.
	Manifest *ImportManifest

	// EmittedCode is the bundler output for the node.
	EmittedCode string
	// EmittedMap is the source map of EmittedCode, when source maps are enabled.
	EmittedMap string

	Meta Metadata
}

// IsESModule reports whether n is an ES module. A nil node is not.
func (n *Node) IsESModule() bool {
	return n != nil && n.Format == FormatESModule
}

// AddDependant records id as a dependant of n. Dependants behave as an
// ordered set; AddDependant reports whether id was newly added.
func (n *Node) AddDependant(id string) bool {
	if slices.Contains(n.Dependants, id) {
		return false
	}
	n.Dependants = append(n.Dependants, id)
	return true
}

// SetDependencies replaces the dependency lists. ids and specifiers must
// have the same length.
func (n *Node) SetDependencies(ids, specifiers []string) error {
	if len(ids) != len(specifiers) {
		return ErrDependencyMismatch
	}
	n.Dependencies = slices.Clone(ids)
	n.OriginalSpecifiers = slices.Clone(specifiers)
	return nil
}

// TransformOptions configures the transpile stage. It is read from the
// graph file's loader section or from graphshake.toml.
type TransformOptions struct {
	// Target is the language level of the emitted code (e.g. "es2015", "esnext").
	Target string `json:"target,omitempty" toml:"target"`
	// Loader selects the source syntax: "js", "jsx", "ts" or "tsx".
	Loader string `json:"loader,omitempty" toml:"loader"`
	// JSX selects JSX handling: "transform", "preserve" or "automatic".
	JSX         string `json:"jsx,omitempty" toml:"jsx"`
	JSXFactory  string `json:"jsx_factory,omitempty" toml:"jsx_factory"`
	JSXFragment string `json:"jsx_fragment,omitempty" toml:"jsx_fragment"`
	// Define replaces global identifiers with constant expressions.
	Define       map[string]string `json:"define,omitempty" toml:"define"`
	MinifySyntax bool              `json:"minify_syntax,omitempty" toml:"minify_syntax"`
	KeepNames    bool              `json:"keep_names,omitempty" toml:"keep_names"`

	// Envs holds per-environment overrides, selected by Loader.Env.
	Envs map[string]TransformOptions `json:"envs,omitempty" toml:"envs"`
}

// IsZero reports whether no option is set.
func (o TransformOptions) IsZero() bool {
	return o.Target == "" && o.Loader == "" && o.JSX == "" && o.JSXFactory == "" &&
		o.JSXFragment == "" && len(o.Define) == 0 && !o.MinifySyntax && !o.KeepNames &&
		len(o.Envs) == 0
}

// ForEnv returns o with the overrides of env merged on top. The returned
// options carry no Envs.
func (o TransformOptions) ForEnv(env string) TransformOptions {
	out := o
	out.Envs = nil
	out.Define = cloneDefine(o.Define)

	over, ok := o.Envs[env]
	if !ok || env == "" {
		return out
	}
	if over.Target != "" {
		out.Target = over.Target
	}
	if over.Loader != "" {
		out.Loader = over.Loader
	}
	if over.JSX != "" {
		out.JSX = over.JSX
	}
	if over.JSXFactory != "" {
		out.JSXFactory = over.JSXFactory
	}
	if over.JSXFragment != "" {
		out.JSXFragment = over.JSXFragment
	}
	for k, v := range over.Define {
		if out.Define == nil {
			out.Define = make(map[string]string)
		}
		out.Define[k] = v
	}
	out.MinifySyntax = out.MinifySyntax || over.MinifySyntax
	out.KeepNames = out.KeepNames || over.KeepNames
	return out
}

func cloneDefine(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Loader is the module loader configuration the graph was built with.
type Loader struct {
	BaseURL   string           `json:"base_url,omitempty" toml:"base_url"`
	Env       string           `json:"env,omitempty" toml:"env"`
	Transform TransformOptions `json:"transform,omitempty" toml:"transform"`
}

// Options returns the effective transform options for the loader's environment.
func (l Loader) Options() TransformOptions {
	return l.Transform.ForEnv(l.Env)
}
