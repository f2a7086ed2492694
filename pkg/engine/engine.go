// Package engine defines the contract between graphshake and a bundling
// engine, and provides an implementation backed by esbuild.
//
// An engine drives module loading from an entry id. It never touches the
// file system: every specifier is resolved, every module loaded and every
// module transformed through the [Hooks] it is given. In preserve-modules
// mode it emits one [Chunk] per module still imported after shaking, named
// after that module, with the chunk's cross-module imports listed by chunk
// name.
package engine

import (
	"context"
)

// Hooks is the set of callbacks an engine drives while bundling.
//
// Calls are made one at a time; implementations need not be safe for
// concurrent use.
type Hooks interface {
	// Resolve maps a specifier written in importer to a canonical module id.
	// An empty importer marks the entry point, whose specifier is returned
	// unchanged.
	Resolve(ctx context.Context, specifier, importer string) (string, error)
	// Load returns the source text of a module.
	Load(ctx context.Context, id string) (string, error)
	// Transform rewrites loaded code before the engine parses it.
	Transform(ctx context.Context, code, id string) (*Module, error)
}

// Module is the output of a transform hook.
type Module struct {
	Code string
	Map  string // Source map JSON; empty when none was produced
}

// Options configures one engine run.
type Options struct {
	// PreserveModules emits one chunk per module instead of a single bundle.
	PreserveModules bool
	// SourceMaps requests a source map per chunk.
	SourceMaps bool
	// Target is the language level of emitted chunks. Empty uses "es2015".
	Target string
}

// Chunk is one emitted output file.
type Chunk struct {
	// Name identifies the chunk. In preserve-modules mode it equals the
	// id of the single module the chunk was built from.
	Name string
	// Modules are the ids of the modules whose code the chunk contains.
	Modules []string
	// Imports are the names of the chunks this chunk imports from, in
	// first-seen order.
	Imports []string
	// Exports are the names the chunk exports.
	Exports []string
	// Code is the emitted JavaScript.
	Code string
	// Map is the emitted source map JSON, if requested.
	Map string
}

// ModuleID returns the id of the first module in the chunk, or "".
func (c *Chunk) ModuleID() string {
	if c == nil || len(c.Modules) == 0 {
		return ""
	}
	return c.Modules[0]
}

// Output is the result of an engine run.
type Output struct {
	Chunks      []*Chunk
	Diagnostics []Diagnostic
}

// Chunk returns the chunk with the given name.
func (o *Output) Chunk(name string) (*Chunk, bool) {
	if o == nil {
		return nil, false
	}
	for _, c := range o.Chunks {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Engine bundles a module graph reachable from entry.
type Engine interface {
	// Run bundles from entry using hooks for all module access. Errors
	// returned by hooks are passed through unchanged.
	Run(ctx context.Context, entry string, hooks Hooks, opts Options) (*Output, error)
}
