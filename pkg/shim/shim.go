// Package shim synthesizes stand-in modules for non-ES nodes.
//
// A non-ES module (CommonJS, AMD, globals) cannot be analysed by the
// engine, but ES modules import named bindings from it. The shim exports
// exactly the names those importers ask for, each bound to an empty
// placeholder, so the engine can link the importers without knowing what
// the real module does.
package shim

import (
	"fmt"
	"strings"

	"github.com/matzehuels/graphshake/pkg/graph"
)

// Shim is a synthesized module.
type Shim struct {
	// Exports are the exported names in first-seen order.
	Exports []string
	// Code is the module text.
	Code string
}

// Synthesize builds the shim for module id from the import manifests of
// its recorded dependants. Dependants without a manifest contribute
// nothing; namespace imports contribute no named exports. A module nobody
// imports names from, including one absent from g, gets a lone empty
// default export.
func Synthesize(g *graph.Graph, r graph.Resolver, id string) *Shim {
	names := Exports(g, r, id)
	return &Shim{Exports: names, Code: Code(names)}
}

// Exports returns the names dependants of id import from it, deduplicated
// in first-seen order.
func Exports(g *graph.Graph, r graph.Resolver, id string) []string {
	n, ok := g.Node(id)
	if !ok {
		return nil
	}
	var names []string
	seen := make(map[string]bool)
	for _, depID := range n.Dependants {
		dep, ok := g.Node(depID)
		if !ok || dep.Manifest == nil {
			continue
		}
		for _, imp := range dep.Manifest.Imports {
			target, ok := r.SpecifierToID(dep, imp.Source)
			if !ok || target != id {
				continue
			}
			for _, s := range imp.Specifiers {
				if s.Imported == graph.NamespaceImport || seen[s.Imported] {
					continue
				}
				seen[s.Imported] = true
				names = append(names, s.Imported)
			}
		}
	}
	return names
}

// Code renders a module exporting names. Each name gets its own export
// statement.
func Code(names []string) string {
	if len(names) == 0 {
		return "export default {};\n"
	}
	var b strings.Builder
	alias := 0
	for _, name := range names {
		switch {
		case name == graph.DefaultImport:
			b.WriteString("export default {};\n")
		case isBindable(name):
			fmt.Fprintf(&b, "export let %s = {};\n", name)
		default:
			// Names that are not valid bindings (string names, reserved
			// words) are exported through an alias.
			fmt.Fprintf(&b, "let __shim%d = {};\nexport { __shim%d as %q };\n", alias, alias, name)
			alias++
		}
	}
	return b.String()
}

// isBindable reports whether name can appear in `export let NAME`.
func isBindable(name string) bool {
	if name == "" || reserved[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		case r > 0x7f:
		default:
			return false
		}
	}
	return true
}

var reserved = map[string]bool{
	"await": true, "break": true, "case": true, "catch": true, "class": true,
	"const": true, "continue": true, "debugger": true, "default": true,
	"delete": true, "do": true, "else": true, "enum": true, "export": true,
	"extends": true, "false": true, "finally": true, "for": true,
	"function": true, "if": true, "implements": true, "import": true,
	"in": true, "instanceof": true, "interface": true, "let": true, "new": true,
	"null": true, "package": true, "private": true, "protected": true,
	"public": true, "return": true, "static": true, "super": true,
	"switch": true, "this": true, "throw": true, "true": true, "try": true,
	"typeof": true, "var": true, "void": true, "while": true, "with": true,
	"yield": true, "arguments": true, "eval": true,
}
