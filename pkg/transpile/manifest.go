package transpile

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/matzehuels/graphshake/pkg/graph"
)

// grammar returns the tree-sitter language for a loader name.
func grammar(loader string) *sitter.Language {
	switch strings.ToLower(loader) {
	case "ts":
		return typescript.GetLanguage()
	case "tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// ParseManifest extracts the import manifest of an ES module.
//
// Import declarations and re-exports with a source (`export { a } from`,
// `export * from`) are recorded in source order. Type-only imports are
// skipped since they never reach the emitted code.
func ParseManifest(ctx context.Context, source, loader string) (*graph.ImportManifest, error) {
	// Parsers are not safe for concurrent use; one per call.
	parser := sitter.NewParser()
	parser.SetLanguage(grammar(loader))

	content := []byte(source)
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	m := &graph.ImportManifest{}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		var (
			imp graph.Import
			ok  bool
		)
		switch stmt.Type() {
		case "import_statement":
			imp, ok = importStatement(stmt, content)
		case "export_statement":
			imp, ok = reexportStatement(stmt, content)
		}
		if ok {
			m.Imports = append(m.Imports, imp)
		}
	}
	return m, nil
}

func importStatement(n *sitter.Node, content []byte) (graph.Import, bool) {
	src := sourceNode(n)
	if src == nil || hasKeyword(n, "type") || hasKeyword(n, "typeof") {
		return graph.Import{}, false
	}
	imp := graph.Import{Source: stringValue(src, content)}

	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			part := clause.NamedChild(j)
			switch part.Type() {
			case "identifier":
				imp.Specifiers = append(imp.Specifiers, graph.ImportSpecifier{
					Local:    part.Content(content),
					Imported: graph.DefaultImport,
				})
			case "namespace_import":
				imp.Specifiers = append(imp.Specifiers, graph.ImportSpecifier{
					Local:    lastIdentifier(part, content),
					Imported: graph.NamespaceImport,
				})
			case "named_imports":
				imp.Specifiers = append(imp.Specifiers, namedSpecifiers(part, "import_specifier", content)...)
			}
		}
	}
	return imp, true
}

func reexportStatement(n *sitter.Node, content []byte) (graph.Import, bool) {
	src := sourceNode(n)
	if src == nil || hasKeyword(n, "type") {
		return graph.Import{}, false
	}
	imp := graph.Import{Source: stringValue(src, content)}

	star := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "*", "namespace_export":
			star = true
		case "export_clause":
			imp.Specifiers = append(imp.Specifiers, namedSpecifiers(c, "export_specifier", content)...)
		}
	}
	if star {
		imp.Specifiers = append(imp.Specifiers, graph.ImportSpecifier{Imported: graph.NamespaceImport})
	}
	return imp, true
}

// namedSpecifiers reads `{ a, b as c, default as d }` lists. In an import
// the local name is the alias; in a re-export nothing is bound locally.
func namedSpecifiers(list *sitter.Node, kind string, content []byte) []graph.ImportSpecifier {
	var out []graph.ImportSpecifier
	for i := 0; i < int(list.NamedChildCount()); i++ {
		spec := list.NamedChild(i)
		if spec.Type() != kind || hasKeyword(spec, "type") {
			continue
		}
		name := spec.ChildByFieldName("name")
		if name == nil {
			continue
		}
		imported := nameValue(name, content)
		local := imported
		if alias := spec.ChildByFieldName("alias"); alias != nil {
			local = nameValue(alias, content)
		}
		if kind == "export_specifier" {
			local = ""
		}
		out = append(out, graph.ImportSpecifier{Local: local, Imported: imported})
	}
	return out
}

// sourceNode returns the module specifier literal of an import or export.
func sourceNode(n *sitter.Node) *sitter.Node {
	if src := n.ChildByFieldName("source"); src != nil {
		return src
	}
	if n.Type() == "export_statement" && !hasKeyword(n, "from") {
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "string" {
			return c
		}
	}
	return nil
}

// hasKeyword reports whether n has a direct anonymous child token kw.
func hasKeyword(n *sitter.Node, kw string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == kw {
			return true
		}
	}
	return false
}

func lastIdentifier(n *sitter.Node, content []byte) string {
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		if c := n.NamedChild(i); c.Type() == "identifier" {
			return c.Content(content)
		}
	}
	return ""
}

// nameValue returns an identifier's text or a string literal's value.
func nameValue(n *sitter.Node, content []byte) string {
	if n.Type() == "string" {
		return stringValue(n, content)
	}
	return n.Content(content)
}

// stringValue returns the value of a string literal node without quotes.
func stringValue(n *sitter.Node, content []byte) string {
	s := n.Content(content)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
