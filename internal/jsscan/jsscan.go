// Package jsscan reads the module structure of JavaScript code: import
// and export statements, top-level comments and the identifiers a module
// references. It is used on code esbuild has already produced, so only
// plain JavaScript (plus JSX) is expected.
package jsscan

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

// Kind classifies an [Import].
type Kind int

const (
	// KindImport is an import declaration, with or without bindings.
	KindImport Kind = iota
	// KindReexport is an export declaration with a source (`export { a } from`).
	KindReexport
	// KindDynamic is an `import("x")` call with a string literal argument.
	KindDynamic
)

// Namespace is the imported name of `* as ns` and `export *` bindings.
const Namespace = "*"

// Binding is one imported or re-exported name.
type Binding struct {
	// Local is the name bound in the importing module; empty for re-exports.
	Local string
	// Imported is the name exported by the source module: "default", a
	// plain name, or [Namespace].
	Imported string
	// Text is the binding as written, e.g. `a as b` or `* as ns`.
	Text string
	// Named reports whether the binding sits inside braces.
	Named bool
}

// Import is one reference from the scanned code to another module.
type Import struct {
	Kind     Kind
	Source   string    // specifier value
	Bindings []Binding // empty for `import "x"`
	// Start and End are the byte span of the statement (or call).
	Start, End int

	sourceText string
}

// Bare reports whether imp is a side-effect-only import declaration.
func (imp Import) Bare() bool {
	return imp.Kind == KindImport && len(imp.Bindings) == 0
}

// Names returns the imported names, in order.
func (imp Import) Names() []string {
	out := make([]string, 0, len(imp.Bindings))
	for _, b := range imp.Bindings {
		out = append(out, b.Imported)
	}
	return out
}

// Rewrite renders imp as an import declaration keeping only bindings
// keep. With no bindings the result is a bare `import "x";`.
func (imp Import) Rewrite(keep []Binding) string {
	var head, named []string
	for _, b := range keep {
		if b.Named {
			named = append(named, b.Text)
		} else {
			head = append(head, b.Text)
		}
	}
	if len(named) > 0 {
		head = append(head, "{ "+strings.Join(named, ", ")+" }")
	}
	if len(head) == 0 {
		return "import " + imp.sourceText + ";"
	}
	return "import " + strings.Join(head, ", ") + " from " + imp.sourceText + ";"
}

// Span is a byte range of the scanned code.
type Span struct {
	Start, End int
	Text       string
}

// File is the scanned structure of one module.
type File struct {
	Imports []Import
	// Exports are the names the module exports, in source order.
	Exports []string
	// ExportAll is set when the module has an `export * from` and so
	// exports names that cannot be listed statically.
	ExportAll bool
	// Comments are the top-level comments.
	Comments []Span
	// Statements counts top-level statements that are neither import
	// declarations, re-exports, comments nor directives.
	Statements int

	refs map[string]bool
}

// Referenced reports whether name occurs as an identifier outside import
// declarations and re-exports. Shadowing is not tracked, so the answer
// errs on the side of true.
func (f *File) Referenced(name string) bool {
	return f.refs[name]
}

// Parse scans code.
func Parse(ctx context.Context, code string) (*File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(javascript.GetLanguage())

	src := []byte(code)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	s := &scanner{src: src, file: &File{refs: make(map[string]bool)}}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		s.statement(root.NamedChild(i))
	}
	return s.file, nil
}

type scanner struct {
	src  []byte
	file *File
}

func (s *scanner) statement(n *sitter.Node) {
	f := s.file
	switch n.Type() {
	case "comment":
		f.Comments = append(f.Comments, s.span(n))
	case "import_statement":
		if imp, ok := s.importStatement(n); ok {
			f.Imports = append(f.Imports, imp)
		}
	case "export_statement":
		if src := sourceNode(n); src != nil {
			s.reexport(n, src)
			return
		}
		s.exportNames(n)
		f.Statements++
		s.walk(n)
	case "expression_statement":
		if n.NamedChildCount() == 1 && n.NamedChild(0).Type() == "string" {
			return // directive
		}
		f.Statements++
		s.walk(n)
	case "empty_statement":
	default:
		f.Statements++
		s.walk(n)
	}
}

func (s *scanner) importStatement(n *sitter.Node) (Import, bool) {
	src := sourceNode(n)
	if src == nil {
		return Import{}, false
	}
	imp := s.newImport(KindImport, n, src)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != "import_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			part := clause.NamedChild(j)
			switch part.Type() {
			case "identifier":
				name := part.Content(s.src)
				imp.Bindings = append(imp.Bindings, Binding{Local: name, Imported: "default", Text: name})
			case "namespace_import":
				imp.Bindings = append(imp.Bindings, Binding{
					Local:    lastIdentifier(part, s.src),
					Imported: Namespace,
					Text:     part.Content(s.src),
				})
			case "named_imports":
				imp.Bindings = append(imp.Bindings, s.specifiers(part, "import_specifier")...)
			}
		}
	}
	return imp, true
}

func (s *scanner) reexport(n, src *sitter.Node) {
	imp := s.newImport(KindReexport, n, src)
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		switch c.Type() {
		case "*":
			imp.Bindings = append(imp.Bindings, Binding{Imported: Namespace, Text: "*"})
			s.file.ExportAll = true
		case "namespace_export":
			imp.Bindings = append(imp.Bindings, Binding{Imported: Namespace, Text: c.Content(s.src)})
			s.file.Exports = append(s.file.Exports, lastName(c, s.src))
		case "export_clause":
			imp.Bindings = append(imp.Bindings, s.specifiers(c, "export_specifier")...)
			s.file.Exports = append(s.file.Exports, s.exportedNames(c)...)
		}
	}
	s.file.Imports = append(s.file.Imports, imp)
}

// exportNames records the names declared by an export statement without
// a source.
func (s *scanner) exportNames(n *sitter.Node) {
	f := s.file
	if hasKeyword(n, "default") {
		f.Exports = append(f.Exports, "default")
		return
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		switch decl.Type() {
		case "lexical_declaration", "variable_declaration":
			for i := 0; i < int(decl.NamedChildCount()); i++ {
				if d := decl.NamedChild(i); d.Type() == "variable_declarator" {
					f.Exports = append(f.Exports, s.patternNames(d.ChildByFieldName("name"))...)
				}
			}
		default:
			if name := decl.ChildByFieldName("name"); name != nil {
				f.Exports = append(f.Exports, name.Content(s.src))
			}
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "export_clause" {
			f.Exports = append(f.Exports, s.exportedNames(c)...)
		}
	}
}

// exportedNames returns the outward names of an export clause.
func (s *scanner) exportedNames(clause *sitter.Node) []string {
	var out []string
	for i := 0; i < int(clause.NamedChildCount()); i++ {
		spec := clause.NamedChild(i)
		if spec.Type() != "export_specifier" {
			continue
		}
		name := spec.ChildByFieldName("alias")
		if name == nil {
			name = spec.ChildByFieldName("name")
		}
		if name != nil {
			out = append(out, nameValue(name, s.src))
		}
	}
	return out
}

func (s *scanner) patternNames(n *sitter.Node) []string {
	if n == nil {
		return nil
	}
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []string{n.Content(s.src)}
	case "assignment_pattern", "object_assignment_pattern":
		return s.patternNames(n.ChildByFieldName("left"))
	case "pair_pattern":
		return s.patternNames(n.ChildByFieldName("value"))
	}
	var out []string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, s.patternNames(n.NamedChild(i))...)
	}
	return out
}

func (s *scanner) specifiers(list *sitter.Node, kind string) []Binding {
	var out []Binding
	for i := 0; i < int(list.NamedChildCount()); i++ {
		spec := list.NamedChild(i)
		if spec.Type() != kind {
			continue
		}
		name := spec.ChildByFieldName("name")
		if name == nil {
			continue
		}
		b := Binding{Imported: nameValue(name, s.src), Text: spec.Content(s.src), Named: true}
		if kind == "import_specifier" {
			b.Local = b.Imported
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				b.Local = nameValue(alias, s.src)
			}
		}
		out = append(out, b)
	}
	return out
}

// walk records identifier references and dynamic imports below n.
func (s *scanner) walk(n *sitter.Node) {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier":
		s.file.refs[n.Content(s.src)] = true
		return
	case "call_expression":
		if fn := n.ChildByFieldName("function"); fn != nil && fn.Type() == "import" {
			if args := n.ChildByFieldName("arguments"); args != nil && args.NamedChildCount() > 0 {
				if lit := args.NamedChild(0); lit.Type() == "string" {
					imp := s.newImport(KindDynamic, n, lit)
					imp.Bindings = []Binding{{Imported: Namespace, Text: "*"}}
					s.file.Imports = append(s.file.Imports, imp)
				}
			}
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		s.walk(n.NamedChild(i))
	}
}

func (s *scanner) newImport(kind Kind, n, src *sitter.Node) Import {
	return Import{
		Kind:       kind,
		Source:     stringValue(src, s.src),
		Start:      int(n.StartByte()),
		End:        int(n.EndByte()),
		sourceText: src.Content(s.src),
	}
}

func (s *scanner) span(n *sitter.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte()), Text: n.Content(s.src)}
}

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

func hasKeyword(n *sitter.Node, kw string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == kw {
			return true
		}
	}
	return false
}

func lastIdentifier(n *sitter.Node, src []byte) string {
	for i := int(n.NamedChildCount()) - 1; i >= 0; i-- {
		if c := n.NamedChild(i); c.Type() == "identifier" {
			return c.Content(src)
		}
	}
	return ""
}

// lastName is lastIdentifier that also accepts string names (`* as "x"`).
func lastName(n *sitter.Node, src []byte) string {
	count := int(n.NamedChildCount())
	if count == 0 {
		return ""
	}
	return nameValue(n.NamedChild(count-1), src)
}

func nameValue(n *sitter.Node, src []byte) string {
	if n.Type() == "string" {
		return stringValue(n, src)
	}
	return n.Content(src)
}

func stringValue(n *sitter.Node, src []byte) string {
	s := n.Content(src)
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
