package engine

import (
	"regexp"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/matzehuels/graphshake/internal/jsscan"
	"github.com/matzehuels/graphshake/pkg/errors"
)

// module is one discovered module and, once shaken, its chunk.
type module struct {
	id   string
	code *Module
	scan *jsscan.File // of the transformed code
	// deps holds the resolved id of each scan.Imports entry.
	deps      []string
	importers []string

	chunk  *Chunk
	shaken bool
	// uses maps each import of the chunk to the names the chunk takes
	// from it. Set once shaken.
	uses map[string][]string
}

// declared returns the names m's source imports from dep.
func (m *module) declared(dep string) []string {
	var out []string
	for i, imp := range m.scan.Imports {
		if m.deps[i] == dep {
			out = append(out, imp.Names()...)
		}
	}
	return out
}

// discover loads every module reachable from entry breadth-first.
func (r *run) discover(entry string) error {
	queue := []string{entry}
	seen := map[string]bool{entry: true}
	for len(queue) > 0 {
		if err := r.ctx.Err(); err != nil {
			return err
		}
		id := queue[0]
		queue = queue[1:]

		m, err := r.load(id)
		if err != nil {
			return err
		}
		if m.scan, err = jsscan.Parse(r.ctx, m.code.Code); err != nil {
			return errors.Wrap(errors.ErrCodeEngineFailed, err, "scan %s", id)
		}
		for _, imp := range m.scan.Imports {
			dep, err := r.resolve(imp.Source, id)
			if err != nil {
				return err
			}
			m.deps = append(m.deps, dep)
			if !seen[dep] {
				seen[dep] = true
				queue = append(queue, dep)
			}
		}
		r.order = append(r.order, m)
	}

	for _, m := range r.order {
		for _, dep := range m.deps {
			d := r.modules[dep]
			if !slices.Contains(d.importers, m.id) {
				d.importers = append(d.importers, m.id)
			}
		}
	}
	return nil
}

// shakeOrder returns modules in reverse postorder from entry, so every
// module comes after its importers outside of cycles.
func (r *run) shakeOrder(entry string) []*module {
	var post []*module
	visited := make(map[string]bool)
	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		m := r.modules[id]
		for _, dep := range m.deps {
			if !visited[dep] {
				visit(dep)
			}
		}
		post = append(post, m)
	}
	visit(entry)
	slices.Reverse(post)
	return post
}

// needed returns the exports of m its importers use. all is set when an
// importer takes the whole namespace. Importers not yet shaken, which
// only happens in cycles, count with every name they declare.
func (r *run) needed(m *module) (names []string, all bool) {
	seen := make(map[string]bool)
	for _, id := range m.importers {
		imp := r.modules[id]
		used := imp.declared(m.id)
		if imp.shaken {
			used = imp.uses[m.id]
		}
		for _, name := range used {
			if name == jsscan.Namespace {
				return nil, true
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names, false
}

// exported drops the names m does not export.
func (r *run) exported(m *module, names []string) []string {
	has := make(map[string]bool, len(m.scan.Exports))
	for _, name := range m.scan.Exports {
		has[name] = true
	}
	var out []string
	for _, name := range names {
		if !has[name] {
			r.diags.Warnf(m.id, "%q is imported but not exported", name)
			continue
		}
		out = append(out, name)
	}
	return out
}

// shake builds m's chunk.
func (r *run) shake(m *module, entry bool) error {
	var virtual string
	if !entry && !m.scan.ExportAll {
		if names, all := r.needed(m); !all {
			virtual = reexport(m.id, r.exported(m, names))
		}
	}

	b, err := r.build(m.id, virtual, true)
	if err != nil {
		return err
	}
	scan, err := jsscan.Parse(r.ctx, b.code)
	if err != nil {
		return errors.Wrap(errors.ErrCodeEngineFailed, err, "scan chunk %s", m.id)
	}

	m.chunk = &Chunk{Name: m.id, Modules: []string{m.id}, Exports: b.exports, Map: b.sourceMap}
	m.uses = make(map[string][]string)
	if m.chunk.Code, m.chunk.Imports, err = r.prune(m, b.code, scan); err != nil {
		return err
	}
	m.shaken = true

	if r.logger != nil {
		r.logger.Debug("chunk", "module", m.id, "exports", len(m.chunk.Exports), "imports", len(m.chunk.Imports), "bytes", len(m.chunk.Code))
	}
	return nil
}

// prune rewrites the import declarations of a chunk to the bindings its
// code references and strips esbuild's module path comments. It returns
// the new code and the chunk's imports in first-seen order, and records
// per-import usage in m.uses.
func (r *run) prune(m *module, code string, scan *jsscan.File) (string, []string, error) {
	var edits []edit
	var imports []string
	use := func(target string, names []string) {
		if _, ok := m.uses[target]; !ok {
			imports = append(imports, target)
		}
		m.uses[target] = append(m.uses[target], names...)
	}

	for _, imp := range scan.Imports {
		if _, ok := r.modules[imp.Source]; !ok {
			return "", nil, errors.New(errors.ErrCodeEngineFailed, "chunk %s imports undiscovered module %q", m.id, imp.Source)
		}
		if imp.Kind != jsscan.KindImport {
			use(imp.Source, imp.Names())
			continue
		}

		var kept []jsscan.Binding
		for _, b := range imp.Bindings {
			if scan.Referenced(b.Local) {
				kept = append(kept, b)
			}
		}
		if len(kept) > 0 {
			if len(kept) < len(imp.Bindings) {
				edits = append(edits, edit{imp.Start, imp.End, imp.Rewrite(kept)})
			}
			names := make([]string, len(kept))
			for i, b := range kept {
				names[i] = b.Imported
			}
			use(imp.Source, names)
			continue
		}

		effects, err := r.hasEffects(imp.Source)
		if err != nil {
			return "", nil, err
		}
		switch {
		case effects && imp.Bare():
			use(imp.Source, nil)
		case effects:
			edits = append(edits, edit{imp.Start, imp.End, imp.Rewrite(nil)})
			use(imp.Source, nil)
		default:
			edits = append(edits, r.cut(code, imp.Start, imp.End))
			r.diags.Infof(m.id, "unused import of %s removed", imp.Source)
		}
	}

	for _, c := range scan.Comments {
		if isPathComment(c.Text) {
			edits = append(edits, r.cut(code, c.Start, c.End))
		}
	}
	return applyEdits(code, edits), imports, nil
}

// hasEffects reports whether importing id for its side effects alone
// runs any code, counting the modules id imports. Modules are assumed to
// have effects while their check is in progress.
func (r *run) hasEffects(id string) (bool, error) {
	if effects, ok := r.effects[id]; ok {
		return effects, nil
	}
	r.effects[id] = true

	b, err := r.build(id, reexport(id, nil), false)
	if err != nil {
		return false, err
	}
	scan, err := jsscan.Parse(r.ctx, b.code)
	if err != nil {
		return false, errors.Wrap(errors.ErrCodeEngineFailed, err, "scan %s", id)
	}

	effects := scan.Statements > 0
	for _, dep := range r.modules[id].deps {
		if effects {
			break
		}
		if effects, err = r.hasEffects(dep); err != nil {
			return false, err
		}
	}
	r.effects[id] = effects
	return effects, nil
}

// live returns the chunks reachable from entry through chunk imports, in
// discovery order.
func (r *run) live(entry string) []*Chunk {
	reached := map[string]bool{entry: true}
	queue := []string{entry}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range r.modules[id].chunk.Imports {
			if !reached[dep] {
				reached[dep] = true
				queue = append(queue, dep)
			}
		}
	}

	var chunks []*Chunk
	for _, m := range r.order {
		if !reached[m.id] {
			r.diags.Infof(m.id, "module removed: nothing imports it")
			continue
		}
		chunks = append(chunks, m.chunk)
	}
	return chunks
}

// identifierName matches names that need no quoting in an export clause.
var identifierName = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*$`)

// reexport returns an entry point exporting only names from id. With no
// names it imports id for its side effects.
func reexport(id string, names []string) string {
	source := strconv.Quote(id)
	if len(names) == 0 {
		return "import " + source + ";\n"
	}
	parts := make([]string, len(names))
	for i, name := range names {
		if identifierName.MatchString(name) {
			parts[i] = name
		} else {
			parts[i] = strconv.Quote(name)
		}
	}
	return "export { " + strings.Join(parts, ", ") + " } from " + source + ";\n"
}

// isPathComment matches the comment esbuild writes above each module's
// code, naming the module by namespace and path.
func isPathComment(text string) bool {
	return strings.HasPrefix(text, "// "+namespace+":") || strings.HasPrefix(text, "// "+entryNamespace+":")
}

// edit replaces code[start:end] with text.
type edit struct {
	start, end int
	text       string
}

// cut removes code[start:end]. Without source maps the line break after
// it goes too; with them the line stays so mappings keep their lines.
func (r *run) cut(code string, start, end int) edit {
	if !r.opts.SourceMaps && end < len(code) && code[end] == '\n' {
		end++
	}
	return edit{start, end, ""}
}

func applyEdits(code string, edits []edit) string {
	if len(edits) == 0 {
		return code
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })
	var b strings.Builder
	last := 0
	for _, e := range edits {
		if e.start < last {
			continue
		}
		b.WriteString(code[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(code[last:])
	return b.String()
}
