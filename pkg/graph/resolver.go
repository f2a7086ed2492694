package graph

import "slices"

// Resolver maps between literal import specifiers and canonical module ids,
// relative to the importing node.
//
// Implementations belong to the dependency resolver that built the graph.
// Graphshake only consumes them.
type Resolver interface {
	// SpecifierToID returns the canonical id that specifier resolves to
	// when imported by n.
	SpecifierToID(n *Node, specifier string) (string, bool)
	// IDToSpecifier returns the specifier n uses to import id.
	IDToSpecifier(n *Node, id string) (string, bool)
}

// DependencyResolver resolves through the node's own parallel
// OriginalSpecifiers and Dependencies lists, which is where the graph
// builder records its resolution results.
type DependencyResolver struct{}

// SpecifierToID implements Resolver.
func (DependencyResolver) SpecifierToID(n *Node, specifier string) (string, bool) {
	if n == nil {
		return "", false
	}
	i := slices.Index(n.OriginalSpecifiers, specifier)
	if i < 0 || i >= len(n.Dependencies) {
		return "", false
	}
	return n.Dependencies[i], true
}

// IDToSpecifier implements Resolver.
func (DependencyResolver) IDToSpecifier(n *Node, id string) (string, bool) {
	if n == nil {
		return "", false
	}
	i := slices.Index(n.Dependencies, id)
	if i < 0 || i >= len(n.OriginalSpecifiers) {
		return "", false
	}
	return n.OriginalSpecifiers[i], true
}

// Ensure DependencyResolver implements Resolver.
var _ Resolver = DependencyResolver{}
