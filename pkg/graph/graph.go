package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists. Canonical module ids are unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrDependencyMismatch is returned when a node's Dependencies and
	// OriginalSpecifiers differ in length.
	ErrDependencyMismatch = errors.New("dependencies and specifiers differ in length")

	// ErrNoMains is returned by [Graph.Entry] and [Graph.Validate] when the
	// graph has no entry point.
	ErrNoMains = errors.New("graph has no entry point")

	// ErrUnknownMain is returned by [Graph.Validate] when an entry point is
	// not a node of the graph.
	ErrUnknownMain = errors.New("entry point is not in the graph")
)

// Graph is the keyed collection of module nodes.
//
// The zero value is not usable - use New to create a Graph.
type Graph struct {
	nodes map[string]*Node
	order []string

	// Mains are the entry point ids; the first one is the bundling entry.
	Mains []string
	// Loader is passed opaquely to the transpile stage.
	Loader Loader
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*Node)}
}

// AddNode adds n to the graph. Nodes are kept in insertion order.
func (g *Graph) AddNode(n *Node) error {
	if n == nil || n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Meta == nil {
		n.Meta = Metadata{}
	}
	g.nodes[n.ID] = n
	g.order = append(g.order, n.ID)
	return nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.order))
	for i, id := range g.order {
		out[i] = g.nodes[id]
	}
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.order) }

// Entry returns the bundling entry, the first of Mains.
func (g *Graph) Entry() (string, error) {
	if len(g.Mains) == 0 {
		return "", ErrNoMains
	}
	return g.Mains[0], nil
}

// Validate checks that every entry point exists and that every node's
// dependency lists are parallel.
func (g *Graph) Validate() error {
	if len(g.Mains) == 0 {
		return ErrNoMains
	}
	for _, m := range g.Mains {
		if _, ok := g.nodes[m]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownMain, m)
		}
	}
	for _, id := range g.order {
		n := g.nodes[id]
		if len(n.Dependencies) != len(n.OriginalSpecifiers) {
			return fmt.Errorf("node %s: %w", id, ErrDependencyMismatch)
		}
	}
	return nil
}

// Reachable returns the ids reachable from start through Dependencies,
// breadth-first, start included. Ids missing from the graph are skipped.
func (g *Graph) Reachable(start string) []string {
	if _, ok := g.nodes[start]; !ok {
		return nil
	}
	seen := map[string]bool{start: true}
	queue := []string{start}
	var out []string
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		out = append(out, id)
		for _, dep := range g.nodes[id].Dependencies {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if _, ok := g.nodes[dep]; ok {
				queue = append(queue, dep)
			}
		}
	}
	return out
}

// EdgeCount returns the total number of dependency edges.
func (g *Graph) EdgeCount() int {
	total := 0
	for _, n := range g.nodes {
		total += len(n.Dependencies)
	}
	return total
}
