package domain

import (
	"iter"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// GraphNode is a local project in the dependency graph.
// Dependencies only lists coordinates that resolved to other local projects.
type GraphNode struct {
	Name         InternedString
	Dir          string
	Dependencies []InternedString
}

// Graph is the dependency graph of locally developed projects for one build.
type Graph struct {
	nodes map[InternedString]*GraphNode
	order []InternedString
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[InternedString]*GraphNode)}
}

// AddNode adds a project to the graph.
// It returns an error if a project with the same name already exists.
func (g *Graph) AddNode(n GraphNode) error {
	if _, exists := g.nodes[n.Name]; exists {
		return zerr.With(ErrProjectAlreadyExists, "project", n.Name.String())
	}
	n.Dependencies = slices.Clone(n.Dependencies)
	g.nodes[n.Name] = &n
	g.order = append(g.order, n.Name)
	return nil
}

// AddEdge records that from depends on to. Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to InternedString) error {
	n, ok := g.nodes[from]
	if !ok {
		return zerr.With(ErrProjectNotFound, "project", from.String())
	}
	if !slices.Contains(n.Dependencies, to) {
		n.Dependencies = append(n.Dependencies, to)
	}
	return nil
}

// Has reports whether name is a node of the graph.
func (g *Graph) Has(name InternedString) bool {
	_, ok := g.nodes[name]
	return ok
}

// Node returns the node for name.
func (g *Graph) Node(name InternedString) (GraphNode, bool) {
	n, ok := g.nodes[name]
	if !ok {
		return GraphNode{}, false
	}
	return *n, true
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Nodes yields nodes in insertion order.
func (g *Graph) Nodes() iter.Seq[GraphNode] {
	return func(yield func(GraphNode) bool) {
		for _, name := range g.order {
			if !yield(*g.nodes[name]) {
				return
			}
		}
	}
}

// TopologicalOrder returns the build order: every project appears after all of
// its local dependencies.
//
// Kahn's algorithm counts in-degree on the dependency side of each edge and
// drains a FIFO queue seeded in insertion order; the emitted sequence is then
// reversed. If the graph has a cycle, no partial order is returned.
func (g *Graph) TopologicalOrder() ([]InternedString, error) {
	inDegree := make(map[InternedString]int, len(g.nodes))
	for _, name := range g.order {
		for _, dep := range g.nodes[name].Dependencies {
			if g.Has(dep) {
				inDegree[dep]++
			}
		}
	}

	queue := make([]InternedString, 0, len(g.order))
	for _, name := range g.order {
		if inDegree[name] == 0 {
			queue = append(queue, name)
		}
	}

	emitted := make([]InternedString, 0, len(g.order))
	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		emitted = append(emitted, name)

		for _, dep := range g.nodes[name].Dependencies {
			if !g.Has(dep) {
				continue
			}
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	if len(emitted) < len(g.order) {
		return nil, g.cycleError(inDegree)
	}

	slices.Reverse(emitted)
	return emitted, nil
}

// DependenciesOf returns every project reachable from name, in build order.
func (g *Graph) DependenciesOf(name InternedString) ([]InternedString, error) {
	order, err := g.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	reachable := make(map[InternedString]bool)
	var visit func(n InternedString)
	visit = func(n InternedString) {
		node, ok := g.nodes[n]
		if !ok {
			return
		}
		for _, dep := range node.Dependencies {
			if !reachable[dep] && g.Has(dep) {
				reachable[dep] = true
				visit(dep)
			}
		}
	}
	visit(name)

	deps := make([]InternedString, 0, len(reachable))
	for _, n := range order {
		if reachable[n] {
			deps = append(deps, n)
		}
	}
	return deps, nil
}

func (g *Graph) cycleError(inDegree map[InternedString]int) error {
	var remaining []string
	for _, name := range g.order {
		if inDegree[name] > 0 {
			remaining = append(remaining, name.String())
		}
	}
	return zerr.With(ErrCircularDependency, "unresolved", strings.Join(remaining, ", "))
}
