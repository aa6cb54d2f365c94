package graph

// =============================================================================
// Index - Immutable Adjacency Structure
// =============================================================================

// Index is the adjacency structure every search operates on. It is built once
// from a Graph and never mutated afterwards, so concurrent readers need no
// locking.
//
// Invariants:
//   - every identifier appearing in any edge is a key in the adjacency map
//   - neighbor lists follow edge insertion order
//   - isolated nodes from the node list are keys with empty neighbor lists
type Index struct {
	source    *Graph
	adjacency map[string][]string
	nodes     map[string]*Node
	edgeLU    map[[2]string]*Edge
}

// NewIndex builds an Index from a Graph in O(V+E).
// Duplicate edges and self-loops are accepted harmlessly: duplicates simply
// repeat a neighbor entry and self-loops add a node to its own list, neither
// of which can appear in a simple path.
func NewIndex(g *Graph) *Index {
	idx := &Index{
		source:    g,
		adjacency: make(map[string][]string, len(g.Nodes)),
		nodes:     make(map[string]*Node, len(g.Nodes)),
		edgeLU:    make(map[[2]string]*Edge, len(g.Edges)),
	}

	for i := range g.Nodes {
		n := &g.Nodes[i]
		idx.nodes[n.ID] = n
		if _, ok := idx.adjacency[n.ID]; !ok {
			idx.adjacency[n.ID] = nil
		}
	}

	for i := range g.Edges {
		e := &g.Edges[i]
		idx.adjacency[e.From] = append(idx.adjacency[e.From], e.To)
		idx.adjacency[e.To] = append(idx.adjacency[e.To], e.From)

		// First occurrence wins for unordered pair lookup.
		if _, ok := idx.edgeLU[pairKey(e.From, e.To)]; !ok {
			idx.edgeLU[pairKey(e.From, e.To)] = e
		}

		// Edges may reference nodes missing from the node list.
		if _, ok := idx.nodes[e.From]; !ok {
			idx.nodes[e.From] = &Node{ID: e.From}
		}
		if _, ok := idx.nodes[e.To]; !ok {
			idx.nodes[e.To] = &Node{ID: e.To}
		}
	}

	return idx
}

// Contains reports whether id is a known node.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.adjacency[id]
	return ok
}

// Neighbors returns the insertion-ordered neighbor list for id.
// The returned slice is shared; callers must not modify it.
func (idx *Index) Neighbors(id string) []string {
	return idx.adjacency[id]
}

// Node returns the node record for id, if present.
func (idx *Index) Node(id string) (*Node, bool) {
	n, ok := idx.nodes[id]
	return n, ok
}

// Edge resolves the original edge connecting a and b, in either direction.
// When the input contained duplicates, the first matching edge is returned.
func (idx *Index) Edge(a, b string) (*Edge, bool) {
	e, ok := idx.edgeLU[pairKey(a, b)]
	return e, ok
}

// NodeCount returns the number of distinct node identifiers in the index.
func (idx *Index) NodeCount() int { return len(idx.adjacency) }

// EdgeCount returns the number of edges in the source graph.
func (idx *Index) EdgeCount() int { return len(idx.source.Edges) }

// Source returns the graph the index was built from.
func (idx *Index) Source() *Graph { return idx.source }

// pairKey normalizes an unordered node pair into a map key.
func pairKey(a, b string) [2]string {
	if b < a {
		a, b = b, a
	}
	return [2]string{a, b}
}
