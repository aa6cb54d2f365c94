package graph

// =============================================================================
// Graph - Node-Link Serialization
// =============================================================================

// Graph is the canonical serialization format for node-link datasets.
// Used for API requests, dataset storage, caching, and cross-tool compatibility.
//
// The format is human-readable and designed for round-trip fidelity:
// import → index → export → re-import produces identical results.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a single entity in the dataset. Only ID is required; Label defaults
// to the ID when rendering, and Meta carries arbitrary host data untouched.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is an unordered pair of node identifiers. Traversal works in either
// direction.
type Edge struct {
	From string         `json:"from" bson:"from"`
	To   string         `json:"to" bson:"to"`
	Meta map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Connects reports whether the edge joins a and b, in either direction.
func (e *Edge) Connects(a, b string) bool {
	return (e.From == a && e.To == b) || (e.From == b && e.To == a)
}

// NodeCount returns the number of nodes in the serialized graph.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the serialized graph.
func (g *Graph) EdgeCount() int { return len(g.Edges) }
