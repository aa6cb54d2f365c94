package graph

import "testing"

func TestNewIndexAdjacency(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{
			{From: "a", To: "b"},
			{From: "b", To: "c"},
		},
	}
	idx := NewIndex(g)

	if !idx.Contains("a") || !idx.Contains("b") || !idx.Contains("c") {
		t.Fatal("all listed nodes should be indexed")
	}
	if idx.Contains("z") {
		t.Error("unknown id should not be contained")
	}

	// Edges register both directions in insertion order.
	if got := idx.Neighbors("b"); len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Neighbors(b) = %v, want [a c]", got)
	}
	if got := idx.Neighbors("a"); len(got) != 1 || got[0] != "b" {
		t.Errorf("Neighbors(a) = %v, want [b]", got)
	}
}

func TestNewIndexInsertionOrder(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "hub"}, {ID: "x"}, {ID: "y"}, {ID: "z"}},
		Edges: []Edge{
			{From: "hub", To: "z"},
			{From: "hub", To: "x"},
			{From: "y", To: "hub"},
		},
	}
	idx := NewIndex(g)

	got := idx.Neighbors("hub")
	want := []string{"z", "x", "y"}
	if len(got) != len(want) {
		t.Fatalf("Neighbors(hub) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Neighbors(hub)[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNewIndexEdgeOnlyNodes(t *testing.T) {
	// Edges may reference identifiers absent from the node list.
	g := &Graph{
		Edges: []Edge{{From: "a", To: "b"}},
	}
	idx := NewIndex(g)

	if !idx.Contains("a") || !idx.Contains("b") {
		t.Fatal("edge endpoints should be indexed even without node records")
	}
	n, ok := idx.Node("a")
	if !ok {
		t.Fatal("Node(a) should resolve a synthesized record")
	}
	if n.ID != "a" {
		t.Errorf("synthesized node ID = %s, want a", n.ID)
	}
	if idx.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", idx.NodeCount())
	}
}

func TestNewIndexIsolatedNodes(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "lonely"}, {ID: "a"}, {ID: "b"}},
		Edges: []Edge{{From: "a", To: "b"}},
	}
	idx := NewIndex(g)

	if !idx.Contains("lonely") {
		t.Fatal("isolated node should be contained")
	}
	if got := idx.Neighbors("lonely"); len(got) != 0 {
		t.Errorf("isolated node should have no neighbors, got %v", got)
	}
}

func TestIndexEdgeLookup(t *testing.T) {
	g := &Graph{
		Edges: []Edge{
			{From: "a", To: "b", Meta: map[string]any{"kind": "first"}},
			{From: "b", To: "a", Meta: map[string]any{"kind": "dup"}},
		},
	}
	idx := NewIndex(g)

	// Lookup works in either direction.
	e, ok := idx.Edge("b", "a")
	if !ok {
		t.Fatal("Edge(b, a) should resolve")
	}
	if e.Meta["kind"] != "first" {
		t.Errorf("duplicate edges: first occurrence should win, got %v", e.Meta["kind"])
	}
	if _, ok := idx.Edge("a", "z"); ok {
		t.Error("Edge(a, z) should not resolve")
	}
}

func TestIndexCounts(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Edges: []Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
	}
	idx := NewIndex(g)

	if idx.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3", idx.NodeCount())
	}
	if idx.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", idx.EdgeCount())
	}
	if idx.Source() != g {
		t.Error("Source should return the original graph")
	}
}
