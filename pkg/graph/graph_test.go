package graph

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestGraphFileRoundTrip(t *testing.T) {
	g := &Graph{
		Nodes: []Node{
			{ID: "a", Label: "Alpha"},
			{ID: "b", Meta: map[string]any{"weight": 1.5}},
		},
		Edges: []Edge{{From: "a", To: "b"}},
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := WriteGraphFile(g, path); err != nil {
		t.Fatalf("WriteGraphFile: %v", err)
	}

	got, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile: %v", err)
	}
	if got.NodeCount() != 2 || got.EdgeCount() != 1 {
		t.Fatalf("round trip lost content: %d nodes, %d edges", got.NodeCount(), got.EdgeCount())
	}
	if got.Nodes[0].Label != "Alpha" {
		t.Errorf("label not preserved: %s", got.Nodes[0].Label)
	}
	if got.Nodes[1].Meta["weight"] != 1.5 {
		t.Errorf("meta not preserved: %v", got.Nodes[1].Meta)
	}
}

func TestMarshalGraphDeterministic(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "a"}, {ID: "b"}},
		Edges: []Edge{{From: "a", To: "b"}},
	}
	d1, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	d2, err := MarshalGraph(g)
	if err != nil {
		t.Fatalf("MarshalGraph: %v", err)
	}
	if string(d1) != string(d2) {
		t.Error("MarshalGraph should be deterministic")
	}
}

func TestUnmarshalGraphRejectsIncompleteEdges(t *testing.T) {
	_, err := UnmarshalGraph([]byte(`{"nodes":[],"edges":[{"from":"a"}]}`))
	if err == nil {
		t.Fatal("edge missing 'to' should be rejected")
	}
	if !strings.Contains(err.Error(), "from and to are required") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestUnmarshalGraphInvalidJSON(t *testing.T) {
	if _, err := UnmarshalGraph([]byte("not json")); err == nil {
		t.Fatal("invalid JSON should be rejected")
	}
}

func TestNodeDisplayLabel(t *testing.T) {
	n := Node{ID: "a", Label: "Alpha"}
	if n.DisplayLabel() != "Alpha" {
		t.Errorf("DisplayLabel = %s, want Alpha", n.DisplayLabel())
	}
	n.Label = ""
	if n.DisplayLabel() != "a" {
		t.Errorf("DisplayLabel = %s, want a", n.DisplayLabel())
	}
}

func TestEdgeConnects(t *testing.T) {
	e := Edge{From: "a", To: "b"}
	if !e.Connects("a", "b") || !e.Connects("b", "a") {
		t.Error("Connects should match either direction")
	}
	if e.Connects("a", "c") {
		t.Error("Connects should reject unrelated pairs")
	}
}
