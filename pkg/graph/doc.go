// Package graph provides the node-link data model and adjacency index for
// path discovery.
//
// This package defines the canonical wire format for Pathscout's graph data,
// used for JSON files, API requests, dataset storage, and cache keying, plus
// the immutable [Index] every search operates on.
//
// # Graph Serialization
//
// Graphs use a simple node-link JSON format:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "b"}],
//	  "edges": [{"from": "a", "to": "b"}]
//	}
//
// Edges are undirected: {"from": "a", "to": "b"} and {"from": "b", "to": "a"}
// describe the same connection. Duplicate edges and self-loops are accepted
// and harmless.
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("dataset.json")  // File → Graph
//	graph.WriteGraphFile(g, "out.json")          // Graph → File
//	data, _ := graph.MarshalGraph(g)             // Graph → []byte
//
// # Index
//
// An [Index] is built once per dataset and never mutated afterwards:
//
//	idx := graph.NewIndex(g)
//	idx.Neighbors("a")  // insertion-ordered neighbor list
//	idx.Contains("b")
//
// Neighbor order follows edge insertion order, which makes every search over
// the index deterministic for a fixed input file.
package graph
