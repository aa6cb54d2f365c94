// Package route implements the path-discovery core: single shortest-path
// search and bounded multi-path exploration over a [graph.Index].
//
// # Search Model
//
// Both searches treat edges as unit-weight and undirected, and only ever
// follow simple paths (no repeated node). Exploration is deliberately
// bounded rather than exhaustive:
//
//   - [ShortestPath] prunes candidates beyond 11 nodes (10 hops)
//   - [FindAlternatePaths] caps paths at 15 nodes (clamped to graph size)
//     and abandons enumeration at a wall-clock deadline, returning whatever
//     was found so far
//
// A truncated result is valid output, not an error. Disconnected endpoints
// produce an empty result for the same reason: "no connection" is an
// expected, displayable outcome for an exploratory tool.
//
// # Determinism
//
// For a fixed graph and query, results are bit-identical across invocations:
// neighbor expansion follows edge insertion order and same-length alternates
// are ranked by a content-derived tiebreak (character-code sum, then the
// joined path). This is required for reproducible tests and for safe cache
// sharing.
package route
