package route

import "github.com/pathscout/pathscout/pkg/graph"

// ShortestPath returns the fewest-hop path between start and end, or nil if
// none exists within MaxShortestPathNodes. It is both a primitive and a
// sanity check for the multi-path explorer: whenever both return results,
// the group-1 distance of FindAlternatePaths equals len(ShortestPath)-1.
//
// Returns nil immediately when start equals end or either identifier is
// unknown.
func ShortestPath(idx *graph.Index, start, end string) []string {
	if start == end || !idx.Contains(start) || !idx.Contains(end) {
		return nil
	}

	// Plain BFS over nodes; the first time end is dequeued-into, the parent
	// chain is the shortest path by hop count. Candidates that would exceed
	// the node bound are not enqueued.
	type item struct {
		id    string
		depth int
	}
	parent := map[string]string{start: ""}
	queue := []item{{id: start, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.id == end {
			return reconstruct(parent, start, end)
		}
		if cur.depth+2 > MaxShortestPathNodes {
			continue
		}
		for _, n := range idx.Neighbors(cur.id) {
			if _, seen := parent[n]; seen {
				continue
			}
			parent[n] = cur.id
			queue = append(queue, item{id: n, depth: cur.depth + 1})
		}
	}
	return nil
}

// reconstruct walks the parent chain from end back to start.
func reconstruct(parent map[string]string, start, end string) []string {
	var rev []string
	for cur := end; cur != ""; cur = parent[cur] {
		rev = append(rev, cur)
		if cur == start {
			break
		}
	}
	path := make([]string, len(rev))
	for i, id := range rev {
		path[len(rev)-1-i] = id
	}
	return path
}
