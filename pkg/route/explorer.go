package route

import (
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/pathscout/pathscout/pkg/graph"
)

// pathSep joins identifiers into a queue-dedupe signature. Unit separator is
// safe for any printable identifier.
const pathSep = "\x1f"

// FindAlternatePaths enumerates distinct simple paths between start and end,
// groups them by hop count, and ranks them into a main route plus alternates
// per group.
//
// The enumeration is bounded, not exhaustive: paths are capped at
// MaxExplorePathNodes nodes (clamped to the graph size) and the whole search
// self-terminates at a wall-clock deadline computed once at entry. A
// deadline-truncated result carries TimedOut=true and is valid output.
//
// Returns an empty result when start equals end or either endpoint is
// unknown; callers wanting a typed failure for those cases should guard
// before calling (see pkg/engine).
func FindAlternatePaths(idx *graph.Index, start, end string, opts Options) Result {
	opts = opts.withDefaults()
	if start == end || !idx.Contains(start) || !idx.Contains(end) {
		return Result{}
	}

	found, timedOut := enumerate(idx, start, end, opts)
	routes := rank(idx, found, opts.MaxPerGroup)
	return Result{Routes: routes, TimedOut: timedOut}
}

// =============================================================================
// Stage 1 - Bounded Enumeration
// =============================================================================

// enumerate runs a breadth-first walk over whole paths. A path reaching the
// target is recorded and never extended further; anything else grows by one
// neighbor at a time, skipping nodes already on the path and exact paths
// already enqueued.
func enumerate(idx *graph.Index, start, end string, opts Options) (found [][]string, timedOut bool) {
	maxNodes := MaxExplorePathNodes
	if n := idx.NodeCount(); n < maxNodes {
		maxNodes = n
	}

	// Deadline is resolved once here and only compared afterwards; the
	// worst-case overrun is the cost of a single dequeue iteration.
	var deadline time.Time
	if opts.Budget > 0 {
		deadline = time.Now().Add(opts.Budget)
	}

	queue := [][]string{{start}}
	enqueued := map[string]struct{}{start: {}}

	for len(queue) > 0 {
		if !deadline.IsZero() && time.Now().After(deadline) {
			return found, true
		}

		path := queue[0]
		queue = queue[1:]
		last := path[len(path)-1]

		if last == end {
			found = append(found, path)
			continue
		}
		if len(path) >= maxNodes {
			continue
		}

		for _, next := range idx.Neighbors(last) {
			if slices.Contains(path, next) {
				continue
			}
			extended := append(slices.Clip(path), next)
			sig := strings.Join(extended, pathSep)
			if _, dup := enqueued[sig]; dup {
				continue
			}
			enqueued[sig] = struct{}{}
			queue = append(queue, extended)
		}
	}
	return found, false
}

// =============================================================================
// Stage 2 - Grouping & Ranking
// =============================================================================

// rank groups found paths by hop distance, keeps the MaxGroups smallest
// distances, orders each group by the content-derived tiebreak, truncates to
// maxPerGroup, and materializes the survivors.
func rank(idx *graph.Index, found [][]string, maxPerGroup int) []Route {
	if len(found) == 0 {
		return nil
	}

	byDistance := make(map[int][][]string)
	for _, p := range found {
		d := len(p) - 1
		byDistance[d] = append(byDistance[d], p)
	}

	distances := make([]int, 0, len(byDistance))
	for d := range byDistance {
		distances = append(distances, d)
	}
	sort.Ints(distances)
	if len(distances) > MaxGroups {
		distances = distances[:MaxGroups]
	}

	var routes []Route
	for gi, d := range distances {
		group := byDistance[d]
		sort.Slice(group, func(i, j int) bool {
			si, sj := charSum(group[i]), charSum(group[j])
			if si != sj {
				return si < sj
			}
			// Content-equal sums still need a total order for determinism.
			return strings.Join(group[i], pathSep) < strings.Join(group[j], pathSep)
		})
		if len(group) > maxPerGroup {
			group = group[:maxPerGroup]
		}
		for ai, p := range group {
			routes = append(routes, materialize(idx, p, gi+1, ai))
		}
	}
	return routes
}

// charSum is the ranking tiebreak: the sum of character codes across all
// identifiers in the path. Semantically arbitrary, kept purely because it is
// deterministic and content-derived.
func charSum(path []string) int {
	sum := 0
	for _, id := range path {
		for _, r := range id {
			sum += int(r)
		}
	}
	return sum
}

// =============================================================================
// Stage 3 - Materialization
// =============================================================================

// materialize resolves a retained path into a fully-populated Route with its
// touched nodes and connecting original edges.
func materialize(idx *graph.Index, path []string, group, alt int) Route {
	r := Route{
		Path:             path,
		Distance:         len(path) - 1,
		Group:            group,
		AlternativeIndex: alt,
		Nodes:            make([]graph.Node, 0, len(path)),
		Edges:            make([]graph.Edge, 0, len(path)-1),
	}
	for i, id := range path {
		if n, ok := idx.Node(id); ok {
			r.Nodes = append(r.Nodes, *n)
		}
		if i == 0 {
			continue
		}
		if e, ok := idx.Edge(path[i-1], id); ok {
			r.Edges = append(r.Edges, *e)
		}
	}
	return r
}
