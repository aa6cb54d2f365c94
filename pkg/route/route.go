package route

import (
	"time"

	"github.com/pathscout/pathscout/pkg/graph"
)

// =============================================================================
// Constants - Search Bounds
// =============================================================================

const (
	// MaxShortestPathNodes bounds ShortestPath candidates: paths longer than
	// 11 nodes (10 hops) are pruned during search. A true shortest path
	// beyond this bound yields "none", a documented limit rather than a crash.
	MaxShortestPathNodes = 11

	// MaxExplorePathNodes bounds multi-path enumeration. Clamped to the graph
	// size when the graph is smaller.
	MaxExplorePathNodes = 15

	// MaxGroups is the number of distinct hop-distance groups retained.
	MaxGroups = 3

	// DefaultMaxPerGroup is the default number of routes kept per group.
	DefaultMaxPerGroup = 3

	// DefaultBudget is the wall-clock budget for bounded enumeration.
	DefaultBudget = 5000 * time.Millisecond
)

// =============================================================================
// Route - Finalized Search Result
// =============================================================================

// Route is one fully-materialized path between a query's endpoints.
type Route struct {
	// Path is the ordered node identifier sequence. Path[0] is the source,
	// Path[len-1] the target, every consecutive pair is edge-connected, and
	// no identifier repeats.
	Path []string `json:"path"`

	// Distance is the hop count, len(Path)-1.
	Distance int `json:"distance"`

	// Group is the ascending rank (1, 2, 3) of this route's distance among
	// the distinct distances retained. Group 1 is always the globally
	// shortest distance found.
	Group int `json:"group"`

	// AlternativeIndex is the 0-based rank within the group. Index 0 is the
	// canonical "main" route, the rest are alternates.
	AlternativeIndex int `json:"alternative_index"`

	// Nodes are the resolved node records touched by the path, in path order.
	Nodes []graph.Node `json:"nodes,omitempty"`

	// Edges are the resolved original edges connecting consecutive path
	// nodes, in traversal order.
	Edges []graph.Edge `json:"edges,omitempty"`
}

// IsMain reports whether this is the canonical route of its group.
func (r *Route) IsMain() bool { return r.AlternativeIndex == 0 }

// Result is the outcome of a multi-path exploration.
type Result struct {
	// Routes is the ranked route list, ordered by (Group, AlternativeIndex).
	// Empty means "no path under current bounds" and is a normal outcome.
	Routes []Route `json:"routes"`

	// TimedOut marks a result truncated by the search budget. The routes
	// found before the deadline are still valid, but the set may be
	// incomplete.
	TimedOut bool `json:"timed_out,omitempty"`
}

// Options configures a multi-path exploration.
type Options struct {
	// MaxPerGroup caps routes retained per distance group.
	// Zero means DefaultMaxPerGroup.
	MaxPerGroup int

	// Budget is the wall-clock enumeration budget.
	// Zero means DefaultBudget; negative disables the budget entirely.
	Budget time.Duration
}

// withDefaults resolves zero values to package defaults.
func (o Options) withDefaults() Options {
	if o.MaxPerGroup <= 0 {
		o.MaxPerGroup = DefaultMaxPerGroup
	}
	if o.Budget == 0 {
		o.Budget = DefaultBudget
	}
	return o
}
