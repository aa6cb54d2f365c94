// Package cache provides the memoization layer for route queries.
//
// The engine stores finalized route lists keyed by (graph hash, source,
// target, alternates-per-group). Backends:
//   - memory: default; unbounded for the session lifetime, matching the
//     engine contract that entries are never internally evicted
//   - file: CLI usage, XDG cache directory
//   - redis: service deployments sharing a cache across instances
//   - null: caching disabled
//
// Eviction policy is a hosting-layer decision: backends honor TTLs when
// given one, and TTL 0 means "no expiry".
package cache

import (
	"context"
	"time"
)

// TTLRoute is the lifetime of cached route results. Routes are pure
// functions of the graph and query, so they never go stale; 0 disables
// expiry and leaves eviction to the hosting layer.
const TTLRoute = time.Duration(0)

// Cache is the interface all backends implement.
// Get returns (data, hit, error); a miss is (nil, false, nil), not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// Keyer - Cache Key Construction
// =============================================================================

// RouteKeyOpts are the query parameters that distinguish route cache entries.
type RouteKeyOpts struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	MaxPerGroup int    `json:"max_per_group"`
}

// Keyer generates cache keys. Implementations must be deterministic: the
// same inputs always produce the same key.
type Keyer interface {
	// RouteKey generates a key for a finalized route list. graphHash is the
	// content hash of the graph the routes were computed on.
	RouteKey(graphHash string, opts RouteKeyOpts) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// RouteKey generates a key of the form "route:<sha256>".
func (k *DefaultKeyer) RouteKey(graphHash string, opts RouteKeyOpts) string {
	return hashKey("route", graphHash, opts)
}
