// Package engine orchestrates route queries over a graph index.
//
// This package implements the query → cache → explore flow shared by the CLI
// and the HTTP API. By centralizing this logic, we ensure consistent guard
// handling and cache behavior across all entry points.
//
// # Architecture
//
// An [Engine] owns one immutable [graph.Index] plus a route cache. Queries
// run in three steps:
//
//  1. Guards: reject unknown endpoints and source==target with typed errors
//  2. Cache: consult the route cache under a per-key lock
//  3. Explore: run the bounded multi-path search and populate the cache
//
// A [Coalescer] can wrap an Engine to collapse rapid successive queries into
// one computation (interactive hosts where the selection changes faster than
// searches finish).
//
// # Usage
//
//	idx := graph.NewIndex(g)
//	eng := engine.New(idx, nil, nil, logger)   // in-memory cache by default
//	res, err := eng.Query(ctx, "a", "c", engine.QueryOptions{})
//	if err != nil {
//	    // guard failure: INVALID_ENDPOINT or TRIVIAL_QUERY
//	}
//	for _, r := range res.Routes {
//	    // r.Group, r.AlternativeIndex, r.Path ...
//	}
package engine

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathscout/pathscout/pkg/cache"
	apperrors "github.com/pathscout/pathscout/pkg/errors"
	"github.com/pathscout/pathscout/pkg/graph"
	"github.com/pathscout/pathscout/pkg/observability"
	"github.com/pathscout/pathscout/pkg/route"
)

// routeKeyType tags cache hook events emitted by the engine.
const routeKeyType = "route"

// QueryOptions configures a single query.
type QueryOptions struct {
	route.Options

	// Refresh bypasses the cache for this query: no read before the search
	// and no write after it. This is the engine's cache-bypass hook.
	Refresh bool
}

// Engine answers route queries for one dataset.
//
// The Engine is stateless apart from the cache and the per-key locks; it
// never mutates its index. Multiple goroutines can safely query the same
// Engine concurrently.
type Engine struct {
	Index  *graph.Index
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	graphHash string

	// keyLocks serializes cache population per route key so concurrent
	// callers of the same query never compute it twice. Lock entries are
	// retained for the engine lifetime, the same acceptance as unbounded
	// cache growth.
	mu       sync.Mutex
	keyLocks map[string]*sync.Mutex
}

// New creates an engine for the given index.
// If c is nil, an in-memory cache is used (memoization is part of the engine
// contract; pass cache.NewNullCache() to disable it explicitly).
// If keyer is nil, a DefaultKeyer is used.
func New(idx *graph.Index, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Engine {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}

	hash := ""
	if data, err := graph.MarshalGraph(idx.Source()); err == nil {
		hash = cache.Hash(data)
	}

	return &Engine{
		Index:     idx,
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		graphHash: hash,
		keyLocks:  make(map[string]*sync.Mutex),
	}
}

// GraphHash returns the content hash of the engine's dataset.
func (e *Engine) GraphHash() string { return e.graphHash }

// Query answers a (source, target) query, consulting and populating the
// route cache. See QueryWithCacheInfo for the cache hit flag.
func (e *Engine) Query(ctx context.Context, source, target string, opts QueryOptions) (route.Result, error) {
	res, _, err := e.QueryWithCacheInfo(ctx, source, target, opts)
	return res, err
}

// QueryWithCacheInfo answers a query and reports whether the result came
// from the cache.
//
// Guard conditions are checked first and returned as typed errors:
// TRIVIAL_QUERY for source==target, INVALID_ENDPOINT for identifiers absent
// from the graph. An empty route list is NOT an error; "no connection" is an
// expected outcome. Deadline-truncated results are returned with TimedOut
// set and are not cached, since a larger budget could still improve them.
func (e *Engine) QueryWithCacheInfo(ctx context.Context, source, target string, opts QueryOptions) (route.Result, bool, error) {
	if err := apperrors.ValidateEndpoints(source, target); err != nil {
		return route.Result{}, false, err
	}
	if !e.Index.Contains(source) {
		return route.Result{}, false, apperrors.New(apperrors.ErrCodeInvalidEndpoint, "unknown node: %s", source)
	}
	if !e.Index.Contains(target) {
		return route.Result{}, false, apperrors.New(apperrors.ErrCodeInvalidEndpoint, "unknown node: %s", target)
	}

	key := e.routeKey(source, target, opts)

	// Per-key mutual exclusion: concurrent callers of the same query wait
	// here instead of computing the same routes twice.
	lock := e.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	if !opts.Refresh {
		if data, hit, err := e.Cache.Get(ctx, key); err == nil && hit {
			var routes []route.Route
			if err := json.Unmarshal(data, &routes); err == nil {
				observability.Cache().OnCacheHit(ctx, routeKeyType)
				return route.Result{Routes: routes}, true, nil
			}
			// Corrupt entry - drop it and recompute.
			_ = e.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, routeKeyType)
	}

	start := time.Now()
	observability.Search().OnSearchStart(ctx, source, target)
	res := route.FindAlternatePaths(e.Index, source, target, opts.Options)
	elapsed := time.Since(start)
	observability.Search().OnSearchComplete(ctx, source, target, len(res.Routes), res.TimedOut, elapsed)

	e.Logger.Debug("explored routes",
		"source", source,
		"target", target,
		"found", len(res.Routes),
		"timed_out", res.TimedOut,
		"duration", elapsed.Round(time.Millisecond))

	if !opts.Refresh && !res.TimedOut {
		if data, err := json.Marshal(res.Routes); err == nil {
			_ = e.Cache.Set(ctx, key, data, cache.TTLRoute)
			observability.Cache().OnCacheSet(ctx, routeKeyType, len(data))
		}
	}

	return res, false, nil
}

// Shortest returns the single fewest-hop path, or nil when none exists
// within the shortest-path bound. Guard errors match Query.
func (e *Engine) Shortest(ctx context.Context, source, target string) ([]string, error) {
	if err := apperrors.ValidateEndpoints(source, target); err != nil {
		return nil, err
	}
	if !e.Index.Contains(source) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidEndpoint, "unknown node: %s", source)
	}
	if !e.Index.Contains(target) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidEndpoint, "unknown node: %s", target)
	}
	return route.ShortestPath(e.Index, source, target), nil
}

// Invalidate removes a single cached query result.
func (e *Engine) Invalidate(ctx context.Context, source, target string, opts QueryOptions) error {
	return e.Cache.Delete(ctx, e.routeKey(source, target, opts))
}

// Close releases resources held by the engine (primarily the cache).
func (e *Engine) Close() error {
	if e.Cache != nil {
		return e.Cache.Close()
	}
	return nil
}

// routeKey builds the cache key for a query, resolving the per-group default
// so explicit-default and zero-value options share an entry.
func (e *Engine) routeKey(source, target string, opts QueryOptions) string {
	maxPerGroup := opts.MaxPerGroup
	if maxPerGroup <= 0 {
		maxPerGroup = route.DefaultMaxPerGroup
	}
	return e.Keyer.RouteKey(e.graphHash, cache.RouteKeyOpts{
		Source:      source,
		Target:      target,
		MaxPerGroup: maxPerGroup,
	})
}

// lockFor returns the mutex guarding a cache key.
func (e *Engine) lockFor(key string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.keyLocks[key]
	if !ok {
		l = &sync.Mutex{}
		e.keyLocks[key] = l
	}
	return l
}
