package engine

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/pathscout/pathscout/pkg/errors"
	"github.com/pathscout/pathscout/pkg/observability"
	"github.com/pathscout/pathscout/pkg/route"
)

// DefaultCoalesceWindow is the cooldown applied to rapid successive queries.
// Selections changing faster than this collapse into a single computation.
const DefaultCoalesceWindow = 250 * time.Millisecond

// Coalescer applies the request-coalescing policy at the orchestrator
// boundary: only the most recent request within the cooldown window
// survives, and a request overtaken at any point - during the cooldown or
// mid-search - gets a SUPERSEDED failure instead of a stale result.
//
// It also memoizes the last settled non-empty result, so re-submitting the
// identical query answers immediately without touching the engine.
type Coalescer struct {
	engine *Engine
	window time.Duration
	logger *log.Logger

	mu   sync.Mutex
	seq  uint64
	last *settled
}

// settled remembers the most recent non-empty query result.
type settled struct {
	source      string
	target      string
	maxPerGroup int
	result      route.Result
}

// NewCoalescer wraps an engine with the cooldown policy.
// A window of 0 means DefaultCoalesceWindow; negative disables the cooldown
// (every request runs, but supersede checks still apply).
func NewCoalescer(e *Engine, window time.Duration, logger *log.Logger) *Coalescer {
	if window == 0 {
		window = DefaultCoalesceWindow
	}
	if logger == nil {
		logger = e.Logger
	}
	return &Coalescer{engine: e, window: window, logger: logger}
}

// Submit runs a query under the coalescing policy.
//
// The returned error is SUPERSEDED when a newer Submit arrived while this
// one was waiting out the cooldown or searching; the caller must discard the
// request. Guard errors from the engine pass through unchanged.
func (c *Coalescer) Submit(ctx context.Context, source, target string, opts QueryOptions) (route.Result, error) {
	res, _, err := c.SubmitWithCacheInfo(ctx, source, target, opts)
	return res, err
}

// SubmitWithCacheInfo runs a query under the coalescing policy and reports
// whether the answer was served without a fresh search, from either the
// settled memo or the engine's route cache.
func (c *Coalescer) SubmitWithCacheInfo(ctx context.Context, source, target string, opts QueryOptions) (route.Result, bool, error) {
	maxPerGroup := opts.MaxPerGroup
	if maxPerGroup <= 0 {
		maxPerGroup = route.DefaultMaxPerGroup
	}

	c.mu.Lock()
	// Identical pair already settled with routes: answer from the memo,
	// no search and no cooldown.
	if !opts.Refresh && c.last != nil &&
		c.last.source == source && c.last.target == target && c.last.maxPerGroup == maxPerGroup {
		res := c.last.result
		c.mu.Unlock()
		return res, true, nil
	}
	c.seq++
	myseq := c.seq
	c.mu.Unlock()

	// Cooldown: let the selection stabilize before starting a potentially
	// expensive search.
	if c.window > 0 {
		timer := time.NewTimer(c.window)
		select {
		case <-ctx.Done():
			timer.Stop()
			return route.Result{}, false, ctx.Err()
		case <-timer.C:
		}
	}

	if c.overtaken(myseq) {
		observability.Search().OnSearchSuperseded(ctx, source, target)
		c.logger.Debug("query superseded before search", "source", source, "target", target)
		return route.Result{}, false, apperrors.New(apperrors.ErrCodeSuperseded,
			"query %s -> %s replaced by a newer request", source, target)
	}

	res, cached, err := c.engine.QueryWithCacheInfo(ctx, source, target, opts)
	if err != nil {
		return route.Result{}, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seq != myseq {
		// A newer query arrived mid-search; the search itself cannot be
		// interrupted, so the stale result is discarded here instead.
		observability.Search().OnSearchSuperseded(ctx, source, target)
		c.logger.Debug("query superseded during search", "source", source, "target", target)
		return route.Result{}, false, apperrors.New(apperrors.ErrCodeSuperseded,
			"query %s -> %s replaced by a newer request", source, target)
	}
	if len(res.Routes) > 0 {
		c.last = &settled{source: source, target: target, maxPerGroup: maxPerGroup, result: res}
	}
	return res, cached, nil
}

// Reset forgets the settled-result memo (e.g. after the dataset changes).
func (c *Coalescer) Reset() {
	c.mu.Lock()
	c.last = nil
	c.mu.Unlock()
}

// overtaken reports whether a newer submission has arrived since seq.
func (c *Coalescer) overtaken(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq != seq
}
