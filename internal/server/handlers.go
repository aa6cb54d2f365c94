package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pathscout/pathscout/internal/config"
	"github.com/pathscout/pathscout/pkg/cache"
	"github.com/pathscout/pathscout/pkg/engine"
	apperrors "github.com/pathscout/pathscout/pkg/errors"
	"github.com/pathscout/pathscout/pkg/graph"
	"github.com/pathscout/pathscout/pkg/route"
	"github.com/pathscout/pathscout/pkg/store"
)

// maxGraphBody caps dataset upload size at 32 MiB.
const maxGraphBody = 32 << 20

// Handlers implements the API endpoints.
//
// Engines are built lazily per dataset and retained, so repeated queries
// reuse the same index and route cache. The cache backend is shared across
// datasets; keys embed the graph content hash, so entries never collide.
//
// When a coalesce window is configured, route queries run through a
// per-dataset [engine.Coalescer]: rapid successive queries collapse into one
// search and overtaken requests fail with SUPERSEDED. A zero window routes
// queries straight to the engine.
type Handlers struct {
	store  store.Store
	cache  cache.Cache
	search config.SearchConfig
	window time.Duration
	logger *log.Logger

	mu         sync.Mutex
	engines    map[string]*engine.Engine
	coalescers map[string]*engine.Coalescer
}

// NewHandlers creates the handler set.
func NewHandlers(st store.Store, c cache.Cache, search config.SearchConfig, logger *log.Logger) *Handlers {
	if c == nil {
		c = cache.NewMemoryCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Handlers{
		store:      st,
		cache:      c,
		search:     search,
		window:     search.CoalesceWindow(),
		logger:     logger,
		engines:    make(map[string]*engine.Engine),
		coalescers: make(map[string]*engine.Coalescer),
	}
}

// engineFor returns the engine for a dataset, building and memoizing it on
// first use.
func (h *Handlers) engineFor(ctx context.Context, id string) (*engine.Engine, error) {
	h.mu.Lock()
	if eng, ok := h.engines[id]; ok {
		h.mu.Unlock()
		return eng, nil
	}
	h.mu.Unlock()

	ds, err := h.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeDatasetNotFound, "dataset not found: %s", id)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load dataset %s", id)
	}

	eng := engine.New(graph.NewIndex(&ds.Graph), h.cache, nil, h.logger)

	h.mu.Lock()
	defer h.mu.Unlock()
	// Another request may have built it while the store read was in flight.
	if existing, ok := h.engines[id]; ok {
		return existing, nil
	}
	h.engines[id] = eng
	return eng, nil
}

// coalescerFor returns the dataset's coalescer, building and memoizing it on
// first use.
func (h *Handlers) coalescerFor(id string, eng *engine.Engine) *engine.Coalescer {
	h.mu.Lock()
	defer h.mu.Unlock()
	co, ok := h.coalescers[id]
	if !ok {
		co = engine.NewCoalescer(eng, h.window, h.logger)
		h.coalescers[id] = co
	}
	return co
}

// dropEngine forgets a dataset's engine and coalescer. The shared cache
// stays open.
func (h *Handlers) dropEngine(id string) {
	h.mu.Lock()
	delete(h.engines, id)
	delete(h.coalescers, id)
	h.mu.Unlock()
}

// =============================================================================
// Dataset Endpoints
// =============================================================================

// createRequest is the dataset upload body.
type createRequest struct {
	Name  string       `json:"name,omitempty"`
	Nodes []graph.Node `json:"nodes"`
	Edges []graph.Edge `json:"edges"`
}

func (h *Handlers) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	body := http.MaxBytesReader(w, r.Body, maxGraphBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInvalidGraph, err, "decode graph"))
		return
	}
	for i, e := range req.Edges {
		if e.From == "" || e.To == "" {
			respondError(w, apperrors.New(apperrors.ErrCodeInvalidGraph, "edge %d: from and to are required", i))
			return
		}
	}

	ds := &store.Dataset{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Graph:     graph.Graph{Nodes: req.Nodes, Edges: req.Edges},
		CreatedAt: time.Now().UTC(),
	}
	if err := h.store.Put(r.Context(), ds); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "store dataset"))
		return
	}

	h.logger.Info("dataset created", "id", ds.ID, "nodes", ds.Graph.NodeCount(), "edges", ds.Graph.EdgeCount())
	respondJSON(w, http.StatusCreated, store.InfoOf(ds))
}

func (h *Handlers) handleList(w http.ResponseWriter, r *http.Request) {
	infos, err := h.store.List(r.Context())
	if err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "list datasets"))
		return
	}
	respondJSON(w, http.StatusOK, infos)
}

func (h *Handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ds, err := h.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, apperrors.New(apperrors.ErrCodeDatasetNotFound, "dataset not found: %s", id))
		return
	}
	if err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "load dataset %s", id))
		return
	}
	respondJSON(w, http.StatusOK, store.InfoOf(ds))
}

func (h *Handlers) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		respondError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "delete dataset %s", id))
		return
	}
	h.dropEngine(id)
	respondJSON(w, http.StatusNoContent, nil)
}

// =============================================================================
// Query Endpoints
// =============================================================================

// routesResponse is the query result body.
type routesResponse struct {
	Routes   []route.Route `json:"routes"`
	TimedOut bool          `json:"timed_out,omitempty"`
	Cached   bool          `json:"cached,omitempty"`
}

func (h *Handlers) handleRoutes(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	eng, err := h.engineFor(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	opts := engine.QueryOptions{
		Options: route.Options{
			MaxPerGroup: h.search.MaxPerGroup,
			Budget:      h.search.Budget(),
		},
		Refresh: q.Get("refresh") == "true",
	}
	if v := q.Get("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "max must be a positive integer"))
			return
		}
		opts.MaxPerGroup = n
	}

	var (
		res    route.Result
		cached bool
	)
	if h.window > 0 {
		res, cached, err = h.coalescerFor(id, eng).SubmitWithCacheInfo(r.Context(), q.Get("source"), q.Get("target"), opts)
	} else {
		res, cached, err = eng.QueryWithCacheInfo(r.Context(), q.Get("source"), q.Get("target"), opts)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	// Empty routes is a successful "no connection" answer.
	if res.Routes == nil {
		res.Routes = []route.Route{}
	}
	respondJSON(w, http.StatusOK, routesResponse{
		Routes:   res.Routes,
		TimedOut: res.TimedOut,
		Cached:   cached,
	})
}

// shortestResponse is the shortest-path result body.
type shortestResponse struct {
	Path     []string `json:"path"`
	Distance int      `json:"distance"`
	Found    bool     `json:"found"`
}

func (h *Handlers) handleShortest(w http.ResponseWriter, r *http.Request) {
	eng, err := h.engineFor(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}

	q := r.URL.Query()
	path, err := eng.Shortest(r.Context(), q.Get("source"), q.Get("target"))
	if err != nil {
		respondError(w, err)
		return
	}

	resp := shortestResponse{Path: path, Found: path != nil}
	if resp.Found {
		resp.Distance = len(path) - 1
	} else {
		resp.Path = []string{}
	}
	respondJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Health
// =============================================================================

func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	payload := map[string]any{"status": "ok"}
	status := http.StatusOK
	if _, err := h.store.List(ctx); err != nil {
		h.logger.Error("health probe failed", "error", err)
		payload["status"] = "degraded"
		payload["error"] = err.Error()
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, payload)
}
