package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathscout/pathscout/internal/config"
	"github.com/pathscout/pathscout/pkg/cache"
	"github.com/pathscout/pathscout/pkg/store"
)

func testRouter() http.Handler {
	return testRouterWithSearch(config.SearchConfig{})
}

func testRouterWithSearch(search config.SearchConfig) http.Handler {
	logger := log.New(io.Discard)
	h := NewHandlers(store.NewMemoryStore(), cache.NewMemoryCache(), search, logger)
	return NewRouter(h, logger)
}

// createDiamond uploads the four-node cycle a - b - c - d - a and returns its ID.
func createDiamond(t *testing.T, router http.Handler) string {
	t.Helper()
	body := `{
		"name": "diamond",
		"nodes": [{"id":"a"},{"id":"b"},{"id":"c"},{"id":"d"}],
		"edges": [
			{"from":"a","to":"b"},
			{"from":"b","to":"c"},
			{"from":"c","to":"d"},
			{"from":"a","to":"d"}
		]
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var info store.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if info.ID == "" || info.Nodes != 4 || info.Edges != 4 {
		t.Fatalf("create response = %+v", info)
	}
	return info.ID
}

func doGet(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestCreateAndGetDataset(t *testing.T) {
	router := testRouter()
	id := createDiamond(t, router)

	rec := doGet(router, "/v1/graphs/"+id)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	var info store.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &info); err != nil {
		t.Fatal(err)
	}
	if info.Name != "diamond" {
		t.Errorf("name = %s, want diamond", info.Name)
	}
}

func TestCreateRejectsIncompleteEdges(t *testing.T) {
	router := testRouter()

	body := `{"nodes":[{"id":"a"}],"edges":[{"from":"a"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString(body)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var e errorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if e.Code != "INVALID_GRAPH" {
		t.Errorf("code = %s, want INVALID_GRAPH", e.Code)
	}
}

func TestCreateRejectsMalformedJSON(t *testing.T) {
	router := testRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString("not json")))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestListDatasets(t *testing.T) {
	router := testRouter()
	createDiamond(t, router)

	rec := doGet(router, "/v1/graphs")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var infos []store.Info
	if err := json.Unmarshal(rec.Body.Bytes(), &infos); err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 {
		t.Errorf("got %d datasets, want 1", len(infos))
	}
}

func TestDeleteDataset(t *testing.T) {
	router := testRouter()
	id := createDiamond(t, router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/graphs/"+id, nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	if rec := doGet(router, "/v1/graphs/"+id); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestRoutesQuery(t *testing.T) {
	router := testRouter()
	id := createDiamond(t, router)

	rec := doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=c", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("routes status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp routesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(resp.Routes))
	}
	if resp.Routes[0].Group != 1 || resp.Routes[0].Distance != 2 {
		t.Errorf("main route = %+v", resp.Routes[0])
	}
	if resp.Cached {
		t.Error("first query should not be cached")
	}

	// Second identical query is answered from the cache.
	rec = doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=c", id))
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Cached {
		t.Error("second query should be cached")
	}
}

func TestRoutesQueryNoConnection(t *testing.T) {
	router := testRouter()

	body := `{"nodes":[{"id":"a"},{"id":"b"},{"id":"x"},{"id":"y"}],
		"edges":[{"from":"a","to":"b"},{"from":"x","to":"y"}]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString(body)))
	var info store.Info
	_ = json.Unmarshal(rec.Body.Bytes(), &info)

	rec = doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=x", info.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("no connection should still be 200, got %d", rec.Code)
	}
	var resp routesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Routes == nil || len(resp.Routes) != 0 {
		t.Errorf("routes should be an empty array, got %v", resp.Routes)
	}
}

func TestRoutesQueryGuards(t *testing.T) {
	router := testRouter()
	id := createDiamond(t, router)

	// source == target
	rec := doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=a", id))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("trivial query status = %d, want 400", rec.Code)
	}
	var e errorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if e.Code != "TRIVIAL_QUERY" {
		t.Errorf("code = %s, want TRIVIAL_QUERY", e.Code)
	}

	// unknown endpoint
	rec = doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=zz", id))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown endpoint status = %d, want 422", rec.Code)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if e.Code != "INVALID_ENDPOINT" {
		t.Errorf("code = %s, want INVALID_ENDPOINT", e.Code)
	}

	// bad max parameter
	rec = doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=c&max=zero", id))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad max status = %d, want 400", rec.Code)
	}
}

func TestRoutesQueryMissingDataset(t *testing.T) {
	router := testRouter()

	rec := doGet(router, "/v1/graphs/nope/routes?source=a&target=c")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var e errorBody
	_ = json.Unmarshal(rec.Body.Bytes(), &e)
	if e.Code != "DATASET_NOT_FOUND" {
		t.Errorf("code = %s, want DATASET_NOT_FOUND", e.Code)
	}
}

func TestRoutesQueryCoalescing(t *testing.T) {
	router := testRouterWithSearch(config.SearchConfig{CoalesceMS: 20})
	id := createDiamond(t, router)

	// A configured window routes queries through the per-dataset coalescer;
	// a lone query still answers normally after the cooldown.
	rec := doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=c", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp routesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Routes) != 2 {
		t.Fatalf("got %d routes, want 2", len(resp.Routes))
	}
	if resp.Cached {
		t.Error("first query should not be cached")
	}

	// An identical repeat is answered from the settled memo.
	rec = doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=c", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if !resp.Cached {
		t.Error("repeated query should be served from the memo")
	}
}

func TestRoutesQuerySuperseded(t *testing.T) {
	router := testRouterWithSearch(config.SearchConfig{CoalesceMS: 150})
	id := createDiamond(t, router)

	first := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
			fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=c", id), nil))
		first <- rec
	}()

	// Replace the first query while it is still waiting out the cooldown.
	time.Sleep(30 * time.Millisecond)
	rec := doGet(router, fmt.Sprintf("/v1/graphs/%s/routes?source=a&target=d", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("newest query should win, status = %d", rec.Code)
	}

	got := <-first
	if got.Code != http.StatusConflict {
		t.Fatalf("overtaken query status = %d, want 409", got.Code)
	}
	var e errorBody
	_ = json.Unmarshal(got.Body.Bytes(), &e)
	if e.Code != "SUPERSEDED" {
		t.Errorf("code = %s, want SUPERSEDED", e.Code)
	}
}

func TestShortestQuery(t *testing.T) {
	router := testRouter()
	id := createDiamond(t, router)

	rec := doGet(router, fmt.Sprintf("/v1/graphs/%s/shortest?source=a&target=c", id))
	if rec.Code != http.StatusOK {
		t.Fatalf("shortest status = %d", rec.Code)
	}
	var resp shortestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Found || resp.Distance != 2 || len(resp.Path) != 3 {
		t.Errorf("shortest = %+v", resp)
	}
}

func TestShortestQueryNotFound(t *testing.T) {
	router := testRouter()

	body := `{"nodes":[{"id":"a"},{"id":"x"}],"edges":[]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/graphs", bytes.NewBufferString(body)))
	var info store.Info
	_ = json.Unmarshal(rec.Body.Bytes(), &info)

	rec = doGet(router, fmt.Sprintf("/v1/graphs/%s/shortest?source=a&target=x", info.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp shortestResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Found {
		t.Error("disconnected endpoints should report found=false")
	}
	if resp.Path == nil || len(resp.Path) != 0 {
		t.Errorf("path should be an empty array, got %v", resp.Path)
	}
}

func TestHealth(t *testing.T) {
	router := testRouter()

	rec := doGet(router, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["status"] != "ok" {
		t.Errorf("status = %v, want ok", payload["status"])
	}
}
