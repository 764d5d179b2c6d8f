package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/patterngallery/pattern-search/internal/catalog"
	"github.com/patterngallery/pattern-search/internal/index"
	"github.com/patterngallery/pattern-search/internal/search"
)

// newTestHandler builds a handler over the real example catalog with cache,
// collector, and metrics disabled.
func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	cat := catalog.New("")
	ix := index.New(cat)
	svc := search.NewService(ix)
	return New(svc, nil, nil, nil, 10, 50, false)
}

func doRequest(h http.HandlerFunc, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodeSearch(t *testing.T, rec *httptest.ResponseRecorder) SearchResponse {
	t.Helper()
	var resp SearchResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestSearchEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.Search, http.MethodGet, "/api/v1/search?q=search")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeSearch(t, rec)
	if resp.Count != 1 || len(resp.Results) != 1 {
		t.Fatalf("count = %d, results = %d, want 1 each", resp.Count, len(resp.Results))
	}
	if resp.Results[0].Title != "Active Search" {
		t.Errorf("title = %q, want Active Search", resp.Results[0].Title)
	}
	if resp.Results[0].Kind != index.KindExample {
		t.Errorf("kind = %q, want example", resp.Results[0].Kind)
	}
}

func TestSearchEmptyQueryReturnsEmptySet(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.Search, http.MethodGet, "/api/v1/search")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeSearch(t, rec)
	if len(resp.Results) != 0 {
		t.Errorf("results = %d, want 0", len(resp.Results))
	}
	// Results must serialize as [], not null.
	if strings.Contains(rec.Body.String(), `"results":null`) {
		t.Error("results serialized as null, want empty array")
	}
}

func TestSearchLimitValidation(t *testing.T) {
	h := newTestHandler(t)

	for _, bad := range []string{"0", "-3", "abc", "1.5"} {
		rec := doRequest(h.Search, http.MethodGet, "/api/v1/search?q=row&limit="+bad)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("limit=%q: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestSearchLimitClampedToMax(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.Search, http.MethodGet, "/api/v1/search?q=row&limit=9999")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	resp := decodeSearch(t, rec)
	if resp.Count > 50 {
		t.Errorf("count = %d, want at most maxResults", resp.Count)
	}
}

func TestSearchResultsOmitContent(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.Search, http.MethodGet, "/api/v1/search?q=active")
	if strings.Contains(rec.Body.String(), `"content"`) {
		t.Error("response body exposes indexed content")
	}
}

func TestEntriesEndpoints(t *testing.T) {
	h := newTestHandler(t)

	var all struct {
		Entries []index.Result `json:"entries"`
		Count   int            `json:"count"`
	}
	rec := doRequest(h.Entries, http.MethodGet, "/api/v1/entries")
	if err := json.NewDecoder(rec.Body).Decode(&all); err != nil {
		t.Fatalf("decoding entries: %v", err)
	}
	if all.Count != 12 {
		t.Errorf("entries count = %d, want 12 examples with no docs dir", all.Count)
	}

	rec = doRequest(h.Examples, http.MethodGet, "/api/v1/entries/examples")
	var examples struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&examples); err != nil {
		t.Fatalf("decoding examples: %v", err)
	}
	if examples.Count != 12 {
		t.Errorf("examples count = %d, want 12", examples.Count)
	}

	rec = doRequest(h.Docs, http.MethodGet, "/api/v1/entries/docs")
	var docs struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&docs); err != nil {
		t.Fatalf("decoding docs: %v", err)
	}
	if docs.Count != 0 {
		t.Errorf("docs count = %d, want 0 with no docs dir", docs.Count)
	}
}

func TestStatsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.Stats, http.MethodGet, "/api/v1/index/stats")
	var stats index.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.TotalEntries != 12 || stats.ExamplesCount != 12 || stats.DocsCount != 0 {
		t.Errorf("stats = %+v, want 12 example entries", stats)
	}
	if stats.BuiltAt.IsZero() {
		t.Error("BuiltAt should be set after the initial build")
	}
}

func TestRebuildEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.Rebuild, http.MethodPost, "/api/v1/index/rebuild")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Status string      `json:"status"`
		Stats  index.Stats `json:"stats"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding rebuild response: %v", err)
	}
	if resp.Status != "rebuilt" {
		t.Errorf("status = %q, want rebuilt", resp.Status)
	}
	if resp.Stats.TotalEntries != 12 {
		t.Errorf("rebuilt entries = %d, want 12", resp.Stats.TotalEntries)
	}

	// The index still answers queries after the rebuild.
	searchRec := doRequest(h.Search, http.MethodGet, "/api/v1/search?q=load&limit=1")
	sr := decodeSearch(t, searchRec)
	if sr.Count != 1 || sr.Results[0].Title != "Click to Load" {
		t.Errorf("post-rebuild search = %+v, want Click to Load", sr.Results)
	}
}

func TestCacheEndpointsWhenDisabled(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.CacheStats, http.MethodGet, "/api/v1/cache/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("cache stats status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "disabled") {
		t.Errorf("cache stats body = %q, want disabled marker", rec.Body.String())
	}

	rec = doRequest(h.CacheInvalidate, http.MethodPost, "/api/v1/cache/invalidate")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("cache invalidate status = %d, want 503", rec.Code)
	}
}

func TestSearchStream(t *testing.T) {
	h := newTestHandler(t)

	rec := doRequest(h.SearchStream, http.MethodGet, "/api/v1/search/stream?q=infinite")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q, want text/event-stream", ct)
	}

	body := rec.Body.String()
	if !strings.HasPrefix(body, "event: results\ndata: ") {
		t.Fatalf("body = %q, want SSE results event", body)
	}
	if !strings.HasSuffix(body, "\n\n") {
		t.Error("SSE event must end with a blank line")
	}

	payload := strings.TrimSuffix(strings.TrimPrefix(body, "event: results\ndata: "), "\n\n")
	var resp SearchResponse
	if err := json.Unmarshal([]byte(payload), &resp); err != nil {
		t.Fatalf("decoding SSE payload: %v", err)
	}
	if resp.Count != 1 || resp.Results[0].Title != "Infinite Scroll" {
		t.Errorf("stream results = %+v, want Infinite Scroll", resp.Results)
	}
}
