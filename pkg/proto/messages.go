// Package proto defines the shared message types for the admin RPC surface
// between indexctl and the search service (see pkg/rpc).
package proto

// ---------- Search ----------

// SearchRequest is the input to SearchService.Search.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

// SearchResponse is the output of SearchService.Search.
type SearchResponse struct {
	Query     string   `json:"query"`
	Results   []Result `json:"results"`
	LatencyMs int64    `json:"latency_ms"`
}

// Result is a single ranked entry in the result set. Content is never
// included in results.
type Result struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	URL          string `json:"url"`
	Kind         string `json:"kind"`
	Category     string `json:"category"`
	LearnMoreURL string `json:"learn_more_url,omitempty"`
}

// ---------- Index ----------

// StatsRequest is the (empty) input to IndexService.Stats.
type StatsRequest struct{}

// StatsResponse contains index-level statistics.
type StatsResponse struct {
	TotalEntries  int   `json:"total_entries"`
	ExamplesCount int   `json:"examples_count"`
	DocsCount     int   `json:"docs_count"`
	BuiltAtUnix   int64 `json:"built_at_unix"`
}

// EntriesRequest optionally filters by kind ("" = all).
type EntriesRequest struct {
	Kind string `json:"kind"`
}

// EntriesResponse lists the indexed entries in build order.
type EntriesResponse struct {
	Entries []Result `json:"entries"`
}

// RebuildRequest is the (empty) input to IndexService.Rebuild.
type RebuildRequest struct{}

// RebuildResponse confirms a rebuild and reports the new counts.
type RebuildResponse struct {
	TotalEntries  int   `json:"total_entries"`
	ExamplesCount int   `json:"examples_count"`
	DocsCount     int   `json:"docs_count"`
	DurationMs    int64 `json:"duration_ms"`
}
