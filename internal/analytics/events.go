// Package analytics implements the search analytics pipeline: services
// publish query and rebuild events to Kafka through a batching collector,
// and the aggregator consumes them into in-memory stats.
package analytics

import "time"

type EventType string

const (
	EventQuery   EventType = "query"
	EventRebuild EventType = "rebuild"
)

// Kafka partition keys per event family.
const (
	KeyQuery   = "query"
	KeyRebuild = "rebuild"
)

// QueryEvent records one executed search query.
type QueryEvent struct {
	Type      EventType `json:"type"`
	Query     string    `json:"query"`
	Returned  int       `json:"returned"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
}

// RebuildEvent records one full index rebuild.
type RebuildEvent struct {
	Type          EventType `json:"type"`
	TotalEntries  int       `json:"total_entries"`
	ExamplesCount int       `json:"examples_count"`
	DocsCount     int       `json:"docs_count"`
	DurationMs    int64     `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
}
