// Package index implements the in-memory relevance-ranked search index over
// the pattern gallery catalog.
//
// Matching is case-insensitive substring containment against three fields in
// strictly descending priority: title (+100, +20 prefix bonus), description
// (+50), content (+25). Results sort by score descending, then match tier
// ascending, then title; the tier direction is intentional and covered by
// tests.
//
// The index holds its entries behind an atomic pointer: Rebuild computes a
// complete new snapshot and installs it with a single swap, so concurrent
// readers always observe either the old or the new snapshot, never a mix.
package index

import (
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/patterngallery/pattern-search/internal/catalog"
)

// DefaultLimit is the result cap applied when callers do not specify one.
const DefaultLimit = 10

// Source supplies the raw records the index is built from. The surrounding
// application owns fetching and parsing; the index only transforms records
// into entries.
type Source interface {
	Examples() []catalog.ExampleRecord
	Docs() []catalog.DocRecord
}

// Stats summarises the current snapshot.
type Stats struct {
	TotalEntries  int       `json:"total_entries"`
	ExamplesCount int       `json:"examples_count"`
	DocsCount     int       `json:"docs_count"`
	BuiltAt       time.Time `json:"built_at"`
}

type snapshot struct {
	entries  []Entry
	examples int
	docs     int
	builtAt  time.Time
}

// Index is the in-memory search index. It is safe for concurrent use:
// reads are lock-free and Rebuild swaps in a fresh immutable snapshot.
type Index struct {
	source Source
	snap   atomic.Pointer[snapshot]
	logger *slog.Logger
}

// New builds an Index from the given source. The initial build happens
// eagerly so the index is never observed empty when the source has records.
func New(source Source) *Index {
	ix := &Index{
		source: source,
		logger: slog.Default().With("component", "search-index"),
	}
	ix.Rebuild()
	return ix
}

// Rebuild discards the current snapshot and reconstructs it from the source
// in full. The new snapshot is installed atomically; no incremental update
// is supported.
func (ix *Index) Rebuild() Stats {
	start := time.Now()

	examples := ix.source.Examples()
	docs := ix.source.Docs()

	entries := make([]Entry, 0, len(examples)+len(docs))
	for _, rec := range examples {
		entries = append(entries, Entry{
			Title:        rec.Title,
			Description:  rec.Description,
			Content:      rec.Content,
			URL:          rec.URL,
			Kind:         KindExample,
			Category:     rec.Category,
			LearnMoreURL: catalog.LearnMoreURL(rec.ID),
		})
	}
	for _, rec := range docs {
		entries = append(entries, Entry{
			Title:       rec.Title,
			Description: rec.Description,
			Content:     rec.Content,
			URL:         rec.URL,
			Kind:        KindDoc,
			Category:    rec.Category,
		})
	}

	snap := &snapshot{
		entries:  entries,
		examples: len(examples),
		docs:     len(docs),
		builtAt:  time.Now(),
	}
	ix.snap.Store(snap)

	ix.logger.Info("index rebuilt",
		"total_entries", len(entries),
		"examples", len(examples),
		"docs", len(docs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return ix.Stats()
}

// Search scores every entry in the current snapshot against query and
// returns up to limit ranked results. An empty query or a non-positive
// limit yields no results; neither is an error.
func (ix *Index) Search(query string, limit int) []Result {
	if query == "" || limit <= 0 {
		return []Result{}
	}

	snap := ix.snap.Load()
	lowered := strings.ToLower(query)

	matched := make([]scoredEntry, 0, len(snap.entries))
	for i := range snap.entries {
		entry := &snap.entries[i]
		score, tier := scoreEntry(entry, lowered)
		if score == 0 {
			continue
		}
		matched = append(matched, scoredEntry{score: score, tier: tier, entry: entry})
	}

	sort.Slice(matched, func(i, j int) bool {
		return rankLess(matched[i], matched[j])
	})

	if len(matched) > limit {
		matched = matched[:limit]
	}

	results := make([]Result, len(matched))
	for i, m := range matched {
		results[i] = m.entry.View()
	}
	return results
}

// Entries returns the full current snapshot, unfiltered, in build order.
// The returned slice is shared with the snapshot and must not be mutated.
func (ix *Index) Entries() []Entry {
	return ix.snap.Load().entries
}

// Stats returns counts for the current snapshot.
func (ix *Index) Stats() Stats {
	snap := ix.snap.Load()
	return Stats{
		TotalEntries:  len(snap.entries),
		ExamplesCount: snap.examples,
		DocsCount:     snap.docs,
		BuiltAt:       snap.builtAt,
	}
}
