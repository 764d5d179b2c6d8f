// Package search exposes the gallery search operations the web layer and
// admin tooling consume: ranked queries, entry listings, index statistics,
// and full rebuilds.
package search

import (
	"log/slog"
	"time"

	"github.com/patterngallery/pattern-search/internal/index"
)

// Service is the facade over the search index. It owns no state of its own;
// all reads go against the index's current snapshot.
type Service struct {
	index  *index.Index
	logger *slog.Logger
}

// NewService wraps an already-built index.
func NewService(ix *index.Index) *Service {
	return &Service{
		index:  ix,
		logger: slog.Default().With("component", "search-service"),
	}
}

// Search returns up to limit ranked results for query. Empty queries and
// non-positive limits yield no results.
func (s *Service) Search(query string, limit int) []index.Result {
	return s.index.Search(query, limit)
}

// AllEntries returns the full index snapshot in build order.
func (s *Service) AllEntries() []index.Entry {
	return s.index.Entries()
}

// Examples returns the views of all indexed example entries.
func (s *Service) Examples() []index.Result {
	return s.entriesByKind(index.KindExample)
}

// Docs returns the views of all indexed documentation entries.
func (s *Service) Docs() []index.Result {
	return s.entriesByKind(index.KindDoc)
}

func (s *Service) entriesByKind(kind index.Kind) []index.Result {
	entries := s.index.Entries()
	views := make([]index.Result, 0, len(entries))
	for i := range entries {
		if entries[i].Kind == kind {
			views = append(views, entries[i].View())
		}
	}
	return views
}

// Stats returns index-level counts.
func (s *Service) Stats() index.Stats {
	return s.index.Stats()
}

// Rebuild reconstructs the index from its source and returns the new stats
// along with the rebuild duration.
func (s *Service) Rebuild() (index.Stats, time.Duration) {
	start := time.Now()
	stats := s.index.Rebuild()
	elapsed := time.Since(start)
	s.logger.Info("index rebuild requested",
		"total_entries", stats.TotalEntries,
		"duration_ms", elapsed.Milliseconds(),
	)
	return stats, elapsed
}
