// Package handler implements the HTTP API of the search service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/patterngallery/pattern-search/internal/analytics"
	"github.com/patterngallery/pattern-search/internal/index"
	"github.com/patterngallery/pattern-search/internal/search"
	"github.com/patterngallery/pattern-search/internal/search/cache"
	apperrors "github.com/patterngallery/pattern-search/pkg/errors"
	"github.com/patterngallery/pattern-search/pkg/logger"
	"github.com/patterngallery/pattern-search/pkg/metrics"
	"github.com/patterngallery/pattern-search/pkg/middleware"
	"github.com/patterngallery/pattern-search/pkg/tracing"
)

// SearchResponse is the JSON body returned from GET /api/v1/search.
type SearchResponse struct {
	Query     string         `json:"query"`
	Results   []index.Result `json:"results"`
	Count     int            `json:"count"`
	CacheHit  bool           `json:"cache_hit"`
	LatencyMs int64          `json:"latency_ms"`
}

// Handler serves the search service's HTTP API.
type Handler struct {
	service      *search.Service
	cache        *cache.ResultCache
	collector    *analytics.Collector
	metrics      *metrics.Metrics
	defaultLimit int
	maxResults   int
	traceEnabled bool
	logger       *slog.Logger
}

// New creates a Handler. cache, collector, and m may be nil, in which case
// the corresponding concern is disabled.
func New(service *search.Service, resultCache *cache.ResultCache, collector *analytics.Collector, m *metrics.Metrics, defaultLimit, maxResults int, traceEnabled bool) *Handler {
	if defaultLimit <= 0 {
		defaultLimit = index.DefaultLimit
	}
	if maxResults <= 0 {
		maxResults = 50
	}
	return &Handler{
		service:      service,
		cache:        resultCache,
		collector:    collector,
		metrics:      m,
		defaultLimit: defaultLimit,
		maxResults:   maxResults,
		traceEnabled: traceEnabled,
		logger:       slog.Default().With("component", "search-handler"),
	}
}

// Search handles GET /api/v1/search?q=...&limit=...
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	query := r.URL.Query().Get("q")

	limit := h.defaultLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			h.writeError(w, apperrors.HTTPStatusCode(apperrors.ErrInvalidLimit), "limit must be a positive integer")
			return
		}
		if parsed > h.maxResults {
			parsed = h.maxResults
		}
		limit = parsed
	}

	if query == "" {
		// Empty query is not an error; it returns an empty result set.
		if h.metrics != nil {
			h.metrics.SearchQueriesTotal.WithLabelValues("empty_query").Inc()
		}
		h.writeJSON(w, http.StatusOK, SearchResponse{
			Query:   query,
			Results: []index.Result{},
		})
		return
	}

	var span *tracing.Span
	if h.traceEnabled {
		ctx, span = tracing.StartSpan(ctx, "search", middleware.GetRequestID(ctx))
		span.SetAttr("query", query)
		span.SetAttr("limit", limit)
	}

	var results []index.Result
	cacheHit := false
	if h.cache != nil {
		results, cacheHit = h.cache.GetOrCompute(ctx, query, limit, func() []index.Result {
			return h.service.Search(query, limit)
		})
	} else {
		results = h.service.Search(query, limit)
	}

	latency := time.Since(start)
	if span != nil {
		span.SetAttr("returned", len(results))
		span.SetAttr("cache_hit", cacheHit)
		span.End()
		span.Log()
	}

	log.Info("search completed",
		"query", query,
		"returned", len(results),
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)

	h.observeSearch(len(results), cacheHit, latency)

	if h.collector != nil {
		h.collector.Track(analytics.KeyQuery, analytics.QueryEvent{
			Type:      analytics.EventQuery,
			Query:     query,
			Returned:  len(results),
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: middleware.GetRequestID(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, SearchResponse{
		Query:     query,
		Results:   results,
		Count:     len(results),
		CacheHit:  cacheHit,
		LatencyMs: latency.Milliseconds(),
	})
}

func (h *Handler) observeSearch(returned int, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	resultType := "hit"
	if returned == 0 {
		resultType = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchResultsCount.Observe(float64(returned))

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
}

// Entries handles GET /api/v1/entries and its /examples and /docs variants.
func (h *Handler) Entries(w http.ResponseWriter, r *http.Request) {
	entries := h.service.AllEntries()
	views := make([]index.Result, len(entries))
	for i := range entries {
		views[i] = entries[i].View()
	}
	h.writeJSON(w, http.StatusOK, map[string]any{"entries": views, "count": len(views)})
}

func (h *Handler) Examples(w http.ResponseWriter, r *http.Request) {
	views := h.service.Examples()
	h.writeJSON(w, http.StatusOK, map[string]any{"entries": views, "count": len(views)})
}

func (h *Handler) Docs(w http.ResponseWriter, r *http.Request) {
	views := h.service.Docs()
	h.writeJSON(w, http.StatusOK, map[string]any{"entries": views, "count": len(views)})
}

// Stats handles GET /api/v1/index/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Stats())
}

// Rebuild handles POST /api/v1/index/rebuild: full index reconstruction
// followed by cache invalidation.
func (h *Handler) Rebuild(w http.ResponseWriter, r *http.Request) {
	stats, elapsed := h.service.Rebuild()

	if h.cache != nil {
		if err := h.cache.Invalidate(r.Context()); err != nil {
			h.logger.Error("cache invalidation after rebuild failed", "error", err)
		}
	}
	if h.metrics != nil {
		h.metrics.IndexRebuildsTotal.WithLabelValues("success").Inc()
		h.metrics.IndexEntries.WithLabelValues(string(index.KindExample)).Set(float64(stats.ExamplesCount))
		h.metrics.IndexEntries.WithLabelValues(string(index.KindDoc)).Set(float64(stats.DocsCount))
	}
	if h.collector != nil {
		h.collector.Track(analytics.KeyRebuild, analytics.RebuildEvent{
			Type:          analytics.EventRebuild,
			TotalEntries:  stats.TotalEntries,
			ExamplesCount: stats.ExamplesCount,
			DocsCount:     stats.DocsCount,
			DurationMs:    elapsed.Milliseconds(),
			Timestamp:     time.Now().UTC(),
		})
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"status":      "rebuilt",
		"stats":       stats,
		"duration_ms": elapsed.Milliseconds(),
	})
}

// CacheStats handles GET /api/v1/cache/stats.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeJSON(w, http.StatusOK, map[string]string{"status": "disabled"})
		return
	}

	hits, misses := h.cache.Stats()
	if h.metrics != nil {
		h.metrics.CircuitBreakerState.WithLabelValues("query-cache").Set(float64(h.cache.BreakerState()))
	}
	total := hits + misses
	var hitRate float64
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"hits":     hits,
		"misses":   misses,
		"total":    total,
		"hit_rate": strconv.FormatFloat(hitRate, 'f', 1, 64) + "%",
		"breaker":  h.cache.BreakerState().String(),
	})
}

// CacheInvalidate handles POST /api/v1/cache/invalidate.
func (h *Handler) CacheInvalidate(w http.ResponseWriter, r *http.Request) {
	if h.cache == nil {
		h.writeError(w, apperrors.HTTPStatusCode(apperrors.ErrCacheDisabled), apperrors.ErrCacheDisabled.Error())
		return
	}

	if err := h.cache.Invalidate(r.Context()); err != nil {
		h.logger.Error("cache invalidation failed", "error", err)
		h.writeError(w, apperrors.HTTPStatusCode(err), "cache invalidation failed")
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
