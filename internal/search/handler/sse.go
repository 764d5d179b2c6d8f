package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/patterngallery/pattern-search/internal/analytics"
	"github.com/patterngallery/pattern-search/internal/index"
	"github.com/patterngallery/pattern-search/pkg/middleware"
)

// SearchStream handles GET /api/v1/search/stream?q=... — the instant-search
// endpoint. Each request opens a short-lived Server-Sent Events stream that
// carries one ranked result set and then closes; the front end issues one
// request per keystroke.
func (h *Handler) SearchStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		h.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	start := time.Now()
	query := r.URL.Query().Get("q")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	var results []index.Result
	if query == "" {
		results = []index.Result{}
	} else {
		results = h.service.Search(query, h.defaultLimit)
	}

	payload, err := json.Marshal(SearchResponse{
		Query:     query,
		Results:   results,
		Count:     len(results),
		LatencyMs: time.Since(start).Milliseconds(),
	})
	if err != nil {
		h.logger.Error("failed to marshal stream payload", "error", err)
		return
	}

	fmt.Fprintf(w, "event: results\ndata: %s\n\n", payload)
	flusher.Flush()

	if query != "" {
		h.observeSearch(len(results), false, time.Since(start))
		if h.collector != nil {
			h.collector.Track(analytics.KeyQuery, analytics.QueryEvent{
				Type:      analytics.EventQuery,
				Query:     query,
				Returned:  len(results),
				LatencyMs: time.Since(start).Milliseconds(),
				Timestamp: time.Now().UTC(),
				RequestID: middleware.GetRequestID(r.Context()),
			})
		}
	}
}
