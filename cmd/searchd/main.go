package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patterngallery/pattern-search/internal/analytics"
	"github.com/patterngallery/pattern-search/internal/catalog"
	"github.com/patterngallery/pattern-search/internal/index"
	"github.com/patterngallery/pattern-search/internal/ratelimit"
	"github.com/patterngallery/pattern-search/internal/search"
	"github.com/patterngallery/pattern-search/internal/search/cache"
	"github.com/patterngallery/pattern-search/internal/search/handler"
	"github.com/patterngallery/pattern-search/pkg/config"
	"github.com/patterngallery/pattern-search/pkg/health"
	"github.com/patterngallery/pattern-search/pkg/kafka"
	"github.com/patterngallery/pattern-search/pkg/logger"
	"github.com/patterngallery/pattern-search/pkg/metrics"
	"github.com/patterngallery/pattern-search/pkg/middleware"
	"github.com/patterngallery/pattern-search/pkg/proto"
	pkgredis "github.com/patterngallery/pattern-search/pkg/redis"
	"github.com/patterngallery/pattern-search/pkg/rpc"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting search service", "port", cfg.Server.Port)

	cat := catalog.New(cfg.Catalog.DocsDir)
	ix := index.New(cat)
	svc := search.NewService(ix)
	stats := ix.Stats()
	slog.Info("search index built",
		"total_entries", stats.TotalEntries,
		"examples", stats.ExamplesCount,
		"docs", stats.DocsCount,
	)

	var resultCache *cache.ResultCache
	var redisClient *pkgredis.Client
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, search caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		resultCache = cache.New(redisClient, cfg.Redis)
		slog.Info("search cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	analyticsProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.SearchAnalytics)
	defer analyticsProducer.Close()
	collector := analytics.NewCollector(analyticsProducer, cfg.Analytics.BatchSize, cfg.Analytics.FlushInterval)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.Topics.SearchAnalytics)

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())

		m.IndexEntries.WithLabelValues(string(index.KindExample)).Set(float64(stats.ExamplesCount))
		m.IndexEntries.WithLabelValues(string(index.KindDoc)).Set(float64(stats.DocsCount))
	}

	checker := health.NewChecker()
	checker.Register("search_index", func(ctx context.Context) health.ComponentHealth {
		s := ix.Stats()
		if s.TotalEntries > 0 {
			return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d entries indexed", s.TotalEntries)}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "index is empty"}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(svc, resultCache, collector, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults, cfg.Tracing.Enabled)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/search/stream", h.SearchStream)
	mux.HandleFunc("GET /api/v1/entries", h.Entries)
	mux.HandleFunc("GET /api/v1/entries/examples", h.Examples)
	mux.HandleFunc("GET /api/v1/entries/docs", h.Docs)
	mux.HandleFunc("GET /api/v1/index/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/index/rebuild", h.Rebuild)
	mux.HandleFunc("GET /api/v1/cache/stats", h.CacheStats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	if cfg.RateLimit.Enabled {
		limiter := ratelimit.New(cfg.RateLimit.Window)
		chain = ratelimit.Middleware(limiter, cfg.RateLimit)(chain)
		slog.Info("rate limiting enabled",
			"requests_per_window", cfg.RateLimit.RequestsPerWindow,
			"window", cfg.RateLimit.Window,
		)
	}
	chain = middleware.CORS(middleware.DefaultCORSConfig())(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	var adminServer *rpc.Server
	if cfg.Admin.Enabled {
		adminServer = newAdminServer(svc, resultCache)
		go func() {
			if err := adminServer.Serve(fmt.Sprintf(":%d", cfg.Admin.Port)); err != nil {
				slog.Error("admin rpc server error", "error", err)
			}
		}()
		defer adminServer.Stop()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("search service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("search service stopped")
}

// newAdminServer exposes the search and index operations over the JSON-RPC
// admin port consumed by indexctl.
func newAdminServer(svc *search.Service, resultCache *cache.ResultCache) *rpc.Server {
	s := rpc.NewServer()

	s.Register("SearchService.Search", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var req proto.SearchRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("invalid search request: %w", err)
		}
		if req.Limit <= 0 {
			req.Limit = index.DefaultLimit
		}
		start := time.Now()
		results := svc.Search(req.Query, req.Limit)
		return &proto.SearchResponse{
			Query:     req.Query,
			Results:   toProtoResults(results),
			LatencyMs: time.Since(start).Milliseconds(),
		}, nil
	})

	s.Register("IndexService.Stats", func(ctx context.Context, raw json.RawMessage) (any, error) {
		stats := svc.Stats()
		return &proto.StatsResponse{
			TotalEntries:  stats.TotalEntries,
			ExamplesCount: stats.ExamplesCount,
			DocsCount:     stats.DocsCount,
			BuiltAtUnix:   stats.BuiltAt.Unix(),
		}, nil
	})

	s.Register("IndexService.Entries", func(ctx context.Context, raw json.RawMessage) (any, error) {
		var req proto.EntriesRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("invalid entries request: %w", err)
		}
		var views []index.Result
		switch req.Kind {
		case string(index.KindExample):
			views = svc.Examples()
		case string(index.KindDoc):
			views = svc.Docs()
		default:
			entries := svc.AllEntries()
			views = make([]index.Result, len(entries))
			for i := range entries {
				views[i] = entries[i].View()
			}
		}
		return &proto.EntriesResponse{Entries: toProtoResults(views)}, nil
	})

	s.Register("IndexService.Rebuild", func(ctx context.Context, raw json.RawMessage) (any, error) {
		stats, elapsed := svc.Rebuild()
		if resultCache != nil {
			if err := resultCache.Invalidate(ctx); err != nil {
				slog.Error("cache invalidation after rebuild failed", "error", err)
			}
		}
		return &proto.RebuildResponse{
			TotalEntries:  stats.TotalEntries,
			ExamplesCount: stats.ExamplesCount,
			DocsCount:     stats.DocsCount,
			DurationMs:    elapsed.Milliseconds(),
		}, nil
	})

	return s
}

func toProtoResults(results []index.Result) []proto.Result {
	out := make([]proto.Result, len(results))
	for i, r := range results {
		out[i] = proto.Result{
			Title:        r.Title,
			Description:  r.Description,
			URL:          r.URL,
			Kind:         string(r.Kind),
			Category:     r.Category,
			LearnMoreURL: r.LearnMoreURL,
		}
	}
	return out
}
