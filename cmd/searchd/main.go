package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/civic-records/registry-search/internal/analytics"
	"github.com/civic-records/registry-search/internal/cache"
	"github.com/civic-records/registry-search/internal/loader"
	"github.com/civic-records/registry-search/internal/registry"
	"github.com/civic-records/registry-search/internal/server"
	"github.com/civic-records/registry-search/pkg/config"
	"github.com/civic-records/registry-search/pkg/health"
	"github.com/civic-records/registry-search/pkg/kafka"
	"github.com/civic-records/registry-search/pkg/logger"
	"github.com/civic-records/registry-search/pkg/metrics"
	"github.com/civic-records/registry-search/pkg/middleware"
	pkgredis "github.com/civic-records/registry-search/pkg/redis"
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
	slog.Info("starting registry search service", "port", cfg.Server.Port, "corpus_source", cfg.Corpus.Source)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	corpusLoader, err := loader.FromConfig(cfg.Corpus, cfg.Postgres)
	if err != nil {
		slog.Error("failed to create corpus loader", "error", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	engine := registry.New()
	lines, err := corpusLoader.Load(ctx)
	if err != nil {
		slog.Error("initial corpus load failed", "error", err)
		os.Exit(1)
	}
	stats := engine.Load(lines)
	if m != nil {
		m.RebuildsTotal.WithLabelValues("success").Inc()
		m.ObserveLoad(stats.Records, stats.SurnameKeys, stats.ProvinceKeys, stats.YearKeys,
			float64(stats.BuildMs)/1000)
	}

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled",
			"addr", cfg.Redis.Addr,
			"ttl", cfg.Redis.CacheTTL,
		)
	}

	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.QueryEvents)
	defer producer.Close()
	collector := analytics.NewCollector(producer, 10000)
	collector.Start(ctx)
	defer collector.Close()
	slog.Info("analytics collector started", "topic", cfg.Kafka.QueryEvents)

	checker := health.NewChecker()
	checker.Register("registry_engine", func(ctx context.Context) health.ComponentHealth {
		s := engine.Stats()
		if s.Records > 0 {
			return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d records", s.Records)}
		}
		return health.ComponentHealth{Status: health.StatusDegraded, Message: "empty corpus"}
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

	h := server.New(engine, corpusLoader, queryCache, collector, m)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("POST /api/v1/reload", h.Reload)
	mux.HandleFunc("GET /api/v1/stats", h.Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if m != nil {
		chain = middleware.Metrics(m)(chain)
	}
	if cfg.RateLimit.Enabled {
		chain = middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)(chain)
	}
	chain = middleware.RequestID(chain)

	srv := &http.Server{
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
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("registry search service listening", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("registry search service stopped")
}
