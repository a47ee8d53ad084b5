// Package server exposes the registry engine over HTTP: search, reload,
// stats, and health endpoints.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/civic-records/registry-search/internal/analytics"
	"github.com/civic-records/registry-search/internal/cache"
	"github.com/civic-records/registry-search/internal/loader"
	"github.com/civic-records/registry-search/internal/query"
	"github.com/civic-records/registry-search/internal/registry"
	"github.com/civic-records/registry-search/pkg/apperrors"
	"github.com/civic-records/registry-search/pkg/logger"
	"github.com/civic-records/registry-search/pkg/metrics"
)

// Handler serves the registry API. Cache, collector, and metrics are
// optional: a nil cache queries the engine directly, a nil collector tracks
// nothing, nil metrics record nothing.
type Handler struct {
	engine    *registry.Engine
	corpus    loader.Loader
	cache     *cache.QueryCache
	collector *analytics.Collector
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func New(engine *registry.Engine, corpus loader.Loader, queryCache *cache.QueryCache, collector *analytics.Collector, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:    engine,
		corpus:    corpus,
		cache:     queryCache,
		collector: collector,
		metrics:   m,
		logger:    slog.Default().With("component", "registry-handler"),
	}
}

// Search answers a conjunctive query from the surname, province, and year
// query parameters. Absent parameters are unconstrained; all absent returns
// the whole corpus. Values are matched verbatim against index keys.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()
	log := logger.FromContext(ctx)

	params := r.URL.Query()
	criteria := query.Criteria{
		Surname:  params.Get("surname"),
		Province: params.Get("province"),
		Year:     params.Get("year"),
	}

	var result *query.Result
	var err error
	cacheHit := false

	if h.cache != nil {
		result, cacheHit, err = h.cache.GetOrCompute(ctx, criteria, func() (*query.Result, error) {
			return h.engine.Query(criteria), nil
		})
	} else {
		result = h.engine.Query(criteria)
	}
	if err != nil {
		log.Error("search execution failed", "criteria", criteria, "error", err)
		h.writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	latency := time.Since(start)
	h.observeQuery(result, cacheHit, latency)

	log.Info("search completed",
		"surname", criteria.Surname,
		"province", criteria.Province,
		"year", criteria.Year,
		"total", result.Total,
		"cache_hit", cacheHit,
		"latency_ms", latency.Milliseconds(),
	)
	if h.collector != nil {
		eventType := analytics.EventQuery
		if result.Total == 0 {
			eventType = analytics.EventZeroResult
		}
		h.collector.TrackQuery(analytics.QueryEvent{
			Type:      eventType,
			Criteria:  criteria,
			Total:     result.Total,
			LatencyMs: latency.Milliseconds(),
			CacheHit:  cacheHit,
			Timestamp: time.Now().UTC(),
			RequestID: logger.RequestIDFromContext(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, result)
}

// Reload loads the corpus from the configured source and swaps in the
// freshly built index set. Queries in flight finish on the old snapshot.
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	lines, err := h.corpus.Load(ctx)
	if err != nil {
		log.Error("corpus load failed", "error", err)
		if h.metrics != nil {
			h.metrics.RebuildsTotal.WithLabelValues("error").Inc()
		}
		appErr := apperrors.Newf(apperrors.ErrLoaderUnavailable, http.StatusServiceUnavailable, "loading corpus: %v", err)
		h.writeError(w, apperrors.HTTPStatusCode(appErr), "corpus reload failed")
		return
	}

	stats := h.engine.Load(lines)
	if h.metrics != nil {
		h.metrics.RebuildsTotal.WithLabelValues("success").Inc()
		h.metrics.ObserveLoad(stats.Records, stats.SurnameKeys, stats.ProvinceKeys, stats.YearKeys,
			float64(stats.BuildMs)/1000)
	}

	// Cached results may reference positions from the discarded corpus.
	if h.cache != nil {
		if err := h.cache.Invalidate(ctx); err != nil {
			log.Error("cache invalidation after reload failed", "error", err)
		}
	}
	if h.collector != nil {
		h.collector.TrackReload(analytics.ReloadEvent{
			Type:         analytics.EventReload,
			Records:      stats.Records,
			SurnameKeys:  stats.SurnameKeys,
			ProvinceKeys: stats.ProvinceKeys,
			YearKeys:     stats.YearKeys,
			BuildMs:      stats.BuildMs,
			Timestamp:    time.Now().UTC(),
			RequestID:    logger.RequestIDFromContext(ctx),
		})
	}

	h.writeJSON(w, http.StatusOK, stats)
}

// Stats reports on the current snapshot and the query cache.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"engine": h.engine.Stats(),
	}
	if h.cache != nil {
		hits, misses := h.cache.Stats()
		response["cache"] = map[string]int64{
			"hits":   hits,
			"misses": misses,
		}
	}
	h.writeJSON(w, http.StatusOK, response)
}

func (h *Handler) observeQuery(result *query.Result, cacheHit bool, latency time.Duration) {
	if h.metrics == nil {
		return
	}
	resultType := "hit"
	if result.Total == 0 {
		resultType = "zero_result"
	}
	h.metrics.QueriesTotal.WithLabelValues(resultType).Inc()

	cacheStatus := "miss"
	if cacheHit {
		cacheStatus = "hit"
		h.metrics.CacheHitsTotal.Inc()
	} else if h.cache != nil {
		h.metrics.CacheMissesTotal.Inc()
	}
	h.metrics.QueryLatency.WithLabelValues(cacheStatus).Observe(latency.Seconds())
	h.metrics.QueryResultsCount.Observe(float64(result.Total))
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
