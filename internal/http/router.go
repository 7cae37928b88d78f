package http

import (
	"net/http"
	"time"

	"event-analytics/internal/ingestors"
	"event-analytics/internal/shared/configs"
	"event-analytics/internal/shared/loggers"
	"event-analytics/internal/shared/metrics"

	"github.com/go-chi/chi/v5"
)

// NewRouter creates and configures the HTTP router.
func NewRouter(ingestionService ingestors.IngestionService, store Pinger, serverCfg configs.ServerConfig, rateCfg configs.RateLimitConfig, httpLogger loggers.Logger) http.Handler {
	router := chi.NewRouter()
	setupMiddleware(router, httpLogger)

	// Initialize handlers
	captureHandler := NewCaptureBatchHandler(ingestionService, time.Duration(serverCfg.BatchTimeout)*time.Second)
	healthHandler := NewHealthHandler(store)
	limiter := newWriteKeyLimiter(rateCfg.RequestsPerSecond, rateCfg.Burst)

	// Routes
	router.With(mwRateLimit(limiter)).Post("/v1/batch", errorHandlingAdapter(captureHandler))
	router.Get("/healthz", errorHandlingAdapter(healthHandler))
	router.Get("/metrics", metrics.PromHTTP.Handler().ServeHTTP)

	return router
}
