package rest

import (
	"context"
	"net/http"
	"time"

	"lineage/application/ports"
	querybus "lineage/application/queries/bus"
	"lineage/interfaces/http/rest/handlers"
	"lineage/interfaces/http/rest/middleware"
	pkgerrors "lineage/pkg/errors"
	"lineage/pkg/observability"
	"lineage/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// readinessTimeout bounds the upstream probe behind /ready
const readinessTimeout = 5 * time.Second

// Router creates and configures the HTTP router
type Router struct {
	queryBus     *querybus.QueryBus
	source       ports.ChartSource
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger

	metrics     *observability.Collector
	limiter     *ratelimit.IPRateLimiter
	corsOrigins []string
	page        http.Handler
}

// RouterOption configures optional router features
type RouterOption func(*Router)

// WithMetrics records request metrics and exposes GET /metrics
func WithMetrics(collector *observability.Collector) RouterOption {
	return func(rt *Router) {
		rt.metrics = collector
	}
}

// WithRateLimiter enables per-IP rate limiting of the API and page routes
func WithRateLimiter(limiter *ratelimit.IPRateLimiter) RouterOption {
	return func(rt *Router) {
		rt.limiter = limiter
	}
}

// WithCORS allows cross-origin reads from the given origins
func WithCORS(origins []string) RouterOption {
	return func(rt *Router) {
		rt.corsOrigins = origins
	}
}

// WithPage mounts the HTML chart page at /lineage
func WithPage(page http.Handler) RouterOption {
	return func(rt *Router) {
		rt.page = page
	}
}

// NewRouter creates a new router instance
func NewRouter(
	queryBus *querybus.QueryBus,
	source ports.ChartSource,
	errorHandler *pkgerrors.ErrorHandler,
	logger *zap.Logger,
	opts ...RouterOption,
) *Router {
	rt := &Router{
		queryBus:     queryBus,
		source:       source,
		errorHandler: errorHandler,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.RequestContext)
	router.Use(middleware.Logger(rt.logger))
	router.Use(rt.errorHandler.Middleware)
	if rt.metrics != nil {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if len(rt.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.corsOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusNotFound, "route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.HandleStatus(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})

	// Health check
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)
	if rt.metrics != nil {
		router.Method(http.MethodGet, "/metrics", rt.metrics.Handler())
	}

	router.Group(func(r chi.Router) {
		if rt.limiter != nil {
			r.Use(middleware.RateLimit(rt.limiter, rt.errorHandler, rt.logger))
		}

		r.Route("/api/v1/lineage", func(r chi.Router) {
			lineageHandler := handlers.NewLineageHandler(rt.queryBus, rt.errorHandler, rt.logger)
			r.Get("/", lineageHandler.GetChart)
			r.Get("/roots", lineageHandler.ListRoots)
			r.Get("/nodes/{nodeID}", lineageHandler.GetNode)
		})

		if rt.page != nil {
			r.Method(http.MethodGet, "/lineage", rt.page)
		}
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck reports ready once the chart source answers
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), readinessTimeout)
	defer cancel()

	if _, err := rt.source.ListNodes(ctx); err != nil {
		rt.logger.Warn("Readiness check failed", zap.Error(err))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
