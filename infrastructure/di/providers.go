package di

import (
	"context"
	"fmt"

	"lineage/application/ports"
	"lineage/application/queries"
	querybus "lineage/application/queries/bus"
	queries_handlers "lineage/application/queries/handlers"
	domainconfig "lineage/domain/config"
	"lineage/domain/services"
	"lineage/infrastructure/cache"
	"lineage/infrastructure/config"
	"lineage/infrastructure/contentapi"
	"lineage/infrastructure/media"
	"lineage/interfaces/http/rest"
	"lineage/interfaces/http/web"
	pkgerrors "lineage/pkg/errors"
	"lineage/pkg/observability"
	"lineage/pkg/ratelimit"

	"go.uber.org/zap"
)

// metricsNamespace prefixes every exported Prometheus metric
const metricsNamespace = "lineage"

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	if cfg.LogLevel != "" {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// ProvideCollector creates the Prometheus metrics collector
func ProvideCollector() *observability.Collector {
	return observability.NewCollector(metricsNamespace)
}

// ProvideTracer creates the X-Ray tracer
func ProvideTracer(cfg *config.Config) *observability.Tracer {
	return observability.NewTracer(metricsNamespace, cfg.EnableTracing)
}

// ProvideCache creates the in-memory snapshot cache
func ProvideCache() *cache.InMemoryCache {
	return cache.NewInMemoryCache()
}

// ProvideContentClient creates the content API client
func ProvideContentClient(
	cfg *config.Config,
	tracer *observability.Tracer,
	metrics *observability.Collector,
	logger *zap.Logger,
) *contentapi.Client {
	return contentapi.NewClient(contentapi.ClientConfig{
		BaseURL: cfg.ContentAPIBaseURL,
		Timeout: cfg.ContentAPITimeout,
		Breaker: contentapi.DefaultBreakerConfig(),
	}, tracer, metrics, logger)
}

// ProvideChartSource wraps the content API client with the snapshot cache
func ProvideChartSource(
	client *contentapi.Client,
	snapshotCache ports.Cache,
	cfg *config.Config,
	metrics *observability.Collector,
	logger *zap.Logger,
) *contentapi.CachedSource {
	return contentapi.NewCachedSource(client, snapshotCache, int(cfg.CacheTTL.Seconds()), metrics, logger)
}

// ProvideImageResolver creates the media URL resolver
func ProvideImageResolver(cfg *config.Config) *media.Resolver {
	return media.NewResolver(cfg.StorageBaseURL, cfg.PlaceholderImage)
}

// ProvideChartConfig derives the chart business rules
func ProvideChartConfig(cfg *config.Config) (*domainconfig.ChartConfig, error) {
	chart := cfg.ChartConfig()
	if err := chart.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chart configuration: %w", err)
	}
	return chart, nil
}

// ProvideTruncationObserver reports dropped subtrees, or nothing when disabled
func ProvideTruncationObserver(
	chart *domainconfig.ChartConfig,
	metrics *observability.Collector,
	logger *zap.Logger,
) services.TruncationObserver {
	if !chart.ReportTruncations {
		return nil
	}
	return &truncationReporter{metrics: metrics, logger: logger}
}

// ProvideViewFactory creates the request-scoped chart view factory
func ProvideViewFactory(
	source ports.ChartSource,
	images ports.ImageResolver,
	chart *domainconfig.ChartConfig,
	observer services.TruncationObserver,
	logger *zap.Logger,
) *queries_handlers.ViewFactory {
	return queries_handlers.NewViewFactory(source, images, chart, observer, logger)
}

// QueryHandlerAdapter adapts specific query handlers to the generic interface
type QueryHandlerAdapter struct {
	handler func(context.Context, querybus.Query) (interface{}, error)
}

func (a *QueryHandlerAdapter) Handle(ctx context.Context, query querybus.Query) (interface{}, error) {
	return a.handler(ctx, query)
}

// ProvideQueryBus creates a query bus with registered handlers.
// Results are not memoised: every query renders from the CachedSource snapshot.
func ProvideQueryBus(
	views *queries_handlers.ViewFactory,
	source ports.ChartSource,
	images ports.ImageResolver,
	metrics *observability.Collector,
	logger *zap.Logger,
) (*querybus.QueryBus, error) {
	queryBus := querybus.NewQueryBus()

	timing := querybus.NewMetricsMiddleware(&queryMetricsAdapter{collector: metrics})

	// Register GetChartQuery handler
	getChartHandler := queries_handlers.NewGetChartHandler(views, logger)
	if err := queryBus.Register(queries.GetChartQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			chartQuery, ok := query.(queries.GetChartQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getChartHandler.Handle(ctx, chartQuery)
		},
	}, timing); err != nil {
		return nil, err
	}

	// Register ListRootsQuery handler
	listRootsHandler := queries_handlers.NewListRootsHandler(views, images, logger)
	if err := queryBus.Register(queries.ListRootsQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			listQuery, ok := query.(queries.ListRootsQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return listRootsHandler.Handle(ctx, listQuery)
		},
	}, timing); err != nil {
		return nil, err
	}

	// Register GetNodeDetailQuery handler
	getNodeDetailHandler := queries_handlers.NewGetNodeDetailHandler(views, source, images, logger)
	if err := queryBus.Register(queries.GetNodeDetailQuery{}, &QueryHandlerAdapter{
		handler: func(ctx context.Context, query querybus.Query) (interface{}, error) {
			detailQuery, ok := query.(queries.GetNodeDetailQuery)
			if !ok {
				return nil, fmt.Errorf("invalid query type")
			}
			return getNodeDetailHandler.Handle(ctx, detailQuery)
		},
	}, timing); err != nil {
		return nil, err
	}

	return queryBus, nil
}

// ProvideRateLimiter creates the per-IP limiter, or nil when limiting is off
func ProvideRateLimiter(cfg *config.Config) *ratelimit.IPRateLimiter {
	if cfg.RateLimitRPS <= 0 {
		return nil
	}
	return ratelimit.NewIPRateLimiter(cfg.RateLimitRPS)
}

// ProvideErrorHandler creates the JSON error writer
func ProvideErrorHandler(cfg *config.Config, logger *zap.Logger) *pkgerrors.ErrorHandler {
	return pkgerrors.NewErrorHandler(logger, cfg.IsDevelopment())
}

// ProvidePageHandler creates the HTML chart page
func ProvidePageHandler(queryBus *querybus.QueryBus, cfg *config.Config, logger *zap.Logger) (*web.PageHandler, error) {
	return web.NewPageHandler(queryBus, cfg.PlaceholderImage, logger)
}

// ProvideRouter assembles the HTTP router from the enabled features
func ProvideRouter(
	cfg *config.Config,
	queryBus *querybus.QueryBus,
	source ports.ChartSource,
	errorHandler *pkgerrors.ErrorHandler,
	page *web.PageHandler,
	metrics *observability.Collector,
	limiter *ratelimit.IPRateLimiter,
	logger *zap.Logger,
) *rest.Router {
	opts := []rest.RouterOption{rest.WithPage(page)}
	if cfg.EnableMetrics {
		opts = append(opts, rest.WithMetrics(metrics))
	}
	if limiter != nil {
		opts = append(opts, rest.WithRateLimiter(limiter))
	}
	if cfg.EnableCORS {
		opts = append(opts, rest.WithCORS(cfg.CORSOrigins))
	}
	return rest.NewRouter(queryBus, source, errorHandler, logger, opts...)
}
