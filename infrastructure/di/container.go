package di

import (
	"lineage/application/queries/bus"
	"lineage/infrastructure/cache"
	"lineage/infrastructure/config"
	"lineage/infrastructure/contentapi"
	"lineage/interfaces/http/rest"
	"lineage/pkg/observability"
	"lineage/pkg/ratelimit"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *zap.Logger
	Metrics     *observability.Collector
	Tracer      *observability.Tracer
	Cache       *cache.InMemoryCache
	ChartSource *contentapi.CachedSource
	QueryBus    *bus.QueryBus
	Router      *rest.Router
	RateLimiter *ratelimit.IPRateLimiter
}

// Close stops background sweepers and flushes the logger
func (c *Container) Close() {
	if c.RateLimiter != nil {
		c.RateLimiter.Close()
	}
	if c.Cache != nil {
		c.Cache.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
}
