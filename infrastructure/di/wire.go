//go:build wireinject
// +build wireinject

package di

import (
	"lineage/application/ports"
	"lineage/infrastructure/cache"
	"lineage/infrastructure/config"
	"lineage/infrastructure/contentapi"
	"lineage/infrastructure/media"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideCollector,
	ProvideTracer,
	ProvideCache,
	ProvideContentClient,
	ProvideChartSource,
	ProvideImageResolver,
	ProvideChartConfig,
	ProvideTruncationObserver,
	ProvideViewFactory,
	ProvideQueryBus,
	ProvideRateLimiter,
	ProvideErrorHandler,
	ProvidePageHandler,
	ProvideRouter,
	wire.Bind(new(ports.Cache), new(*cache.InMemoryCache)),
	wire.Bind(new(ports.ChartSource), new(*contentapi.CachedSource)),
	wire.Bind(new(ports.ImageResolver), new(*media.Resolver)),
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil // Wire will replace this
}
