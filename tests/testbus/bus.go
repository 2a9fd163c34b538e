package testbus

import (
	"context"

	"lineage/application/ports"
	"lineage/application/queries"
	"lineage/application/queries/bus"
	"lineage/application/queries/handlers"

	"go.uber.org/zap"
)

// New builds a query bus wired to the real lineage query handlers over source
func New(source ports.ChartSource, images ports.ImageResolver) *bus.QueryBus {
	logger := zap.NewNop()
	views := handlers.NewViewFactory(source, images, nil, nil, logger)
	chart := handlers.NewGetChartHandler(views, logger)
	roots := handlers.NewListRootsHandler(views, images, logger)
	detail := handlers.NewGetNodeDetailHandler(views, source, images, logger)

	b := bus.NewQueryBus()
	_ = b.Register(queries.GetChartQuery{}, bus.QueryHandlerFunc(func(ctx context.Context, q bus.Query) (interface{}, error) {
		return chart.Handle(ctx, q.(queries.GetChartQuery))
	}))
	_ = b.Register(queries.ListRootsQuery{}, bus.QueryHandlerFunc(func(ctx context.Context, q bus.Query) (interface{}, error) {
		return roots.Handle(ctx, q.(queries.ListRootsQuery))
	}))
	_ = b.Register(queries.GetNodeDetailQuery{}, bus.QueryHandlerFunc(func(ctx context.Context, q bus.Query) (interface{}, error) {
		return detail.Handle(ctx, q.(queries.GetNodeDetailQuery))
	}))
	return b
}
