package handlers

import (
	"context"

	"lineage/application/ports"
	"lineage/application/viewmodel"
	"lineage/domain/config"
	"lineage/domain/services"

	"go.uber.org/zap"
)

// ViewFactory opens a fresh, request-scoped chart view over the shared chart source
type ViewFactory struct {
	source   ports.ChartSource
	images   ports.ImageResolver
	cfg      *config.ChartConfig
	observer services.TruncationObserver
	logger   *zap.Logger
}

// NewViewFactory creates a new view factory
func NewViewFactory(
	source ports.ChartSource,
	images ports.ImageResolver,
	cfg *config.ChartConfig,
	observer services.TruncationObserver,
	logger *zap.Logger,
) *ViewFactory {
	if cfg == nil {
		cfg = config.DefaultChartConfig()
	}
	return &ViewFactory{
		source:   source,
		images:   images,
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}
}

// Config returns the chart configuration used by new views
func (f *ViewFactory) Config() *config.ChartConfig {
	return f.cfg
}

// Open creates a view and loads it. The caller must Close the view.
func (f *ViewFactory) Open(ctx context.Context) (*viewmodel.ChartView, error) {
	view := viewmodel.NewChartView(f.source, f.cfg,
		viewmodel.WithImages(f.images),
		viewmodel.WithObserver(f.observer),
		viewmodel.WithLogger(f.logger),
	)
	if err := view.Load(ctx); err != nil {
		view.Close()
		return nil, err
	}
	return view, nil
}
