package handlers

import (
	"context"
	"fmt"

	"lineage/application/queries"

	"go.uber.org/zap"
)

// GetChartHandler renders one page of the lineage forest
type GetChartHandler struct {
	views  *ViewFactory
	logger *zap.Logger
}

// NewGetChartHandler creates a new chart handler
func NewGetChartHandler(views *ViewFactory, logger *zap.Logger) *GetChartHandler {
	return &GetChartHandler{
		views:  views,
		logger: logger,
	}
}

// Handle executes the chart query
func (h *GetChartHandler) Handle(ctx context.Context, query queries.GetChartQuery) (*queries.GetChartResult, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}

	view, err := h.views.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer view.Close()

	if query.ShowAll {
		view.ShowAll()
	} else {
		view.GoToPage(query.Page)
	}

	trees := view.Trees()
	pagination := view.Pagination()

	h.logger.Debug("Chart rendered",
		zap.String("viewID", view.ID()),
		zap.Int("page", pagination.Page),
		zap.Bool("showAll", query.ShowAll),
		zap.Int("treeCount", len(trees)),
	)

	return &queries.GetChartResult{
		Trees:      trees,
		NodeCount:  view.Lineage().Size(),
		RootCount:  pagination.Total,
		MaxDepth:   h.views.Config().MaxDepth,
		Pagination: pagination,
	}, nil
}
