package handlers

import (
	"context"
	"fmt"

	"lineage/application/ports"
	"lineage/application/queries"
	"lineage/application/viewmodel"
	pkgerrors "lineage/pkg/errors"

	"go.uber.org/zap"
)

// GetNodeDetailHandler builds the inspector panel for one node
type GetNodeDetailHandler struct {
	views  *ViewFactory
	source ports.ChartSource
	images ports.ImageResolver
	logger *zap.Logger
}

// NewGetNodeDetailHandler creates a new node detail handler
func NewGetNodeDetailHandler(views *ViewFactory, source ports.ChartSource, images ports.ImageResolver, logger *zap.Logger) *GetNodeDetailHandler {
	return &GetNodeDetailHandler{
		views:  views,
		source: source,
		images: images,
		logger: logger,
	}
}

// Handle executes the node detail query
func (h *GetNodeDetailHandler) Handle(ctx context.Context, query queries.GetNodeDetailQuery) (*queries.GetNodeDetailResult, error) {
	if err := query.Validate(); err != nil {
		return nil, pkgerrors.NewValidationError(err.Error())
	}

	view, err := h.views.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer view.Close()

	if err := view.Select(query.NodeID); err == nil {
		detail, _ := view.Detail()
		return detail, nil
	} else if !pkgerrors.IsNotFound(err) {
		return nil, err
	}

	// Deep link to a node the list endpoint did not return
	h.logger.Debug("Node not in chart snapshot, fetching directly",
		zap.String("nodeID", query.NodeID.String()),
	)
	node, err := h.source.GetNode(ctx, query.NodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get chart node: %w", err)
	}
	if node == nil {
		return nil, pkgerrors.NewNotFoundError("chart node " + query.NodeID.String())
	}

	return viewmodel.BuildNodeDetail(node, view.Lineage(), h.images, h.views.Config()), nil
}
