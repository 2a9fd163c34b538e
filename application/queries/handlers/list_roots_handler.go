package handlers

import (
	"context"
	"fmt"

	"lineage/application/ports"
	"lineage/application/queries"

	"go.uber.org/zap"
)

// ListRootsHandler lists every master teacher with its direct student count
type ListRootsHandler struct {
	views  *ViewFactory
	images ports.ImageResolver
	logger *zap.Logger
}

// NewListRootsHandler creates a new list roots handler
func NewListRootsHandler(views *ViewFactory, images ports.ImageResolver, logger *zap.Logger) *ListRootsHandler {
	return &ListRootsHandler{
		views:  views,
		images: images,
		logger: logger,
	}
}

// Handle executes the list roots query
func (h *ListRootsHandler) Handle(ctx context.Context, query queries.ListRootsQuery) (*queries.ListRootsResult, error) {
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

	lineage := view.Lineage()
	roots := view.VisibleRoots()
	pagination := view.Pagination()
	result := &queries.ListRootsResult{
		Roots:      make([]queries.RootSummary, 0, len(roots)),
		TotalCount: pagination.Total,
		Pagination: pagination,
	}
	for _, root := range roots {
		imageURL := root.ImageRef()
		if h.images != nil {
			imageURL = h.images.Resolve(imageURL)
		}
		result.Roots = append(result.Roots, queries.RootSummary{
			ID:           root.ID,
			UniqueID:     root.UniqueID,
			Name:         root.Name,
			ImageURL:     imageURL,
			StudentCount: len(lineage.Students(root.ID)),
		})
	}

	return result, nil
}
