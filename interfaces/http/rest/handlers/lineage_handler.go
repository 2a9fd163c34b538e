package handlers

import (
	"net/http"

	"lineage/application/queries"
	querybus "lineage/application/queries/bus"
	"lineage/domain/core/valueobjects"
	"lineage/pkg/common"
	pkgerrors "lineage/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LineageHandler handles lineage chart HTTP requests
type LineageHandler struct {
	queryBus     *querybus.QueryBus
	errorHandler *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewLineageHandler creates a new lineage handler
func NewLineageHandler(queryBus *querybus.QueryBus, errorHandler *pkgerrors.ErrorHandler, logger *zap.Logger) *LineageHandler {
	return &LineageHandler{
		queryBus:     queryBus,
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// GetChart handles GET /lineage
func (h *LineageHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)

	query := queries.GetChartQuery{
		Page:    params.Page,
		ShowAll: params.ShowAll,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to get lineage chart",
			zap.Int("page", params.Page),
			zap.Bool("showAll", params.ShowAll),
			zap.Error(err),
		)
		h.errorHandler.Handle(w, r, err)
		return
	}

	chart, ok := result.(*queries.GetChartResult)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected chart result type"))
		return
	}

	common.RespondWithMeta(w, http.StatusOK, chart, common.NewMetaInfo(r, chart.Pagination))
}

// ListRoots handles GET /lineage/roots
func (h *LineageHandler) ListRoots(w http.ResponseWriter, r *http.Request) {
	params := common.ExtractPaginationParams(r)

	query := queries.ListRootsQuery{
		Page:    params.Page,
		ShowAll: params.ShowAll,
	}

	result, err := h.queryBus.Ask(r.Context(), query)
	if err != nil {
		h.logger.Error("Failed to list lineage roots",
			zap.Int("page", params.Page),
			zap.Error(err),
		)
		h.errorHandler.Handle(w, r, err)
		return
	}

	roots, ok := result.(*queries.ListRootsResult)
	if !ok {
		h.errorHandler.Handle(w, r, pkgerrors.NewInternalError("unexpected roots result type"))
		return
	}

	common.RespondWithMeta(w, http.StatusOK, roots, common.NewMetaInfo(r, roots.Pagination))
}

// GetNode handles GET /lineage/nodes/{nodeID}
func (h *LineageHandler) GetNode(w http.ResponseWriter, r *http.Request) {
	nodeID, err := valueobjects.NewNodeIDFromString(chi.URLParam(r, "nodeID"))
	if err != nil {
		h.errorHandler.Handle(w, r, pkgerrors.NewValidationError(err.Error()).WithCode("INVALID_NODE_ID"))
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetNodeDetailQuery{NodeID: nodeID})
	if err != nil {
		if !pkgerrors.IsNotFound(err) {
			h.logger.Error("Failed to get lineage node",
				zap.String("nodeID", nodeID.String()),
				zap.Error(err),
			)
		}
		h.errorHandler.Handle(w, r, err)
		return
	}

	common.RespondJSON(w, http.StatusOK, result)
}
