package queries

import (
	"lineage/application/viewmodel"
	"lineage/domain/core/valueobjects"
	"lineage/pkg/utils"
)

// GetNodeDetailQuery represents a query for the inspector panel of one node
type GetNodeDetailQuery struct {
	NodeID valueobjects.NodeID `validate:"required"`
}

// Validate validates the GetNodeDetailQuery
func (q GetNodeDetailQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetNodeDetailResult is the inspector panel content
type GetNodeDetailResult = viewmodel.NodeDetail
