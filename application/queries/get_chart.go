package queries

import (
	"lineage/domain/services"
	"lineage/pkg/common"
	"lineage/pkg/utils"
)

// GetChartQuery represents a query for one page of the rendered lineage forest
type GetChartQuery struct {
	Page    int `validate:"min=1"`
	ShowAll bool
}

// Validate validates the GetChartQuery
func (q GetChartQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// GetChartResult represents the rendered chart for the requested page
type GetChartResult struct {
	Trees      []*services.TreeNode   `json:"trees"`
	NodeCount  int                    `json:"node_count"`
	RootCount  int                    `json:"roots_total"`
	MaxDepth   int                    `json:"max_depth"`
	Pagination *common.PaginationInfo `json:"pagination"`
}
