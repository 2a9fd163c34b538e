package queries

import (
	"lineage/domain/core/valueobjects"
	"lineage/pkg/common"
	"lineage/pkg/utils"
)

// ListRootsQuery represents a query for one page of master teachers
type ListRootsQuery struct {
	Page    int `validate:"min=1"`
	ShowAll bool
}

// Validate validates the ListRootsQuery
func (q ListRootsQuery) Validate() error {
	return utils.ValidateStruct(q)
}

// ListRootsResult represents the root list
type ListRootsResult struct {
	Roots      []RootSummary          `json:"roots"`
	TotalCount int                    `json:"total_count"`
	Pagination *common.PaginationInfo `json:"pagination"`
}

// RootSummary is a lightweight root view
type RootSummary struct {
	ID           valueobjects.NodeID `json:"id"`
	UniqueID     string              `json:"unique_id"`
	Name         string              `json:"name"`
	ImageURL     string              `json:"image_url"`
	StudentCount int                 `json:"student_count"`
}
