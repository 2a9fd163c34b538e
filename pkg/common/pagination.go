package common

import (
	"net/http"
	"strconv"
)

// PaginationParams represents pagination parameters
type PaginationParams struct {
	Page    int  `json:"page"`
	ShowAll bool `json:"show_all"`
}

// DefaultPaginationParams returns default pagination parameters
func DefaultPaginationParams() PaginationParams {
	return PaginationParams{
		Page: 1,
	}
}

// ExtractPaginationParams extracts pagination parameters from request
func ExtractPaginationParams(r *http.Request) PaginationParams {
	params := DefaultPaginationParams()

	// Extract page
	if page := r.URL.Query().Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			params.Page = p
		}
	}

	// Extract show-all toggle
	if all := r.URL.Query().Get("show_all"); all != "" {
		if b, err := strconv.ParseBool(all); err == nil {
			params.ShowAll = b
		}
	}

	return params
}

// CalculateOffset calculates the offset of the first item on the page
func CalculateOffset(page, pageSize int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize
}

// CalculateTotalPages calculates total number of pages
func CalculateTotalPages(total, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := total / pageSize
	if total%pageSize > 0 {
		pages++
	}
	return pages
}

// BuildPaginationMeta builds pagination metadata
func BuildPaginationMeta(page, pageSize, total int, showAll bool) *PaginationInfo {
	totalPages := CalculateTotalPages(total, pageSize)

	info := &PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		ShowAll:    showAll,
		HasNext:    !showAll && page < totalPages,
		HasPrev:    !showAll && page > 1,
	}
	return info
}
