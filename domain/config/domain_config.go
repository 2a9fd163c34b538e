package config

import (
	"errors"
	"strings"
)

// ChartConfig holds the business rules of the lineage chart
type ChartConfig struct {
	// Pagination of root nodes
	PageSize int

	// Rendering
	MaxDepth int

	// Presentation
	PlaceholderImage string
	BiographyRoute   string // must contain {id}
	EmptyMessage     string

	// Feature flags
	ReportTruncations bool
}

// DefaultChartConfig returns the default chart configuration
func DefaultChartConfig() *ChartConfig {
	return &ChartConfig{
		PageSize:          10,
		MaxDepth:          5,
		PlaceholderImage:  "/static/img/placeholder-person.png",
		BiographyRoute:    "/awlyaa/{id}",
		EmptyMessage:      "No relationships recorded for this person.",
		ReportTruncations: true,
	}
}

// Validate checks if the configuration is valid
func (c *ChartConfig) Validate() error {
	if c.PageSize <= 0 {
		return errors.New("page size must be positive")
	}
	if c.MaxDepth < 0 {
		return errors.New("max depth cannot be negative")
	}
	if c.BiographyRoute != "" && !strings.Contains(c.BiographyRoute, "{id}") {
		return errors.New("biography route must contain {id}")
	}
	return nil
}
