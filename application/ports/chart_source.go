package ports

import (
	"context"

	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
)

// ChartSource supplies chart nodes from the content API.
// This is a port in hexagonal architecture - the application doesn't know about the transport.
type ChartSource interface {
	// ListNodes retrieves the full chart-node list
	ListNodes(ctx context.Context) ([]*entities.ChartNode, error)

	// GetNode retrieves a single node by its ID
	GetNode(ctx context.Context, id valueobjects.NodeID) (*entities.ChartNode, error)
}

// ImageResolver turns a node's image reference into a displayable URL
type ImageResolver interface {
	Resolve(ref string) string
}

// Cache defines the interface for caching
type Cache interface {
	Get(ctx context.Context, key string) (interface{}, bool)
	Set(ctx context.Context, key string, value interface{}, ttl int) error
	Delete(ctx context.Context, key string) error
}
