package contentapi

import (
	"context"

	"lineage/application/ports"
	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
	"lineage/pkg/observability"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	listCacheKey    = "contentapi:nodes"
	nodeCachePrefix = "contentapi:node:"
)

// CachedSource keeps the latest chart snapshot for a TTL and coalesces
// concurrent misses into a single upstream fetch
type CachedSource struct {
	upstream ports.ChartSource
	cache    ports.Cache
	ttl      int // seconds
	group    singleflight.Group
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewCachedSource wraps upstream with a TTL cache. metrics may be nil.
func NewCachedSource(upstream ports.ChartSource, cache ports.Cache, ttlSeconds int, metrics *observability.Collector, logger *zap.Logger) *CachedSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSource{
		upstream: upstream,
		cache:    cache,
		ttl:      ttlSeconds,
		metrics:  metrics,
		logger:   logger,
	}
}

// ListNodes returns the cached snapshot or fetches a fresh one
func (s *CachedSource) ListNodes(ctx context.Context) ([]*entities.ChartNode, error) {
	if cached, ok := s.cache.Get(ctx, listCacheKey); ok {
		if nodes, ok := cached.([]*entities.ChartNode); ok {
			s.hit()
			return nodes, nil
		}
	}
	s.miss()

	// The shared fetch must outlive any single caller's cancellation
	result, err, shared := s.group.Do(listCacheKey, func() (interface{}, error) {
		nodes, err := s.upstream.ListNodes(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, listCacheKey, nodes, s.ttl); err != nil {
			s.logger.Warn("Failed to cache chart snapshot", zap.Error(err))
		}
		return nodes, nil
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.Debug("Chart fetch coalesced with an in-flight request")
	}
	return result.([]*entities.ChartNode), nil
}

// GetNode looks the node up in the cached snapshot first, then fetches it directly
func (s *CachedSource) GetNode(ctx context.Context, id valueobjects.NodeID) (*entities.ChartNode, error) {
	if cached, ok := s.cache.Get(ctx, listCacheKey); ok {
		if nodes, ok := cached.([]*entities.ChartNode); ok {
			for _, node := range nodes {
				if node != nil && node.ID == id {
					s.hit()
					return node, nil
				}
			}
		}
	}

	key := nodeCachePrefix + id.String()
	if cached, ok := s.cache.Get(ctx, key); ok {
		if node, ok := cached.(*entities.ChartNode); ok {
			s.hit()
			return node, nil
		}
	}
	s.miss()

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		node, err := s.upstream.GetNode(context.WithoutCancel(ctx), id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, key, node, s.ttl); err != nil {
			s.logger.Warn("Failed to cache chart node", zap.String("nodeID", id.String()), zap.Error(err))
		}
		return node, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*entities.ChartNode), nil
}

func (s *CachedSource) hit() {
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
}

func (s *CachedSource) miss() {
	if s.metrics != nil {
		s.metrics.CacheMisses.Inc()
	}
}
