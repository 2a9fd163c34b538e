package contentapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lineage/domain/core/entities"
	"lineage/domain/core/valueobjects"
	"lineage/pkg/common"
	pkgerrors "lineage/pkg/errors"
	"lineage/pkg/observability"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

const (
	serviceName = "content API"

	// ChartsPath is the collection path of chart nodes on the content API
	ChartsPath = "/awlyaa-charts"

	// DefaultTimeout bounds a single request to the content API
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 16 << 20
)

// BreakerConfig holds configuration for the content API circuit breaker
type BreakerConfig struct {
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns the default breaker configuration
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// ClientConfig configures the content API client
type ClientConfig struct {
	BaseURL string
	Timeout time.Duration
	Breaker BreakerConfig
}

// Client fetches chart nodes from the remote content API.
// It implements ports.ChartSource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	normalizer *Normalizer
	tracer     *observability.Tracer
	metrics    *observability.Collector
	logger     *zap.Logger
}

// NewClient creates a new content API client. tracer and metrics may be nil.
func NewClient(cfg ClientConfig, tracer *observability.Tracer, metrics *observability.Collector, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Breaker == (BreakerConfig{}) {
		cfg.Breaker = DefaultBreakerConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		normalizer: NewNormalizer(logger),
		tracer:     tracer,
		metrics:    metrics,
		logger:     logger,
	}

	breakerCfg := cfg.Breaker
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "content-api",
		MaxRequests: breakerCfg.MaxRequests,
		Interval:    breakerCfg.Interval,
		Timeout:     breakerCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < breakerCfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= breakerCfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if metrics != nil {
				metrics.BreakerState.Set(float64(to))
			}
		},
		// A missing node is an answer, not an outage
		IsSuccessful: func(err error) bool {
			return err == nil || pkgerrors.IsNotFound(err)
		},
	})

	return c
}

// ListNodes retrieves the full chart-node list
func (c *Client) ListNodes(ctx context.Context) ([]*entities.ChartNode, error) {
	var nodes []*entities.ChartNode
	err := c.tracer.TraceFunction(ctx, "contentapi.ListNodes", func(ctx context.Context) error {
		body, err := c.get(ctx, "list", ChartsPath)
		if err != nil {
			return err
		}
		nodes, err = c.normalizer.NormalizeList(body)
		if err != nil {
			return pkgerrors.NewExternalError(serviceName, err)
		}
		c.tracer.AddMetadata(ctx, "nodeCount", len(nodes))
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched chart nodes", zap.Int("count", len(nodes)))
	return nodes, nil
}

// GetNode retrieves a single node by its ID
func (c *Client) GetNode(ctx context.Context, id valueobjects.NodeID) (*entities.ChartNode, error) {
	var node *entities.ChartNode
	err := c.tracer.TraceFunction(ctx, "contentapi.GetNode", func(ctx context.Context) error {
		c.tracer.AddAnnotation(ctx, "nodeID", id.String())
		body, err := c.get(ctx, "node", ChartsPath+"/"+id.String())
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return pkgerrors.NewNotFoundError("chart node " + id.String())
			}
			return err
		}
		node, err = c.normalizer.NormalizeNode(body)
		if err != nil {
			return pkgerrors.NewExternalError(serviceName, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return node, nil
}

// get performs a GET through the circuit breaker and returns the body of a 2xx response
func (c *Client) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	start := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, path)
	})
	c.observe(endpoint, start, err)

	meta := common.ExtractMetadata(ctx)
	c.logger.Debug("Content API request",
		zap.String("path", path),
		zap.String("requestID", meta.RequestID),
		zap.String("viewID", meta.ViewID),
		zap.Duration("duration", time.Since(start)),
		zap.Duration("sinceRequestStart", meta.Duration),
		zap.Bool("failed", err != nil),
	)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("Content API request rejected by circuit breaker",
				zap.String("path", path),
				zap.Error(err),
			)
			return nil, pkgerrors.NewUnavailableError(serviceName).WithCause(err)
		}
		return nil, err
	}
	return result.([]byte), nil
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, pkgerrors.NewInternalError("failed to build content API request").WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if requestID, ok := common.GetRequestID(ctx); ok && requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, pkgerrors.NewTimeoutError("GET " + path).WithCause(err)
		}
		return nil, pkgerrors.NewNetworkError("content API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, pkgerrors.NewNetworkError("failed to read content API response", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.NewNotFoundError(path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, pkgerrors.NewExternalError(serviceName, fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)).
			WithDetails(map[string]interface{}{"status": resp.StatusCode})
	}

	return body, nil
}

func (c *Client) observe(endpoint string, start time.Time, err error) {
	if c.metrics == nil {
		return
	}
	status := "ok"
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		status = strconv.Itoa(appErr.HTTPStatus)
	} else if err != nil {
		status = "error"
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, status).Inc()
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func isTimeout(err error) bool {
	var timeout interface{ Timeout() bool }
	return errors.As(err, &timeout) && timeout.Timeout()
}
