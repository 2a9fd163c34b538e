package bus

import "context"

// Middleware decorates a query handler
type Middleware interface {
	Wrap(next QueryHandler) QueryHandler
}

func chain(handler QueryHandler, middlewares []Middleware) QueryHandler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i].Wrap(handler)
	}
	return handler
}

// Metrics receives per-query counters and timings
type Metrics interface {
	StartTimer(metric, label string) Timer
	Increment(metric, label string)
}

// Timer is a running duration measurement
type Timer interface {
	Stop()
}

// MetricsMiddleware counts and times queries, labelled by query type
type MetricsMiddleware struct {
	metrics Metrics
}

func NewMetricsMiddleware(metrics Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: metrics}
}

func (m *MetricsMiddleware) Wrap(next QueryHandler) QueryHandler {
	return QueryHandlerFunc(func(ctx context.Context, query Query) (interface{}, error) {
		name := queryName(query)
		timer := m.metrics.StartTimer("query_duration", name)
		defer timer.Stop()

		m.metrics.Increment("query_count", name)
		result, err := next.Handle(ctx, query)
		if err != nil {
			m.metrics.Increment("query_errors", name)
			return nil, err
		}
		m.metrics.Increment("query_success", name)
		return result, nil
	})
}
