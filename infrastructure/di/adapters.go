package di

import (
	"time"

	querybus "lineage/application/queries/bus"
	"lineage/domain/services"
	"lineage/pkg/observability"

	"go.uber.org/zap"
)

// queryMetricsAdapter adapts the Prometheus collector to the query bus metrics interface
type queryMetricsAdapter struct {
	collector *observability.Collector
}

func (a *queryMetricsAdapter) StartTimer(metric, label string) querybus.Timer {
	return &queryTimer{collector: a.collector, query: label, start: time.Now()}
}

func (a *queryMetricsAdapter) Increment(metric, label string) {
	a.collector.IncrementCounter(metric, map[string]string{"query": label})
}

type queryTimer struct {
	collector *observability.Collector
	query     string
	start     time.Time
}

func (t *queryTimer) Stop() {
	t.collector.QueryDuration.WithLabelValues(t.query).Observe(time.Since(t.start).Seconds())
}

// truncationReporter logs and counts subtrees the renderer dropped
type truncationReporter struct {
	metrics *observability.Collector
	logger  *zap.Logger
}

func (r *truncationReporter) OnTruncated(event services.TruncationEvent) {
	r.metrics.IncrementCounter("render_truncations", map[string]string{"reason": string(event.Reason)})
	r.logger.Debug("Lineage subtree truncated",
		zap.String("nodeID", event.NodeID.String()),
		zap.String("name", event.Name),
		zap.Int("depth", event.Depth),
		zap.String("reason", string(event.Reason)),
	)
}
