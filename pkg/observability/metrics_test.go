package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCollector_IndependentRegistries(t *testing.T) {
	first := NewCollector("lineage")
	second := NewCollector("lineage")

	first.CacheHits.Inc()

	assert.Equal(t, float64(1), testutil.ToFloat64(first.CacheHits))
	assert.Equal(t, float64(0), testutil.ToFloat64(second.CacheHits))
}

func TestCollector_IncrementCounter(t *testing.T) {
	c := NewCollector("lineage")

	c.IncrementCounter("render_truncations", map[string]string{"reason": "depth"})
	c.IncrementCounter("render_truncations", map[string]string{"reason": "depth"})
	c.IncrementCounter("cache_misses", nil)
	c.IncrementCounter("unknown", nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.RenderTruncations.WithLabelValues("depth")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.CacheMisses))
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector("lineage")
	c.RenderTruncations.WithLabelValues("cycle").Inc()
	rec := httptest.NewRecorder()

	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lineage_render_truncations_total{reason="cycle"} 1`)
}

func TestTracer_DisabledRunsFunction(t *testing.T) {
	tracer := NewTracer("lineage", false)
	called := false

	err := tracer.TraceFunction(context.Background(), "fetch", func(ctx context.Context) error {
		called = true
		return errors.New("boom")
	})

	assert.True(t, called)
	assert.EqualError(t, err, "boom")
	assert.False(t, tracer.Enabled())
	tracer.AddAnnotation(context.Background(), "k", "v")
}
