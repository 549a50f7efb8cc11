package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveResolve_IncrementsLabeledCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg)

	m.ObserveResolve("ok", 0.01)
	m.ObserveResolve("fallback", 0.02)

	assert.Equal(t, float64(1), counterValue(t, m.ResolveRequestsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), counterValue(t, m.ResolveRequestsTotal.WithLabelValues("fallback")))
}

func TestObserveFeedback_IncrementsLabeledCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg)

	m.ObserveFeedback("logged_for_learning")
	m.ObserveFeedback("logged_for_learning")

	assert.Equal(t, float64(2), counterValue(t, m.FeedbackTotal.WithLabelValues("logged_for_learning")))
}

func TestNewRegistry_GaugesStartAtZero(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRegistry(reg)

	var gm dto.Metric
	require.NoError(t, m.FastMemorySize.Write(&gm))
	assert.Equal(t, float64(0), gm.GetGauge().GetValue())
}
