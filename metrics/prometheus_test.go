package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheus_ObserveCheck(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := NewPrometheus(reg)

	collector.ObserveCheck("client-a", true)
	collector.ObserveCheck("client-a", true)
	collector.ObserveCheck("client-a", false)
	collector.ObserveCheck("client-b", false)

	require.Equal(t, float64(2),
		testutil.ToFloat64(collector.checks.WithLabelValues("client-a", "allowed")))
	require.Equal(t, float64(1),
		testutil.ToFloat64(collector.checks.WithLabelValues("client-a", "rejected")))
	require.Equal(t, float64(1),
		testutil.ToFloat64(collector.rejections.WithLabelValues("client-a")))
	require.Equal(t, float64(1),
		testutil.ToFloat64(collector.rejections.WithLabelValues("client-b")))

	// Keys that never saw a rejection have no rejection series.
	require.Equal(t, float64(0),
		testutil.ToFloat64(collector.rejections.WithLabelValues("client-c")))
}

func TestPrometheus_NilRegistererUsesDefault(t *testing.T) {
	// Registering against the default registry must not panic; unregister
	// afterwards so other tests can re-register the same metric names.
	collector := NewPrometheus(nil)
	defer func() {
		prometheus.Unregister(collector.checks)
		prometheus.Unregister(collector.rejections)
	}()

	collector.ObserveCheck("client", true)
	require.Equal(t, float64(1),
		testutil.ToFloat64(collector.checks.WithLabelValues("client", "allowed")))
}
