// Package metrics provides a Prometheus-backed implementation of the
// ratelimiter.MetricsCollector interface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus counts rate limit checks and rejections.
//
// Both metrics are labeled with the limiter key, so keep key cardinality in
// mind: per-client keys (IP addresses, API keys) can produce a large number
// of series. Use a coarser KeyFunc if that is a concern.
type Prometheus struct {
	checks     *prometheus.CounterVec
	rejections *prometheus.CounterVec
}

// NewPrometheus creates a collector registered with reg.
// A nil registerer falls back to the default Prometheus registry.
//
// Example:
//
//	collector := metrics.NewPrometheus(nil)
//	mw := nethttp.Middleware(limiter, ratelimiter.WithMetrics(collector))
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Prometheus{
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimiter_checks_total",
				Help: "Total number of rate limit checks performed",
			},
			[]string{"key", "result"},
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ratelimiter_rejections_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"key"},
		),
	}
}

// ObserveCheck implements ratelimiter.MetricsCollector.
func (p *Prometheus) ObserveCheck(key string, allowed bool) {
	result := "allowed"
	if !allowed {
		result = "rejected"
		p.rejections.WithLabelValues(key).Inc()
	}
	p.checks.WithLabelValues(key, result).Inc()
}
