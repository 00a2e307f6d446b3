package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics are boring counters only: every value must be explainable by
// looking at a single launch Summary. A private registry keeps the status
// endpoint and textfile export free of Go runtime noise from other code.
type Metrics struct {
	registry *prometheus.Registry

	launches *prometheus.CounterVec
	nonZero  prometheus.Counter
	duration prometheus.Histogram
}

// NewMetrics creates metrics backed by a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		launches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lxcwrap_launches_total",
				Help: "Supervised launches by outcome",
			},
			[]string{"outcome"},
		),
		nonZero: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "lxcwrap_nonzero_exits_total",
				Help: "Launches where the child ran but exited non-zero",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lxcwrap_launch_duration_seconds",
				Help:    "Wall-clock duration of supervised launches",
				Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
			},
		),
	}

	m.registry.MustRegister(m.launches)
	m.registry.MustRegister(m.nonZero)
	m.registry.MustRegister(m.duration)

	return m
}

// Registry exposes the underlying registry for /metrics and textfile export.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Record updates all counters from one immutable Summary. This is the only
// way metrics change.
func (m *Metrics) Record(s *Summary) {
	m.launches.WithLabelValues(s.Outcome).Inc()
	m.duration.Observe(s.DurationSeconds)

	if s.Outcome == OutcomeExited && s.ExitCode != 0 {
		m.nonZero.Inc()
	}
}
