package metrics

import (
	"mercator-hq/callisto/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// LoadMetrics tracks physical source loads.
//
// Metrics:
//   - callisto_data_loads_total: Total loads by source format and outcome
//   - callisto_data_load_duration_seconds: Load duration histogram by format
type LoadMetrics struct {
	// Load counter by format and status
	loadsTotal *prometheus.CounterVec

	// Load duration histogram by format
	loadDuration *prometheus.HistogramVec
}

// NewLoadMetrics creates and registers loader metrics with the provided registry.
func NewLoadMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *LoadMetrics {
	lm := &LoadMetrics{
		loadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "loads_total",
				Help:      "Total number of physical source loads",
			},
			[]string{"format", "status"},
		),

		loadDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "load_duration_seconds",
				Help:      "Physical source load duration in seconds",
				// Source files parse in milliseconds; SQLite and large
				// trees stretch toward a second.
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
			},
			[]string{"format"},
		),
	}

	registry.MustRegister(
		lm.loadsTotal,
		lm.loadDuration,
	)

	return lm
}

// RecordLoad records one physical load and its duration.
func (lm *LoadMetrics) RecordLoad(format, status string, seconds float64) {
	lm.loadsTotal.WithLabelValues(format, status).Inc()
	lm.loadDuration.WithLabelValues(format).Observe(seconds)
}
