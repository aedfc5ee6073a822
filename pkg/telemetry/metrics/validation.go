package metrics

import (
	"mercator-hq/callisto/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics tracks schema validation outcomes.
//
// Metrics:
//   - callisto_data_validations_total: Total validation passes by verdict
//   - callisto_data_validation_failures_total: Failed validations by dataset
type ValidationMetrics struct {
	// Validation counter by verdict
	validationsTotal *prometheus.CounterVec

	// Failure counter by dataset
	failuresTotal *prometheus.CounterVec
}

// NewValidationMetrics creates and registers validation metrics with the
// provided registry.
func NewValidationMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ValidationMetrics {
	vm := &ValidationMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validations_total",
				Help:      "Total number of schema validation passes",
			},
			[]string{"verdict"},
		),

		failuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_failures_total",
				Help:      "Total number of failed schema validations by dataset",
			},
			[]string{"dataset"},
		),
	}

	registry.MustRegister(
		vm.validationsTotal,
		vm.failuresTotal,
	)

	return vm
}

// RecordVerdict records one validation pass.
func (vm *ValidationMetrics) RecordVerdict(dataset string, valid bool) {
	if valid {
		vm.validationsTotal.WithLabelValues("valid").Inc()
		return
	}
	vm.validationsTotal.WithLabelValues("invalid").Inc()
	vm.failuresTotal.WithLabelValues(dataset).Inc()
}
