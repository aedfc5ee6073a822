package metrics

import (
	"mercator-hq/callisto/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// CacheMetrics tracks cache performance metrics.
//
// Metrics:
//   - callisto_data_cache_hits_total: Total cache hits by cache name
//   - callisto_data_cache_misses_total: Total cache misses by cache name
//   - callisto_data_cache_entries: Current number of entries in cache
//   - callisto_data_cache_invalidations_total: Total explicit invalidations
//
// The cache label distinguishes the dataset cache from the schema
// library.
type CacheMetrics struct {
	// Cache hit counter
	hitsTotal *prometheus.CounterVec

	// Cache miss counter
	missesTotal *prometheus.CounterVec

	// Current cache size (entries)
	entries *prometheus.GaugeVec

	// Explicit invalidation counter
	invalidationsTotal *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics with the provided registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Current number of entries in cache",
			},
			[]string{"cache"},
		),

		invalidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_invalidations_total",
				Help:      "Total number of explicit cache invalidations",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.entries,
		cm.invalidationsTotal,
	)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit(cacheName string) {
	cm.hitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss(cacheName string) {
	cm.missesTotal.WithLabelValues(cacheName).Inc()
}

// UpdateSize updates the current size of a cache.
func (cm *CacheMetrics) UpdateSize(cacheName string, size int) {
	cm.entries.WithLabelValues(cacheName).Set(float64(size))
}

// RecordInvalidation records an explicit invalidation: invalidate(id),
// clear(), or a watcher-triggered drop.
func (cm *CacheMetrics) RecordInvalidation(cacheName string) {
	cm.invalidationsTotal.WithLabelValues(cacheName).Inc()
}
