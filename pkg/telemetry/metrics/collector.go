package metrics

import (
	"mercator-hq/callisto/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector is the main orchestrator for all Prometheus metrics in
// Callisto. It manages metric registration and provides a unified
// interface for recording cache, loader, and validation activity.
//
// A nil *Collector is valid and records nothing, so components can take
// a Collector without caring whether metrics are wired.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Cache metrics
	cacheMetrics *CacheMetrics

	// Loader metrics
	loadMetrics *LoadMetrics

	// Validation metrics
	validationMetrics *ValidationMetrics
}

// NewCollector creates a new metrics collector with the specified
// configuration and Prometheus registry. If registry is nil, a fresh
// registry is created.
//
// Example:
//
//	cfg := &config.MetricsConfig{
//		Enabled:   true,
//		Namespace: "callisto",
//		Subsystem: "data",
//	}
//	collector := metrics.NewCollector(cfg, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = config.DefaultMetricsSubsystem
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.cacheMetrics = NewCacheMetrics(cfg, registry)
	c.loadMetrics = NewLoadMetrics(cfg, registry)
	c.validationMetrics = NewValidationMetrics(cfg, registry)

	return c
}

// enabled reports whether this collector records anything.
func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordCacheHit records a cache hit.
//
// Parameters:
//   - cacheName: Name of the cache ("dataset", "schema")
func (c *Collector) RecordCacheHit(cacheName string) {
	if !c.enabled() {
		return
	}

	c.cacheMetrics.RecordHit(cacheName)
}

// RecordCacheMiss records a cache miss.
//
// Parameters:
//   - cacheName: Name of the cache
func (c *Collector) RecordCacheMiss(cacheName string) {
	if !c.enabled() {
		return
	}

	c.cacheMetrics.RecordMiss(cacheName)
}

// UpdateCacheSize updates the current size of a cache.
//
// Parameters:
//   - cacheName: Name of the cache
//   - size: Current number of entries in the cache
func (c *Collector) UpdateCacheSize(cacheName string, size int) {
	if !c.enabled() {
		return
	}

	c.cacheMetrics.UpdateSize(cacheName, size)
}

// RecordCacheInvalidation records an explicit cache invalidation.
//
// Parameters:
//   - cacheName: Name of the cache
func (c *Collector) RecordCacheInvalidation(cacheName string) {
	if !c.enabled() {
		return
	}

	c.cacheMetrics.RecordInvalidation(cacheName)
}

// RecordLoad records a completed physical load.
//
// Parameters:
//   - format: Source format ("json", "yaml", "csv", "sqlite")
//   - status: Load outcome ("loaded", "failed")
//   - seconds: Load duration in seconds
//
// Example:
//
//	collector.RecordLoad("json", "loaded", 0.012)
func (c *Collector) RecordLoad(format, status string, seconds float64) {
	if !c.enabled() {
		return
	}

	c.loadMetrics.RecordLoad(format, status, seconds)
}

// RecordValidation records a validation pass.
//
// Parameters:
//   - dataset: Dataset identifier
//   - valid: Whether the dataset satisfied its schema
func (c *Collector) RecordValidation(dataset string, valid bool) {
	if !c.enabled() {
		return
	}

	c.validationMetrics.RecordVerdict(dataset, valid)
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the /metrics endpoint:
//
//	http.Handle("/metrics", collector.Handler())
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
