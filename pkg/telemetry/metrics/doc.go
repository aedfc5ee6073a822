// Package metrics provides Prometheus metrics for the data layer.
//
// # Overview
//
// The Collector registers and records three metric families:
//
//   - Cache: hits, misses, entry counts, and explicit invalidations,
//     labeled by cache name ("dataset", "schema")
//   - Loads: physical source loads by format and outcome, plus a
//     duration histogram
//   - Validation: verdict counts and per-dataset failure counts
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	collector.RecordCacheMiss("dataset")
//	collector.RecordLoad("json", "loaded", 0.012)
//	collector.RecordValidation("valid_users", true)
//
//	http.Handle("/metrics", collector.Handler())
//
// A nil *Collector is safe: every recording method is a no-op, so
// components accept a Collector without a wiring check.
package metrics
