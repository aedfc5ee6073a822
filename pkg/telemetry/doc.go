// Package telemetry provides observability for Callisto.
//
// # Components
//
//   - logging: structured logging with credential redaction
//   - metrics: Prometheus metrics for loads, cache traffic, and
//     validation verdicts
//
// # Usage
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "json"})
//	if err != nil {
//	    return err
//	}
//	logger.Info("dataset loaded", "dataset", "users", "duration_ms", 12)
//
//	collector := metrics.NewCollector(&config.MetricsConfig{Enabled: true}, nil)
//	collector.RecordLoad("json", "loaded", 0.012)
//
// # Credential Protection
//
// Test datasets routinely carry passwords, tokens, and API keys. The
// logger masks the built-in credential field names on every log line,
// plus any extra names listed in the configuration.
package telemetry
