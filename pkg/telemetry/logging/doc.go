// Package logging provides structured logging with credential redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON and text formats
//   - Automatic masking of credential fields (passwords, tokens, API keys)
//   - Context-aware logging with dataset and environment metadata
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//
//	logger.Info("dataset loaded",
//	    "dataset", "valid_users",
//	    "password", "Secur3P@ss",  // Automatically masked
//	    "duration_ms", 12,
//	)
//
//	// Context-aware logging
//	ctx := logging.WithDataset(ctx, "valid_users")
//	logger.InfoContext(ctx, "cache hit")
//
// Redaction keys off field names: test datasets are full of credential
// values, and the data layer addresses them by field name, so any log
// argument whose key contains "password", "token", "secret", and so on
// is masked before it reaches the handler. Extra field names come from
// telemetry.logging.redact_fields in the configuration.
package logging
