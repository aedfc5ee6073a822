package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "data.base_dir").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateData(&cfg.Data)...)
	errs = append(errs, validateWatch(&cfg.Watch)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateData validates data source configuration.
func validateData(cfg *DataConfig) []FieldError {
	var errs []FieldError

	if cfg.BaseDir == "" {
		errs = append(errs, FieldError{
			Field:   "data.base_dir",
			Message: "base directory is required",
		})
	}
	if cfg.MaxFileSize < 0 {
		errs = append(errs, FieldError{
			Field:   "data.max_file_size",
			Message: "max file size must be non-negative",
		})
	}
	for id, schema := range cfg.SchemaBindings {
		if id == "" {
			errs = append(errs, FieldError{
				Field:   "data.schema_bindings",
				Message: "dataset identifier cannot be empty",
			})
		}
		if schema == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("data.schema_bindings.%s", id),
				Message: "schema name cannot be empty",
			})
		}
	}

	return errs
}

// validateWatch validates watcher configuration.
func validateWatch(cfg *WatchConfig) []FieldError {
	var errs []FieldError

	if cfg.DebounceInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "watch.debounce_interval",
			Message: "debounce interval must be non-negative",
		})
	}

	return errs
}

// validateJournal validates journal configuration.
func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	switch cfg.Backend {
	case "memory", "sqlite":
	case "":
		errs = append(errs, FieldError{
			Field:   "journal.backend",
			Message: "backend is required",
		})
	default:
		errs = append(errs, FieldError{
			Field:   "journal.backend",
			Message: fmt.Sprintf("unknown backend %q (must be \"memory\" or \"sqlite\")", cfg.Backend),
		})
	}

	if cfg.BufferSize < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.buffer_size",
			Message: "buffer size must be non-negative",
		})
	}

	if cfg.Backend == "sqlite" {
		if cfg.SQLite.Path == "" {
			errs = append(errs, FieldError{
				Field:   "journal.sqlite.path",
				Message: "path is required for the sqlite backend",
			})
		}
		if cfg.SQLite.MaxOpenConns < 0 {
			errs = append(errs, FieldError{
				Field:   "journal.sqlite.max_open_conns",
				Message: "max open connections must be non-negative",
			})
		}
		if cfg.SQLite.MaxIdleConns < 0 {
			errs = append(errs, FieldError{
				Field:   "journal.sqlite.max_idle_conns",
				Message: "max idle connections must be non-negative",
			})
		}
	}

	if cfg.Memory.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "journal.memory.max_records",
			Message: "max records must be non-negative",
		})
	}

	if cfg.Retention.Enabled {
		if cfg.Retention.Days <= 0 {
			errs = append(errs, FieldError{
				Field:   "journal.retention.days",
				Message: "retention days must be positive when retention is enabled",
			})
		}
		if _, err := cron.ParseStandard(cfg.Retention.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "journal.retention.schedule",
				Message: fmt.Sprintf("invalid cron expression %q: %v", cfg.Retention.Schedule, err),
			})
		}
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("unknown level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("unknown format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.namespace",
			Message: "namespace is required when metrics are enabled",
		})
	}

	return errs
}
