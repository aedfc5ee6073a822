package config

import (
	"path/filepath"
	"time"
)

// Default values for configuration fields.
const (
	// Data defaults
	DefaultBaseDir     = "./testdata"
	DefaultMaxFileSize = int64(10 * 1024 * 1024) // 10MB
	DefaultTypedRows   = false

	// Validation defaults
	DefaultValidationEnabled = true
	DefaultValidationStrict  = false

	// Watch defaults
	DefaultWatchEnabled          = false
	DefaultWatchDebounceInterval = 500 * time.Millisecond

	// Journal defaults
	DefaultJournalEnabled         = true
	DefaultJournalBackend         = "memory"
	DefaultJournalBufferSize      = 1000
	DefaultJournalSQLitePath      = "data/journal.db"
	DefaultJournalMaxOpenConns    = 10
	DefaultJournalMaxIdleConns    = 5
	DefaultJournalWALMode         = true
	DefaultJournalBusyTimeout     = 5 * time.Second
	DefaultJournalMemoryMax       = 10000
	DefaultRetentionEnabled       = false
	DefaultRetentionDays          = 30
	DefaultRetentionSchedule      = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsNamespace = "callisto"
	DefaultMetricsSubsystem = "data"
)

// DefaultConfig returns a configuration populated entirely with default
// values, the same ones ApplyDefaults fills in for zero fields.
func DefaultConfig() *Config {
	cfg := &Config{
		Validation: ValidationConfig{Enabled: DefaultValidationEnabled},
		Journal:    JournalConfig{Enabled: DefaultJournalEnabled},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct. It sets
// defaults for any fields that have zero values. This function is
// idempotent and safe to call multiple times.
//
// Boolean fields whose default is true (validation.enabled,
// journal.enabled, metrics.enabled) cannot be distinguished from an
// explicit false once unmarshaled, so ApplyDefaults leaves them alone;
// DefaultConfig and the loader's yaml handling set them up front.
func ApplyDefaults(cfg *Config) {
	// Data defaults
	if cfg.Data.BaseDir == "" {
		cfg.Data.BaseDir = DefaultBaseDir
	}
	if cfg.Data.MaxFileSize == 0 {
		cfg.Data.MaxFileSize = DefaultMaxFileSize
	}

	// Watch defaults
	if cfg.Watch.DebounceInterval == 0 {
		cfg.Watch.DebounceInterval = DefaultWatchDebounceInterval
	}

	// Journal defaults
	if cfg.Journal.Backend == "" {
		cfg.Journal.Backend = DefaultJournalBackend
	}
	if cfg.Journal.BufferSize == 0 {
		cfg.Journal.BufferSize = DefaultJournalBufferSize
	}
	if cfg.Journal.SQLite.Path == "" {
		cfg.Journal.SQLite.Path = DefaultJournalSQLitePath
	}
	if cfg.Journal.SQLite.MaxOpenConns == 0 {
		cfg.Journal.SQLite.MaxOpenConns = DefaultJournalMaxOpenConns
	}
	if cfg.Journal.SQLite.MaxIdleConns == 0 {
		cfg.Journal.SQLite.MaxIdleConns = DefaultJournalMaxIdleConns
	}
	if cfg.Journal.SQLite.BusyTimeout == 0 {
		cfg.Journal.SQLite.BusyTimeout = DefaultJournalBusyTimeout
	}
	if cfg.Journal.Memory.MaxRecords == 0 {
		cfg.Journal.Memory.MaxRecords = DefaultJournalMemoryMax
	}
	if cfg.Journal.Retention.Days == 0 {
		cfg.Journal.Retention.Days = DefaultRetentionDays
	}
	if cfg.Journal.Retention.Schedule == "" {
		cfg.Journal.Retention.Schedule = DefaultRetentionSchedule
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
}

// SchemasDirOrDefault resolves the schemas directory: the configured
// value, or "<base_dir>/schemas" when unset.
func (d *DataConfig) SchemasDirOrDefault() string {
	if d.SchemasDir != "" {
		return d.SchemasDir
	}
	return filepath.Join(d.BaseDir, "schemas")
}
