package config

import "time"

// Config is the root configuration structure for Callisto. It contains
// all configuration sections for data loading, schema validation, source
// watching, the load journal, and telemetry.
type Config struct {
	// Data contains configuration for dataset sources: directories,
	// loader limits, the active environment, and schema bindings.
	Data DataConfig `yaml:"data"`

	// Validation contains configuration for schema validation of loaded
	// datasets.
	Validation ValidationConfig `yaml:"validation"`

	// Watch contains configuration for source-file change watching and
	// automatic cache invalidation.
	Watch WatchConfig `yaml:"watch"`

	// Journal contains configuration for load-history recording
	// including backend selection and retention.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// DataConfig contains configuration for dataset sources.
type DataConfig struct {
	// BaseDir is the directory dataset source files are resolved
	// against. A dataset identifier "users" resolves to the first of
	// users.json, users.yaml, users.yml, users.csv, users.db,
	// users.sqlite under this directory.
	// Default: "./testdata"
	BaseDir string `yaml:"base_dir"`

	// SchemasDir is the directory schema documents are loaded from,
	// one JSON file per schema name. An empty value resolves to
	// "<base_dir>/schemas".
	SchemasDir string `yaml:"schemas_dir"`

	// Environment is the active environment name used for overlay
	// resolution (e.g. "staging"). Empty disables implicit overlays.
	Environment string `yaml:"environment"`

	// MaxFileSize is the maximum source file size in bytes.
	// Default: 10485760 (10MB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// TypedRows enables scalar type inference for tabular (CSV)
	// sources: empty cells become null, true/false become booleans,
	// numeric literals become numbers.
	// Default: false
	TypedRows bool `yaml:"typed_rows"`

	// SchemaBindings maps a dataset identifier to the schema name it
	// validates against. Identifiers not listed here bind by
	// convention: a schema file with the dataset's name, if present.
	SchemaBindings map[string]string `yaml:"schema_bindings"`
}

// ValidationConfig contains configuration for schema validation.
type ValidationConfig struct {
	// Enabled controls whether datasets with a bound schema are
	// validated on load.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Strict makes a failed validation fatal: the load returns an
	// error instead of a dataset carrying an invalid verdict. A schema
	// document can override this per schema.
	// Default: false
	Strict bool `yaml:"strict"`
}

// WatchConfig contains configuration for source-file watching.
type WatchConfig struct {
	// Enabled controls whether the data directory is watched for
	// changes. A changed source file invalidates its dataset; a
	// changed schema file drops the schema and clears the cache.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// DebounceInterval is how long to coalesce filesystem events per
	// path before invalidating, absorbing editor write bursts.
	// Default: 500ms
	DebounceInterval time.Duration `yaml:"debounce_interval"`
}

// JournalConfig contains configuration for load-history recording.
type JournalConfig struct {
	// Enabled controls whether load outcomes are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Backend selects the journal store.
	// Options: "memory", "sqlite"
	// Default: "memory"
	Backend string `yaml:"backend"`

	// BufferSize is the async recorder's channel capacity. Records are
	// dropped (and counted) when the buffer is full rather than
	// blocking a load.
	// Default: 1000
	BufferSize int `yaml:"buffer_size"`

	// SQLite contains settings for the sqlite backend.
	SQLite JournalSQLiteConfig `yaml:"sqlite"`

	// Memory contains settings for the memory backend.
	Memory JournalMemoryConfig `yaml:"memory"`

	// Retention contains settings for pruning old journal records.
	Retention RetentionConfig `yaml:"retention"`
}

// JournalSQLiteConfig contains settings for the sqlite journal backend.
type JournalSQLiteConfig struct {
	// Path is the SQLite database file path.
	// Default: "data/journal.db"
	Path string `yaml:"path"`

	// MaxOpenConns is the maximum number of open database connections.
	// Default: 10
	MaxOpenConns int `yaml:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle database connections.
	// Default: 5
	MaxIdleConns int `yaml:"max_idle_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a locked database is retried before the
	// operation fails.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`
}

// JournalMemoryConfig contains settings for the memory journal backend.
type JournalMemoryConfig struct {
	// MaxRecords bounds the in-memory record ring; the oldest records
	// are dropped beyond it. Zero means unbounded.
	// Default: 10000
	MaxRecords int `yaml:"max_records"`
}

// RetentionConfig contains settings for journal pruning.
type RetentionConfig struct {
	// Enabled controls whether old records are pruned on a schedule.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Days is the retention window; records older than this are
	// pruned.
	// Default: 30
	Days int `yaml:"days"`

	// Schedule is the cron expression the pruner runs on.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the log output encoding.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes the file:line of the log call site.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactFields lists additional field names whose values are
	// masked in log output, on top of the built-in credential names.
	RedactFields []string `yaml:"redact_fields"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "callisto"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric name infix.
	// Default: "data"
	Subsystem string `yaml:"subsystem"`
}
