package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. The configuration is not modified by environment variables; use
// LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	// Enabled-by-default toggles must start true so that a file which
	// does not mention them keeps the default rather than yaml's zero.
	cfg := Config{
		Validation: ValidationConfig{Enabled: DefaultValidationEnabled},
		Journal:    JournalConfig{Enabled: DefaultJournalEnabled},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
		},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow the
// naming convention CALLISTO_SECTION_FIELD (e.g., CALLISTO_DATA_BASE_DIR).
// Environment variables always take precedence over file-based
// configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format
// CALLISTO_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Data overrides
	if val := os.Getenv("CALLISTO_DATA_BASE_DIR"); val != "" {
		cfg.Data.BaseDir = val
	}
	if val := os.Getenv("CALLISTO_DATA_SCHEMAS_DIR"); val != "" {
		cfg.Data.SchemasDir = val
	}
	if val := os.Getenv("CALLISTO_DATA_ENVIRONMENT"); val != "" {
		cfg.Data.Environment = val
	}
	if val := os.Getenv("CALLISTO_DATA_MAX_FILE_SIZE"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Data.MaxFileSize = i
		}
	}
	if val := os.Getenv("CALLISTO_DATA_TYPED_ROWS"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Data.TypedRows = b
		}
	}

	// Validation overrides
	if val := os.Getenv("CALLISTO_VALIDATION_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.Enabled = b
		}
	}
	if val := os.Getenv("CALLISTO_VALIDATION_STRICT"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Validation.Strict = b
		}
	}

	// Watch overrides
	if val := os.Getenv("CALLISTO_WATCH_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Watch.Enabled = b
		}
	}
	if val := os.Getenv("CALLISTO_WATCH_DEBOUNCE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Watch.DebounceInterval = d
		}
	}

	// Journal overrides
	if val := os.Getenv("CALLISTO_JOURNAL_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Enabled = b
		}
	}
	if val := os.Getenv("CALLISTO_JOURNAL_BACKEND"); val != "" {
		cfg.Journal.Backend = val
	}
	if val := os.Getenv("CALLISTO_JOURNAL_BUFFER_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.BufferSize = i
		}
	}
	if val := os.Getenv("CALLISTO_JOURNAL_SQLITE_PATH"); val != "" {
		cfg.Journal.SQLite.Path = val
	}
	if val := os.Getenv("CALLISTO_JOURNAL_MEMORY_MAX_RECORDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.Memory.MaxRecords = i
		}
	}
	if val := os.Getenv("CALLISTO_JOURNAL_RETENTION_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Journal.Retention.Enabled = b
		}
	}
	if val := os.Getenv("CALLISTO_JOURNAL_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Journal.Retention.Days = i
		}
	}
	if val := os.Getenv("CALLISTO_JOURNAL_RETENTION_SCHEDULE"); val != "" {
		cfg.Journal.Retention.Schedule = val
	}

	// Telemetry overrides
	if val := os.Getenv("CALLISTO_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_LOGGING_ADD_SOURCE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Logging.AddSource = b
		}
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_LOGGING_REDACT_FIELDS"); val != "" {
		fields := strings.Split(val, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		cfg.Telemetry.Logging.RedactFields = fields
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_METRICS_NAMESPACE"); val != "" {
		cfg.Telemetry.Metrics.Namespace = val
	}
	if val := os.Getenv("CALLISTO_TELEMETRY_METRICS_SUBSYSTEM"); val != "" {
		cfg.Telemetry.Metrics.Subsystem = val
	}
}
