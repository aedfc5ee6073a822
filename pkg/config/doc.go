// Package config provides configuration management for Callisto.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. It provides a type-safe
// configuration system with comprehensive validation and sensible defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// DefaultConfig() returns a configuration built entirely from defaults for
// callers that run without a file.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention CALLISTO_SECTION_FIELD.
// For example:
//
//   - CALLISTO_DATA_BASE_DIR overrides data.base_dir
//   - CALLISTO_VALIDATION_STRICT overrides validation.strict
//   - CALLISTO_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading. Validation
// errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - data.base_dir: base directory is required
//	  - journal.backend: unknown backend "redis" (must be "memory" or "sqlite")
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	data:
//	  base_dir: "./testdata"
//	  environment: "staging"
//	  schema_bindings:
//	    valid_users: "user"
//	    devices: "device"
//
//	validation:
//	  enabled: true
//	  strict: false
//
//	journal:
//	  backend: "sqlite"
//	  sqlite:
//	    path: "data/journal.db"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
//
// Consumers receive explicit *Config instances by injection; the package
// keeps no global state.
package config
