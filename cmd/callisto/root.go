package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/dataset"
	"mercator-hq/callisto/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "callisto",
	Short: "Callisto - test data management layer",
	Long: `Callisto loads test fixture data from JSON, YAML, CSV, and SQLite
sources into one canonical form, validates it against named schemas, and
serves filtered and environment-specific views.

It provides:
  - Format-transparent dataset loading with a single-flight cache
  - Schema validation with collected, path-addressed errors
  - Facet filtering and environment overlays
  - A queryable journal of load and validation outcomes

For more information, visit: https://github.com/mercator-hq/callisto`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override the data directory")

	rootCmd.CompletionOptions.DisableDefaultCmd = false
}

// loadCLIConfig resolves the effective configuration: the --config file
// when present, defaults otherwise, with --data-dir on top. A config
// path the user named explicitly must exist; the default path is
// optional.
func loadCLIConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config

	if _, err := os.Stat(cfgFile); err == nil {
		cfg, err = config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return nil, err
		}
	} else if cmd.Flags().Changed("config") {
		return nil, &cli.ConfigError{
			Field:   "config",
			Message: fmt.Sprintf("file %q not found", cfgFile),
			Cause:   err,
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if dataDir != "" {
		cfg.Data.BaseDir = dataDir
	}
	return cfg, nil
}

// newCLILogger builds a logger for interactive use: text format on
// stderr, debug level under --verbose.
func newCLILogger(cfg *config.Config) (*logging.Logger, error) {
	level := cfg.Telemetry.Logging.Level
	if verbose {
		level = "debug"
	}
	logger, err := logging.New(logging.Config{
		Level:        level,
		Format:       "text",
		RedactFields: cfg.Telemetry.Logging.RedactFields,
	})
	if err != nil {
		return nil, err
	}
	if !verbose {
		// Interactive commands keep their output clean; logs are an
		// opt-in.
		return logging.Discard(), nil
	}
	return logger, nil
}

// newCLIManager wires a manager for one command invocation. The
// watcher is pointless for a one-shot process, so it stays off.
func newCLIManager(cmd *cobra.Command) (*dataset.Manager, *config.Config, error) {
	cfg, err := loadCLIConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg.Watch.Enabled = false

	logger, err := newCLILogger(cfg)
	if err != nil {
		return nil, nil, err
	}

	mgr, err := dataset.NewManager(cfg, &dataset.Options{Logger: logger})
	if err != nil {
		return nil, nil, err
	}
	return mgr, cfg, nil
}
