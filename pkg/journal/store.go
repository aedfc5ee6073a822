package journal

import (
	"fmt"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/telemetry/logging"
)

// NewStore creates the journal store named by the configuration.
func NewStore(cfg *config.JournalConfig, logger *logging.Logger) (Store, error) {
	if cfg == nil {
		return NewMemoryStore(nil), nil
	}
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(&cfg.Memory), nil
	case "sqlite":
		return NewSQLiteStore(&cfg.SQLite, logger)
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Backend)
	}
}
