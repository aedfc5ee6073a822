package journal

import (
	"context"
	"time"

	"mercator-hq/callisto/pkg/config"
	"mercator-hq/callisto/pkg/telemetry/logging"
)

// Pruner enforces the retention window on journal records: entries
// older than the configured number of days are deleted, either on
// demand via Prune or on a cron schedule via Start.
type Pruner struct {
	store     Store
	config    *config.RetentionConfig
	logger    *logging.Logger
	scheduler *Scheduler
}

// NewPruner creates a retention pruner. A nil config disables pruning.
func NewPruner(store Store, cfg *config.RetentionConfig, logger *logging.Logger) *Pruner {
	if cfg == nil {
		cfg = &config.RetentionConfig{}
	}
	if logger == nil {
		logger = logging.Discard()
	}

	p := &Pruner{
		store:  store,
		config: cfg,
		logger: logger.Component("journal.retention"),
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes records older than the retention window and returns
// the number deleted. A zero or negative window deletes nothing.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.Days <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -p.config.Days)
	deleted, err := p.store.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	if deleted > 0 {
		p.logger.Info("journal records pruned",
			"deleted_count", deleted,
			"retention_days", p.config.Days,
		)
	} else {
		p.logger.Debug("no journal records to prune",
			"retention_days", p.config.Days,
		)
	}
	return deleted, nil
}

// Start begins scheduled pruning. Call this when starting the
// application.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops scheduled pruning. Call this during graceful shutdown.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}

// NextPruning returns the time of the next scheduled pruning, or nil
// when the scheduler is not running.
func (p *Pruner) NextPruning() *time.Time {
	return p.scheduler.NextRun()
}
