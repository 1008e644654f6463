package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"scenario-hq/criterion/pkg/recorder"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is the number of days to retain runs.
	// 0 means keep runs forever (no age-based pruning).
	RetentionDays int

	// MaxRuns is the maximum number of runs to keep.
	// 0 means unlimited.
	MaxRuns int64

	// PruneSchedule is a cron expression for scheduling pruning.
	// Example: "0 3 * * *" (daily at 3 AM). Empty disables the
	// scheduler.
	PruneSchedule string
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 90,
		MaxRuns:       0,
		PruneSchedule: "0 3 * * *",
	}
}

// Pruner enforces retention on stored runs.
type Pruner struct {
	storage   recorder.Storage
	config    *Config
	logger    *slog.Logger
	scheduler *Scheduler
}

// NewPruner creates a retention pruner over the given storage.
func NewPruner(storage recorder.Storage, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}

	pruner := &Pruner{
		storage: storage,
		config:  config,
		logger:  slog.Default().With("component", "recorder.retention"),
	}
	pruner.scheduler = NewScheduler(pruner)
	return pruner
}

// Scheduler returns the pruner's cron scheduler.
func (p *Pruner) Scheduler() *Scheduler {
	return p.scheduler
}

// Prune deletes runs older than the retention period or exceeding the
// maximum run count.
//
// Pruning happens in two phases:
//  1. Age-based: delete runs that started more than RetentionDays ago
//  2. Count-based: if more than MaxRuns remain, delete the oldest
//
// Returns the total number of runs deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var totalDeleted int64

	if p.config.RetentionDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -p.config.RetentionDays)
		deleted, err := p.storage.DeleteRunsBefore(ctx, cutoff)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by age failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned runs by age",
			"deleted_count", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}

	if p.config.MaxRuns > 0 {
		deleted, err := p.storage.DeleteRunsBeyond(ctx, p.config.MaxRuns)
		if err != nil {
			return totalDeleted, fmt.Errorf("prune by count failed: %w", err)
		}
		totalDeleted += deleted
		p.logger.Info("pruned runs by count",
			"deleted_count", deleted,
			"max_runs", p.config.MaxRuns,
		)
	}

	if totalDeleted == 0 {
		p.logger.Debug("no runs pruned",
			"retention_days", p.config.RetentionDays,
			"max_runs", p.config.MaxRuns,
		)
	}
	return totalDeleted, nil
}
