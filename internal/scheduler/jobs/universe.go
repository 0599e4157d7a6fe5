package jobs

import (
	"context"
	"fmt"

	"github.com/jaylee-quant/divscan/internal/collector"
	"github.com/jaylee-quant/divscan/pkg/config"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// UniverseRefreshJob refreshes the stock universe weekly
type UniverseRefreshJob struct {
	collector *collector.Collector
	config    *config.Config
	logger    *logger.Logger
}

// NewUniverseRefreshJob creates a new universe refresh job
func NewUniverseRefreshJob(col *collector.Collector, cfg *config.Config, log *logger.Logger) *UniverseRefreshJob {
	return &UniverseRefreshJob{
		collector: col,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *UniverseRefreshJob) Name() string {
	return "universe_refresh"
}

// Schedule returns the cron schedule (every Sunday at 5 AM ET)
func (j *UniverseRefreshJob) Schedule() string {
	return "0 0 5 * * SUN"
}

// Run executes the universe refresh
func (j *UniverseRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled universe refresh")

	count, err := j.collector.RefreshUniverse(ctx)
	if err != nil {
		return fmt.Errorf("refresh universe: %w", err)
	}

	j.logger.WithField("stocks", count).Info("Scheduled universe refresh completed successfully")
	return nil
}
