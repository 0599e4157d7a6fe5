package jobs

import (
	"context"
	"fmt"

	"github.com/jaylee-quant/divscan/internal/collector"
	"github.com/jaylee-quant/divscan/internal/store"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// CSVExportJob writes per-symbol dividend CSV snapshots and prunes
// files for symbols that turned out to have no dividend history
type CSVExportJob struct {
	collector *collector.Collector
	dir       string
	logger    *logger.Logger
}

// NewCSVExportJob creates a new CSV export job
func NewCSVExportJob(col *collector.Collector, dir string, log *logger.Logger) *CSVExportJob {
	return &CSVExportJob{
		collector: col,
		dir:       dir,
		logger:    log,
	}
}

// Name returns the job name
func (j *CSVExportJob) Name() string {
	return "csv_export"
}

// Schedule returns the cron schedule (every day at 7 AM ET, after collection)
func (j *CSVExportJob) Schedule() string {
	return "0 0 7 * * *"
}

// Run executes the CSV export
func (j *CSVExportJob) Run(ctx context.Context) error {
	j.logger.WithField("dir", j.dir).Debug("Starting scheduled CSV export")

	written, err := j.collector.ExportCSV(ctx, j.dir)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	_, removed, err := store.PruneEmptyCSVs(j.dir)
	if err != nil {
		return fmt.Errorf("prune csv: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"written": written,
		"removed": removed,
	}).Info("CSV export completed")

	return nil
}
