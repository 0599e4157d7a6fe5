package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/jaylee-quant/divscan/internal/collector"
	"github.com/jaylee-quant/divscan/pkg/config"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// DividendCollectionJob collects dividend histories and re-scores them daily
type DividendCollectionJob struct {
	collector *collector.Collector
	config    *config.Config
	logger    *logger.Logger
}

// NewDividendCollectionJob creates a new dividend collection job
func NewDividendCollectionJob(col *collector.Collector, cfg *config.Config, log *logger.Logger) *DividendCollectionJob {
	return &DividendCollectionJob{
		collector: col,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *DividendCollectionJob) Name() string {
	return "dividend_collection"
}

// Schedule returns the cron schedule (every day at 6 AM ET, before market open)
func (j *DividendCollectionJob) Schedule() string {
	return "0 0 6 * * *"
}

// Run executes the dividend collection followed by a fresh analysis pass
func (j *DividendCollectionJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled dividend collection")

	collectorCfg := collector.Config{Workers: j.config.Analysis.Workers}

	// 1. Fetch dividend histories for the full universe
	if _, err := j.collector.CollectDividends(ctx, collectorCfg); err != nil {
		return fmt.Errorf("collect dividends: %w", err)
	}

	// 2. Re-score every symbol against the current year
	currentYear := time.Now().Year()
	runID, results, err := j.collector.RunAnalysis(ctx, currentYear, collectorCfg)
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  runID.String(),
		"symbols": len(results),
	}).Info("Scheduled dividend collection completed successfully")
	return nil
}

// AnalysisJob re-scores stored dividend histories without refetching
type AnalysisJob struct {
	collector *collector.Collector
	config    *config.Config
	logger    *logger.Logger
}

// NewAnalysisJob creates a new analysis job
func NewAnalysisJob(col *collector.Collector, cfg *config.Config, log *logger.Logger) *AnalysisJob {
	return &AnalysisJob{
		collector: col,
		config:    cfg,
		logger:    log,
	}
}

// Name returns the job name
func (j *AnalysisJob) Name() string {
	return "consistency_analysis"
}

// Schedule returns the cron schedule (January 1st at midnight, when the
// trailing window rolls over to the new year)
func (j *AnalysisJob) Schedule() string {
	return "0 0 0 1 1 *"
}

// Run executes the analysis pass
func (j *AnalysisJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled consistency analysis")

	currentYear := time.Now().Year()
	collectorCfg := collector.Config{Workers: j.config.Analysis.Workers}

	runID, results, err := j.collector.RunAnalysis(ctx, currentYear, collectorCfg)
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":  runID.String(),
		"year":    currentYear,
		"symbols": len(results),
	}).Info("Scheduled consistency analysis completed successfully")
	return nil
}
