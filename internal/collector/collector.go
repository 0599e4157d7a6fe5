// Package collector orchestrates the fetch and analysis pipeline:
// screener universe refresh, per-symbol dividend collection, and the
// consistency analysis run.
package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jaylee-quant/divscan/internal/batch"
	"github.com/jaylee-quant/divscan/internal/dividend"
	"github.com/jaylee-quant/divscan/internal/external/nasdaq"
	"github.com/jaylee-quant/divscan/internal/store"
	"github.com/jaylee-quant/divscan/pkg/config"
	"github.com/jaylee-quant/divscan/pkg/logger"
	"github.com/jaylee-quant/divscan/pkg/redis"
)

// Collector orchestrates data collection and analysis
type Collector struct {
	client   *nasdaq.Client
	repo     *store.Repository
	cache    *redis.Cache
	runner   *batch.Runner
	cfg      *config.Config
	logger   *logger.Logger
	progress ProgressFunc
}

// Config holds per-run collector configuration
type Config struct {
	Workers int // Number of concurrent workers
}

// ProgressEvent is emitted once per symbol during collection and analysis
type ProgressEvent struct {
	RunID  string `json:"run_id"`
	Stage  string `json:"stage"` // "collect" or "analyze"
	Symbol string `json:"symbol"`
	Done   int    `json:"done"`
	Total  int    `json:"total"`
	Error  string `json:"error,omitempty"`
}

// ProgressFunc receives progress events; may be nil
type ProgressFunc func(ProgressEvent)

// NewCollector creates a new Collector instance
func NewCollector(
	client *nasdaq.Client,
	repo *store.Repository,
	cache *redis.Cache,
	runner *batch.Runner,
	cfg *config.Config,
	log *logger.Logger,
) *Collector {
	return &Collector{
		client: client,
		repo:   repo,
		cache:  cache,
		runner: runner,
		cfg:    cfg,
		logger: log.WithField("module", "collector"),
	}
}

// WithProgress registers a progress callback
func (c *Collector) WithProgress(fn ProgressFunc) *Collector {
	c.progress = fn
	return c
}

func (c *Collector) notify(ev ProgressEvent) {
	if c.progress != nil {
		c.progress(ev)
	}
}

// RefreshUniverse fetches the screener and saves all symbols above the
// configured market-cap floor. Symbols that arrive without a sector get
// a best-effort profile-page lookup.
func (c *Collector) RefreshUniverse(ctx context.Context) (int, error) {
	stocks, err := c.client.FetchScreener(ctx, c.cfg.Nasdaq.MinMarketCap)
	if err != nil {
		return 0, fmt.Errorf("fetch screener: %w", err)
	}

	for i := range stocks {
		if stocks[i].Sector != "Unknown" {
			continue
		}
		sector, err := c.client.FetchSector(ctx, stocks[i].Symbol)
		if err != nil {
			c.logger.WithError(err).WithField("symbol", stocks[i].Symbol).Warn("Sector lookup failed")
			continue
		}
		stocks[i].Sector = sector
	}

	if err := c.repo.UpsertStocks(ctx, stocks); err != nil {
		return 0, fmt.Errorf("save stocks: %w", err)
	}

	c.logger.WithField("count", len(stocks)).Info("Universe refreshed")
	return len(stocks), nil
}

// FetchResult represents the result of one symbol's dividend fetch
type FetchResult struct {
	Symbol     string
	EventCount int
	FromCache  bool
	Error      error
}

// CollectDividends fetches and stores the dividend history for every
// active symbol with a worker pool. Per-symbol failures are reported in
// the results, never abort the batch. Afterwards, symbols with no
// dividend history are demoted out of the active universe.
func (c *Collector) CollectDividends(ctx context.Context, cfg Config) ([]FetchResult, error) {
	symbols, err := c.repo.GetActiveSymbols(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active symbols: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = c.cfg.Analysis.Workers
	}

	runID := uuid.New().String()

	c.logger.WithFields(map[string]interface{}{
		"symbol_count": len(symbols),
		"workers":      workers,
		"run_id":       runID,
	}).Info("Starting dividend collection")

	symbolCh := make(chan string, len(symbols))
	resultCh := make(chan FetchResult, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			c.dividendWorker(ctx, workerID, symbolCh, resultCh)
		}(i)
	}

	for _, symbol := range symbols {
		symbolCh <- symbol
	}
	close(symbolCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]FetchResult, 0, len(symbols))
	successCount := 0
	failCount := 0
	for result := range resultCh {
		results = append(results, result)
		if result.Error != nil {
			failCount++
		} else {
			successCount++
		}

		ev := ProgressEvent{
			RunID:  runID,
			Stage:  "collect",
			Symbol: result.Symbol,
			Done:   len(results),
			Total:  len(symbols),
		}
		if result.Error != nil {
			ev.Error = result.Error.Error()
		}
		c.notify(ev)
	}

	demoted, err := c.repo.MarkNonDividendPayers(ctx)
	if err != nil {
		return results, fmt.Errorf("mark non dividend payers: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  failCount,
		"demoted": demoted,
		"total":   len(results),
	}).Info("Dividend collection completed")

	return results, nil
}

// dividendWorker fetches and stores dividend history for queued symbols
func (c *Collector) dividendWorker(ctx context.Context, workerID int, symbolCh <-chan string, resultCh chan<- FetchResult) {
	for symbol := range symbolCh {
		select {
		case <-ctx.Done():
			resultCh <- FetchResult{Symbol: symbol, Error: ctx.Err()}
			continue
		default:
		}

		records, fromCache, err := c.fetchWithCache(ctx, symbol)
		if err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"symbol": symbol,
			}).Error("Failed to fetch dividends")
			resultCh <- FetchResult{Symbol: symbol, Error: err}
			continue
		}

		if err := c.repo.ReplaceDividendRecords(ctx, symbol, records); err != nil {
			c.logger.WithError(err).WithFields(map[string]interface{}{
				"worker": workerID,
				"symbol": symbol,
			}).Error("Failed to save dividends")
			resultCh <- FetchResult{Symbol: symbol, EventCount: len(records), Error: err}
			continue
		}

		c.logger.WithFields(map[string]interface{}{
			"worker":     workerID,
			"symbol":     symbol,
			"count":      len(records),
			"from_cache": fromCache,
		}).Debug("Fetched dividends")

		resultCh <- FetchResult{Symbol: symbol, EventCount: len(records), FromCache: fromCache}
	}
}

// fetchWithCache serves the raw payload from Redis when fresh enough,
// otherwise fetches upstream and refills the cache.
func (c *Collector) fetchWithCache(ctx context.Context, symbol string) ([]dividend.Record, bool, error) {
	key := redis.DividendsKey(symbol)

	var cached []dividend.Record
	if found, err := c.cache.Get(ctx, key, &cached); err == nil && found {
		return cached, true, nil
	}

	records, err := c.client.FetchDividends(ctx, symbol)
	if err != nil {
		return nil, false, err
	}

	if err := c.cache.Set(ctx, key, records, c.cfg.Nasdaq.CacheTTL); err != nil {
		// Cache failures are not fatal
		c.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to cache dividends")
	}

	return records, false, nil
}

// RunAnalysis analyzes every active symbol against currentYear and
// persists the results under a fresh run ID. currentYear is explicit so
// scheduled and ad-hoc runs stay reproducible.
func (c *Collector) RunAnalysis(ctx context.Context, currentYear int, cfg Config) (uuid.UUID, []batch.SymbolResult, error) {
	symbols, err := c.repo.GetActiveSymbols(ctx)
	if err != nil {
		return uuid.Nil, nil, fmt.Errorf("get active symbols: %w", err)
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = c.cfg.Analysis.Workers
	}

	runID := uuid.New()

	done := 0
	results := c.runner.Run(ctx, symbols, currentYear, func(ctx context.Context, symbol string) ([]dividend.Record, error) {
		return c.repo.GetDividendRecords(ctx, symbol)
	}, batch.Config{Workers: workers})

	for _, res := range results {
		done++
		ev := ProgressEvent{
			RunID:  runID.String(),
			Stage:  "analyze",
			Symbol: res.Symbol,
			Done:   done,
			Total:  len(results),
		}
		if res.Err != nil {
			ev.Error = res.Err.Error()
		}
		c.notify(ev)
	}

	if err := c.repo.SaveResults(ctx, runID, results); err != nil {
		return runID, results, fmt.Errorf("save results: %w", err)
	}

	return runID, results, nil
}

// ExportCSV writes every active symbol's raw dividend records to
// per-symbol CSV files under dir
func (c *Collector) ExportCSV(ctx context.Context, dir string) (int, error) {
	symbols, err := c.repo.GetActiveSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("get active symbols: %w", err)
	}

	start := time.Now()
	written := 0
	for _, symbol := range symbols {
		records, err := c.repo.GetDividendRecords(ctx, symbol)
		if err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Error("Failed to load records for export")
			continue
		}

		if err := store.WriteDividendCSV(dir, symbol, records); err != nil {
			c.logger.WithError(err).WithField("symbol", symbol).Error("Failed to write CSV")
			continue
		}
		written++
	}

	c.logger.WithFields(map[string]interface{}{
		"written":  written,
		"total":    len(symbols),
		"duration": time.Since(start),
	}).Info("CSV export completed")

	return written, nil
}
