// Package batch maps the per-symbol dividend pipeline over a symbol set.
// Symbols are independent: no shared state, no ordering, and a failed or
// panicking symbol degrades to an indeterminate result instead of
// aborting the run.
package batch

import (
	"context"
	"fmt"
	"sync"

	"github.com/jaylee-quant/divscan/internal/dividend"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

// LoadFunc fetches the raw dividend records for one symbol
type LoadFunc func(ctx context.Context, symbol string) ([]dividend.Record, error)

// SymbolResult is the per-item outcome of a run. Err is set when loading
// failed or the per-symbol computation panicked; Result then carries the
// indeterminate fallback.
type SymbolResult struct {
	Symbol  string
	Result  dividend.Result
	Dropped int
	Err     error
}

// Config holds batch runner configuration
type Config struct {
	Workers int
}

// Runner executes analysis runs over symbol sets
type Runner struct {
	logger *logger.Logger
}

// NewRunner creates a new batch runner
func NewRunner(log *logger.Logger) *Runner {
	return &Runner{
		logger: log.WithField("module", "batch"),
	}
}

// Run analyzes every symbol with a worker pool and returns one result per
// symbol. Per-symbol failures are carried in the result, never returned
// as a run error; partial results for completed symbols stay valid when
// the context is cancelled mid-run.
func (r *Runner) Run(ctx context.Context, symbols []string, currentYear int, load LoadFunc, cfg Config) []SymbolResult {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	r.logger.WithFields(map[string]interface{}{
		"symbol_count": len(symbols),
		"current_year": currentYear,
		"workers":      workers,
	}).Info("Starting analysis run")

	symbolCh := make(chan string, len(symbols))
	resultCh := make(chan SymbolResult, len(symbols))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, symbolCh, resultCh, currentYear, load)
		}()
	}

	for _, symbol := range symbols {
		symbolCh <- symbol
	}
	close(symbolCh)

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]SymbolResult, 0, len(symbols))
	successCount := 0
	failCount := 0
	for result := range resultCh {
		results = append(results, result)
		if result.Err != nil {
			failCount++
		} else {
			successCount++
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"success": successCount,
		"failed":  failCount,
		"total":   len(results),
	}).Info("Analysis run completed")

	return results
}

// worker drains the symbol channel
func (r *Runner) worker(ctx context.Context, symbolCh <-chan string, resultCh chan<- SymbolResult, currentYear int, load LoadFunc) {
	for symbol := range symbolCh {
		select {
		case <-ctx.Done():
			resultCh <- SymbolResult{
				Symbol: symbol,
				Result: dividend.Result{Score: dividend.Indeterminate},
				Err:    ctx.Err(),
			}
			continue
		default:
		}

		resultCh <- r.processSymbol(ctx, symbol, currentYear, load)
	}
}

// processSymbol is the per-symbol failure boundary: load errors and
// panics both collapse to an indeterminate result for this symbol only.
func (r *Runner) processSymbol(ctx context.Context, symbol string, currentYear int, load LoadFunc) (sr SymbolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(map[string]interface{}{
				"symbol": symbol,
				"panic":  fmt.Sprint(rec),
			}).Error("Symbol analysis panicked")
			sr = SymbolResult{
				Symbol: symbol,
				Result: dividend.Result{Score: dividend.Indeterminate},
				Err:    fmt.Errorf("analysis panic: %v", rec),
			}
		}
	}()

	records, err := load(ctx, symbol)
	if err != nil {
		r.logger.WithError(err).WithField("symbol", symbol).Error("Failed to load dividend records")
		return SymbolResult{
			Symbol: symbol,
			Result: dividend.Result{Score: dividend.Indeterminate},
			Err:    err,
		}
	}

	result, dropped := dividend.AnalyzeRecords(records, currentYear)
	if dropped > 0 {
		r.logger.WithFields(map[string]interface{}{
			"symbol":  symbol,
			"dropped": dropped,
		}).Debug("Dropped unparsable dividend records")
	}

	return SymbolResult{
		Symbol:  symbol,
		Result:  result,
		Dropped: dropped,
	}
}
