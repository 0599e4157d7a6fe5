package batch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaylee-quant/divscan/internal/dividend"
	"github.com/jaylee-quant/divscan/pkg/config"
	"github.com/jaylee-quant/divscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

// quarterlyRecords builds 4 payments per year for 2020-2024
func quarterlyRecords() []dividend.Record {
	var records []dividend.Record
	for year := 2020; year <= 2024; year++ {
		for _, month := range []int{2, 5, 8, 11} {
			records = append(records, dividend.Record{
				ExDate: fmt.Sprintf("%02d/15/%d", month, year),
				Amount: "0.25",
			})
		}
	}
	return records
}

func TestRunner_Run(t *testing.T) {
	runner := NewRunner(testLogger())

	load := func(ctx context.Context, symbol string) ([]dividend.Record, error) {
		switch symbol {
		case "BROKEN":
			return nil, errors.New("upstream unavailable")
		case "EMPTY":
			return nil, nil
		default:
			return quarterlyRecords(), nil
		}
	}

	symbols := []string{"AAPL", "MSFT", "BROKEN", "EMPTY"}
	results := runner.Run(context.Background(), symbols, 2024, load, Config{Workers: 3})
	require.Len(t, results, 4)

	bySymbol := make(map[string]SymbolResult, len(results))
	for _, r := range results {
		bySymbol[r.Symbol] = r
	}

	for _, sym := range []string{"AAPL", "MSFT"} {
		r := bySymbol[sym]
		require.NoError(t, r.Err)
		count, known := r.Result.Score.Count()
		require.True(t, known, sym)
		assert.Equal(t, 4, count, sym)
		assert.NotEmpty(t, r.Result.Rendering)
	}

	// A failed symbol degrades, it does not abort the batch
	broken := bySymbol["BROKEN"]
	require.Error(t, broken.Err)
	assert.False(t, broken.Result.Score.IsKnown())
	assert.Equal(t, "", broken.Result.Rendering)

	empty := bySymbol["EMPTY"]
	require.NoError(t, empty.Err)
	assert.False(t, empty.Result.Score.IsKnown())
	assert.Equal(t, "", empty.Result.Rendering)
}

func TestRunner_PanicBoundary(t *testing.T) {
	runner := NewRunner(testLogger())

	load := func(ctx context.Context, symbol string) ([]dividend.Record, error) {
		if symbol == "PANIC" {
			panic("unexpected field shape")
		}
		return quarterlyRecords(), nil
	}

	results := runner.Run(context.Background(), []string{"PANIC", "AAPL"}, 2024, load, Config{Workers: 2})
	require.Len(t, results, 2)

	for _, r := range results {
		if r.Symbol == "PANIC" {
			require.Error(t, r.Err)
			assert.False(t, r.Result.Score.IsKnown())
			assert.Equal(t, "", r.Result.Rendering)
		} else {
			require.NoError(t, r.Err)
			assert.True(t, r.Result.Score.IsKnown())
		}
	}
}

func TestRunner_CancelledContext(t *testing.T) {
	runner := NewRunner(testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	load := func(ctx context.Context, symbol string) ([]dividend.Record, error) {
		return quarterlyRecords(), nil
	}

	results := runner.Run(ctx, []string{"AAPL", "MSFT"}, 2024, load, Config{Workers: 1})
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestRunner_DefaultsToOneWorker(t *testing.T) {
	runner := NewRunner(testLogger())

	load := func(ctx context.Context, symbol string) ([]dividend.Record, error) {
		return nil, nil
	}

	results := runner.Run(context.Background(), []string{"AAPL"}, 2024, load, Config{})
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}
