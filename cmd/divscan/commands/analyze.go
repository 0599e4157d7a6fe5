package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jaylee-quant/divscan/internal/collector"
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score dividend consistency for every collected symbol",
	Long: `Re-reads the stored dividend histories and scores each symbol's
payment cadence over the trailing five years. Symbols without enough
history get no score.

The year flag pins the analysis window, which makes runs reproducible.
It defaults to the current year.

Example:
  go run ./cmd/divscan analyze
  go run ./cmd/divscan analyze --year 2026 --workers 10`,
	RunE: runAnalyze,
}

var (
	analyzeYear    int
	analyzeWorkers int
)

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().IntVar(&analyzeYear, "year", 0, "analysis reference year (default current year)")
	analyzeCmd.Flags().IntVar(&analyzeWorkers, "workers", 0, "concurrent analysis workers (default ANALYSIS_WORKERS)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println("=== divscan Consistency Analysis ===")
	fmt.Println()

	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	year := analyzeYear
	if year == 0 {
		year = time.Now().Year()
	}

	runID, results, err := app.collector.RunAnalysis(context.Background(), year, collector.Config{Workers: analyzeWorkers})
	if err != nil {
		return fmt.Errorf("run analysis: %w", err)
	}

	var scored, indeterminate, failed int
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
		case res.Result.Score.IsKnown():
			scored++
		default:
			indeterminate++
		}
	}

	fmt.Println()
	PrintSeparator()
	PrintKeyValue("Run ID", runID.String(), 14)
	PrintKeyValue("Year", fmt.Sprintf("%d", year), 14)
	PrintKeyValue("Symbols", fmt.Sprintf("%d", len(results)), 14)
	PrintKeyValue("Scored", fmt.Sprintf("%d", scored), 14)
	PrintKeyValue("Indeterminate", fmt.Sprintf("%d", indeterminate), 14)
	PrintKeyValue("Failed", fmt.Sprintf("%d", failed), 14)
	PrintSeparator()

	PrintSuccess("Analysis completed")
	return nil
}
