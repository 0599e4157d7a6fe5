package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaylee-quant/divscan/internal/collector"
)

// collectCmd represents the collect command
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect dividend histories for the active universe",
	Long: `Fetches the dividend history for every active symbol and stores
the raw events. Symbols with no dividend history are marked so later
analysis passes skip them.

Example:
  go run ./cmd/divscan collect
  go run ./cmd/divscan collect --workers 10`,
	RunE: runCollect,
}

var (
	collectWorkers int
)

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().IntVar(&collectWorkers, "workers", 0, "concurrent fetch workers (default ANALYSIS_WORKERS)")
}

func runCollect(cmd *cobra.Command, args []string) error {
	fmt.Println("=== divscan Dividend Collection ===")
	fmt.Println()

	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	results, err := app.collector.CollectDividends(context.Background(), collector.Config{Workers: collectWorkers})
	if err != nil {
		return fmt.Errorf("collect dividends: %w", err)
	}

	var ok, cached, failed, empty int
	for _, res := range results {
		switch {
		case res.Error != nil:
			failed++
		case res.EventCount == 0:
			empty++
		case res.FromCache:
			cached++
			ok++
		default:
			ok++
		}
	}

	fmt.Println()
	PrintSeparator()
	PrintKeyValue("Symbols", fmt.Sprintf("%d", len(results)), 12)
	PrintKeyValue("Collected", fmt.Sprintf("%d (%d from cache)", ok, cached), 12)
	PrintKeyValue("No dividends", fmt.Sprintf("%d", empty), 12)
	PrintKeyValue("Failed", fmt.Sprintf("%d", failed), 12)
	PrintSeparator()

	if failed > 0 {
		PrintWarning(fmt.Sprintf("%d symbols failed, re-run collect to retry", failed))
	} else {
		PrintSuccess("Dividend collection completed")
	}
	return nil
}
