package commands

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var billion = decimal.New(1, 9)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the screener table",
	Long: `Prints the current screener results: every collected symbol with
its sector, market cap, and consistency score, sorted by market cap.

Example:
  go run ./cmd/divscan status
  go run ./cmd/divscan status --limit 50`,
	RunE: runStatus,
}

var (
	statusLimit int
)

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().IntVar(&statusLimit, "limit", 0, "max rows (0 = all)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	summaries, err := app.repo.GetStockSummaries(context.Background())
	if err != nil {
		return fmt.Errorf("get stock summaries: %w", err)
	}

	if statusLimit > 0 && len(summaries) > statusLimit {
		summaries = summaries[:statusLimit]
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Dividend Consistency Screener (%d stocks)\n", len(summaries))
	PrintDoubleSeparator()
	fmt.Println()

	widths := []int{8, 24, 16, 18}
	PrintTableHeader([]string{"Symbol", "Sector", "Market Cap ($B)", "Dividends / Year"}, widths)

	for _, s := range summaries {
		PrintTableRow([]string{
			s.Symbol,
			s.Sector,
			s.MarketCap.Div(billion).Round(1).String(),
			s.Score.String(),
		}, widths)
	}

	fmt.Println()
	return nil
}
