package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Refresh the stock universe from the NASDAQ screener",
	Long: `Fetches the NASDAQ screener and upserts every stock above the
configured market cap floor (NASDAQ_MIN_MARKET_CAP, default $1B).

Example:
  go run ./cmd/divscan universe`,
	RunE: runUniverse,
}

func init() {
	rootCmd.AddCommand(universeCmd)
}

func runUniverse(cmd *cobra.Command, args []string) error {
	fmt.Println("=== divscan Universe Refresh ===")
	fmt.Println()

	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	count, err := app.collector.RefreshUniverse(context.Background())
	if err != nil {
		return fmt.Errorf("refresh universe: %w", err)
	}

	fmt.Println()
	PrintSuccess(fmt.Sprintf("Universe refreshed: %d stocks", count))
	return nil
}
