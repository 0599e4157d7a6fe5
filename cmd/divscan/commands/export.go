package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaylee-quant/divscan/internal/store"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dividend histories to per-symbol CSV files",
	Long: `Writes every active symbol's raw dividend records to one CSV file
per symbol. With --prune, files left with only a header row are removed
afterwards.

Example:
  go run ./cmd/divscan export
  go run ./cmd/divscan export --dir dividend_stocks --prune`,
	RunE: runExport,
}

var (
	exportDir   string
	exportPrune bool
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDir, "dir", "dividend_stocks", "output directory")
	exportCmd.Flags().BoolVar(&exportPrune, "prune", false, "remove header-only CSV files after export")
}

func runExport(cmd *cobra.Command, args []string) error {
	fmt.Println("=== divscan CSV Export ===")
	fmt.Println()

	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	written, err := app.collector.ExportCSV(context.Background(), exportDir)
	if err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	fmt.Println()
	PrintKeyValue("Directory", exportDir, 9)
	PrintKeyValue("Written", fmt.Sprintf("%d", written), 9)

	if exportPrune {
		kept, removed, err := store.PruneEmptyCSVs(exportDir)
		if err != nil {
			return fmt.Errorf("prune csv: %w", err)
		}
		PrintKeyValue("Kept", fmt.Sprintf("%d", len(kept)), 9)
		PrintKeyValue("Removed", fmt.Sprintf("%d", removed), 9)
	}

	fmt.Println()
	PrintSuccess("Export completed")
	return nil
}
