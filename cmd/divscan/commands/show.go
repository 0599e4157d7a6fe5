package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [symbol]",
	Short: "Show one symbol's score and recent dividend history",
	Long: `Prints the consistency score and the last ten years of ex-dividend
dates for a single symbol.

Example:
  go run ./cmd/divscan show AAPL`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	symbol := strings.ToUpper(args[0])

	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	result, err := app.repo.GetResult(context.Background(), symbol)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			PrintError(fmt.Sprintf("No analysis result for %s, run collect and analyze first", symbol))
			return nil
		}
		return fmt.Errorf("get result: %w", err)
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  %s\n", symbol)
	PrintDoubleSeparator()
	PrintKeyValue("Dividends / Year", result.Score.String(), 16)
	fmt.Println()

	if result.Rendering == "" {
		PrintInfo("No dividend history in the rendering window")
		return nil
	}

	fmt.Println("Recent ex-dividend dates:")
	fmt.Print(result.Rendering)
	return nil
}
