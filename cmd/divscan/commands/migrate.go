package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long: `Applies the schema: the data schema with stocks, dividend_events,
and consistency_results tables. Safe to run repeatedly.

Example:
  go run ./cmd/divscan migrate`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	fmt.Println("=== divscan Migration ===")
	fmt.Println()

	app, err := initApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.repo.Migrate(context.Background()); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	PrintSuccess("Schema up to date")
	return nil
}
