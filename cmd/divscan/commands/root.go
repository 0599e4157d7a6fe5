package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "divscan",
	Short: "Dividend consistency screener for NASDAQ-listed stocks",
	Long: `divscan - Dividend Consistency Screener

Collects dividend histories for large-cap NASDAQ stocks and scores
how consistently each symbol has paid over the trailing five years.

Usage:
  go run ./cmd/divscan [command]

Examples:
  go run ./cmd/divscan universe
  go run ./cmd/divscan collect
  go run ./cmd/divscan analyze --year 2026
  go run ./cmd/divscan api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
