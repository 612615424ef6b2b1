package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "setscan",
	Short: "SET stock scanner and paper-trading tracker",
	Long: `setscan scans Stock Exchange of Thailand symbols, scores them into
trade recommendations, and tracks every recommendation as a paper trade
until it hits its target or stop.

Usage:
  go run ./cmd/setscan [command]

Examples:
  go run ./cmd/setscan api
  go run ./cmd/setscan scan --sniper
  go run ./cmd/setscan fundamentals
  go run ./cmd/setscan universe`,
}

// Execute runs the root command. Called once from main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
