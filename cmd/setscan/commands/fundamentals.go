package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// fundamentalsCmd represents the fundamentals command
var fundamentalsCmd = &cobra.Command{
	Use:   "fundamentals",
	Short: "Refresh cached dividend yields for the scan universe",
	RunE:  runFundamentals,
}

func init() {
	rootCmd.AddCommand(fundamentalsCmd)
}

func runFundamentals(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.close()
	ctx := cmd.Context()

	symbols, err := a.universe.Symbols(ctx, a.cfg.Scan.Market)
	if err != nil {
		return err
	}

	updated, err := a.updater.Refresh(ctx, symbols)
	if err != nil {
		return err
	}

	fmt.Printf("Refreshed %d of %d symbols.\n", updated, len(symbols))
	return nil
}
