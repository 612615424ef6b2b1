package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ledgerCmd represents the ledger command
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show paper-trade records and statistics",
	RunE:  runLedger,
}

var (
	ledgerLimit int
	ledgerClear bool
)

func init() {
	rootCmd.AddCommand(ledgerCmd)

	ledgerCmd.Flags().IntVar(&ledgerLimit, "limit", 20, "number of records to show (0 for all)")
	ledgerCmd.Flags().BoolVar(&ledgerClear, "clear", false, "remove every record")
}

func runLedger(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.close()
	ctx := cmd.Context()

	if ledgerClear {
		if err := a.ledgerSvc.Clear(ctx); err != nil {
			return err
		}
		fmt.Println("Ledger cleared.")
		return nil
	}

	stats, err := a.ledgerSvc.Stats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Total: %d  Open: %d  Wins: %d  Losses: %d  Win rate: %.1f%%\n\n",
		stats.Total, stats.Active, stats.Wins, stats.Losses, stats.WinRate)

	records, err := a.ledgerSvc.List(ctx, ledgerLimit)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-12s %8s %8s %8s  %-6s %s\n",
		"SYMBOL", "DATE", "ENTRY", "TARGET", "STOP", "STATUS", "RESULT")
	for _, r := range records {
		result := "-"
		if r.PercentChange != nil {
			result = fmt.Sprintf("%+.2f%%", *r.PercentChange)
		}
		fmt.Printf("%-8s %-12s %8.2f %8.2f %8.2f  %-6s %s\n",
			r.Symbol, r.EntryDate.Format("2006-01-02"), r.EntryPrice,
			r.TargetPrice, r.StopLoss, r.Status, result)
	}
	return nil
}
