package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taworn/setscan/internal/contracts"
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan cycle and print the recommendations",
	Long: `Fetches quotes for the configured market, updates the paper-trade
ledger and alerts, and prints the filtered recommendations ranked by score.

Example:
  go run ./cmd/setscan scan
  go run ./cmd/setscan scan --sniper --risk low
  go run ./cmd/setscan scan --market SET50 --min-dividend 3`,
	RunE: runScan,
}

var (
	scanMarket      string
	scanRisk        string
	scanMinVolume   float64
	scanMinDividend float64
	scanSniper      bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanMarket, "market", "", "market index to scan (default from config)")
	scanCmd.Flags().StringVar(&scanRisk, "risk", "", "risk level: low, medium, high")
	scanCmd.Flags().Float64Var(&scanMinVolume, "min-volume", 0, "minimum traded value in THB")
	scanCmd.Flags().Float64Var(&scanMinDividend, "min-dividend", 0, "minimum dividend yield percent")
	scanCmd.Flags().BoolVar(&scanSniper, "sniper", false, "enable sniper mode filtering")
}

func runScan(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.close()

	params := contracts.ScanParams{
		Date:             time.Now().Format("2006-01-02"),
		Market:           a.cfg.Scan.Market,
		Budget:           a.cfg.Scan.Budget,
		RiskLevel:        contracts.RiskLevel(a.cfg.Scan.RiskLevel),
		MinVolumeValue:   a.cfg.Scan.MinVolumeValue,
		MinDividendYield: a.cfg.Scan.MinDividendYield,
		SniperMode:       a.cfg.Scan.SniperMode || scanSniper,
	}
	if scanMarket != "" {
		params.Market = scanMarket
	}
	if scanRisk != "" {
		params.RiskLevel = contracts.RiskLevel(scanRisk)
	}
	if scanMinVolume > 0 {
		params.MinVolumeValue = scanMinVolume
	}
	if scanMinDividend > 0 {
		params.MinDividendYield = scanMinDividend
	}

	result, err := a.scanner.Scan(cmd.Context(), params)
	if err != nil {
		return err
	}

	fmt.Printf("\nScanned %d symbols (%d dropped), %d recommendations",
		result.Scanned, result.Dropped, len(result.Recommendations))
	if result.ClosedTrades > 0 {
		fmt.Printf(", %d trades closed", result.ClosedTrades)
	}
	fmt.Println()

	if len(result.Recommendations) == 0 {
		fmt.Println("\nNo stocks passed the filters this cycle.")
		return nil
	}

	fmt.Printf("\n%-8s %5s  %8s %8s %8s  %-7s %-22s %s\n",
		"SYMBOL", "SCORE", "ENTRY", "TARGET", "STOP", "RR", "PATTERN", "MOMENTUM")
	for _, rec := range result.Recommendations {
		fmt.Printf("%-8s %5d  %8.2f %8.2f %8.2f  %-7s %-22s %s\n",
			rec.Symbol, rec.Score, rec.EntryPoint, rec.TargetPrice, rec.StopLoss,
			rec.RiskReward, rec.ChartPattern, rec.Momentum)
	}

	if len(result.NewSymbols) > 0 {
		fmt.Printf("\nNew this cycle: %v\n", result.NewSymbols)
	}
	return nil
}
