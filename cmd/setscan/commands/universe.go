package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// universeCmd represents the universe command
var universeCmd = &cobra.Command{
	Use:   "universe",
	Short: "Re-scrape and cache the market constituents",
	RunE:  runUniverse,
}

var universeMarket string

func init() {
	rootCmd.AddCommand(universeCmd)

	universeCmd.Flags().StringVar(&universeMarket, "market", "", "market index (default from config)")
}

func runUniverse(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.close()

	market := a.cfg.Scan.Market
	if universeMarket != "" {
		market = universeMarket
	}

	symbols, err := a.universe.Refresh(cmd.Context(), market)
	if err != nil {
		return err
	}

	fmt.Printf("%s constituents (%d):\n", market, len(symbols))
	for _, s := range symbols {
		fmt.Println(" ", s)
	}
	return nil
}
