package jobs

import (
	"context"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/fundamentals"
	"github.com/taworn/setscan/pkg/logger"
)

// FundamentalsJob refreshes cached dividend yields for the scan universe
// once a day, after the market closes.
type FundamentalsJob struct {
	updater  *fundamentals.Updater
	universe contracts.SymbolUniverse
	market   string
	logger   *logger.Logger
}

// NewFundamentalsJob creates the daily fundamentals refresh job
func NewFundamentalsJob(updater *fundamentals.Updater, universe contracts.SymbolUniverse, market string, log *logger.Logger) *FundamentalsJob {
	return &FundamentalsJob{updater: updater, universe: universe, market: market, logger: log}
}

// Name returns the job name
func (j *FundamentalsJob) Name() string { return "fundamentals_refresh" }

// Schedule runs daily at 10:30 UTC, after the SET close
func (j *FundamentalsJob) Schedule() string { return "0 30 10 * * 1-5" }

// Run refreshes yields for every symbol in the universe
func (j *FundamentalsJob) Run(ctx context.Context) error {
	symbols, err := j.universe.Symbols(ctx, j.market)
	if err != nil {
		return err
	}

	_, err = j.updater.Refresh(ctx, symbols)
	return err
}
