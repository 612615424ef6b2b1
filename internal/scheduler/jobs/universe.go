package jobs

import (
	"context"

	"github.com/taworn/setscan/internal/external/set"
	"github.com/taworn/setscan/pkg/logger"
)

// UniverseJob re-scrapes the index constituents weekly. Membership changes
// rarely, so a weekly refresh keeps the cached list current without
// hammering the exchange site.
type UniverseJob struct {
	universe *set.Universe
	market   string
	logger   *logger.Logger
}

// NewUniverseJob creates the weekly constituents refresh job
func NewUniverseJob(universe *set.Universe, market string, log *logger.Logger) *UniverseJob {
	return &UniverseJob{universe: universe, market: market, logger: log}
}

// Name returns the job name
func (j *UniverseJob) Name() string { return "universe_refresh" }

// Schedule runs Sunday at 02:00 UTC
func (j *UniverseJob) Schedule() string { return "0 0 2 * * 0" }

// Run re-scrapes and caches the constituents
func (j *UniverseJob) Run(ctx context.Context) error {
	_, err := j.universe.Refresh(ctx, j.market)
	return err
}
