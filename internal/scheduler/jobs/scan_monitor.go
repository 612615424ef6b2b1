// Package jobs holds the scheduled job implementations.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/scanner"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/logger"
)

// ScanMonitorJob runs a scan cycle on a fixed interval during SET trading
// hours so open positions and alerts are settled without user action.
type ScanMonitorJob struct {
	scanner  *scanner.Scanner
	cfg      config.ScanConfig
	schedule string
	logger   *logger.Logger
}

// NewScanMonitorJob creates the scan monitor job. interval is rounded to
// whole minutes, minimum one.
func NewScanMonitorJob(s *scanner.Scanner, cfg config.ScanConfig, interval time.Duration, log *logger.Logger) *ScanMonitorJob {
	minutes := int(interval.Minutes())
	if minutes < 1 {
		minutes = 1
	}

	// SET trades 10:00-16:30 ICT, which is 03:00-09:30 UTC, Mon-Fri
	return &ScanMonitorJob{
		scanner:  s,
		cfg:      cfg,
		schedule: fmt.Sprintf("0 */%d 3-9 * * 1-5", minutes),
		logger:   log,
	}
}

// Name returns the job name
func (j *ScanMonitorJob) Name() string { return "scan_monitor" }

// Schedule returns the cron expression
func (j *ScanMonitorJob) Schedule() string { return j.schedule }

// Run executes one scan cycle. A cycle already in flight is not an error;
// this tick is simply skipped.
func (j *ScanMonitorJob) Run(ctx context.Context) error {
	params := contracts.ScanParams{
		Date:             time.Now().Format("2006-01-02"),
		Market:           j.cfg.Market,
		Budget:           j.cfg.Budget,
		RiskLevel:        contracts.RiskLevel(j.cfg.RiskLevel),
		MinVolumeValue:   j.cfg.MinVolumeValue,
		MinDividendYield: j.cfg.MinDividendYield,
		SniperMode:       j.cfg.SniperMode,
	}

	_, err := j.scanner.Scan(ctx, params)
	if errors.Is(err, scanner.ErrScanInFlight) {
		j.logger.Debug("Scan already in flight, skipping monitor tick")
		return nil
	}
	return err
}
