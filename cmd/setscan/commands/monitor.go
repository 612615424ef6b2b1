package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taworn/setscan/internal/scheduler"
	"github.com/taworn/setscan/internal/scheduler/jobs"
)

// monitorCmd represents the monitor command
var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Run the scan scheduler without the API server",
	Long: `Runs the scheduled jobs as a standalone daemon:
  - scan monitor during SET trading hours
  - daily fundamentals refresh
  - weekly constituent list refresh

Notifications go out through Telegram when configured.

Example:
  go run ./cmd/setscan monitor
  go run ./cmd/setscan monitor --interval 10`,
	RunE: runMonitor,
}

var monitorInterval int

func init() {
	rootCmd.AddCommand(monitorCmd)

	monitorCmd.Flags().IntVar(&monitorInterval, "interval", 0, "minutes between scans (default from SCAN_AUTO_INTERVAL)")
}

func runMonitor(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.close()
	log := a.logger

	interval := a.cfg.Scan.AutoScanInterval
	if monitorInterval > 0 {
		interval = time.Duration(monitorInterval) * time.Minute
	}

	sched := scheduler.New(log)
	if err := sched.AddJob(jobs.NewScanMonitorJob(a.scanner, a.cfg.Scan, interval, log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewFundamentalsJob(a.updater, a.universe, a.cfg.Scan.Market, log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewUniverseJob(a.universe, a.cfg.Scan.Market, log)); err != nil {
		return err
	}
	sched.Start()

	fmt.Printf("Monitor running, scanning every %d minutes during trading hours\n", int(interval.Minutes()))
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Stopping monitor...")
	sched.Stop()
	return nil
}
