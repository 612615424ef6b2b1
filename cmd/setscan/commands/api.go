package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taworn/setscan/internal/api"
	"github.com/taworn/setscan/internal/api/handlers"
	"github.com/taworn/setscan/internal/scheduler"
	"github.com/taworn/setscan/internal/scheduler/jobs"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with the scan scheduler.

Endpoints:
  GET    /health                        - Health check
  WS     /ws                            - Live scan results
  POST   /api/scan                      - Run a scan cycle
  GET    /api/scan                      - Latest scan result
  POST   /api/scan/cancel               - Cancel the in-flight scan
  GET    /api/ledger                    - Paper-trade records
  DELETE /api/ledger                    - Clear the ledger
  GET    /api/ledger/stats              - Win/loss statistics
  GET    /api/alerts                    - Active price alerts
  POST   /api/alerts                    - Create a price alert
  DELETE /api/alerts/{symbol}           - Remove a price alert
  GET    /api/stocks/{symbol}/quote     - Latest quote
  GET    /api/stocks/{symbol}/history   - Daily candles
  POST   /api/universe/refresh          - Re-scrape constituents
  POST   /api/fundamentals/refresh      - Refresh dividend yields
  GET    /api/settings/{key}            - Read a stored setting
  PUT    /api/settings/{key}            - Save a setting

Example:
  go run ./cmd/setscan api
  go run ./cmd/setscan api --port 8089 --no-monitor`,
	RunE: runAPIServer,
}

var (
	apiPort   string
	noMonitor bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (default from PORT env)")
	apiCmd.Flags().BoolVar(&noMonitor, "no-monitor", false, "disable the scheduled scan monitor")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.close()

	if apiPort != "" {
		a.cfg.Port = apiPort
	}
	log := a.logger

	hub := api.NewHub(log)
	a.scanner.SetBroadcaster(hub)

	scanHandler := handlers.NewScanHandler(a.scanner, a.cfg.Scan, log)
	ledgerHandler := handlers.NewLedgerHandler(a.ledgerSvc, log)
	alertHandler := handlers.NewAlertHandler(a.alertSvc, log)
	stockHandler := handlers.NewStockHandler(a.yahooClient, a.universe, a.updater, a.cfg.Scan.Market, log)
	settingHandler := handlers.NewSettingHandler(a.settings, log)

	router := api.NewRouter(scanHandler, ledgerHandler, alertHandler, stockHandler, settingHandler, hub, log)
	server := api.New(a.cfg, log, router)

	sched := scheduler.New(log)
	if !noMonitor {
		if err := sched.AddJob(jobs.NewScanMonitorJob(a.scanner, a.cfg.Scan, a.cfg.Scan.AutoScanInterval, log)); err != nil {
			return err
		}
	}
	if err := sched.AddJob(jobs.NewFundamentalsJob(a.updater, a.universe, a.cfg.Scan.Market, log)); err != nil {
		return err
	}
	if err := sched.AddJob(jobs.NewUniverseJob(a.universe, a.cfg.Scan.Market, log)); err != nil {
		return err
	}
	sched.Start()

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	fmt.Printf("\nServer running on http://localhost:%s\n", a.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	sched.Stop()
	hub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
