// Package scanner runs the scan cycle: fetch quotes for the market
// universe, update the ledger and alerts, build and rank recommendations,
// and announce what changed.
package scanner

import (
	"context"
	"errors"
	"sync"

	"github.com/taworn/setscan/internal/alerts"
	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/ledger"
	"github.com/taworn/setscan/internal/notify"
	"github.com/taworn/setscan/internal/recommend"
	"github.com/taworn/setscan/internal/screen"
	"github.com/taworn/setscan/pkg/logger"
)

// ErrScanInFlight is returned when a scan is requested while another cycle
// is still running. Cycles are strictly serialized so ledger updates never
// race.
var ErrScanInFlight = errors.New("a scan cycle is already in flight")

// Broadcaster receives the finished result of each scan cycle
type Broadcaster interface {
	BroadcastScan(result *contracts.ScanResult)
}

// Scanner orchestrates one scan cycle at a time
type Scanner struct {
	universe   contracts.SymbolUniverse
	source     contracts.QuoteSource
	builder    *recommend.Builder
	screener   *screen.Screener
	ledger     *ledger.Service
	alerts     *alerts.Service
	dispatcher *notify.Dispatcher
	clock      contracts.Clock
	logger     *logger.Logger

	mu          sync.Mutex // held for the duration of one cycle
	cancelMu    sync.Mutex
	cancelCycle context.CancelFunc

	prevMu      sync.Mutex
	prevSymbols map[string]bool
	lastResult  *contracts.ScanResult

	broadcaster Broadcaster
}

// Deps bundles the scanner's collaborators
type Deps struct {
	Universe   contracts.SymbolUniverse
	Source     contracts.QuoteSource
	Builder    *recommend.Builder
	Screener   *screen.Screener
	Ledger     *ledger.Service
	Alerts     *alerts.Service
	Dispatcher *notify.Dispatcher
	Clock      contracts.Clock
	Logger     *logger.Logger
}

// New creates a scanner
func New(deps Deps) *Scanner {
	clock := deps.Clock
	if clock == nil {
		clock = contracts.SystemClock{}
	}
	return &Scanner{
		universe:    deps.Universe,
		source:      deps.Source,
		builder:     deps.Builder,
		screener:    deps.Screener,
		ledger:      deps.Ledger,
		alerts:      deps.Alerts,
		dispatcher:  deps.Dispatcher,
		clock:       clock,
		logger:      deps.Logger,
		prevSymbols: make(map[string]bool),
	}
}

// SetBroadcaster attaches a live result consumer, e.g. the websocket hub
func (s *Scanner) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// LastResult returns the most recent finished scan, nil before the first
func (s *Scanner) LastResult() *contracts.ScanResult {
	s.prevMu.Lock()
	defer s.prevMu.Unlock()
	return s.lastResult
}

// Cancel aborts the in-flight cycle, if any. Its partial results are
// discarded.
func (s *Scanner) Cancel() {
	s.cancelMu.Lock()
	defer s.cancelMu.Unlock()
	if s.cancelCycle != nil {
		s.cancelCycle()
	}
}

// Scan runs one full cycle. A second call while a cycle is running returns
// ErrScanInFlight instead of queueing.
func (s *Scanner) Scan(ctx context.Context, params contracts.ScanParams) (*contracts.ScanResult, error) {
	if !s.mu.TryLock() {
		return nil, ErrScanInFlight
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.cancelMu.Lock()
	s.cancelCycle = cancel
	s.cancelMu.Unlock()
	defer func() {
		s.cancelMu.Lock()
		s.cancelCycle = nil
		s.cancelMu.Unlock()
	}()

	symbols, err := s.universe.Symbols(ctx, params.Market)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"market":  params.Market,
		"symbols": len(symbols),
		"sniper":  params.SniperMode,
	}).Info("Scan cycle started")

	quotes := s.fetchQuotes(ctx, symbols)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prices := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		prices[q.Symbol] = q.Price
	}

	// Settle existing state before producing new signals
	triggeredAlerts := s.alerts.Check(ctx, prices)
	closedTrades := s.ledger.CheckPrices(ctx, prices)

	openSymbols, err := s.ledger.OpenSymbols(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load open positions, scanning without exclusions")
		openSymbols = map[string]bool{}
	}

	recs := s.builder.BuildAll(quotes)
	passed := s.screener.Screen(recs, screen.Params{
		MinVolumeValue:   params.MinVolumeValue,
		MinDividendYield: params.MinDividendYield,
		RiskLevel:        params.RiskLevel,
		SniperMode:       params.SniperMode,
		Excluded:         openSymbols,
	})
	screen.Rank(passed)

	for _, rec := range passed {
		if _, _, err := s.ledger.Record(ctx, rec); err != nil {
			s.logger.WithError(err).WithField("symbol", rec.Symbol).Error("Failed to record recommendation")
		}
	}

	newEntrants := s.diffEntrants(passed)

	result := &contracts.ScanResult{
		Timestamp:       s.clock.Now(),
		Params:          params,
		Recommendations: passed,
		NewSymbols:      newEntrants,
		Scanned:         len(quotes),
		Dropped:         len(symbols) - len(quotes),
		TriggeredAlerts: len(triggeredAlerts),
		ClosedTrades:    len(closedTrades),
	}

	s.prevMu.Lock()
	s.lastResult = result
	s.prevMu.Unlock()

	s.announce(ctx, triggeredAlerts, closedTrades, passed, newEntrants)

	if s.broadcaster != nil {
		s.broadcaster.BroadcastScan(result)
	}

	s.logger.WithFields(map[string]interface{}{
		"scanned":       result.Scanned,
		"dropped":       result.Dropped,
		"passed":        len(passed),
		"new_symbols":   len(newEntrants),
		"closed_trades": len(closedTrades),
	}).Info("Scan cycle completed")

	return result, nil
}

// fetchQuotes fans out one fetch per symbol and keeps whatever succeeded.
// A failed symbol is dropped from the batch, never fatal.
func (s *Scanner) fetchQuotes(ctx context.Context, symbols []string) []*contracts.Quote {
	results := make([]*contracts.Quote, len(symbols))

	var wg sync.WaitGroup
	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			quote, err := s.source.FetchQuote(ctx, symbol)
			if err != nil {
				s.logger.WithError(err).WithField("symbol", symbol).Warn("Quote fetch failed, dropping symbol")
				return
			}
			results[i] = quote
		}(i, symbol)
	}
	wg.Wait()

	quotes := make([]*contracts.Quote, 0, len(symbols))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, q)
		}
	}
	return quotes
}

// diffEntrants returns symbols recommended now but not in the previous
// cycle, and remembers the current set for the next diff.
func (s *Scanner) diffEntrants(passed []*contracts.Recommendation) []string {
	current := make(map[string]bool, len(passed))
	for _, rec := range passed {
		current[rec.Symbol] = true
	}

	s.prevMu.Lock()
	defer s.prevMu.Unlock()

	entrants := make([]string, 0)
	for _, rec := range passed {
		if !s.prevSymbols[rec.Symbol] {
			entrants = append(entrants, rec.Symbol)
		}
	}
	s.prevSymbols = current
	return entrants
}

func (s *Scanner) announce(ctx context.Context, triggered []alerts.TriggeredAlert, closed []contracts.TradeClosedEvent, passed []*contracts.Recommendation, newEntrants []string) {
	for _, alert := range triggered {
		s.dispatcher.AlertTriggered(ctx, alert)
	}
	for _, event := range closed {
		s.dispatcher.TradeClosed(ctx, event)
	}

	if len(newEntrants) == 0 {
		return
	}
	entrantSet := make(map[string]bool, len(newEntrants))
	for _, symbol := range newEntrants {
		entrantSet[symbol] = true
	}
	fresh := make([]*contracts.Recommendation, 0, len(newEntrants))
	for _, rec := range passed {
		if entrantSet[rec.Symbol] {
			fresh = append(fresh, rec)
		}
	}
	s.dispatcher.NewSignals(ctx, fresh)
}
