package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taworn/setscan/internal/alerts"
	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/ledger"
	"github.com/taworn/setscan/internal/notify"
	"github.com/taworn/setscan/internal/recommend"
	"github.com/taworn/setscan/internal/scanner"
	"github.com/taworn/setscan/internal/screen"
	"github.com/taworn/setscan/internal/settings"
	"github.com/taworn/setscan/pkg/config"
	"github.com/taworn/setscan/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "console"})
}

type stubUniverse struct{ symbols []string }

func (s *stubUniverse) Symbols(context.Context, string) ([]string, error) {
	return s.symbols, nil
}

type stubSource struct{ quotes map[string]*contracts.Quote }

func (s *stubSource) FetchQuote(_ context.Context, symbol string) (*contracts.Quote, error) {
	if q, ok := s.quotes[symbol]; ok {
		return q, nil
	}
	return nil, context.DeadlineExceeded
}

func (s *stubSource) FetchHistory(context.Context, string) ([]contracts.Candle, error) {
	return []contracts.Candle{{Time: time.Now(), Close: 35.25}}, nil
}

type silentNotifier struct{}

func (silentNotifier) Send(context.Context, string) error { return nil }

func newTestScanner(quotes map[string]*contracts.Quote) *scanner.Scanner {
	log := testLogger()
	symbols := make([]string, 0, len(quotes))
	for s := range quotes {
		symbols = append(symbols, s)
	}
	return scanner.New(scanner.Deps{
		Universe:   &stubUniverse{symbols: symbols},
		Source:     &stubSource{quotes: quotes},
		Builder:    recommend.NewBuilder(func(string) float64 { return 2.5 }),
		Screener:   screen.NewScreener(log),
		Ledger:     ledger.NewService(ledger.NewMemoryRepository(), nil, log),
		Alerts:     alerts.NewService(alerts.NewMemoryRepository(), nil, log),
		Dispatcher: notify.NewDispatcher(silentNotifier{}, log),
		Logger:     log,
	})
}

func scanConfig() config.ScanConfig {
	return config.ScanConfig{
		Market:         "SET100",
		MinVolumeValue: 10_000_000,
		RiskLevel:      "medium",
	}
}

func strongQuote(symbol string) *contracts.Quote {
	return &contracts.Quote{
		Symbol:        symbol,
		Name:          symbol,
		Price:         35.25,
		ChangePercent: 1.2,
		Volume:        125_000_000,
		AvgVolume:     70_000_000,
		High:          35.70,
		Low:           35.00,
		DividendYield: 3,
		RSI:           &contracts.RSIReading{Value: 55, Source: contracts.SourceComputed},
		MACD:          &contracts.MACDReading{Value: contracts.SignalBullish, Source: contracts.SourceComputed},
	}
}

func TestScanHandlerRun(t *testing.T) {
	h := NewScanHandler(newTestScanner(map[string]*contracts.Quote{"PTT": strongQuote("PTT")}), scanConfig(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"sniper_mode": false}`))
	rec := httptest.NewRecorder()
	h.Run(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result contracts.ScanResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, 1, result.Scanned)
	assert.Len(t, result.Recommendations, 1)
	assert.Equal(t, "SET100", result.Params.Market)
}

func TestScanHandlerRunEmptyBody(t *testing.T) {
	h := NewScanHandler(newTestScanner(map[string]*contracts.Quote{"PTT": strongQuote("PTT")}), scanConfig(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/scan", nil)
	rec := httptest.NewRecorder()
	h.Run(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestScanHandlerRejectsBadRisk(t *testing.T) {
	h := NewScanHandler(newTestScanner(nil), scanConfig(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/scan", strings.NewReader(`{"risk_level": "yolo"}`))
	rec := httptest.NewRecorder()
	h.Run(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandlerLatestBeforeFirstScan(t *testing.T) {
	h := NewScanHandler(newTestScanner(nil), scanConfig(), testLogger())

	rec := httptest.NewRecorder()
	h.Latest(rec, httptest.NewRequest(http.MethodGet, "/api/scan", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScanParamsOverrides(t *testing.T) {
	h := NewScanHandler(nil, scanConfig(), testLogger())

	sniper := true
	params := h.params(ScanRequest{
		Market:           "SET50",
		RiskLevel:        "high",
		MinDividendYield: 2,
		SniperMode:       &sniper,
	})

	assert.Equal(t, "SET50", params.Market)
	assert.Equal(t, contracts.RiskHigh, params.RiskLevel)
	assert.Equal(t, 2.0, params.MinDividendYield)
	assert.Equal(t, 10_000_000.0, params.MinVolumeValue, "unset field keeps configured default")
	assert.True(t, params.SniperMode)
}

func TestLedgerHandlerListAndClear(t *testing.T) {
	repo := ledger.NewMemoryRepository()
	svc := ledger.NewService(repo, nil, testLogger())
	h := NewLedgerHandler(svc, testLogger())

	_, _, err := repo.Create(context.Background(), contracts.LedgerRecord{
		ID: "r1", Symbol: "PTT", EntryDate: time.Now(), Status: contracts.StatusOpen,
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/ledger", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var records []contracts.LedgerRecord
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&records))
	assert.Len(t, records, 1)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/ledger?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	h.Clear(rec, httptest.NewRequest(http.MethodDelete, "/api/ledger", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
}

func TestAlertHandlerLifecycle(t *testing.T) {
	svc := alerts.NewService(alerts.NewMemoryRepository(), nil, testLogger())
	h := NewAlertHandler(svc, testLogger())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/alerts",
		strings.NewReader(`{"symbol": "ptt", "target_price": 36, "condition": "above"}`))
	h.Set(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/api/alerts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var active []contracts.Alert
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&active))
	require.Len(t, active, 1)
	assert.Equal(t, "PTT", active[0].Symbol, "symbol upper-cased")

	// Invalid condition rejected
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/alerts",
		strings.NewReader(`{"symbol": "PTT", "target_price": 36, "condition": "sideways"}`))
	h.Set(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Remove through the router so mux vars are populated
	router := mux.NewRouter()
	router.HandleFunc("/api/alerts/{symbol}", h.Remove).Methods("DELETE")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/alerts/PTT", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	remaining, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, remaining)
}

func TestSettingHandlerRoundTrip(t *testing.T) {
	h := NewSettingHandler(settings.NewMemoryRepository(), testLogger())

	router := mux.NewRouter()
	router.HandleFunc("/api/settings/{key}", h.Get).Methods("GET")
	router.HandleFunc("/api/settings/{key}", h.Put).Methods("PUT")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings/scan_defaults", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/scan_defaults",
		strings.NewReader(`{"sniper_mode": true`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code, "malformed JSON rejected")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/settings/scan_defaults",
		strings.NewReader(`{"sniper_mode": true}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settings/scan_defaults", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored map[string]bool
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stored))
	assert.True(t, stored["sniper_mode"])
}
