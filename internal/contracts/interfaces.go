package contracts

import (
	"context"
	"time"
)

// QuoteSource supplies market snapshots and chart history for symbols.
// A failed per-symbol fetch returns an error for that symbol only; batch
// callers drop the symbol and continue.
type QuoteSource interface {
	FetchQuote(ctx context.Context, symbol string) (*Quote, error)
	FetchHistory(ctx context.Context, symbol string) ([]Candle, error)
}

// LedgerRepository persists paper-trade records.
// Create enforces the one-record-per-(symbol, calendar day) rule: creating a
// duplicate returns the existing record with created=false.
type LedgerRepository interface {
	Create(ctx context.Context, record LedgerRecord) (LedgerRecord, bool, error)
	Update(ctx context.Context, record LedgerRecord) error
	ListOpen(ctx context.Context) ([]LedgerRecord, error)
	List(ctx context.Context, limit int) ([]LedgerRecord, error) // newest first
	Clear(ctx context.Context) error
	Stats(ctx context.Context) (LedgerStats, error)
}

// AlertRepository persists price alerts, one active alert per symbol
type AlertRepository interface {
	Upsert(ctx context.Context, alert Alert) error
	Deactivate(ctx context.Context, symbol string) error
	Delete(ctx context.Context, symbol string) error
	Get(ctx context.Context, symbol string) (*Alert, error)
	ListActive(ctx context.Context) ([]Alert, error)
}

// YieldSource resolves dividend yields for symbols (percent). Unknown
// symbols yield 0, nil error.
type YieldSource interface {
	DividendYield(ctx context.Context, symbol string) (float64, error)
}

// SettingsRepository is a small KV store for operator-managed settings
// such as the symbol universe and notification overrides
type SettingsRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Notifier delivers a text payload to an operator channel. Delivery is
// best-effort: errors are logged by callers, never propagated into the
// scan pipeline.
type Notifier interface {
	Send(ctx context.Context, message string) error
}

// SymbolUniverse resolves the list of symbols to scan for a market
type SymbolUniverse interface {
	Symbols(ctx context.Context, market string) ([]string, error)
}

// Clock abstracts time.Now for deterministic tests
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }
