package fundamentals

import (
	"context"
	"time"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/logger"
)

const (
	// Upstream quote APIs throttle bursty fundamental lookups, so refresh
	// in small chunks with a pause between them.
	chunkSize  = 5
	chunkPause = 500 * time.Millisecond

	// maxSymbolsPerRun keeps one refresh cycle within the upstream quota.
	maxSymbolsPerRun = 50
)

// Updater refreshes the fundamentals cache from an upstream yield source.
type Updater struct {
	source contracts.YieldSource
	store  Store
	logger *logger.Logger
}

// NewUpdater creates a fundamentals updater
func NewUpdater(source contracts.YieldSource, store Store, log *logger.Logger) *Updater {
	return &Updater{source: source, store: store, logger: log}
}

// Refresh fetches and caches yields for the given symbols, chunked with a
// pause between chunks. Per-symbol failures are logged and skipped. The
// symbol list is capped per run; call again later for the remainder.
func (u *Updater) Refresh(ctx context.Context, symbols []string) (updated int, err error) {
	if len(symbols) > maxSymbolsPerRun {
		u.logger.WithFields(map[string]interface{}{
			"requested": len(symbols),
			"capped_to": maxSymbolsPerRun,
		}).Warn("Fundamentals refresh capped")
		symbols = symbols[:maxSymbolsPerRun]
	}

	for start := 0; start < len(symbols); start += chunkSize {
		if start > 0 {
			select {
			case <-ctx.Done():
				return updated, ctx.Err()
			case <-time.After(chunkPause):
			}
		}

		end := start + chunkSize
		if end > len(symbols) {
			end = len(symbols)
		}

		for _, symbol := range symbols[start:end] {
			yield, err := u.source.DividendYield(ctx, symbol)
			if err != nil {
				u.logger.WithError(err).WithField("symbol", symbol).Warn("Failed to fetch dividend yield")
				continue
			}
			if yield == 0 {
				continue
			}
			if err := u.store.SaveDividendYield(ctx, symbol, yield); err != nil {
				u.logger.WithError(err).WithField("symbol", symbol).Error("Failed to cache dividend yield")
				continue
			}
			updated++
		}
	}

	u.logger.WithFields(map[string]interface{}{
		"symbols": len(symbols),
		"updated": updated,
	}).Info("Fundamentals refresh completed")
	return updated, nil
}
