// Package ledger tracks paper-trade outcomes for past recommendations.
package ledger

import (
	"github.com/taworn/setscan/internal/contracts"
)

// Tracker applies price updates to open ledger records. Pure state
// transition logic; persistence and notification live in Service.
type Tracker struct {
	clock contracts.Clock
}

// NewTracker creates a tracker using the given clock, or the system clock
// when nil.
func NewTracker(clock contracts.Clock) *Tracker {
	if clock == nil {
		clock = contracts.SystemClock{}
	}
	return &Tracker{clock: clock}
}

// Apply checks one open record against a fresh price. It returns the
// updated record, a close event when the record transitioned, and whether
// anything changed. Terminal records are returned untouched.
func (t *Tracker) Apply(record contracts.LedgerRecord, price float64) (contracts.LedgerRecord, *contracts.TradeClosedEvent, bool) {
	if record.Status.Terminal() || price <= 0 {
		return record, nil, false
	}

	var outcome contracts.RecordStatus
	switch {
	case price >= record.TargetPrice:
		outcome = contracts.StatusWin
	case price <= record.StopLoss:
		outcome = contracts.StatusLoss
	default:
		return record, nil, false
	}

	now := t.clock.Now()
	pct := 0.0
	if record.EntryPrice > 0 {
		pct = (price - record.EntryPrice) / record.EntryPrice * 100
	}

	record.Status = outcome
	record.ExitPrice = &price
	record.ExitDate = &now
	record.PercentChange = &pct

	return record, &contracts.TradeClosedEvent{
		Record:    record,
		Outcome:   outcome,
		ExitPrice: price,
		ClosedAt:  now,
	}, true
}
