package contracts

import "time"

// RecordStatus is the lifecycle state of a ledger record
type RecordStatus string

const (
	StatusOpen RecordStatus = "OPEN"
	StatusWin  RecordStatus = "WIN"
	StatusLoss RecordStatus = "LOSS"
	StatusHold RecordStatus = "HOLD"
)

// Terminal reports whether the status permits no further transitions
func (s RecordStatus) Terminal() bool {
	return s == StatusWin || s == StatusLoss
}

// LedgerRecord is a saved trade idea tracked against fresh prices each scan
// cycle. Status moves OPEN→WIN or OPEN→LOSS, both terminal; at most one
// record is created per (symbol, calendar day).
type LedgerRecord struct {
	ID                  string       `json:"id"`
	Symbol              string       `json:"symbol"`
	EntryDate           time.Time    `json:"entry_date"`
	RecommendationPrice float64      `json:"recommendation_price"` // price on recommendation day
	EntryPrice          float64      `json:"entry_price"`
	TargetPrice         float64      `json:"target_price"`
	StopLoss            float64      `json:"stop_loss"`
	Status              RecordStatus `json:"status"`
	ExitPrice           *float64     `json:"exit_price,omitempty"`
	ExitDate            *time.Time   `json:"exit_date,omitempty"`
	PercentChange       *float64     `json:"percent_change,omitempty"`
}

// TradeClosedEvent is emitted when a ledger record transitions to WIN or
// LOSS. The decision is separated from the notification side effect; a
// dispatcher consumes these best-effort.
type TradeClosedEvent struct {
	Record    LedgerRecord `json:"record"`
	Outcome   RecordStatus `json:"outcome"`
	ExitPrice float64      `json:"exit_price"`
	ClosedAt  time.Time    `json:"closed_at"`
}

// LedgerStats summarizes paper-trading outcomes
type LedgerStats struct {
	Total   int     `json:"total"`
	Active  int     `json:"active"`
	Wins    int     `json:"wins"`
	Losses  int     `json:"losses"`
	WinRate float64 `json:"win_rate"` // percent of closed trades
}
