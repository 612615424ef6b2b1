package contracts

import "time"

// ScanParams are the caller-supplied knobs for one scan cycle
type ScanParams struct {
	Date             string    `json:"date"`   // informational, YYYY-MM-DD
	Market           string    `json:"market"` // selects the symbol universe
	Budget           float64   `json:"budget"` // THB, used downstream for position sizing only
	RiskLevel        RiskLevel `json:"risk_level"`
	MinVolumeValue   float64   `json:"min_volume_value"`   // THB notional threshold
	MinDividendYield float64   `json:"min_dividend_yield"` // percent
	SniperMode       bool      `json:"sniper_mode"`
}

// ScanResult is the outcome of one scan cycle, ready for presentation
type ScanResult struct {
	Timestamp       time.Time        `json:"timestamp"`
	Params          ScanParams       `json:"params"`
	Recommendations []*Recommendation `json:"recommendations"` // ranked, best first
	NewSymbols      []string          `json:"new_symbols"`     // entrants vs. previous cycle
	Scanned         int               `json:"scanned"`         // symbols with a usable quote
	Dropped         int               `json:"dropped"`         // symbols whose fetch failed
	TriggeredAlerts int               `json:"triggered_alerts"`
	ClosedTrades    int               `json:"closed_trades"`
}
