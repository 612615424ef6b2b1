// Package screen filters and ranks recommendation batches.
package screen

import (
	"sort"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/pkg/logger"
)

// Filter reason labels used in the screening summary log.
const (
	reasonLowValue    = "low_notional_value"
	reasonLowDividend = "low_dividend"
	reasonRisk        = "risk_level"
	reasonWeakSignal  = "weak_signal"
	reasonSniper      = "sniper_gates"
	reasonExcluded    = "excluded_symbol"
)

// Params are the caller-supplied screening thresholds for one scan.
type Params struct {
	MinVolumeValue   float64 // baht notional, volume x price
	MinDividendYield float64 // percent
	RiskLevel        contracts.RiskLevel
	SniperMode       bool

	// Excluded holds symbols that must not be re-recommended, typically
	// those with an open ledger position.
	Excluded map[string]bool
}

// Screener applies the filter stage over a recommendation batch.
type Screener struct {
	logger *logger.Logger
}

// NewScreener creates a new screener
func NewScreener(log *logger.Logger) *Screener {
	return &Screener{logger: log}
}

// Screen returns the recommendations passing every filter, preserving input
// order. Filter reasons are counted and logged as a summary.
func (s *Screener) Screen(recs []*contracts.Recommendation, params Params) []*contracts.Recommendation {
	passed := make([]*contracts.Recommendation, 0, len(recs))
	filtered := make(map[string]int)

	for _, rec := range recs {
		reason := s.check(rec, params)
		if reason == "" {
			passed = append(passed, rec)
		} else {
			filtered[reason]++
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"total_input":  len(recs),
		"passed":       len(passed),
		"filtered_out": len(recs) - len(passed),
		"filters":      filtered,
		"sniper_mode":  params.SniperMode,
	}).Info("Screening completed")

	return passed
}

// check returns the name of the first failing filter, or "" when the
// recommendation passes.
func (s *Screener) check(rec *contracts.Recommendation, params Params) string {
	if params.Excluded[rec.Symbol] {
		return reasonExcluded
	}

	if rec.NotionalValue() < params.MinVolumeValue {
		return reasonLowValue
	}

	if rec.DividendYield < params.MinDividendYield {
		return reasonLowDividend
	}

	if !riskPass(rec.Volatility, params.RiskLevel) {
		return reasonRisk
	}

	if params.SniperMode {
		if !sniperPass(rec) {
			return reasonSniper
		}
		return ""
	}

	// Standard mode: heavy volume or a bullish MACD counts as a good signal
	if rec.VolumeRatio() < 1.5 && rec.Indicators.MACD != contracts.SignalBullish {
		return reasonWeakSignal
	}

	return ""
}

func riskPass(vol contracts.Volatility, risk contracts.RiskLevel) bool {
	switch risk {
	case contracts.RiskHigh:
		return true
	case contracts.RiskMedium:
		return vol != contracts.VolatilityHigh
	default:
		return vol == contracts.VolatilityLow
	}
}

// sniperPass requires volume, trend, RSI band, and momentum confirmation
// all at once.
func sniperPass(rec *contracts.Recommendation) bool {
	return rec.VolumeRatio() >= 1.2 &&
		rec.Indicators.AboveMA20 &&
		rec.Indicators.RSI >= 50 && rec.Indicators.RSI <= 70 &&
		rec.Momentum != contracts.MomentumWeak
}

// Rank sorts recommendations by score descending, in place. The sort is
// stable so equal scores keep their insertion order.
func Rank(recs []*contracts.Recommendation) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
}
