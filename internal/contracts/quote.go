package contracts

import "time"

// Signal classifies a MACD reading
type Signal string

const (
	SignalBullish Signal = "bullish"
	SignalBearish Signal = "bearish"
	SignalNeutral Signal = "neutral"
)

// Volatility classifies the day range of a quote
type Volatility string

const (
	VolatilityLow    Volatility = "low"
	VolatilityMedium Volatility = "medium"
	VolatilityHigh   Volatility = "high"
)

// Momentum classifies price/volume strength
type Momentum string

const (
	MomentumStrong   Momentum = "strong"
	MomentumModerate Momentum = "moderate"
	MomentumWeak     Momentum = "weak"
)

// RiskLevel is the caller-selected risk appetite for a scan
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// IndicatorSource records whether an indicator came from real price history
// or from a snapshot heuristic. The two code paths are kept visible so that
// consumers can tell an exact RSI from an estimate.
type IndicatorSource string

const (
	SourceComputed  IndicatorSource = "computed"
	SourceEstimated IndicatorSource = "estimated"
)

// RSIReading is a precomputed RSI with its provenance
type RSIReading struct {
	Value  float64         `json:"value"`
	Source IndicatorSource `json:"source"`
}

// MACDReading is a precomputed MACD classification with its provenance
type MACDReading struct {
	Value  Signal          `json:"value"`
	Source IndicatorSource `json:"source"`
}

// Quote is one symbol's latest market snapshot. Immutable per scan cycle;
// produced by the quote source.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Volume        int64   `json:"volume"`
	AvgVolume     int64   `json:"avg_volume"` // rolling 20-session average
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Open          float64 `json:"open"`
	PreviousClose float64 `json:"previous_close"`
	MarketCap     float64 `json:"market_cap,omitempty"`
	DividendYield float64 `json:"dividend_yield,omitempty"` // percent, 0 when unknown

	// Optional indicators computed from close history by the quote source.
	// Nil when the source had no usable history; the recommendation builder
	// then falls back to snapshot estimates.
	RSI  *RSIReading  `json:"rsi,omitempty"`
	MACD *MACDReading `json:"macd,omitempty"`
}

// VolumeRatio returns volume relative to the rolling average, 1 when the
// average is unknown
func (q *Quote) VolumeRatio() float64 {
	if q.AvgVolume > 0 {
		return float64(q.Volume) / float64(q.AvgVolume)
	}
	return 1
}

// Candle is one day of OHLCV history for chart rendering
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
