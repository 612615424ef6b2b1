// Package recommend turns raw quotes into scored trade recommendations.
//
// The builder is a total function over a well-formed quote: degenerate
// inputs (zero price, zero day range, unknown average volume) fall back to
// safe defaults instead of erroring. Indicators missing from the quote are
// estimated from the snapshot and tagged as such.
package recommend

import (
	"fmt"
	"math"

	"github.com/taworn/setscan/internal/contracts"
	"github.com/taworn/setscan/internal/indicators"
)

const (
	targetMultiplier = 1.05
	stopMultiplier   = 0.97
)

// Builder converts quotes into recommendations. Safe for concurrent use.
type Builder struct {
	yield YieldEstimator
}

// NewBuilder returns a builder using the given yield estimator, or the
// random placeholder when nil.
func NewBuilder(yield YieldEstimator) *Builder {
	if yield == nil {
		yield = RandomYield
	}
	return &Builder{yield: yield}
}

// Build produces one recommendation from one quote.
func (b *Builder) Build(q *contracts.Quote) *contracts.Recommendation {
	volatility := indicators.Volatility(q.High, q.Low, q.Price)
	volumeRatio := q.VolumeRatio()

	rsi, rsiSource := resolveRSI(q, volatility)
	macd, macdSource := resolveMACD(q, volumeRatio)

	closePosition := 0.5
	if dayRange := q.High - q.Low; dayRange > 0 {
		closePosition = (q.Price - q.Low) / dayRange
	}
	closeNearHigh := closePosition > 0.7

	momentum := classifyMomentum(q.ChangePercent, volumeRatio, closeNearHigh)
	pattern := chartPattern(q.ChangePercent, volumeRatio, rsi, closeNearHigh)

	entry := RoundToTick(q.Price)
	target := RoundToTick(q.Price * targetMultiplier)
	stop := RoundToTick(q.Price * stopMultiplier)

	yield := q.DividendYield
	if yield == 0 {
		yield = b.yield(q.Symbol)
	}

	return &contracts.Recommendation{
		Symbol:         q.Symbol,
		Name:           q.Name,
		CurrentPrice:   q.Price,
		EntryPoint:     entry,
		TargetPrice:    target,
		StopLoss:       stop,
		RiskReward:     riskReward(entry, target, stop),
		HoldingPeriod:  holdingPeriod(momentum),
		TechnicalSetup: technicalSetup(macd, momentum, closeNearHigh),
		Indicators: contracts.Indicators{
			RSI:          int(math.Round(rsi)),
			RSISource:    rsiSource,
			MACD:         macd,
			MACDSource:   macdSource,
			VolumeChange: int(math.Round(volumeRatio * 100)),
			AboveMA20:    q.ChangePercent > 0,
			AboveMA50:    q.ChangePercent > 0 && volumeRatio > 1.2,
		},
		ChartPattern:  pattern,
		Volume:        q.Volume,
		AvgVolume:     q.AvgVolume,
		Volatility:    volatility,
		Momentum:      momentum,
		DividendYield: yield,
		Score: score(scoreInput{
			volumeRatio:   volumeRatio,
			changePercent: q.ChangePercent,
			rsi:           rsi,
			macd:          macd,
			momentum:      momentum,
			closeNearHigh: closeNearHigh,
			volatility:    volatility,
		}),
	}
}

// BuildAll maps a quote batch to recommendations, preserving order.
func (b *Builder) BuildAll(quotes []*contracts.Quote) []*contracts.Recommendation {
	recs := make([]*contracts.Recommendation, 0, len(quotes))
	for _, q := range quotes {
		recs = append(recs, b.Build(q))
	}
	return recs
}

func resolveRSI(q *contracts.Quote, volatility contracts.Volatility) (float64, contracts.IndicatorSource) {
	if q.RSI != nil {
		return q.RSI.Value, q.RSI.Source
	}
	return indicators.EstimateRSI(q.ChangePercent, volatility), contracts.SourceEstimated
}

func resolveMACD(q *contracts.Quote, volumeRatio float64) (contracts.Signal, contracts.IndicatorSource) {
	if q.MACD != nil {
		return q.MACD.Value, q.MACD.Source
	}
	return indicators.EstimateMACD(q.ChangePercent, volumeRatio), contracts.SourceEstimated
}

func classifyMomentum(changePercent, volumeRatio float64, closeNearHigh bool) contracts.Momentum {
	switch {
	case changePercent > 1.5 && volumeRatio > 1.2 && closeNearHigh:
		return contracts.MomentumStrong
	case changePercent > 0 && volumeRatio > 1.0:
		return contracts.MomentumModerate
	default:
		return contracts.MomentumWeak
	}
}

// chartPattern picks the first matching label; the order is the priority.
func chartPattern(changePercent, volumeRatio, rsi float64, closeNearHigh bool) string {
	switch {
	case changePercent > 2 && volumeRatio > 2.0 && closeNearHigh:
		return "Volume Breakout"
	case changePercent > 1 && volumeRatio > 1.2 && !closeNearHigh:
		return "Bull Flag Candidate"
	case rsi < 30 && changePercent > 0:
		return "Oversold Bounce"
	case changePercent > 0 && rsi > 50 && rsi < 70:
		return "Trend Continuation"
	case volumeRatio > 1.5 && changePercent < 0:
		return "Distribution / Pullback"
	case math.Abs(changePercent) < 0.5 && volumeRatio < 0.8:
		return "Consolidation"
	default:
		return "Normal Fluctuation"
	}
}

func holdingPeriod(m contracts.Momentum) string {
	switch m {
	case contracts.MomentumStrong:
		return "1-2 days"
	case contracts.MomentumModerate:
		return "2-3 days"
	default:
		return "3-5 days"
	}
}

func technicalSetup(macd contracts.Signal, momentum contracts.Momentum, closeNearHigh bool) string {
	switch {
	case macd == contracts.SignalBullish && momentum == contracts.MomentumStrong:
		return "Bullish momentum with volume confirmation"
	case macd == contracts.SignalBullish:
		return "MACD bullish, watching for follow-through"
	case closeNearHigh:
		return "Closed near session high"
	case macd == contracts.SignalBearish:
		return "Bearish pressure, wait for reversal"
	default:
		return "Range-bound, no clear setup"
	}
}

// riskReward formats reward per unit of risk as "1:X.XX", falling back to
// "1:0" when risk is not positive.
func riskReward(entry, target, stop float64) string {
	risk := entry - stop
	if risk <= 0 {
		return "1:0"
	}
	return fmt.Sprintf("1:%.2f", (target-entry)/risk)
}

type scoreInput struct {
	volumeRatio   float64
	changePercent float64
	rsi           float64
	macd          contracts.Signal
	momentum      contracts.Momentum
	closeNearHigh bool
	volatility    contracts.Volatility
}

// score is the additive attractiveness heuristic. Unclamped; treat as a
// ranking key, not a probability.
func score(in scoreInput) int {
	s := math.Min(30, in.volumeRatio*10)

	if in.macd == contracts.SignalBullish {
		s += 15
	}
	switch in.momentum {
	case contracts.MomentumStrong:
		s += 10
	case contracts.MomentumModerate:
		s += 5
	}

	if in.closeNearHigh {
		s += 15
	}
	if in.changePercent > 0 {
		s += 5
	}

	if in.rsi >= 40 && in.rsi <= 70 {
		s += 15
	} else if in.rsi > 70 {
		s += 5
	}

	switch in.volatility {
	case contracts.VolatilityMedium:
		s += 10
	case contracts.VolatilityHigh:
		s += 5
	}

	return int(math.Round(s))
}
