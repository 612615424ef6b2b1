// Package indicators computes technical indicators from daily close series.
// All functions are pure; callers pass prices ordered oldest to newest.
//
// Two modes exist for RSI and MACD: exact calculation from real history, and
// snapshot estimators (estimate.go) for quotes that arrive without history.
// The estimators must only be used when history is unavailable.
package indicators

import "github.com/taworn/setscan/internal/contracts"

// DefaultRSIPeriod is the standard Wilder lookback
const DefaultRSIPeriod = 14

// RSI computes the Relative Strength Index over the given period using
// Wilder smoothing. With fewer than period+1 prices it returns the neutral
// value 50. The result is always within [0, 100].
func RSI(prices []float64, period int) float64 {
	if len(prices) < period+1 {
		return 50
	}

	var gains, losses float64

	// Initial average gain/loss over the first `period` deltas
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change >= 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// Wilder smoothing over the remaining deltas
	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		var gain, loss float64
		if change >= 0 {
			gain = change
		} else {
			loss = -change
		}

		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
	}

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	rsi := 100 - 100/(1+rs)

	return clamp(rsi, 0, 100)
}

// Volatility classifies the day range relative to price.
// A zero price cannot be classified and defaults to medium.
func Volatility(high, low, price float64) contracts.Volatility {
	if price == 0 {
		return contracts.VolatilityMedium
	}

	rangePercent := (high - low) / price * 100
	switch {
	case rangePercent >= 4.0:
		return contracts.VolatilityHigh
	case rangePercent >= 1.5:
		return contracts.VolatilityMedium
	default:
		return contracts.VolatilityLow
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
