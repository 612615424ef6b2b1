package indicators

import "github.com/taworn/setscan/internal/contracts"

// MACD parameters: standard 12/26/9 configuration. The EMA(12) series is 14
// samples longer than the EMA(26) series, so the two are aligned at that
// offset before subtracting.
const (
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
	macdAlignOffset  = macdSlowPeriod - macdFastPeriod
)

// MACDSignal classifies the trend state of a close series. Fewer than 26
// closes (or fewer than 9 aligned MACD points) cannot be classified and
// return neutral.
//
// A fresh cross of the MACD line over its signal line wins over trend state:
// bullish on an upward cross, bearish on a downward cross. Absent a cross,
// the classification falls back to position: bullish when MACD is above the
// signal line and positive, bearish when below and negative.
func MACDSignal(prices []float64) contracts.Signal {
	if len(prices) < macdSlowPeriod {
		return contracts.SignalNeutral
	}

	ema12 := EMA(prices, macdFastPeriod)
	ema26 := EMA(prices, macdSlowPeriod)

	macdLine := make([]float64, 0, len(ema26))
	for i := range ema26 {
		macdLine = append(macdLine, ema12[i+macdAlignOffset]-ema26[i])
	}

	if len(macdLine) < macdSignalPeriod {
		return contracts.SignalNeutral
	}

	signalLine := EMA(macdLine, macdSignalPeriod)

	currentMACD := macdLine[len(macdLine)-1]
	prevMACD := macdLine[len(macdLine)-2]
	currentSignal := signalLine[len(signalLine)-1]
	var prevSignal float64
	if len(signalLine) >= 2 {
		prevSignal = signalLine[len(signalLine)-2]
	} else {
		prevSignal = currentSignal
	}

	// Crossover beats trend state
	if currentMACD > currentSignal && prevMACD <= prevSignal {
		return contracts.SignalBullish
	}
	if currentMACD < currentSignal && prevMACD >= prevSignal {
		return contracts.SignalBearish
	}

	// Trend following when no recent crossover
	if currentMACD > currentSignal && currentMACD > 0 {
		return contracts.SignalBullish
	}
	if currentMACD < currentSignal && currentMACD < 0 {
		return contracts.SignalBearish
	}

	return contracts.SignalNeutral
}
