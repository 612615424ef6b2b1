package indicators

import "github.com/taworn/setscan/internal/contracts"

// Snapshot estimators: used only when a quote arrives without enough close
// history for the exact calculations above. They approximate indicator state
// from the day's change and volume alone.

// EstimateRSI approximates RSI from the day's change percent. Sensitivity
// shrinks as volatility rises, so a 2% move on a quiet stock reads hotter
// than the same move on a volatile one. The estimate stays within [10, 90]
// to avoid claiming extreme readings on snapshot data.
func EstimateRSI(changePercent float64, volatility contracts.Volatility) float64 {
	var sensitivity float64
	switch volatility {
	case contracts.VolatilityHigh:
		sensitivity = 4
	case contracts.VolatilityMedium:
		sensitivity = 5
	default:
		sensitivity = 6
	}

	base := 50 + changePercent*sensitivity
	return clamp(base, 10, 90)
}

// EstimateMACD approximates a MACD classification from the day's change and
// volume ratio: a decent move on heavy volume, or a large move on its own,
// counts as a trend signal.
func EstimateMACD(changePercent, volumeRatio float64) contracts.Signal {
	if (changePercent > 0.5 && volumeRatio > 1.5) || changePercent > 2.0 {
		return contracts.SignalBullish
	}
	if (changePercent < -0.5 && volumeRatio > 1.5) || changePercent < -2.0 {
		return contracts.SignalBearish
	}
	return contracts.SignalNeutral
}
