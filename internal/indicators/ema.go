package indicators

// EMA computes an exponential moving average series. The first value is the
// simple average of the first `period` inputs; each later input produces one
// more EMA value via ema = price*k + ema*(1-k) with k = 2/(period+1).
// Returns nil when fewer than `period` values are supplied.
func EMA(prices []float64, period int) []float64 {
	if len(prices) < period || period <= 0 {
		return nil
	}

	k := 2.0 / (float64(period) + 1.0)

	// Seed with SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema := sum / float64(period)

	out := make([]float64, 0, len(prices)-period+1)
	out = append(out, ema)

	for i := period; i < len(prices); i++ {
		ema = prices[i]*k + ema*(1-k)
		out = append(out, ema)
	}

	return out
}
