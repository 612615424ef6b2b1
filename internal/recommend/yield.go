package recommend

import "math/rand"

// YieldEstimator supplies a dividend yield when the quote source has none.
// Injectable so tests and strict deployments can pin the value.
type YieldEstimator func(symbol string) float64

// RandomYield is the default estimator, a uniform placeholder in 1-6 percent.
// It stands in for a missing fundamentals feed and is flagged as such in the
// scan output by the zero quote yield.
func RandomYield(_ string) float64 {
	return 1 + rand.Float64()*5
}

// ZeroYield disables the placeholder; symbols without a real yield then fail
// any positive minimum-dividend filter.
func ZeroYield(_ string) float64 {
	return 0
}
