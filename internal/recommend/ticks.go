package recommend

import "math"

// TickSize returns the SET minimum price increment for a given price level.
func TickSize(price float64) float64 {
	switch {
	case price < 2:
		return 0.01
	case price < 5:
		return 0.02
	case price < 10:
		return 0.05
	case price < 25:
		return 0.10
	case price < 100:
		return 0.25
	case price < 200:
		return 0.50
	case price < 400:
		return 1.00
	default:
		return 2.00
	}
}

// RoundToTick snaps a price to the nearest valid tick. Idempotent.
func RoundToTick(price float64) float64 {
	tick := TickSize(price)
	return math.Round(price/tick) * tick
}
