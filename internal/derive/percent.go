package derive

import "math"

// OccupancyRate returns enrollment over capacity as a rounded percentage.
// A class with no capacity reports 0.
func OccupancyRate(current, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return int(math.Round(float64(current) / float64(capacity) * 100))
}

// PaymentPercentage returns paid over total as a rounded percentage clamped
// to [0,100]. An empty bill reports 0.
func PaymentPercentage(paid, total int64) int {
	if total <= 0 {
		return 0
	}
	pct := int(math.Round(float64(paid) / float64(total) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
