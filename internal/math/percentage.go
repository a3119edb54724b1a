package math

import "math"

// CalculatePercentageChange calculates percentage change between two values
func CalculatePercentageChange(oldValue, newValue float64) float64 {
	if oldValue == 0 {
		return 0
	}
	return ((newValue - oldValue) / oldValue) * 100
}

// RelativeDistance returns |price-level| / |level| as a fraction.
// A zero level is infinitely far from any price.
func RelativeDistance(price, level float64) float64 {
	if level == 0 {
		return math.Inf(1)
	}
	return math.Abs(price-level) / math.Abs(level)
}

// IsNear reports whether price lies within tolerance (a fraction) of level
func IsNear(price, level, tolerance float64) bool {
	return RelativeDistance(price, level) <= tolerance
}

// AddPercentage adds percentage to a value
func AddPercentage(value, percentage float64) float64 {
	return value + (value * percentage / 100.0)
}

// SubtractPercentage subtracts percentage from a value
func SubtractPercentage(value, percentage float64) float64 {
	return value - (value * percentage / 100.0)
}
