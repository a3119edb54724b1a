package math

import (
	"math"
	"strconv"
)

// FibonacciRatios are the retracement (<= 1) and extension (> 1) ratios
var FibonacciRatios = []float64{0.236, 0.382, 0.5, 0.618, 0.786, 1.0, 1.618, 2.0}

// FibonacciLevels holds swing-derived retracement and extension levels
type FibonacciLevels struct {
	SwingHigh float64            `json:"swing_high"`
	SwingLow  float64            `json:"swing_low"`
	IsUptrend bool               `json:"is_uptrend"`
	Levels    map[string]float64 `json:"levels"`
}

// FibLabel formats a ratio as its percentage label, e.g. 0.618 -> "61.8%"
func FibLabel(ratio float64) string {
	pct := math.Round(ratio*1000) / 10
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}

// Level returns the price at ratio, or 0 if the ratio is not tracked
func (f FibonacciLevels) Level(ratio float64) float64 {
	return f.Levels[FibLabel(ratio)]
}

// Ordered returns the levels in ratio order
func (f FibonacciLevels) Ordered() []NamedLevel {
	out := make([]NamedLevel, 0, len(FibonacciRatios))
	for _, r := range FibonacciRatios {
		label := FibLabel(r)
		out = append(out, NamedLevel{Name: label, Price: f.Levels[label]})
	}
	return out
}

// CalculateFibonacciLevels derives levels from the highest high and lowest
// low of the trailing lookback window. It reports false when fewer than
// lookback bars are available.
func CalculateFibonacciLevels(highs, lows []float64, lookback int) (FibonacciLevels, bool) {
	if lookback <= 0 || len(highs) != len(lows) || len(highs) < lookback {
		return FibonacciLevels{}, false
	}

	start := len(highs) - lookback
	highIdx, lowIdx := start, start
	for i := start + 1; i < len(highs); i++ {
		if highs[i] > highs[highIdx] {
			highIdx = i
		}
		if lows[i] < lows[lowIdx] {
			lowIdx = i
		}
	}

	swingHigh := highs[highIdx]
	swingLow := lows[lowIdx]
	isUptrend := highIdx > lowIdx
	diff := swingHigh - swingLow

	levels := make(map[string]float64, len(FibonacciRatios))
	for _, ratio := range FibonacciRatios {
		var price float64
		switch {
		case isUptrend && ratio <= 1:
			// Retracing DOWN from High
			price = swingHigh - diff*ratio
		case isUptrend:
			price = swingHigh + diff*(ratio-1)
		case ratio <= 1:
			// Retracing UP from Low
			price = swingLow + diff*ratio
		default:
			price = swingLow - diff*(ratio-1)
		}
		levels[FibLabel(ratio)] = price
	}

	return FibonacciLevels{
		SwingHigh: swingHigh,
		SwingLow:  swingLow,
		IsUptrend: isUptrend,
		Levels:    levels,
	}, true
}

// FindNearestFibLevel finds the closest Fibonacci level to current price
func FindNearestFibLevel(currentPrice float64, levels FibonacciLevels) (float64, string) {
	return nearest(currentPrice, levels.Ordered())
}
