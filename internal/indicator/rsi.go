package indicator

import "math"

// NeutralRSI is reported when there is not enough history for a reading
const NeutralRSI = 50.0

// CalculateRSI calculates Wilder's Relative Strength Index for every close.
// Entries before index period are zero; the result is empty when fewer
// than period+1 closes are available.
func CalculateRSI(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period+1 {
		return []float64{}
	}

	rsi := make([]float64, len(closes))
	gains := make([]float64, len(closes)-1)
	losses := make([]float64, len(closes)-1)

	// Calculate gains and losses
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i-1] = change
		} else {
			losses[i-1] = math.Abs(change)
		}
	}

	// Seed with simple means of the first period deltas
	var avgGain, avgLoss float64
	for i := 0; i < period; i++ {
		avgGain += gains[i]
		avgLoss += losses[i]
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	rsi[period] = rsiFromAverages(avgGain, avgLoss)

	// Wilder smoothing over the remaining deltas
	for i := period; i < len(gains); i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		rsi[i+1] = rsiFromAverages(avgGain, avgLoss)
	}

	return rsi
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	value := 100 - (100 / (1 + rs))
	// Clamp to valid range
	return math.Max(0, math.Min(100, value))
}

// GetLastRSI returns the most recent RSI value, or NeutralRSI when the
// series is too short.
func GetLastRSI(closes []float64, period int) float64 {
	rsi := CalculateRSI(closes, period)
	if len(rsi) == 0 {
		return NeutralRSI
	}
	return rsi[len(rsi)-1]
}
