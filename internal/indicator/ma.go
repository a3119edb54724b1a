package indicator

// CalculateEMA calculates the Exponential Moving Average seeded by the SMA
// of the first period closes. Entries before the seed are zero.
func CalculateEMA(closes []float64, period int) []float64 {
	if period <= 0 || len(closes) < period {
		return []float64{}
	}

	ema := make([]float64, len(closes))
	multiplier := 2.0 / float64(period+1)

	// First EMA is SMA
	var sum float64
	for i := 0; i < period; i++ {
		sum += closes[i]
	}
	ema[period-1] = sum / float64(period)

	// Calculate subsequent EMAs
	for i := period; i < len(closes); i++ {
		ema[i] = (closes[i]-ema[i-1])*multiplier + ema[i-1]
	}

	return ema
}

// GetLastEMA returns the latest EMA value, or 0 when fewer than period closes
// exist. A positive window restricts the computation to the trailing window
// closes.
func GetLastEMA(closes []float64, period, window int) float64 {
	if window > 0 && window >= period && len(closes) > window {
		closes = closes[len(closes)-window:]
	}
	ema := CalculateEMA(closes, period)
	if len(ema) == 0 {
		return 0
	}
	return ema[len(ema)-1]
}

// EMASeries returns one EMA value per close with nil before the seed point
func EMASeries(closes []float64, period int) []*float64 {
	out := make([]*float64, len(closes))
	ema := CalculateEMA(closes, period)
	if len(ema) == 0 {
		return out
	}
	for i := period - 1; i < len(ema); i++ {
		v := ema[i]
		out[i] = &v
	}
	return out
}
