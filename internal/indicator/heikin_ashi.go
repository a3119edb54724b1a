package indicator

import (
	"math"

	"btcsignal-go/internal/model"
)

// CalculateHeikinAshi transforms a series into index-aligned Heikin-Ashi
// candles. Each open depends on the previous derived candle, so this is a
// sequential scan.
func CalculateHeikinAshi(series model.Series) ([]model.HeikinAshiCandle, error) {
	if len(series) == 0 {
		return nil, model.ErrEmptySeries
	}

	ha := make([]model.HeikinAshiCandle, len(series))
	for i, c := range series {
		haClose := (c.Open + c.High + c.Low + c.Close) / 4.0

		var haOpen float64
		if i == 0 {
			haOpen = (c.Open + c.Close) / 2.0
		} else {
			haOpen = (ha[i-1].Open + ha[i-1].Close) / 2.0
		}

		ha[i] = model.HeikinAshiCandle{
			Timestamp: c.Timestamp,
			Open:      haOpen,
			High:      math.Max(c.High, math.Max(haOpen, haClose)),
			Low:       math.Min(c.Low, math.Min(haOpen, haClose)),
			Close:     haClose,
			IsGreen:   haClose >= haOpen,
		}
	}

	return ha, nil
}

// GetLastHeikinAshi returns the most recent derived candle, or nil for an
// empty series
func GetLastHeikinAshi(series model.Series) *model.HeikinAshiCandle {
	ha, err := CalculateHeikinAshi(series)
	if err != nil {
		return nil
	}
	last := ha[len(ha)-1]
	return &last
}
