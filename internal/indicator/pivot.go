package indicator

import (
	"time"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
)

// PriorDayCandle aggregates every candle of the UTC calendar day before the
// last candle's day into one reference bar. It reports false when that day
// holds no candle.
func PriorDayCandle(series model.Series) (model.Candle, bool) {
	if len(series) == 0 {
		return model.Candle{}, false
	}

	last := series.Last().Timestamp.UTC()
	dayEnd := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	dayStart := dayEnd.AddDate(0, 0, -1)

	var ref model.Candle
	found := false
	for _, c := range series {
		if c.Timestamp.Before(dayStart) || !c.Timestamp.Before(dayEnd) {
			continue
		}
		if !found {
			ref = model.Candle{Timestamp: dayStart, Open: c.Open, High: c.High, Low: c.Low}
			found = true
		}
		if c.High > ref.High {
			ref.High = c.High
		}
		if c.Low < ref.Low {
			ref.Low = c.Low
		}
		ref.Close = c.Close
		ref.Volume += c.Volume
	}

	return ref, found
}

// CalculateDailyPivots computes classic pivots from the prior UTC day
func CalculateDailyPivots(series model.Series) *internalmath.PivotPoints {
	ref, ok := PriorDayCandle(series)
	if !ok {
		return nil
	}
	pivots := internalmath.CalculateStandardPivots(ref.High, ref.Low, ref.Close)
	return &pivots
}
