package indicator

import (
	"time"

	"btcsignal-go/internal/model"
)

// CalculateVWAP returns the volume-weighted typical price of the candles whose
// timestamp falls in [start, end). It is 0 when the window holds no candle or
// no volume.
func CalculateVWAP(series model.Series, start, end time.Time) float64 {
	tpv, volume := windowSums(series, start, end)
	if volume == 0 {
		return 0
	}
	return tpv / volume
}

// windowSums returns sum(typical*volume) and sum(volume) over [start, end)
func windowSums(series model.Series, start, end time.Time) (float64, float64) {
	cumulativeTPV := 0.0 // Cumulative Typical Price * Volume
	cumulativeVolume := 0.0

	for _, c := range series {
		if c.Timestamp.Before(start) || !c.Timestamp.Before(end) {
			continue
		}
		cumulativeTPV += c.TypicalPrice() * c.Volume
		cumulativeVolume += c.Volume
	}

	return cumulativeTPV, cumulativeVolume
}

// VwapAnchor returns the end of the UTC day holding the last candle. All
// VWAP windows end at the anchor.
func VwapAnchor(series model.Series) time.Time {
	last := series.Last().Timestamp.UTC()
	day := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, 1)
}

// CalculateVwapData computes current and previous VWAP for the daily, weekly,
// monthly and annual windows ending at the anchor
func CalculateVwapData(series model.Series) *model.VwapData {
	if len(series) == 0 {
		return nil
	}

	anchor := VwapAnchor(series)
	period := func(back func(time.Time) time.Time) model.VwapPeriodValue {
		start := back(anchor)
		prevStart := back(start)
		return model.VwapPeriodValue{
			Current:  CalculateVWAP(series, start, anchor),
			Previous: CalculateVWAP(series, prevStart, start),
		}
	}

	return &model.VwapData{
		Daily:   period(func(t time.Time) time.Time { return t.AddDate(0, 0, -1) }),
		Weekly:  period(func(t time.Time) time.Time { return t.AddDate(0, 0, -7) }),
		Monthly: period(func(t time.Time) time.Time { return t.AddDate(0, -1, 0) }),
		Annual:  period(func(t time.Time) time.Time { return t.AddDate(-1, 0, 0) }),
	}
}
