package indicator

import (
	"fmt"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
)

// Params configures the indicator snapshot
type Params struct {
	RSIPeriod       int
	EMAFastPeriod   int
	EMASlowPeriod   int
	EMAWindow       int // trailing closes used for point EMA values, 0 = all
	FibLookbackDays int
	CandlesPerDay   int // candle density used to turn days into a bar count
}

// DefaultParams matches hourly candles
func DefaultParams() Params {
	return Params{
		RSIPeriod:       14,
		EMAFastPeriod:   50,
		EMASlowPeriod:   200,
		FibLookbackDays: 90,
		CandlesPerDay:   24,
	}
}

// FibLookbackCandles converts the Fibonacci lookback into a bar count
func (p Params) FibLookbackCandles() int {
	return p.FibLookbackDays * p.CandlesPerDay
}

// Compute calculates the full indicator snapshot for a series.
// An invalid series is a contract violation and returns an error; short
// series degrade each indicator to its neutral value.
func Compute(series model.Series, p Params) (model.IndicatorValues, error) {
	if err := series.Validate(); err != nil {
		return model.IndicatorValues{}, fmt.Errorf("invalid series: %w", err)
	}

	closes := series.Closes()
	values := model.IndicatorValues{
		RSI:      GetLastRSI(closes, p.RSIPeriod),
		HACandle: GetLastHeikinAshi(series),
		Pivots:   CalculateDailyPivots(series),
		VWAP:     CalculateVwapData(series),
		EMAFast:  GetLastEMA(closes, p.EMAFastPeriod, p.EMAWindow),
		EMASlow:  GetLastEMA(closes, p.EMASlowPeriod, p.EMAWindow),
	}

	if fib, ok := internalmath.CalculateFibonacciLevels(series.Highs(), series.Lows(), p.FibLookbackCandles()); ok {
		values.Fibonacci = &fib
	}

	return values, nil
}

// ComputeSeries calculates index-aligned chart series
func ComputeSeries(series model.Series, p Params) (*model.IndicatorSeries, error) {
	ha, err := CalculateHeikinAshi(series)
	if err != nil {
		return nil, err
	}
	closes := series.Closes()
	return &model.IndicatorSeries{
		EMAFast:    EMASeries(closes, p.EMAFastPeriod),
		EMASlow:    EMASeries(closes, p.EMASlowPeriod),
		HeikinAshi: ha,
	}, nil
}
