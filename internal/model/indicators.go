package model

import (
	"time"

	internalmath "btcsignal-go/internal/math"
)

// HeikinAshiCandle is the smoothed counterpart of one input candle
type HeikinAshiCandle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	IsGreen   bool      `json:"is_green"`
}

// VwapPeriodValue pairs a window's VWAP with the equal-length window before it.
// A zero value means no volume traded in that window.
type VwapPeriodValue struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// Rising reports whether both windows are defined and current > previous
func (v VwapPeriodValue) Rising() bool {
	return v.Current > 0 && v.Previous > 0 && v.Current > v.Previous
}

type VwapData struct {
	Daily   VwapPeriodValue `json:"daily"`
	Weekly  VwapPeriodValue `json:"weekly"`
	Monthly VwapPeriodValue `json:"monthly"`
	Annual  VwapPeriodValue `json:"annual"`
}

// IndicatorValues is the full indicator snapshot consumed by the signal engine.
// Nil pointers mean the indicator is unavailable for the current series.
type IndicatorValues struct {
	RSI       float64                       `json:"rsi"`
	HACandle  *HeikinAshiCandle             `json:"ha_candle,omitempty"`
	Pivots    *internalmath.PivotPoints     `json:"pivots,omitempty"`
	VWAP      *VwapData                     `json:"vwap,omitempty"`
	Fibonacci *internalmath.FibonacciLevels `json:"fibonacci,omitempty"`
	EMAFast   float64                       `json:"ema_fast"`
	EMASlow   float64                       `json:"ema_slow"`
}

// IndicatorSeries holds index-aligned series for charting. Nil entries
// precede the EMA seed point.
type IndicatorSeries struct {
	EMAFast    []*float64         `json:"ema_fast"`
	EMASlow    []*float64         `json:"ema_slow"`
	HeikinAshi []HeikinAshiCandle `json:"heikin_ashi"`
}
