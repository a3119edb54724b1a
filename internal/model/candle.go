package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrEmptySeries   = errors.New("candle series is empty")
	ErrNotAscending  = errors.New("candle series is not strictly time-ascending")
	ErrInvalidCandle = errors.New("invalid candle")
)

// Candle represents one OHLCV bar
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// Validate checks low <= min(open,close) <= max(open,close) <= high and volume >= 0
func (c Candle) Validate() error {
	if c.Low > c.Open || c.Low > c.Close || c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("%w: OHLC out of order at %s", ErrInvalidCandle, c.Timestamp.Format(time.RFC3339))
	}
	if c.Volume < 0 {
		return fmt.Errorf("%w: negative volume at %s", ErrInvalidCandle, c.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// TypicalPrice returns (high+low+close)/3
func (c Candle) TypicalPrice() float64 {
	return (c.High + c.Low + c.Close) / 3.0
}

// Series is a non-empty, strictly time-ascending sequence of candles.
// Index order is chronological order.
type Series []Candle

// Validate enforces the series contract
func (s Series) Validate() error {
	if len(s) == 0 {
		return ErrEmptySeries
	}
	for i, c := range s {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candle %d: %w", i, err)
		}
		if i > 0 && !c.Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("%w: index %d", ErrNotAscending, i)
		}
	}
	return nil
}

// Last returns the most recent candle. The series must not be empty.
func (s Series) Last() Candle {
	return s[len(s)-1]
}

func (s Series) Closes() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Close
	}
	return out
}

func (s Series) Highs() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.High
	}
	return out
}

func (s Series) Lows() []float64 {
	out := make([]float64, len(s))
	for i, c := range s {
		out[i] = c.Low
	}
	return out
}

// Clone returns an independent copy of the series
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// ApplyTick folds a live price into the last candle: close becomes the
// price and high/low widen to include it. Earlier candles are untouched.
func (s Series) ApplyTick(price float64) {
	if len(s) == 0 {
		return
	}
	last := &s[len(s)-1]
	last.Close = price
	if price > last.High {
		last.High = price
	}
	if price < last.Low {
		last.Low = price
	}
}
