package model

import "time"

// Dashboard is the bundle published after every pipeline run. It is
// replaced as a whole and never mutated after publication.
type Dashboard struct {
	ID         string           `json:"id"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Price      float64          `json:"price"`
	QuoteRate  float64          `json:"quote_rate"`
	Candles    int              `json:"candles"`
	LastCandle Candle           `json:"last_candle"`
	Indicators IndicatorValues  `json:"indicators"`
	Series     *IndicatorSeries `json:"series,omitempty"`
	Signal     *SignalDetails   `json:"signal,omitempty"`
	KeyLevels  []KeyLevel       `json:"key_levels"`
	Analysis   *AnalysisResult  `json:"analysis,omitempty"`
}

// HasSignal reports whether a signal has been produced at least once
func (d *Dashboard) HasSignal() bool {
	return d != nil && d.Signal != nil
}
