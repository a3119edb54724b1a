package service

import (
	"context"

	"btcsignal-go/internal/model"
)

// MarketDataProvider supplies candles and live prices. Returned series are
// time-ascending and non-empty on success; prices are positive.
type MarketDataProvider interface {
	FetchHistoricalCandles(ctx context.Context, depth int) (model.Series, error)
	FetchLatestPrice(ctx context.Context) (float64, error)
}

// RateProvider supplies the quote/base currency multiplier
type RateProvider interface {
	FetchRate(ctx context.Context) (float64, error)
}

// AnalysisProvider returns advisory commentary for the current VWAP levels
type AnalysisProvider interface {
	Analyze(ctx context.Context, price float64, vwap model.VwapData) (*model.AnalysisResult, error)
}
