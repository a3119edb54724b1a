package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"btcsignal-go/internal/model"

	"github.com/adshao/go-binance/v2"
	"golang.org/x/time/rate"
)

// binanceMaxLimit is the largest page the klines endpoint returns
const binanceMaxLimit = 1000

type BinanceService struct {
	client     *binance.Client
	limiter    *rate.Limiter
	symbol     string
	interval   string
	maxRetries int
	backoff    time.Duration
}

// NewBinanceService creates a spot market data provider for one symbol
func NewBinanceService(apiKey, secretKey, baseURL, symbol, interval string, requestsPerMinute int) *BinanceService {
	client := binance.NewClient(apiKey, secretKey)
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	client.HTTPClient = &http.Client{Timeout: 10 * time.Second}

	if requestsPerMinute <= 0 {
		requestsPerMinute = 600
	}
	burst := requestsPerMinute / 60
	if burst < 1 {
		burst = 1
	}

	return &BinanceService{
		client:     client,
		limiter:    rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst),
		symbol:     symbol,
		interval:   interval,
		maxRetries: 3,
		backoff:    200 * time.Millisecond,
	}
}

// FetchHistoricalCandles pages backwards through klines until depth candles
// are collected or history runs out
func (s *BinanceService) FetchHistoricalCandles(ctx context.Context, depth int) (model.Series, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("history depth must be positive, got %d", depth)
	}

	log.Printf("🌐 [Binance API] Fetching %d %s klines for %s...", depth, s.interval, s.symbol)

	var pages [][]*binance.Kline
	remaining := depth
	var endTime int64

	for remaining > 0 {
		limit := remaining
		if limit > binanceMaxLimit {
			limit = binanceMaxLimit
		}

		var klines []*binance.Kline
		err := s.withRetry(ctx, func() error {
			svc := s.client.NewKlinesService().
				Symbol(s.symbol).
				Interval(s.interval).
				Limit(limit)
			if endTime > 0 {
				svc = svc.EndTime(endTime)
			}
			var err error
			klines, err = svc.Do(ctx)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch klines: %w", err)
		}
		if len(klines) == 0 {
			break
		}

		pages = append(pages, klines)
		remaining -= len(klines)
		endTime = klines[0].OpenTime - 1

		if len(klines) < limit {
			break
		}
	}

	series := make(model.Series, 0, depth)
	for i := len(pages) - 1; i >= 0; i-- {
		for idx, k := range pages[i] {
			candle, err := parseKline(k)
			if err != nil {
				log.Printf("⚠️  [Binance API] Skipping kline at index %d: %v", idx, err)
				continue
			}
			series = append(series, candle)
		}
	}

	series = ensureAscending(series)
	if len(series) == 0 {
		return nil, fmt.Errorf("no valid klines after parsing")
	}

	log.Printf("✅ [Binance API] Successfully fetched %d %s klines for %s", len(series), s.interval, s.symbol)
	return series, nil
}

// FetchLatestPrice returns the last traded price for the symbol
func (s *BinanceService) FetchLatestPrice(ctx context.Context) (float64, error) {
	var prices []*binance.SymbolPrice
	err := s.withRetry(ctx, func() error {
		var err error
		prices, err = s.client.NewListPricesService().Symbol(s.symbol).Do(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to fetch price: %w", err)
	}

	for _, p := range prices {
		if p.Symbol != s.symbol {
			continue
		}
		price, err := strconv.ParseFloat(p.Price, 64)
		if err != nil {
			return 0, fmt.Errorf("failed to parse price %q: %w", p.Price, err)
		}
		if !ValidatePrice(price) {
			return 0, fmt.Errorf("invalid price for %s: %v", s.symbol, price)
		}
		return price, nil
	}

	return 0, fmt.Errorf("price for %s not found in response", s.symbol)
}

// withRetry waits on the rate limiter and retries fn with exponential backoff
func (s *BinanceService) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if werr := s.limiter.Wait(ctx); werr != nil {
			return werr
		}

		if err = fn(); err == nil {
			return nil
		}
		if attempt == s.maxRetries {
			break
		}

		waitTime := time.Duration(math.Pow(2, float64(attempt))) * s.backoff
		log.Printf("⚠️  [Binance API] Attempt %d failed: %v (retrying in %s)", attempt+1, err, waitTime)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitTime):
		}
	}
	return err
}

func parseKline(k *binance.Kline) (model.Candle, error) {
	open, err1 := strconv.ParseFloat(k.Open, 64)
	high, err2 := strconv.ParseFloat(k.High, 64)
	low, err3 := strconv.ParseFloat(k.Low, 64)
	closePrice, err4 := strconv.ParseFloat(k.Close, 64)
	volume, err5 := strconv.ParseFloat(k.Volume, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return model.Candle{}, fmt.Errorf("parse error")
	}

	if !ValidatePrice(open) || !ValidatePrice(high) || !ValidatePrice(low) || !ValidatePrice(closePrice) {
		return model.Candle{}, fmt.Errorf("invalid price values")
	}

	candle := model.Candle{
		Timestamp: time.UnixMilli(k.OpenTime).UTC(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     closePrice,
		Volume:    volume,
	}
	if err := candle.Validate(); err != nil {
		return model.Candle{}, err
	}
	return candle, nil
}

// ensureAscending sorts by time and drops duplicate timestamps
func ensureAscending(series model.Series) model.Series {
	sort.SliceStable(series, func(i, j int) bool {
		return series[i].Timestamp.Before(series[j].Timestamp)
	})
	out := series[:0]
	for _, c := range series {
		if len(out) > 0 && !c.Timestamp.After(out[len(out)-1].Timestamp) {
			continue
		}
		out = append(out, c)
	}
	return out
}
