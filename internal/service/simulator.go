package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"btcsignal-go/internal/model"
)

// SimulationState carries everything the random walk depends on. The same
// state always produces the same prices.
type SimulationState struct {
	Price float64 `json:"price"`
	Step  int64   `json:"step"`
	Seed  int64   `json:"seed"`
}

func (st SimulationState) rng() *rand.Rand {
	return rand.New(rand.NewSource(st.Seed*1_000_003 + st.Step))
}

// NextSimulatedPrice advances the walk by one step of at most volatility
// (a fraction of price) in either direction
func NextSimulatedPrice(st SimulationState, volatility float64) (float64, SimulationState) {
	r := st.rng()
	change := (r.Float64()*2 - 1) * volatility
	price := st.Price * (1 + change)
	if price <= 0 {
		price = st.Price
	}
	return price, SimulationState{Price: price, Step: st.Step + 1, Seed: st.Seed}
}

// GenerateSimulatedHistory builds depth candles ending at the interval
// boundary at or before end. The returned state continues from the last close.
func GenerateSimulatedHistory(st SimulationState, depth int, end time.Time, interval time.Duration, volatility float64) (model.Series, SimulationState) {
	if depth <= 0 {
		return model.Series{}, st
	}
	last := end.UTC().Truncate(interval)
	series := make(model.Series, depth)

	for i := 0; i < depth; i++ {
		open := st.Price
		high, low := open, open
		price := open
		for j := 0; j < 4; j++ {
			price, st = NextSimulatedPrice(st, volatility/2)
			if price > high {
				high = price
			}
			if price < low {
				low = price
			}
		}
		volume := 50 + st.rng().Float64()*150

		series[i] = model.Candle{
			Timestamp: last.Add(-time.Duration(depth-1-i) * interval),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     price,
			Volume:    volume,
		}
	}

	return series, st
}

// SimulatedMarket is an offline provider backed by an owned SimulationState
type SimulatedMarket struct {
	mu             sync.Mutex
	state          SimulationState
	interval       time.Duration
	candleVol      float64
	tickVolatility float64
	quoteRate      float64
	clock          func() time.Time
}

// NewSimulatedMarket creates a deterministic market for a seed and start price
func NewSimulatedMarket(seed int64, startPrice, quoteRate float64) *SimulatedMarket {
	return &SimulatedMarket{
		state:          SimulationState{Price: startPrice, Seed: seed},
		interval:       time.Hour,
		candleVol:      0.01,
		tickVolatility: 0.001,
		quoteRate:      quoteRate,
		clock:          time.Now,
	}
}

// WithClock replaces the wall clock used to place the history
func (m *SimulatedMarket) WithClock(clock func() time.Time) *SimulatedMarket {
	m.clock = clock
	return m
}

func (m *SimulatedMarket) FetchHistoricalCandles(ctx context.Context, depth int) (model.Series, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	series, next := GenerateSimulatedHistory(m.state, depth, m.clock(), m.interval, m.candleVol)
	m.state = next
	return series, nil
}

func (m *SimulatedMarket) FetchLatestPrice(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	price, next := NextSimulatedPrice(m.state, m.tickVolatility)
	m.state = next
	return price, nil
}

func (m *SimulatedMarket) FetchRate(ctx context.Context) (float64, error) {
	return m.quoteRate, ctx.Err()
}

// State returns a copy of the current simulation state
func (m *SimulatedMarket) State() SimulationState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
