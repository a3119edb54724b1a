package indicator

import (
	"math"
	"time"

	"btcsignal-go/internal/model"
)

var testStart = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

// candleAt builds a valid hourly candle opening at open and closing at close
func candleAt(i int, open, close, volume float64) model.Candle {
	return model.Candle{
		Timestamp: testStart.Add(time.Duration(i) * time.Hour),
		Open:      open,
		High:      math.Max(open, close) + 5,
		Low:       math.Min(open, close) - 5,
		Close:     close,
		Volume:    volume,
	}
}

// linearSeries moves closes in a straight line from first to last
func linearSeries(n int, first, last float64) model.Series {
	series := make(model.Series, n)
	step := (last - first) / float64(n-1)
	prev := first
	for i := 0; i < n; i++ {
		c := first + step*float64(i)
		series[i] = candleAt(i, prev, c, 100)
		prev = c
	}
	return series
}

// waveSeries oscillates around 100k with a mild drift and varying volume
func waveSeries(n int) model.Series {
	series := make(model.Series, n)
	prev := 100000.0
	for i := 0; i < n; i++ {
		x := float64(i)
		c := 100000 + 3000*math.Sin(x/9) + 800*math.Sin(x/3.7) + 5*x
		series[i] = candleAt(i, prev, c, 50+40*math.Abs(math.Cos(x/5)))
		prev = c
	}
	return series
}
