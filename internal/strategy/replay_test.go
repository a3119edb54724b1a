package strategy

import (
	"math"
	"testing"
	"time"

	"btcsignal-go/internal/indicator"
	"btcsignal-go/internal/model"
)

func waveSeries(n int) model.Series {
	series := make(model.Series, n)
	prev := 100000.0
	for i := range series {
		x := float64(i)
		c := 100000 + 2500*math.Sin(x/8) + 600*math.Sin(x/3)
		series[i] = model.Candle{
			Timestamp: testStart.Add(time.Duration(i) * time.Hour),
			Open:      prev,
			High:      math.Max(prev, c) + 20,
			Low:       math.Min(prev, c) - 20,
			Close:     c,
			Volume:    10 + math.Abs(math.Sin(x)),
		}
		prev = c
	}
	return series
}

func TestEvaluateAt(t *testing.T) {
	series := waveSeries(260)
	ip, sp := indicator.DefaultParams(), DefaultParams()

	point, err := EvaluateAt(series, 259, ip, sp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if point.Signal == nil {
		t.Fatal("expected a signal at the last candle")
	}
	if point.Price != series[259].Close || !point.Timestamp.Equal(series[259].Timestamp) {
		t.Errorf("point not taken at candle 259: %+v", point)
	}

	// Matches a direct evaluation over the same prefix
	values, _ := indicator.Compute(series, ip)
	direct := Evaluate(series[259].Close, series, values, sp)
	if direct.Signal != point.Signal.Signal || direct.Rule != point.Signal.Rule {
		t.Errorf("replay %s/%s differs from direct %s/%s", point.Signal.Signal, point.Signal.Rule, direct.Signal, direct.Rule)
	}

	early, err := EvaluateAt(series, 150, ip, sp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if early.Signal != nil {
		t.Error("expected no signal below the candle floor")
	}
}

func TestEvaluateAt_OutOfRange(t *testing.T) {
	series := waveSeries(10)
	for _, idx := range []int{-1, 10} {
		if _, err := EvaluateAt(series, idx, indicator.DefaultParams(), DefaultParams()); err == nil {
			t.Errorf("index %d: expected error", idx)
		}
	}
}
