package math

import (
	"math"
	"testing"
)

func TestCalculatePnLStats(t *testing.T) {
	stats := CalculatePnLStats([]float64{10, -5, 5, -10})

	if stats.TotalTrades != 4 || stats.WinningTrades != 2 || stats.LosingTrades != 2 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"WinRate", stats.WinRate, 50},
		{"TotalPnL", stats.TotalPnL, 0},
		{"AvgWin", stats.AvgWin, 7.5},
		{"AvgLoss", stats.AvgLoss, 7.5},
		{"LargestWin", stats.LargestWin, 10},
		{"LargestLoss", stats.LargestLoss, 10},
		{"ProfitFactor", stats.ProfitFactor, 1},
		{"ExpectedValue", stats.ExpectedValue, 0},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s: got %.4f, want %.4f", c.name, c.got, c.want)
		}
	}

	// Equity 100 -> 110 -> 104.5 -> 109.725 -> 98.7525, peak 110
	wantDD := (110 - 98.7525) / 110 * 100
	if math.Abs(stats.MaxDrawdown-wantDD) > 1e-9 {
		t.Errorf("MaxDrawdown: got %.4f, want %.4f", stats.MaxDrawdown, wantDD)
	}
}

func TestCalculatePnLStats_Empty(t *testing.T) {
	if stats := CalculatePnLStats(nil); stats.TotalTrades != 0 || stats.WinRate != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}

func TestCalculateMaxDrawdown(t *testing.T) {
	cases := []struct {
		equity []float64
		want   float64
	}{
		{nil, 0},
		{[]float64{100, 110, 120}, 0},
		{[]float64{100, 50, 150, 75}, 50},
	}
	for _, c := range cases {
		if got := CalculateMaxDrawdown(c.equity); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("CalculateMaxDrawdown(%v) = %.4f, want %.4f", c.equity, got, c.want)
		}
	}
}

func TestIsNear(t *testing.T) {
	if !IsNear(100.4, 100, 0.005) {
		t.Error("100.4 should be within 0.5% of 100")
	}
	if IsNear(101, 100, 0.005) {
		t.Error("101 should not be within 0.5% of 100")
	}
	if IsNear(0, 0, 0.5) {
		t.Error("zero level is never near")
	}
}
