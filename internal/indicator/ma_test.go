package indicator

import (
	"math"
	"testing"

	talib "github.com/markcheno/go-talib"
)

func TestCalculateEMA_MatchesTalib(t *testing.T) {
	closes := waveSeries(400).Closes()
	for _, period := range []int{9, 50, 200} {
		ours := CalculateEMA(closes, period)
		ref := talib.Ema(closes, period)
		for i := period - 1; i < len(closes); i++ {
			if math.Abs(ours[i]-ref[i]) > 1e-6 {
				t.Fatalf("EMA(%d)[%d]: got %.6f, talib %.6f", period, i, ours[i], ref[i])
			}
		}
	}
}

func TestCalculateEMA_SeedIsSMA(t *testing.T) {
	ema := CalculateEMA([]float64{1, 2, 3, 4, 5, 6}, 3)
	if ema[2] != 2 {
		t.Errorf("seed: got %.4f, want 2", ema[2])
	}
	// k = 0.5: 2 + (4-2)/2 = 3
	if ema[3] != 3 {
		t.Errorf("ema[3]: got %.4f, want 3", ema[3])
	}
}

func TestGetLastEMA(t *testing.T) {
	closes := waveSeries(300).Closes()

	if got := GetLastEMA(closes[:199], 200, 0); got != 0 {
		t.Errorf("short series: got %.2f, want 0", got)
	}

	full := CalculateEMA(closes, 50)
	if got := GetLastEMA(closes, 50, 0); got != full[len(full)-1] {
		t.Errorf("unbounded window: got %.6f, want %.6f", got, full[len(full)-1])
	}

	windowed := CalculateEMA(closes[len(closes)-90:], 50)
	if got := GetLastEMA(closes, 50, 90); got != windowed[len(windowed)-1] {
		t.Errorf("90-close window: got %.6f, want %.6f", got, windowed[len(windowed)-1])
	}
}

func TestEMASeries(t *testing.T) {
	closes := waveSeries(60).Closes()
	series := EMASeries(closes, 50)
	if len(series) != len(closes) {
		t.Fatalf("expected %d points, got %d", len(closes), len(series))
	}
	for i := 0; i < 49; i++ {
		if series[i] != nil {
			t.Fatalf("point %d should be nil before the seed", i)
		}
	}
	for i := 49; i < len(series); i++ {
		if series[i] == nil {
			t.Fatalf("point %d should be set", i)
		}
	}

	if short := EMASeries(closes[:10], 50); short[9] != nil {
		t.Error("short series should be all nil")
	}
}
