package indicator

import (
	"errors"
	"testing"

	"btcsignal-go/internal/model"
)

func TestCalculateHeikinAshi_Recurrence(t *testing.T) {
	series := waveSeries(250)
	ha, err := CalculateHeikinAshi(series)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ha) != len(series) {
		t.Fatalf("expected %d candles, got %d", len(series), len(ha))
	}

	first := series[0]
	if ha[0].Open != (first.Open+first.Close)/2 {
		t.Errorf("first open: got %.4f, want %.4f", ha[0].Open, (first.Open+first.Close)/2)
	}

	for i := 1; i < len(ha); i++ {
		if ha[i].Open != (ha[i-1].Open+ha[i-1].Close)/2 {
			t.Fatalf("open[%d] breaks the recurrence", i)
		}
		c := series[i]
		if ha[i].Close != (c.Open+c.High+c.Low+c.Close)/4 {
			t.Fatalf("close[%d] is not the OHLC mean", i)
		}
		if ha[i].High < ha[i].Open || ha[i].High < ha[i].Close || ha[i].Low > ha[i].Open || ha[i].Low > ha[i].Close {
			t.Fatalf("candle %d high/low do not bound open/close", i)
		}
		if ha[i].IsGreen != (ha[i].Close >= ha[i].Open) {
			t.Fatalf("candle %d colour mismatch", i)
		}
		if !ha[i].Timestamp.Equal(c.Timestamp) {
			t.Fatalf("candle %d not index-aligned", i)
		}
	}
}

func TestCalculateHeikinAshi_Empty(t *testing.T) {
	if _, err := CalculateHeikinAshi(model.Series{}); !errors.Is(err, model.ErrEmptySeries) {
		t.Errorf("expected ErrEmptySeries, got %v", err)
	}
	if GetLastHeikinAshi(nil) != nil {
		t.Error("expected nil last candle for empty series")
	}
}

func TestGetLastHeikinAshi_Colour(t *testing.T) {
	if ha := GetLastHeikinAshi(linearSeries(50, 100, 200)); ha == nil || !ha.IsGreen {
		t.Error("rising series should end on a green candle")
	}
	if ha := GetLastHeikinAshi(linearSeries(50, 200, 100)); ha == nil || ha.IsGreen {
		t.Error("falling series should end on a red candle")
	}
}
