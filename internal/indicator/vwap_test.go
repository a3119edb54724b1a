package indicator

import (
	"math"
	"testing"
	"time"

	"btcsignal-go/internal/model"
)

func TestCalculateVWAP_RisingScenario(t *testing.T) {
	series := linearSeries(300, 90000, 100000)
	vwap := CalculateVWAP(series, testStart, VwapAnchor(series))
	if vwap <= 90000 || vwap >= 100000 {
		t.Errorf("full-window VWAP %.2f should lie strictly between 90000 and 100000", vwap)
	}
}

func TestCalculateVWAP_EmptyWindow(t *testing.T) {
	series := waveSeries(48)
	before := testStart.AddDate(0, 0, -3)
	if got := CalculateVWAP(series, before, testStart); got != 0 {
		t.Errorf("window before the series: got %.2f, want 0", got)
	}

	zero := model.Series{candleAt(0, 100, 101, 0), candleAt(1, 101, 102, 0)}
	if got := CalculateVWAP(zero, testStart, testStart.Add(48*time.Hour)); got != 0 {
		t.Errorf("zero-volume window: got %.2f, want 0", got)
	}
}

func TestCalculateVWAP_HalfOpenWindow(t *testing.T) {
	series := waveSeries(10)
	start := series[3].Timestamp
	end := series[4].Timestamp

	want := series[3].TypicalPrice()
	if got := CalculateVWAP(series, start, end); math.Abs(got-want) > 1e-9 {
		t.Errorf("[t3,t4) should hold only candle 3: got %.6f, want %.6f", got, want)
	}
}

func TestCalculateVWAP_Composition(t *testing.T) {
	series := waveSeries(500)
	splits := []struct{ a, b, c int }{
		{0, 100, 499},
		{10, 11, 300},
		{200, 350, 420},
	}

	for _, s := range splits {
		a, b, c := series[s.a].Timestamp, series[s.b].Timestamp, series[s.c].Timestamp
		_, volAB := windowSums(series, a, b)
		_, volBC := windowSums(series, b, c)

		combined := (CalculateVWAP(series, a, b)*volAB + CalculateVWAP(series, b, c)*volBC) / (volAB + volBC)
		whole := CalculateVWAP(series, a, c)
		if math.Abs(combined-whole) > 1e-6 {
			t.Errorf("split %v: combined %.8f != whole %.8f", s, combined, whole)
		}
	}
}

func TestVwapAnchor(t *testing.T) {
	series := linearSeries(300, 90000, 100000)
	// Last candle opens 2025-01-13 11:00 UTC
	want := time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)
	if got := VwapAnchor(series); !got.Equal(want) {
		t.Errorf("anchor: got %s, want %s", got, want)
	}
}

func TestCalculateVwapData_Windows(t *testing.T) {
	series := linearSeries(300, 90000, 100000)
	data := CalculateVwapData(series)
	if data == nil {
		t.Fatal("expected VWAP data")
	}

	anchor := VwapAnchor(series)
	day := anchor.AddDate(0, 0, -1)
	if want := CalculateVWAP(series, day, anchor); data.Daily.Current != want {
		t.Errorf("daily current: got %.4f, want %.4f", data.Daily.Current, want)
	}
	if want := CalculateVWAP(series, day.AddDate(0, 0, -1), day); data.Daily.Previous != want {
		t.Errorf("daily previous: got %.4f, want %.4f", data.Daily.Previous, want)
	}

	// Prices only rise, so every defined current window sits above its previous one
	if !data.Daily.Rising() || !data.Weekly.Rising() {
		t.Errorf("daily and weekly VWAP should be rising: %+v %+v", data.Daily, data.Weekly)
	}

	// Twelve and a half days of history leave the previous month and year empty
	if data.Monthly.Previous != 0 || data.Annual.Previous != 0 {
		t.Errorf("expected undefined previous monthly/annual, got %.2f/%.2f", data.Monthly.Previous, data.Annual.Previous)
	}
	if data.Monthly.Current != data.Annual.Current {
		t.Errorf("monthly and annual windows both cover the whole series: %.4f vs %.4f", data.Monthly.Current, data.Annual.Current)
	}
	if data.Annual.Rising() {
		t.Error("an undefined previous window is never rising")
	}

	if CalculateVwapData(nil) != nil {
		t.Error("expected nil for empty series")
	}
}
