package service

import (
	"testing"
	"time"

	"github.com/adshao/go-binance/v2"

	"btcsignal-go/internal/model"
)

func TestParseKline(t *testing.T) {
	openTime := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)
	k := &binance.Kline{
		OpenTime: openTime.UnixMilli(),
		Open:     "97000.10",
		High:     "97500.00",
		Low:      "96800.00",
		Close:    "97250.50",
		Volume:   "123.45",
	}

	c, err := parseKline(k)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !c.Timestamp.Equal(openTime) || c.Close != 97250.5 || c.Volume != 123.45 {
		t.Errorf("unexpected candle %+v", c)
	}

	bad := []*binance.Kline{
		{Open: "x", High: "1", Low: "1", Close: "1", Volume: "1"},
		{Open: "0", High: "1", Low: "0", Close: "1", Volume: "1"},
		{Open: "100", High: "90", Low: "80", Close: "85", Volume: "1"},
		{Open: "100", High: "110", Low: "90", Close: "105", Volume: "-1"},
	}
	for i, k := range bad {
		if _, err := parseKline(k); err == nil {
			t.Errorf("case %d: expected error", i)
		}
	}
}

func TestEnsureAscending(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(h int, close float64) model.Candle {
		return model.Candle{Timestamp: base.Add(time.Duration(h) * time.Hour), Open: close, High: close, Low: close, Close: close}
	}

	series := ensureAscending(model.Series{at(2, 3), at(0, 1), at(1, 2), at(1, 9)})
	if len(series) != 3 {
		t.Fatalf("expected 3 candles, got %d", len(series))
	}
	if err := series.Validate(); err != nil {
		t.Fatalf("series should validate: %v", err)
	}
	// stable sort keeps the first candle seen for a duplicated hour
	if series[1].Close != 2 {
		t.Errorf("duplicate handling: got close %v", series[1].Close)
	}
}
