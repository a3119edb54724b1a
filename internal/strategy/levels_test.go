package strategy

import (
	"testing"

	"btcsignal-go/internal/model"
)

func TestKeyLevels(t *testing.T) {
	values := model.IndicatorValues{
		Pivots: testPivots(),
		VWAP: &model.VwapData{
			Daily:   model.VwapPeriodValue{Current: 100050},
			Weekly:  model.VwapPeriodValue{Current: 98000},
			Monthly: model.VwapPeriodValue{Current: 0},
			Annual:  model.VwapPeriodValue{Current: 80000},
		},
	}

	levels := KeyLevels(100000, values, 0.01)

	// 7 pivots + 3 defined VWAPs
	if len(levels) != 10 {
		t.Fatalf("expected 10 levels, got %d: %+v", len(levels), levels)
	}
	for i := 1; i < len(levels); i++ {
		if levels[i].Price > levels[i-1].Price {
			t.Fatalf("levels not sorted descending at %d", i)
		}
	}

	byName := make(map[string]model.KeyLevel, len(levels))
	for _, l := range levels {
		byName[l.Name] = l
	}
	if _, ok := byName["VWAP Mensal"]; ok {
		t.Error("undefined monthly VWAP should be skipped")
	}

	checks := []struct {
		name       string
		resistance bool
		near       bool
	}{
		{"R1", true, true},
		{"R3", true, false},
		{"VWAP Diária", true, true},
		{"Pivot", false, true},
		{"S1", false, true},
		{"VWAP Semanal", false, false},
		{"VWAP Anual", false, false},
	}
	for _, c := range checks {
		l, ok := byName[c.name]
		if !ok {
			t.Errorf("missing level %s", c.name)
			continue
		}
		if l.IsResistance != c.resistance || l.IsNear != c.near {
			t.Errorf("%s: resistance=%v near=%v, want %v/%v", c.name, l.IsResistance, l.IsNear, c.resistance, c.near)
		}
	}
}

func TestKeyLevels_Fibonacci(t *testing.T) {
	values := model.IndicatorValues{Fibonacci: fibLevels([]float64{60, 100}, []float64{50, 90})}
	levels := KeyLevels(75, values, 0.01)
	if len(levels) != 8 {
		t.Fatalf("expected 8 Fibonacci levels, got %d", len(levels))
	}
	if levels[0].Name != "Fib 200%" || levels[len(levels)-1].Name != "Fib 100%" {
		t.Errorf("unexpected order: first %s last %s", levels[0].Name, levels[len(levels)-1].Name)
	}
	if !levels[0].IsResistance || levels[len(levels)-1].IsResistance {
		t.Error("levels above price are resistance, below are support")
	}
}

func TestKeyLevels_Empty(t *testing.T) {
	if levels := KeyLevels(100000, model.IndicatorValues{}, 0.01); len(levels) != 0 {
		t.Errorf("expected no levels, got %d", len(levels))
	}
}
