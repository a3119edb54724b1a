package math

import (
	"math"
	"testing"
)

func TestCalculateStandardPivots(t *testing.T) {
	p := CalculateStandardPivots(100500, 99000, 100000)

	cases := []struct {
		name string
		got  float64
		want float64
	}{
		{"Pivot", p.Pivot, 99833.3333},
		{"R1", p.R1, 100666.6667},
		{"R2", p.R2, 101333.3333},
		{"R3", p.R3, 102166.6667},
		{"S1", p.S1, 99166.6667},
		{"S2", p.S2, 98333.3333},
		{"S3", p.S3, 97666.6667},
	}
	for _, tc := range cases {
		if math.Abs(tc.got-tc.want) > 1e-3 {
			t.Errorf("%s: got %.4f, want %.4f", tc.name, tc.got, tc.want)
		}
	}
}

func TestPivotsSymmetry(t *testing.T) {
	bars := [][3]float64{
		{100500, 99000, 100000},
		{42000, 40100, 41800},
		{10, 10, 10},
	}
	for _, b := range bars {
		p := CalculateStandardPivots(b[0], b[1], b[2])
		// R1 and S1 mirror the low and high around P, so only their spread is fixed
		if math.Abs((p.R1-p.S1)-(b[0]-b[1])) > 1e-6 {
			t.Errorf("R1-S1 should equal H-L for %v: got %.6f vs %.6f", b, p.R1-p.S1, b[0]-b[1])
		}
		if math.Abs((p.R2+p.S2)-2*p.Pivot) > 1e-6 {
			t.Errorf("R2+S2 should equal 2P for %v", b)
		}
		if !(p.S3 <= p.S2 && p.S2 <= p.S1 && p.S1 <= p.Pivot && p.Pivot <= p.R1 && p.R1 <= p.R2 && p.R2 <= p.R3) {
			t.Errorf("levels out of order for %v: %+v", b, p)
		}
	}
}

func TestPivotLevelsOrder(t *testing.T) {
	levels := CalculateStandardPivots(100500, 99000, 100000).Levels()
	want := []string{"R3", "R2", "R1", "Pivot", "S1", "S2", "S3"}
	if len(levels) != len(want) {
		t.Fatalf("expected %d levels, got %d", len(want), len(levels))
	}
	for i, name := range want {
		if levels[i].Name != name {
			t.Errorf("level %d: got %s, want %s", i, levels[i].Name, name)
		}
		if i > 0 && levels[i].Price > levels[i-1].Price {
			t.Errorf("level %s above %s", levels[i].Name, levels[i-1].Name)
		}
	}
}

func TestFindNearestPivotLevel(t *testing.T) {
	p := CalculateStandardPivots(100500, 99000, 100000)

	price, name := FindNearestPivotLevel(100600, p)
	if name != "R1" || price != p.R1 {
		t.Errorf("expected R1, got %s (%.2f)", name, price)
	}
	price, name = FindNearestPivotLevel(90000, p)
	if name != "S3" || price != p.S3 {
		t.Errorf("expected S3, got %s (%.2f)", name, price)
	}
}
