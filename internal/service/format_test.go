package service

import (
	"math"
	"testing"
)

func TestFormatPrice(t *testing.T) {
	cases := []struct {
		price float64
		want  string
	}{
		{97250.5, "97,250.50"},
		{100, "100.00"},
		{1000, "1,000.00"},
		{1234567.891, "1,234,567.89"},
		{0.5, "0.5000"},
		{0.005, "0.005000"},
	}
	for _, tc := range cases {
		if got := FormatPrice(tc.price); got != tc.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tc.price, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(3.456); got != "+3.46%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(-1.2); got != "-1.20%" {
		t.Errorf("got %q", got)
	}
}

func TestValidatePrice(t *testing.T) {
	cases := map[string]struct {
		price float64
		want  bool
	}{
		"normal":   {97000, true},
		"zero":     {0, false},
		"negative": {-1, false},
		"nan":      {math.NaN(), false},
		"inf":      {math.Inf(1), false},
		"huge":     {1e11, false},
	}
	for name, tc := range cases {
		if got := ValidatePrice(tc.price); got != tc.want {
			t.Errorf("%s: ValidatePrice(%v) = %v, want %v", name, tc.price, got, tc.want)
		}
	}
}
