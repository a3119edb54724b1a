package service

import "testing"

func TestSentimentGauge(t *testing.T) {
	cases := []struct {
		text  string
		score int
		label string
	}{
		{"Otimista: o preço segue firme", 85, "Muito Otimista"},
		{"Cenário positivo no curto prazo", 65, "Otimista"},
		{"Preço acima da VWAP semanal", 65, "Otimista"},
		{"Pessimista, compradores sem força", 15, "Muito Pessimista"},
		{"Viés negativo enquanto abaixo da VWAP", 35, "Pessimista"},
		{"Preço abaixo da VWAP diária", 35, "Pessimista"},
		{"Lateralização sem direção clara", 50, "Neutro"},
		{"", 50, "Neutro"},
		// tiers are checked in order, so a bullish keyword wins
		{"Alta volatilidade com risco de queda", 85, "Muito Otimista"},
	}
	for _, tc := range cases {
		score, label := SentimentGauge(tc.text)
		if score != tc.score || label != tc.label {
			t.Errorf("SentimentGauge(%q) = %d %q, want %d %q", tc.text, score, label, tc.score, tc.label)
		}
	}
}

func TestSentimentLabel(t *testing.T) {
	cases := map[int]string{
		100: "Muito Otimista",
		76:  "Muito Otimista",
		75:  "Otimista",
		61:  "Otimista",
		60:  "Neutro",
		41:  "Neutro",
		40:  "Pessimista",
		26:  "Pessimista",
		25:  "Muito Pessimista",
		0:   "Muito Pessimista",
	}
	for score, want := range cases {
		if got := sentimentLabel(score); got != want {
			t.Errorf("sentimentLabel(%d) = %q, want %q", score, got, want)
		}
	}
}
