package service

import (
	"regexp"
	"strings"
)

// Checked in order; the first tier whose pattern matches sets the score.
var sentimentTiers = []struct {
	pattern *regexp.Regexp
	score   int
}{
	{regexp.MustCompile(`\b(otimismo|otimista|alta|subir|bullish|compra forte|rompimento de alta|macro bullish)\b`), 85},
	{regexp.MustCompile(`\b(positivo|viés de alta|potencial de alta|acima da vwap)\b`), 65},
	{regexp.MustCompile(`\b(pessimismo|pessimista|baixa|cair|bearish|venda forte|rompimento de baixa|macro bearish)\b`), 15},
	{regexp.MustCompile(`\b(negativo|viés de baixa|risco de queda|abaixo da vwap)\b`), 35},
}

// SentimentGauge maps free-text sentiment to a 0-100 score and a label
func SentimentGauge(text string) (int, string) {
	lower := strings.ToLower(text)
	score := 50
	for _, tier := range sentimentTiers {
		if tier.pattern.MatchString(lower) {
			score = tier.score
			break
		}
	}
	return score, sentimentLabel(score)
}

func sentimentLabel(score int) string {
	switch {
	case score > 75:
		return "Muito Otimista"
	case score > 60:
		return "Otimista"
	case score > 40:
		return "Neutro"
	case score > 25:
		return "Pessimista"
	}
	return "Muito Pessimista"
}
