package service

import (
	"fmt"
	"strings"
)

func CalculateDynamicDecimals(price float64) int {
	switch {
	case price < 0.0001:
		return 8
	case price < 0.01:
		return 6
	case price < 1:
		return 4
	}
	return 2
}

// FormatPrice renders a price with thousands separators, e.g. 97,250.50
func FormatPrice(price float64) string {
	decimals := CalculateDynamicDecimals(price)
	s := fmt.Sprintf("%.*f", decimals, price)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if dot := strings.IndexByte(s, '.'); dot >= 0 {
		intPart, frac = s[:dot], s[dot:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}

// FormatPercent renders a signed percentage with two decimals
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%+.2f%%", pct)
}
