package strategy

import (
	"sort"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
)

// Fixed offsets from entry, in percent
const (
	stopPercent   = 5
	targetPercent = 15
)

// RiskLevels returns stop-loss and take-profit for an entry. Without a
// directional bias both are zero.
func RiskLevels(entry float64, bias model.Bias) (float64, float64) {
	switch bias {
	case model.BiasBuy:
		return internalmath.SubtractPercentage(entry, stopPercent), internalmath.AddPercentage(entry, targetPercent)
	case model.BiasSell:
		return internalmath.AddPercentage(entry, stopPercent), internalmath.SubtractPercentage(entry, targetPercent)
	}
	return 0, 0
}

// KeyLevels lists pivots, VWAP values and Fibonacci levels sorted from the
// highest price down, flagged as resistance when above price and near when
// within proximity of it.
func KeyLevels(price float64, values model.IndicatorValues, proximity float64) []model.KeyLevel {
	var named []internalmath.NamedLevel

	if values.Pivots != nil {
		named = append(named, values.Pivots.Levels()...)
	}
	if v := values.VWAP; v != nil {
		named = append(named,
			internalmath.NamedLevel{Name: "VWAP Diária", Price: v.Daily.Current},
			internalmath.NamedLevel{Name: "VWAP Semanal", Price: v.Weekly.Current},
			internalmath.NamedLevel{Name: "VWAP Mensal", Price: v.Monthly.Current},
			internalmath.NamedLevel{Name: "VWAP Anual", Price: v.Annual.Current},
		)
	}
	if values.Fibonacci != nil {
		for _, l := range values.Fibonacci.Ordered() {
			named = append(named, internalmath.NamedLevel{Name: "Fib " + l.Name, Price: l.Price})
		}
	}

	levels := make([]model.KeyLevel, 0, len(named))
	for _, l := range named {
		if l.Price <= 0 {
			continue
		}
		levels = append(levels, model.KeyLevel{
			Name:         l.Name,
			Price:        l.Price,
			IsResistance: l.Price > price,
			IsNear:       internalmath.IsNear(price, l.Price, proximity),
		})
	}

	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Price > levels[j].Price
	})
	return levels
}
