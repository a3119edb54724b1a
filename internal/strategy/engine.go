package strategy

import (
	"math"

	"btcsignal-go/internal/model"
)

// Evaluate classifies the current price against the series and its indicator
// snapshot. It returns nil when the series is shorter than MinCandles or the
// price is not a positive number; callers keep their previous signal.
//
// The result depends only on the arguments.
func Evaluate(price float64, series model.Series, values model.IndicatorValues, p Params) *model.SignalDetails {
	if len(series) < 2 || len(series) < p.MinCandles {
		return nil
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil
	}

	in := Input{
		Price:     price,
		PrevClose: series[len(series)-2].Close,
		Values:    values,
		Params:    p,
	}

	// ============================================
	// STEP 1: PRIMARY CLASSIFICATION (first match)
	// ============================================
	outcome := Decide(in)

	// ============================================
	// STEP 2: CONFLUENCE ANNOTATIONS
	// ============================================
	reasons := make([]string, 0, len(outcome.Reasons)+12)
	reasons = append(reasons, outcome.Reasons...)
	reasons = append(reasons, Confluence(in)...)

	// ============================================
	// STEP 3: RISK LEVELS
	// ============================================
	stop, target := RiskLevels(price, outcome.Bias)

	return &model.SignalDetails{
		Signal:     outcome.Signal,
		Bias:       outcome.Bias,
		Rule:       outcome.Rule,
		Actionable: outcome.Signal.IsActionable(),
		Entry:      price,
		StopLoss:   stop,
		TakeProfit: target,
		Reasons:    dedupe(reasons),
	}
}

// Confluence lists every indicator relationship that currently holds. It
// never changes the classification.
func Confluence(in Input) []string {
	var out []string
	p := in.Params
	rsi := in.Values.RSI
	price := in.Price

	if rsi > p.Oversold && rsi <= p.NearOversold {
		out = append(out, reasonNearOversold)
	}
	if rsi >= p.NearOverbought && rsi < p.Overbought {
		out = append(out, reasonNearOverbought)
	}

	if v := in.Values.VWAP; v != nil {
		out = appendSide(out, price, v.Daily.Current, reasonAboveDaily, reasonBelowDaily)
		out = appendSide(out, price, v.Weekly.Current, reasonAboveWeekly, reasonBelowWeekly)
		out = appendSide(out, price, v.Monthly.Current, reasonAboveMonthly, reasonBelowMonthly)
		out = appendSide(out, price, v.Annual.Current, reasonAboveAnnual, reasonBelowAnnual)
	}

	if pv := in.Values.Pivots; pv != nil {
		out = appendSide(out, price, pv.Pivot, reasonAbovePivot, reasonBelowPivot)
	}

	out = appendSide(out, price, in.Values.EMAFast,
		reasonAboveEMA(p.EMAFastPeriod, false), reasonBelowEMA(p.EMAFastPeriod, false))
	out = appendSide(out, price, in.Values.EMASlow,
		reasonAboveEMA(p.EMASlowPeriod, true), reasonBelowEMA(p.EMASlowPeriod, true))

	return out
}

// appendSide adds the above/below reason for a defined (positive) level
func appendSide(out []string, price, level float64, above, below string) []string {
	switch {
	case level <= 0:
		return out
	case price > level:
		return append(out, above)
	case price < level:
		return append(out, below)
	}
	return out
}

// dedupe removes repeated reasons keeping first-seen order
func dedupe(reasons []string) []string {
	seen := make(map[string]struct{}, len(reasons))
	out := make([]string, 0, len(reasons))
	for _, r := range reasons {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
