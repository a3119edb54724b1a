package risk

import (
	"fmt"
	"math"
	"strings"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
)

// Input holds the user-supplied side of a position projection
type Input struct {
	Bankroll      float64
	Leverage      float64
	TargetPrice   float64 // 0 uses the signal's take-profit
	TargetInQuote bool    // TargetPrice is expressed in the quote currency
	QuoteRate     float64 // quote units per base unit; 0 disables conversion
}

// Calculate projects a leveraged position on the signal's entry and stop.
// It reports false when there is no signal, bankroll or leverage is not
// positive, the signal carries no stop, or the price risk per unit is zero.
func Calculate(in Input, details *model.SignalDetails) (model.RiskProjection, bool) {
	if details == nil || !finitePositive(in.Bankroll) || !finitePositive(in.Leverage) {
		return model.RiskProjection{}, false
	}
	entry, stop := details.Entry, details.StopLoss
	if !finitePositive(entry) || !finitePositive(stop) || entry == stop {
		return model.RiskProjection{}, false
	}

	target, ok := resolveTarget(in, details)
	if !ok {
		return model.RiskProjection{}, false
	}

	positionValue := internalmath.CalculatePositionValue(in.Bankroll, in.Leverage)
	lot := internalmath.CalculateLotSize(positionValue, entry)
	rr := internalmath.CalculateRiskReward(entry, stop, target)

	projection := model.RiskProjection{
		PositionValue:    positionValue,
		LotSize:          lot,
		RiskAmount:       internalmath.CalculateRiskAmount(lot, entry, stop),
		ProfitAmount:     internalmath.CalculateProfitAmount(lot, entry, target),
		RiskReward:       rr.Ratio,
		BreakEvenWinRate: rr.BreakEvenWinRate,
		TargetPrice:      target,
	}
	convert(&projection, in.QuoteRate)
	return projection, true
}

func resolveTarget(in Input, details *model.SignalDetails) (float64, bool) {
	if in.TargetPrice == 0 {
		return details.TakeProfit, finitePositive(details.TakeProfit)
	}
	if !finitePositive(in.TargetPrice) {
		return 0, false
	}
	if !in.TargetInQuote {
		return in.TargetPrice, true
	}
	if !finitePositive(in.QuoteRate) {
		return 0, false
	}
	return in.TargetPrice / in.QuoteRate, true
}

// Profile is a fixed fraction of bankroll put at risk per trade
type Profile string

const (
	ProfileConservative Profile = "conservative"
	ProfileAggressive   Profile = "aggressive"
)

// RiskPercent returns the percentage of bankroll at risk
func (p Profile) RiskPercent() float64 {
	if p == ProfileAggressive {
		return 3
	}
	return 1
}

// ParseProfile accepts the profile names case-insensitively
func ParseProfile(s string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(s))) {
	case ProfileConservative:
		return ProfileConservative, nil
	case ProfileAggressive:
		return ProfileAggressive, nil
	}
	return "", fmt.Errorf("unknown risk profile %q (want conservative or aggressive)", s)
}

// CalculateByProfile sizes the position so that hitting the stop loses
// exactly the profile's share of bankroll, and suggests the leverage that
// position needs.
func CalculateByProfile(bankroll float64, profile Profile, quoteRate float64, details *model.SignalDetails) (model.RiskProjection, bool) {
	if details == nil || !finitePositive(bankroll) {
		return model.RiskProjection{}, false
	}
	entry, stop, target := details.Entry, details.StopLoss, details.TakeProfit
	if !finitePositive(entry) || !finitePositive(stop) || !finitePositive(target) || entry == stop {
		return model.RiskProjection{}, false
	}

	lot := internalmath.CalculatePositionSize(bankroll, profile.RiskPercent(), entry, stop)
	positionValue := lot * entry
	rr := internalmath.CalculateRiskReward(entry, stop, target)

	projection := model.RiskProjection{
		PositionValue:     positionValue,
		LotSize:           lot,
		RiskAmount:        internalmath.CalculateRiskAmount(lot, entry, stop),
		ProfitAmount:      internalmath.CalculateProfitAmount(lot, entry, target),
		RiskReward:        rr.Ratio,
		BreakEvenWinRate:  rr.BreakEvenWinRate,
		TargetPrice:       target,
		SuggestedLeverage: math.Max(1, math.Ceil(internalmath.CalculateLeverage(positionValue, bankroll))),
	}
	convert(&projection, quoteRate)
	return projection, true
}

func convert(p *model.RiskProjection, quoteRate float64) {
	if !finitePositive(quoteRate) {
		return
	}
	p.RiskAmountQuote = p.RiskAmount * quoteRate
	p.ProfitAmountQuote = p.ProfitAmount * quoteRate
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finitePositive(v float64) bool {
	return finite(v) && v > 0
}
