package strategy

import (
	"fmt"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
)

// Input is everything a rule may look at
type Input struct {
	Price     float64
	PrevClose float64
	Values    model.IndicatorValues
	Params    Params
}

func (in Input) haGreen() bool {
	return in.Values.HACandle != nil && in.Values.HACandle.IsGreen
}

func (in Input) haRed() bool {
	return in.Values.HACandle != nil && !in.Values.HACandle.IsGreen
}

func (in Input) oversold() bool {
	return in.Values.RSI <= in.Params.Oversold
}

func (in Input) overbought() bool {
	return in.Values.RSI >= in.Params.Overbought
}

// Outcome is the result of the first matching rule
type Outcome struct {
	Rule    string
	Signal  model.SignalType
	Bias    model.Bias
	Reasons []string
}

// Rule maps a predicate over the input to an outcome
type Rule struct {
	Name  string
	Match func(in Input) (Outcome, bool)
}

// Rules returns the hierarchy in priority order
func Rules() []Rule {
	return []Rule{
		{Name: "breakout", Match: matchBreakout},
		{Name: "trend_momentum", Match: matchTrendMomentum},
		{Name: "fibonacci", Match: matchFibonacci},
		{Name: "rsi_confirmation", Match: matchRSIConfirmation},
		{Name: "vwap_pullback", Match: matchVwapPullback},
		{Name: "fallback", Match: matchFallback},
	}
}

// Decide runs the rules top to bottom and returns the first match
func Decide(in Input) Outcome {
	for _, rule := range Rules() {
		if out, ok := rule.Match(in); ok {
			out.Rule = rule.Name
			return out
		}
	}
	// fallback always matches
	return Outcome{Rule: "fallback", Signal: model.SignalHold, Bias: model.BiasNone}
}

func matchBreakout(in Input) (Outcome, bool) {
	p := in.Values.Pivots
	if p == nil {
		return Outcome{}, false
	}

	if in.PrevClose < p.R1 && in.Price >= p.R1 {
		return Outcome{
			Signal:  model.SignalBreakout,
			Bias:    model.BiasBuy,
			Reasons: []string{fmt.Sprintf("Rompimento de alta da Resistência R1 (%.2f)", p.R1)},
		}, true
	}
	if in.PrevClose > p.S1 && in.Price <= p.S1 {
		return Outcome{
			Signal:  model.SignalBreakout,
			Bias:    model.BiasSell,
			Reasons: []string{fmt.Sprintf("Rompimento de baixa do Suporte S1 (%.2f)", p.S1)},
		}, true
	}
	return Outcome{}, false
}

func matchTrendMomentum(in Input) (Outcome, bool) {
	ema := in.Values.EMASlow
	if ema <= 0 {
		return Outcome{}, false
	}
	period := in.Params.EMASlowPeriod

	if in.Price > ema && in.oversold() && in.haGreen() {
		return Outcome{
			Signal: model.SignalBuy,
			Bias:   model.BiasBuy,
			Reasons: []string{
				reasonAboveEMA(period, true),
				reasonOversold(in.Params),
				reasonHAGreen,
			},
		}, true
	}
	if in.Price < ema && in.overbought() && in.haRed() {
		return Outcome{
			Signal: model.SignalSell,
			Bias:   model.BiasSell,
			Reasons: []string{
				reasonBelowEMA(period, true),
				reasonOverbought(in.Params),
				reasonHARed,
			},
		}, true
	}
	return Outcome{}, false
}

func matchFibonacci(in Input) (Outcome, bool) {
	fib := in.Values.Fibonacci
	if fib == nil {
		return Outcome{}, false
	}
	tol := in.Params.FibProximity
	nearExtension := internalmath.IsNear(in.Price, fib.Level(2.0), tol)
	nearRetest := internalmath.IsNear(in.Price, fib.Level(1.0), tol)

	if fib.IsUptrend {
		// the 200% level sits above the swing high, 100% is the swing low
		if nearExtension && in.overbought() && in.haRed() {
			return Outcome{
				Signal: model.SignalSell,
				Bias:   model.BiasSell,
				Reasons: []string{
					"Preço na extensão de Fibonacci 200% (exaustão da alta)",
					reasonOverbought(in.Params),
					reasonHARed,
				},
			}, true
		}
		if nearRetest && in.oversold() && in.haGreen() {
			return Outcome{
				Signal: model.SignalBuy,
				Bias:   model.BiasBuy,
				Reasons: []string{
					"Reteste da retração de Fibonacci 100% (repique no fundo)",
					reasonOversold(in.Params),
					reasonHAGreen,
				},
			}, true
		}
		return Outcome{}, false
	}

	if nearExtension && in.oversold() && in.haGreen() {
		return Outcome{
			Signal: model.SignalBuy,
			Bias:   model.BiasBuy,
			Reasons: []string{
				"Preço na extensão de Fibonacci 200% (exaustão da baixa)",
				reasonOversold(in.Params),
				reasonHAGreen,
			},
		}, true
	}
	if nearRetest && in.overbought() && in.haRed() {
		return Outcome{
			Signal: model.SignalSell,
			Bias:   model.BiasSell,
			Reasons: []string{
				"Reteste da retração de Fibonacci 100% (rejeição no topo)",
				reasonOverbought(in.Params),
				reasonHARed,
			},
		}, true
	}
	return Outcome{}, false
}

// matchRSIConfirmation only applies when the trend filter is unavailable
func matchRSIConfirmation(in Input) (Outcome, bool) {
	if in.Values.EMASlow > 0 {
		return Outcome{}, false
	}
	if in.oversold() && in.haGreen() {
		return Outcome{
			Signal:  model.SignalBuy,
			Bias:    model.BiasBuy,
			Reasons: []string{reasonOversold(in.Params), reasonHAGreen},
		}, true
	}
	if in.overbought() && in.haRed() {
		return Outcome{
			Signal:  model.SignalSell,
			Bias:    model.BiasSell,
			Reasons: []string{reasonOverbought(in.Params), reasonHARed},
		}, true
	}
	return Outcome{}, false
}

func matchVwapPullback(in Input) (Outcome, bool) {
	v := in.Values.VWAP
	if v == nil || v.Weekly.Current <= 0 || v.Daily.Current <= 0 || in.Values.HACandle == nil {
		return Outcome{}, false
	}

	if in.Price > v.Weekly.Current && in.haRed() && in.Price > v.Daily.Current {
		return Outcome{
			Signal: model.SignalPullback,
			Bias:   model.BiasBuy,
			Reasons: []string{
				reasonAboveWeekly,
				"Candle Heikin-Ashi Vermelho (Retração na tendência de alta)",
				"Preço sustenta a VWAP Diária",
			},
		}, true
	}
	if in.Price < v.Weekly.Current && in.haGreen() && in.Price < v.Daily.Current {
		return Outcome{
			Signal: model.SignalPullback,
			Bias:   model.BiasSell,
			Reasons: []string{
				reasonBelowWeekly,
				"Candle Heikin-Ashi Verde (Retração na tendência de baixa)",
				"Preço rejeita a VWAP Diária",
			},
		}, true
	}
	return Outcome{}, false
}

func matchFallback(in Input) (Outcome, bool) {
	rsi := in.Values.RSI
	if rsi >= in.Params.NeutralLow && rsi <= in.Params.NeutralHigh {
		return Outcome{
			Signal:  model.SignalNeutral,
			Bias:    model.BiasNone,
			Reasons: []string{fmt.Sprintf("RSI em zona neutra (%.0f-%.0f)", in.Params.NeutralLow, in.Params.NeutralHigh)},
		}, true
	}
	return Outcome{
		Signal:  model.SignalHold,
		Bias:    model.BiasNone,
		Reasons: []string{"Sem confluência suficiente para entrada"},
	}, true
}
