package strategy

import "fmt"

// Reason texts shared by the rules and the confluence pass so duplicates
// collapse during de-duplication.

func reasonOversold(p Params) string {
	return fmt.Sprintf("RSI em sobrevenda (≤ %.0f)", p.Oversold)
}

func reasonOverbought(p Params) string {
	return fmt.Sprintf("RSI em sobrecompra (≥ %.0f)", p.Overbought)
}

const (
	reasonHAGreen        = "Candle Heikin-Ashi Verde (Confirmação)"
	reasonHARed          = "Candle Heikin-Ashi Vermelho (Confirmação)"
	reasonNearOversold   = "RSI próximo de sobrevenda"
	reasonNearOverbought = "RSI próximo de sobrecompra"
	reasonAboveWeekly    = "Preço acima da VWAP Semanal (Tendência de alta)"
	reasonBelowWeekly    = "Preço abaixo da VWAP Semanal (Tendência de baixa)"
	reasonAboveDaily     = "Preço acima da VWAP Diária"
	reasonBelowDaily     = "Preço abaixo da VWAP Diária"
	reasonAboveMonthly   = "Preço acima da VWAP Mensal"
	reasonBelowMonthly   = "Preço abaixo da VWAP Mensal"
	reasonAboveAnnual    = "Preço acima da VWAP Anual (Macro Bullish)"
	reasonBelowAnnual    = "Preço abaixo da VWAP Anual (Macro Bearish)"
	reasonAbovePivot     = "Preço acima do Pivot Point Diário"
	reasonBelowPivot     = "Preço abaixo do Pivot Point Diário"
)

func reasonAboveEMA(period int, slow bool) string {
	if slow {
		return fmt.Sprintf("Preço acima da EMA %d (Tendência de alta)", period)
	}
	return fmt.Sprintf("Preço acima da EMA %d", period)
}

func reasonBelowEMA(period int, slow bool) string {
	if slow {
		return fmt.Sprintf("Preço abaixo da EMA %d (Tendência de baixa)", period)
	}
	return fmt.Sprintf("Preço abaixo da EMA %d", period)
}
