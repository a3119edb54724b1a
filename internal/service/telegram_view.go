package service

import (
	"fmt"
	"strings"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
)

const helpMessage = `🤖 <b>BTC/USD Sinais - Ajuda</b>

<b>📊 Sinal:</b>
/signal - Sinal atual com justificativas
/levels - Níveis chave (pivots, VWAP, Fibonacci)
/analysis - Análise de IA e ordens sugeridas

<b>💰 Risco:</b>
/risk 1000 50 - Banca e alavancagem
/risk 1000 conservative - Perfil de risco (1% ou 3%)

💡 Stop e alvo só têm valor operacional em COMPRA ou VENDA.`

func signalEmoji(signal model.SignalType) string {
	switch signal {
	case model.SignalBuy:
		return "🟢"
	case model.SignalSell:
		return "🔴"
	case model.SignalBreakout:
		return "🚀"
	case model.SignalPullback:
		return "↩️"
	case model.SignalNeutral:
		return "⚪"
	}
	return "⏸️"
}

// formatSignalMessage renders the current signal for Telegram
func formatSignalMessage(d *model.Dashboard) string {
	sig := d.Signal

	var b strings.Builder
	fmt.Fprintf(&b, "%s <b>%s</b> (BTC/USD)\n\n", signalEmoji(sig.Signal), escapeHTML(string(sig.Signal)))
	fmt.Fprintf(&b, "💵 <b>Preço:</b> <code>%s</code>\n", FormatPrice(d.Price))
	if d.QuoteRate > 0 {
		fmt.Fprintf(&b, "🇧🇷 <b>BRL:</b> <code>%s</code>\n", FormatPrice(d.Price*d.QuoteRate))
	}
	fmt.Fprintf(&b, "📈 <b>RSI:</b> %.1f\n", d.Indicators.RSI)

	if sig.Bias != model.BiasNone {
		fmt.Fprintf(&b, "\n🚀 <b>ENTRADA:</b> <code>%s</code>\n", FormatPrice(sig.Entry))
		fmt.Fprintf(&b, "🛑 <b>STOP:</b> <code>%s</code>\n", FormatPrice(sig.StopLoss))
		fmt.Fprintf(&b, "🎯 <b>ALVO:</b> <code>%s</code>\n", FormatPrice(sig.TakeProfit))
		if !sig.Actionable {
			b.WriteString("<i>Níveis apenas indicativos</i>\n")
		}
	}

	if len(sig.Reasons) > 0 {
		b.WriteString("\n📝 <b>Justificativas:</b>\n")
		for _, r := range sig.Reasons {
			fmt.Fprintf(&b, "• %s\n", escapeHTML(r))
		}
	}

	fmt.Fprintf(&b, "\n⏰ %s UTC", d.UpdatedAt.UTC().Format("15:04:05, 02 Jan"))
	return b.String()
}

func formatLevelsMessage(d *model.Dashboard) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎯 <b>Níveis Chave</b> (preço %s)\n\n", FormatPrice(d.Price))
	for _, l := range d.KeyLevels {
		marker := "🟩"
		if l.IsResistance {
			marker = "🟥"
		}
		near := ""
		if l.IsNear {
			near = " ⚡"
		}
		fmt.Fprintf(&b, "%s %s: <code>%s</code>%s\n", marker, escapeHTML(l.Name), FormatPrice(l.Price), near)
	}

	if p := d.Indicators.Pivots; p != nil {
		price, name := internalmath.FindNearestPivotLevel(d.Price, *p)
		fmt.Fprintf(&b, "\n📍 <b>Pivot mais próximo:</b> %s <code>%s</code>", name, FormatPrice(price))
	}
	if f := d.Indicators.Fibonacci; f != nil {
		price, name := internalmath.FindNearestFibLevel(d.Price, *f)
		fmt.Fprintf(&b, "\n🌀 <b>Fibonacci mais próximo:</b> %s <code>%s</code>", name, FormatPrice(price))
	}
	return b.String()
}

func formatRiskMessage(sig *model.SignalDetails, p model.RiskProjection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "💰 <b>Projeção de Risco</b> (%s)\n\n", escapeHTML(string(sig.Signal)))
	fmt.Fprintf(&b, "📦 <b>Posição:</b> <code>%s</code>\n", FormatPrice(p.PositionValue))
	fmt.Fprintf(&b, "⚖️ <b>Lote:</b> <code>%.6f BTC</code>\n", p.LotSize)
	if p.SuggestedLeverage > 0 {
		fmt.Fprintf(&b, "🔧 <b>Alavancagem sugerida:</b> %.0fx\n", p.SuggestedLeverage)
	}
	fmt.Fprintf(&b, "🛑 <b>Risco:</b> <code>%s</code>\n", FormatPrice(p.RiskAmount))
	fmt.Fprintf(&b, "🏆 <b>Lucro:</b> <code>%s</code>\n", FormatPrice(p.ProfitAmount))
	if p.RiskAmountQuote > 0 {
		fmt.Fprintf(&b, "🇧🇷 <b>Risco/Lucro (BRL):</b> <code>%s / %s</code>\n",
			FormatPrice(p.RiskAmountQuote), FormatPrice(p.ProfitAmountQuote))
	}
	fmt.Fprintf(&b, "📊 <b>R:R:</b> %.2f (acerto mínimo %.1f%%)", p.RiskReward, p.BreakEvenWinRate)
	return b.String()
}

func formatAnalysisMessage(a *model.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🤖 <b>Análise de IA</b> (%s, %d/100)\n\n%s\n", escapeHTML(a.SentimentLabel), a.SentimentScore, escapeHTML(a.Sentiment))

	writeOrders := func(title string, orders []model.SuggestedOrder) {
		if len(orders) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n<b>%s</b>\n", title)
		for _, o := range orders {
			fmt.Fprintf(&b, "• %s @ <code>%s</code> → TP <code>%s</code>\n  <i>%s</i>\n",
				escapeHTML(o.Type), FormatPrice(o.Price), FormatPrice(o.TakeProfit), escapeHTML(o.Reason))
		}
	}
	writeOrders("🟢 Ordens de Compra", a.BuyOrders)
	writeOrders("🔴 Ordens de Venda", a.SellOrders)
	return b.String()
}

// escapeHTML escapes HTML special characters for Telegram
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
