package model

import "time"

// SignalType is the engine's classification
type SignalType string

const (
	SignalBuy      SignalType = "COMPRA"
	SignalSell     SignalType = "VENDA"
	SignalBreakout SignalType = "ROMPIMENTO"
	SignalPullback SignalType = "RETRAÇÃO"
	SignalNeutral  SignalType = "NEUTRO"
	SignalHold     SignalType = "MANTER"
)

// IsActionable reports whether stop/target carry trading meaning
func (s SignalType) IsActionable() bool {
	return s == SignalBuy || s == SignalSell
}

// Bias is the directional lean behind a classification
type Bias string

const (
	BiasBuy  Bias = "BUY"
	BiasSell Bias = "SELL"
	BiasNone Bias = "NONE"
)

// SignalDetails is the engine output
type SignalDetails struct {
	Signal     SignalType `json:"signal"`
	Bias       Bias       `json:"bias"`
	Rule       string     `json:"rule"`
	Actionable bool       `json:"actionable"`
	Entry      float64    `json:"entry"`
	StopLoss   float64    `json:"stop_loss"`
	TakeProfit float64    `json:"take_profit"`
	Reasons    []string   `json:"reasons"`
}

// SuggestedOrder is a pending order proposed by the analysis provider
type SuggestedOrder struct {
	Type       string  `json:"type"`
	Price      float64 `json:"price"`
	TakeProfit float64 `json:"takeProfit"`
	StopLoss   float64 `json:"stopLoss,omitempty"`
	Reason     string  `json:"reason"`
}

// AnalysisResult is advisory commentary; the engine never reads it
type AnalysisResult struct {
	Sentiment      string           `json:"sentiment"`
	BuyOrders      []SuggestedOrder `json:"buyOrders"`
	SellOrders     []SuggestedOrder `json:"sellOrders"`
	SentimentScore int              `json:"sentimentScore"`
	SentimentLabel string           `json:"sentimentLabel"`
	Model          string           `json:"model,omitempty"`
	GeneratedAt    time.Time        `json:"generatedAt"`
}

// KeyLevel is a named price level relative to the current price
type KeyLevel struct {
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	IsResistance bool    `json:"is_resistance"`
	IsNear       bool    `json:"is_near"`
}

// RiskProjection is the risk calculator output
type RiskProjection struct {
	PositionValue     float64 `json:"position_value"`
	LotSize           float64 `json:"lot_size"`
	RiskAmount        float64 `json:"risk_amount"`
	ProfitAmount      float64 `json:"profit_amount"`
	RiskReward        float64 `json:"risk_reward"`
	BreakEvenWinRate  float64 `json:"break_even_win_rate"`
	TargetPrice       float64 `json:"target_price"`
	SuggestedLeverage float64 `json:"suggested_leverage,omitempty"`
	RiskAmountQuote   float64 `json:"risk_amount_quote,omitempty"`
	ProfitAmountQuote float64 `json:"profit_amount_quote,omitempty"`
}
