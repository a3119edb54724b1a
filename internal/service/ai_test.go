package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"btcsignal-go/internal/model"
)

const sampleAnalysis = `{
  "sentiment": "Otimista, preço acima da VWAP semanal",
  "buyOrders": [
    {"type": "Buy Limit", "price": 97000, "takeProfit": 101000, "stopLoss": 95500, "reason": "Reteste da VWAP Semanal"}
  ],
  "sellOrders": [
    {"type": "Sell Limit", "price": 104000, "takeProfit": 100000, "reason": "Resistência da VWAP Anual"},
    {"type": "Sell Stop", "price": 94000, "takeProfit": 90000, "stopLoss": 96000, "reason": "Perda da VWAP Mensal"}
  ]
}`

func TestParseAnalysis(t *testing.T) {
	inputs := map[string]string{
		"plain":         sampleAnalysis,
		"json fence":    "```json\n" + sampleAnalysis + "\n```",
		"bare fence":    "```\n" + sampleAnalysis + "\n```",
		"padded fences": "\n\n```json\n" + sampleAnalysis + "\n```\n",
	}
	for name, text := range inputs {
		t.Run(name, func(t *testing.T) {
			a, err := parseAnalysis(text)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(a.BuyOrders) != 1 || len(a.SellOrders) != 2 {
				t.Fatalf("orders: got %d buy / %d sell", len(a.BuyOrders), len(a.SellOrders))
			}
			buy := a.BuyOrders[0]
			if buy.Type != "Buy Limit" || buy.Price != 97000 || buy.TakeProfit != 101000 || buy.StopLoss != 95500 {
				t.Errorf("unexpected buy order %+v", buy)
			}
			if a.SellOrders[0].StopLoss != 0 {
				t.Error("missing stopLoss should decode as 0")
			}
			if a.SentimentScore != 85 || a.SentimentLabel != "Muito Otimista" {
				t.Errorf("gauge: got %d %q", a.SentimentScore, a.SentimentLabel)
			}
		})
	}
}

func TestParseAnalysis_Invalid(t *testing.T) {
	for _, text := range []string{"", "   ", "```json\n```", "not json at all"} {
		if _, err := parseAnalysis(text); err == nil {
			t.Errorf("parseAnalysis(%q): expected error", text)
		}
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	vwap := model.VwapData{
		Daily:   model.VwapPeriodValue{Current: 100100},
		Weekly:  model.VwapPeriodValue{Current: 99000},
		Monthly: model.VwapPeriodValue{Current: 97000},
		Annual:  model.VwapPeriodValue{Current: 80000},
	}
	prompt := buildAnalysisPrompt(100500, vwap)
	for _, want := range []string{"100500.00", "VWAP Diária: 100100.00", "VWAP Semanal: 99000.00", "VWAP Mensal: 97000.00", "VWAP Anual: 80000.00"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAIService_Disabled(t *testing.T) {
	s := NewAIService(context.Background(), nil, nil)
	if s.Enabled() {
		t.Fatal("no keys means disabled")
	}
	if _, err := s.Analyze(context.Background(), 100000, model.VwapData{}); !errors.Is(err, ErrClientNotInitialized) {
		t.Errorf("expected ErrClientNotInitialized, got %v", err)
	}
	if len(s.models) != 1 || s.models[0] != "gemini-2.5-flash" {
		t.Errorf("expected default model, got %v", s.models)
	}
}

func TestAnalysisSchema(t *testing.T) {
	schema := analysisSchema()
	for _, field := range []string{"sentiment", "buyOrders", "sellOrders"} {
		if _, ok := schema.Properties[field]; !ok {
			t.Errorf("schema missing %s", field)
		}
	}
	order := schema.Properties["buyOrders"].Items
	if _, ok := order.Properties["takeProfit"]; !ok {
		t.Error("order schema missing takeProfit")
	}
}
