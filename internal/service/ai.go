package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"btcsignal-go/internal/model"

	"google.golang.org/genai"
)

var ErrClientNotInitialized = errors.New("gemini client not initialized")

const analysisInstruction = "Você é um analista financeiro especialista em criptomoedas, focado em análise técnica. " +
	"Sua tarefa é analisar os níveis de VWAP (Preço Médio Ponderado por Volume) para o par BTC/USD e sugerir " +
	"ordens pendentes com base nesses dados. Seja conciso e direto."

type AIService struct {
	clients []*genai.Client
	models  []string
}

// NewAIService creates one Gemini client per API key. Keys that fail are
// skipped; with no usable key every call returns ErrClientNotInitialized.
func NewAIService(ctx context.Context, apiKeys, models []string) *AIService {
	s := &AIService{models: models}
	for i, key := range apiKeys {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			log.Printf("⚠️  Failed to create Gemini client %d: %v", i+1, err)
			continue
		}
		s.clients = append(s.clients, client)
	}
	if len(s.models) == 0 {
		s.models = []string{"gemini-2.5-flash"}
	}
	return s
}

// Enabled reports whether at least one client is usable
func (s *AIService) Enabled() bool {
	return s != nil && len(s.clients) > 0
}

// Analyze asks Gemini for a sentiment line and pending order suggestions,
// falling back through keys and models until one succeeds
func (s *AIService) Analyze(ctx context.Context, price float64, vwap model.VwapData) (*model.AnalysisResult, error) {
	if !s.Enabled() {
		return nil, ErrClientNotInitialized
	}

	prompt := buildAnalysisPrompt(price, vwap)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(analysisInstruction, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema:    analysisSchema(),
	}

	var lastError error
	for k, client := range s.clients {
		for _, modelName := range s.models {
			result, err := client.Models.GenerateContent(ctx, modelName, genai.Text(prompt), cfg)
			if err != nil {
				lastError = err
				log.Printf("⚠️  [AI] Key %d model %s failed, trying next...", k+1, modelName)
				continue
			}

			analysis, err := parseAnalysis(result.Text())
			if err != nil {
				lastError = err
				log.Printf("⚠️  [AI] Failed to parse response (model: %s): %v", modelName, err)
				continue
			}

			analysis.Model = modelName
			analysis.GeneratedAt = time.Now().UTC()
			log.Printf("✅ [AI] Analysis ready (model: %s, sentiment: %s)", modelName, analysis.SentimentLabel)
			return analysis, nil
		}
	}

	return nil, fmt.Errorf("all gemini models failed, last error: %w", lastError)
}

func buildAnalysisPrompt(price float64, vwap model.VwapData) string {
	return fmt.Sprintf(`
O preço atual do BTC/USD é %.2f.
Os níveis de VWAP são:
- VWAP Diária: %.2f
- VWAP Semanal: %.2f
- VWAP Mensal: %.2f
- VWAP Anual: %.2f

Com base nesses níveis, que atuam como suporte e resistência dinâmicos, forneça uma breve análise de sentimento e sugira até duas ordens de compra pendentes e até duas ordens de venda pendentes. Para cada ordem, especifique o tipo (ex: Buy Limit, Sell Stop), o preço de entrada, um alvo de take profit realista (baseado no próximo nível chave de preço), um stop loss e uma breve justificativa técnica.
`, price, vwap.Daily.Current, vwap.Weekly.Current, vwap.Monthly.Current, vwap.Annual.Current)
}

func orderSchema(side string) *genai.Schema {
	return &genai.Schema{
		Type:        genai.TypeArray,
		Description: fmt.Sprintf("Uma lista de até duas ordens de %s pendentes sugeridas.", side),
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"type":       {Type: genai.TypeString, Description: "Tipo da ordem (ex: \"Buy Limit\", \"Sell Stop\")."},
				"price":      {Type: genai.TypeNumber, Description: "Preço de entrada sugerido."},
				"takeProfit": {Type: genai.TypeNumber, Description: "Preço alvo baseado no próximo nível de VWAP ou pivot."},
				"stopLoss":   {Type: genai.TypeNumber, Description: "Preço de stop loss sugerido."},
				"reason":     {Type: genai.TypeString, Description: "Breve justificativa técnica para a ordem."},
			},
			Required: []string{"type", "price", "takeProfit", "reason"},
		},
	}
}

func analysisSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"sentiment": {
				Type:        genai.TypeString,
				Description: "Análise de sentimento de mercado (ex: \"Otimista\", \"Pessimista\", \"Neutro\") com uma breve explicação.",
			},
			"buyOrders":  orderSchema("compra"),
			"sellOrders": orderSchema("venda"),
		},
		Required: []string{"sentiment", "buyOrders", "sellOrders"},
	}
}

// parseAnalysis decodes the model's JSON and scores its sentiment text
func parseAnalysis(text string) (*model.AnalysisResult, error) {
	raw := strings.TrimSpace(extractJSONFromMarkdown(strings.TrimSpace(text)))
	if raw == "" {
		return nil, fmt.Errorf("empty response")
	}

	var analysis model.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("response is not the expected JSON: %w", err)
	}

	analysis.SentimentScore, analysis.SentimentLabel = SentimentGauge(analysis.Sentiment)
	return &analysis, nil
}

func extractJSONFromMarkdown(text string) string {
	// Check if wrapped in markdown code blocks
	if len(text) > 7 && text[:3] == "```" {
		// Find the end of the opening code fence
		start := 0
		for i := 3; i < len(text); i++ {
			if text[i] == '\n' {
				start = i + 1
				break
			}
		}

		// Find the closing code fence
		end := len(text)
		for i := len(text) - 1; i >= start+3; i-- {
			if text[i-2:i+1] == "```" {
				end = i - 2
				break
			}
		}

		return text[start:end]
	}

	return text
}
