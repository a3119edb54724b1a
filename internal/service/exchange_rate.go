package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// ExchangeRateService fetches the quote/base multiplier (USD/BRL by default)
type ExchangeRateService struct {
	url    string
	pair   string
	client *http.Client
}

func NewExchangeRateService(url, pair string) *ExchangeRateService {
	return &ExchangeRateService{
		url:    url,
		pair:   pair,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type quoteResponse struct {
	Bid string `json:"bid"`
}

// FetchRate returns the current bid for the configured pair
func (s *ExchangeRateService) FetchRate(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build rate request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("rate API error: %s - %s", resp.Status, string(body))
	}

	var payload map[string]quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode rate: %w", err)
	}

	quote, ok := payload[s.pair]
	if !ok {
		return 0, fmt.Errorf("pair %s missing from rate response", s.pair)
	}
	rate, err := strconv.ParseFloat(quote.Bid, 64)
	if err != nil || !ValidatePrice(rate) {
		return 0, fmt.Errorf("invalid rate %q for %s", quote.Bid, s.pair)
	}

	log.Printf("💱 [Rate] %s = %.4f", s.pair, rate)
	return rate, nil
}
