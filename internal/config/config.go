package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"btcsignal-go/internal/indicator"
	"btcsignal-go/internal/strategy"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Market struct {
		Symbol            string `yaml:"symbol"`
		Interval          string `yaml:"interval"`
		HistoryDepth      int    `yaml:"history_depth"`
		Provider          string `yaml:"provider"` // binance | simulated
		RequestsPerMinute int    `yaml:"requests_per_minute"`
		BinanceAPIKey     string `yaml:"binance_api_key"`
		BinanceSecretKey  string `yaml:"binance_secret_key"`
		BinanceBaseURL    string `yaml:"binance_base_url"`
	} `yaml:"market"`
	Simulation struct {
		Seed       int64   `yaml:"seed"`
		StartPrice float64 `yaml:"start_price"`
		QuoteRate  float64 `yaml:"quote_rate"`
	} `yaml:"simulation"`
	Indicators struct {
		RSIPeriod       int `yaml:"rsi_period"`
		EMAFast         int `yaml:"ema_fast"`
		EMASlow         int `yaml:"ema_slow"`
		EMAWindow       int `yaml:"ema_window"`
		FibLookbackDays int `yaml:"fib_lookback_days"`
		CandlesPerDay   int `yaml:"candles_per_day"`
	} `yaml:"indicators"`
	Strategy struct {
		MinCandles        int     `yaml:"min_candles"`
		FibProximity      float64 `yaml:"fib_proximity"`
		KeyLevelProximity float64 `yaml:"key_level_proximity"`
	} `yaml:"strategy"`
	Schedule struct {
		Tick           string `yaml:"tick"`
		HistoryRefresh string `yaml:"history_refresh"`
		Analysis       string `yaml:"analysis"`
	} `yaml:"schedule"`
	ExchangeRate struct {
		URL  string `yaml:"url"`
		Pair string `yaml:"pair"`
	} `yaml:"exchange_rate"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Gemini struct {
		APIKeys []string `yaml:"api_keys"` // Supports multiple keys for rotation
		Models  []string `yaml:"models"`
	} `yaml:"gemini"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

var AppConfig *Config

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	cfg := &Config{}
	cfg.Market.Symbol = "BTCUSDT"
	cfg.Market.Interval = "1h"
	cfg.Market.HistoryDepth = 24 * 400
	cfg.Market.Provider = "binance"
	cfg.Market.RequestsPerMinute = 600
	cfg.Market.BinanceBaseURL = "https://api.binance.com"

	cfg.Simulation.Seed = 42
	cfg.Simulation.StartPrice = 95000
	cfg.Simulation.QuoteRate = 5.4

	ip := indicator.DefaultParams()
	cfg.Indicators.RSIPeriod = ip.RSIPeriod
	cfg.Indicators.EMAFast = ip.EMAFastPeriod
	cfg.Indicators.EMASlow = ip.EMASlowPeriod
	cfg.Indicators.EMAWindow = ip.EMAWindow
	cfg.Indicators.FibLookbackDays = ip.FibLookbackDays
	cfg.Indicators.CandlesPerDay = ip.CandlesPerDay

	sp := strategy.DefaultParams()
	cfg.Strategy.MinCandles = sp.MinCandles
	cfg.Strategy.FibProximity = sp.FibProximity
	cfg.Strategy.KeyLevelProximity = sp.KeyLevelProximity

	cfg.Schedule.Tick = "@every 10s"
	cfg.Schedule.HistoryRefresh = "@every 1h"
	cfg.Schedule.Analysis = "@every 15m"

	cfg.ExchangeRate.URL = "https://economia.awesomeapi.com.br/json/last/USD-BRL"
	cfg.ExchangeRate.Pair = "USDBRL"

	cfg.Gemini.Models = []string{"gemini-2.5-flash", "gemini-2.5-flash-lite"}

	cfg.Server.Addr = ":8080"
	return cfg
}

// Load reads the optional YAML file at path over the defaults, then applies
// .env and environment variable overrides, and initializes the global config
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	log.Println("✅ Configuration loaded successfully")
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Market.Provider = getEnv("MARKET_PROVIDER", cfg.Market.Provider)
	cfg.Market.Symbol = getEnv("MARKET_SYMBOL", cfg.Market.Symbol)
	cfg.Market.HistoryDepth = getEnvAsInt("HISTORY_DEPTH", cfg.Market.HistoryDepth)
	cfg.Market.BinanceAPIKey = getEnv("BINANCE_API_KEY", cfg.Market.BinanceAPIKey)
	cfg.Market.BinanceSecretKey = getEnv("BINANCE_SECRET_KEY", cfg.Market.BinanceSecretKey)
	cfg.Market.BinanceBaseURL = getEnv("BINANCE_BASE_URL", cfg.Market.BinanceBaseURL)
	cfg.Telegram.BotToken = getEnv("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = getEnv("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)
	if keys := getEnvAsSlice("GEMINI_API_KEY", ""); len(keys) > 0 {
		cfg.Gemini.APIKeys = keys
	}
	cfg.Server.Addr = getEnv("HTTP_ADDR", cfg.Server.Addr)
}

// Validate checks that the configuration can drive the pipeline
func (c *Config) Validate() error {
	switch c.Market.Provider {
	case "binance", "simulated":
	default:
		return fmt.Errorf("market.provider must be binance or simulated, got %q", c.Market.Provider)
	}
	if c.Market.HistoryDepth < c.Strategy.MinCandles {
		return fmt.Errorf("market.history_depth (%d) must be at least strategy.min_candles (%d)",
			c.Market.HistoryDepth, c.Strategy.MinCandles)
	}
	if c.Indicators.RSIPeriod <= 0 || c.Indicators.EMAFast <= 0 || c.Indicators.EMASlow <= 0 {
		return fmt.Errorf("indicator periods must be positive")
	}
	if c.Indicators.CandlesPerDay <= 0 {
		return fmt.Errorf("indicators.candles_per_day must be positive")
	}
	if c.Indicators.FibLookbackDays <= 0 {
		return fmt.Errorf("indicators.fib_lookback_days must be positive")
	}
	if c.Schedule.Tick == "" {
		return fmt.Errorf("schedule.tick is required")
	}
	return nil
}

// IndicatorParams maps the config onto the indicator snapshot parameters
func (c *Config) IndicatorParams() indicator.Params {
	return indicator.Params{
		RSIPeriod:       c.Indicators.RSIPeriod,
		EMAFastPeriod:   c.Indicators.EMAFast,
		EMASlowPeriod:   c.Indicators.EMASlow,
		EMAWindow:       c.Indicators.EMAWindow,
		FibLookbackDays: c.Indicators.FibLookbackDays,
		CandlesPerDay:   c.Indicators.CandlesPerDay,
	}
}

// StrategyParams maps the config onto the signal engine thresholds
func (c *Config) StrategyParams() strategy.Params {
	p := strategy.DefaultParams()
	p.MinCandles = c.Strategy.MinCandles
	p.FibProximity = c.Strategy.FibProximity
	p.KeyLevelProximity = c.Strategy.KeyLevelProximity
	p.EMAFastPeriod = c.Indicators.EMAFast
	p.EMASlowPeriod = c.Indicators.EMASlow
	return p
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return nil
	}
	// Split by comma
	parts := strings.Split(value, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
