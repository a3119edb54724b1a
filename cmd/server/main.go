package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btcsignal-go/internal/config"
	"btcsignal-go/internal/gateway"
	"btcsignal-go/internal/loader"
	"btcsignal-go/internal/metrics"
	"btcsignal-go/internal/service"
)

func main() {
	// Global panic recovery
	defer service.RecoverAndLog("main")

	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	log.Println("🔧 Initializing services...")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := metrics.NewMetrics()
	hub := gateway.NewHub(m)

	var (
		provider service.MarketDataProvider
		rates    service.RateProvider
	)
	switch cfg.Market.Provider {
	case "simulated":
		sim := service.NewSimulatedMarket(cfg.Simulation.Seed, cfg.Simulation.StartPrice, cfg.Simulation.QuoteRate)
		provider, rates = sim, sim
		log.Printf("🎲 Using simulated market (seed %d)", cfg.Simulation.Seed)
	default:
		provider = service.NewBinanceService(
			cfg.Market.BinanceAPIKey,
			cfg.Market.BinanceSecretKey,
			cfg.Market.BinanceBaseURL,
			cfg.Market.Symbol,
			cfg.Market.Interval,
			cfg.Market.RequestsPerMinute,
		)
		rates = service.NewExchangeRateService(cfg.ExchangeRate.URL, cfg.ExchangeRate.Pair)
		log.Printf("📡 Using Binance market data for %s %s", cfg.Market.Symbol, cfg.Market.Interval)
	}

	loaderService := loader.NewLoader(provider, m, loader.Options{
		HistoryDepth:       cfg.Market.HistoryDepth,
		IndicatorParams:    cfg.IndicatorParams(),
		StrategyParams:     cfg.StrategyParams(),
		TickSpec:           cfg.Schedule.Tick,
		HistoryRefreshSpec: cfg.Schedule.HistoryRefresh,
		AnalysisSpec:       cfg.Schedule.Analysis,
		IncludeSeries:      true,
	})
	loaderService.SetRateProvider(rates)
	loaderService.SetPublisher(hub)

	aiService := service.NewAIService(ctx, cfg.Gemini.APIKeys, cfg.Gemini.Models)
	if aiService.Enabled() {
		loaderService.SetAnalysisProvider(aiService)
	} else {
		log.Println("⚠️  No Gemini API key configured - AI analysis disabled")
	}

	var telegramService *service.TelegramService
	if cfg.Telegram.BotToken != "" {
		telegramService, err = service.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Telegram service: %v", err)
		}
		loaderService.SetNotifier(telegramService)
		telegramService.StartCommands(loaderService)
	} else {
		log.Println("⚠️  TELEGRAM_BOT_TOKEN not set - notifications disabled")
	}

	log.Println("✅ All services initialized successfully")

	if err := loaderService.Start(ctx); err != nil {
		log.Fatalf("❌ Failed to start loader: %v", err)
	}

	server := gateway.NewServer(cfg.Server.Addr, loaderService, loaderService.Monitor(), hub, m)
	service.SafeGo("http server", func() {
		if err := server.ListenAndServe(); err != nil {
			log.Fatalf("❌ HTTP server failed: %v", err)
		}
	})

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	log.Println("🚀 Signal server is now running...")
	<-sigChan

	log.Println("\n🛑 Received shutdown signal...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()
	select {
	case <-loaderService.Stop().Done():
	case <-shutdownCtx.Done():
		log.Println("⚠️  Shutdown timeout - scheduler jobs still running")
	}

	if telegramService != nil {
		telegramService.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  HTTP shutdown error: %v", err)
	}

	log.Println("👋 Shutdown complete")
}
