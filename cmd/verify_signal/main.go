package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"btcsignal-go/internal/config"
	"btcsignal-go/internal/indicator"
	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
	"btcsignal-go/internal/monitor"
	"btcsignal-go/internal/risk"
	"btcsignal-go/internal/service"
	"btcsignal-go/internal/strategy"
	"btcsignal-go/internal/worker"

	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	providerName string
	replay       int
	workers      int
	jsonOutput   bool
	bankroll     float64
	leverage     float64
	profileName  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "verify_signal",
		Short: "Evaluate the BTC/USD signal engine once and print the result",
		Long: `verify_signal loads candle history, computes every indicator and prints
the signal the dashboard would show right now.

Examples:
  verify_signal --provider simulated
  verify_signal --bankroll 1000 --leverage 10
  verify_signal --bankroll 1000 --profile aggressive
  verify_signal --replay 500 --workers 8`,
		RunE: run,
	}

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.Flags().StringVar(&providerName, "provider", "", "market provider override: binance, simulated")
	rootCmd.Flags().IntVar(&replay, "replay", 0, "also replay the engine over the last N candles")
	rootCmd.Flags().IntVar(&workers, "workers", 4, "number of parallel replay workers")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the dashboard as JSON")
	rootCmd.Flags().Float64Var(&bankroll, "bankroll", 0, "bankroll for the risk projection")
	rootCmd.Flags().Float64Var(&leverage, "leverage", 1, "leverage for the risk projection")
	rootCmd.Flags().StringVar(&profileName, "profile", "", "size by risk profile instead of leverage: conservative, aggressive")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if providerName != "" {
		cfg.Market.Provider = providerName
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	provider, rates := createProviders(cfg)
	series, err := provider.FetchHistoricalCandles(ctx, cfg.Market.HistoryDepth)
	if err != nil {
		return fmt.Errorf("fetching history: %w", err)
	}
	quoteRate, err := rates.FetchRate(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  quote rate unavailable: %v\n", err)
		quoteRate = 0
	}

	ip, sp := cfg.IndicatorParams(), cfg.StrategyParams()
	values, err := indicator.Compute(series, ip)
	if err != nil {
		return fmt.Errorf("computing indicators: %w", err)
	}

	price := series.Last().Close
	d := &model.Dashboard{
		UpdatedAt:  time.Now().UTC(),
		Price:      price,
		QuoteRate:  quoteRate,
		Candles:    len(series),
		LastCandle: series.Last(),
		Indicators: values,
		Signal:     strategy.Evaluate(price, series, values, sp),
		KeyLevels:  strategy.KeyLevels(price, values, sp.KeyLevelProximity),
	}

	if jsonOutput {
		if err := printJSON(os.Stdout, d); err != nil {
			return err
		}
	} else {
		printDashboard(d)
	}

	if bankroll > 0 {
		if err := printRisk(d); err != nil {
			return err
		}
	}

	if replay > 0 {
		runReplay(series, ip, sp)
	}
	return nil
}

func printJSON(w io.Writer, d *model.Dashboard) error {
	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding dashboard: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func createProviders(cfg *config.Config) (service.MarketDataProvider, service.RateProvider) {
	if cfg.Market.Provider == "simulated" {
		sim := service.NewSimulatedMarket(cfg.Simulation.Seed, cfg.Simulation.StartPrice, cfg.Simulation.QuoteRate)
		return sim, sim
	}
	return service.NewBinanceService(
			cfg.Market.BinanceAPIKey,
			cfg.Market.BinanceSecretKey,
			cfg.Market.BinanceBaseURL,
			cfg.Market.Symbol,
			cfg.Market.Interval,
			cfg.Market.RequestsPerMinute,
		),
		service.NewExchangeRateService(cfg.ExchangeRate.URL, cfg.ExchangeRate.Pair)
}

func printDashboard(d *model.Dashboard) {
	fmt.Printf("\nBTC/USD %s  (%d candles, last %s)\n\n",
		service.FormatPrice(d.Price), d.Candles, d.LastCandle.Timestamp.Format(time.RFC3339))

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Indicator", "Value"}),
	)
	table.Append([]string{"RSI", fmt.Sprintf("%.2f", d.Indicators.RSI)})
	table.Append([]string{"EMA fast", optionalPrice(d.Indicators.EMAFast)})
	table.Append([]string{"EMA slow", optionalPrice(d.Indicators.EMASlow)})
	if ha := d.Indicators.HACandle; ha != nil {
		table.Append([]string{"Heikin-Ashi", boolToColor(ha.IsGreen)})
	}
	if v := d.Indicators.VWAP; v != nil {
		table.Append([]string{"VWAP daily", vwapCell(v.Daily)})
		table.Append([]string{"VWAP weekly", vwapCell(v.Weekly)})
		table.Append([]string{"VWAP monthly", vwapCell(v.Monthly)})
		table.Append([]string{"VWAP annual", vwapCell(v.Annual)})
	}
	if f := d.Indicators.Fibonacci; f != nil {
		trend := "down"
		if f.IsUptrend {
			trend = "up"
		}
		table.Append([]string{"Fib swing", fmt.Sprintf("%s → %s (%s)",
			service.FormatPrice(f.SwingLow), service.FormatPrice(f.SwingHigh), trend)})
	}
	table.Render()
	fmt.Println()

	if !d.HasSignal() {
		fmt.Println("⚠️  No signal generated (insufficient data)")
		return
	}

	sig := d.Signal
	fmt.Printf("Signal: %s  (rule %s)\n", sig.Signal, sig.Rule)
	if sig.StopLoss > 0 {
		fmt.Printf("Entry %s  Stop %s  Target %s\n",
			service.FormatPrice(sig.Entry), service.FormatPrice(sig.StopLoss), service.FormatPrice(sig.TakeProfit))
	}
	for _, r := range sig.Reasons {
		fmt.Printf("  • %s\n", r)
	}
	fmt.Println()

	if len(d.KeyLevels) == 0 {
		return
	}
	levels := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Level", "Price", "Side", "Near"}),
	)
	for _, kl := range d.KeyLevels {
		side := "support"
		if kl.IsResistance {
			side = "resistance"
		}
		near := ""
		if kl.IsNear {
			near = "●"
		}
		levels.Append([]string{kl.Name, service.FormatPrice(kl.Price), side, near})
	}
	levels.Render()

	if p := d.Indicators.Pivots; p != nil {
		price, name := internalmath.FindNearestPivotLevel(d.Price, *p)
		fmt.Printf("\nNearest pivot: %s %s\n", name, service.FormatPrice(price))
	}
	if f := d.Indicators.Fibonacci; f != nil {
		price, name := internalmath.FindNearestFibLevel(d.Price, *f)
		fmt.Printf("Nearest Fibonacci: %s %s\n", name, service.FormatPrice(price))
	}
}

func printRisk(d *model.Dashboard) error {
	var (
		p  model.RiskProjection
		ok bool
	)
	if profileName != "" {
		profile, err := risk.ParseProfile(profileName)
		if err != nil {
			return err
		}
		p, ok = risk.CalculateByProfile(bankroll, profile, d.QuoteRate, d.Signal)
	} else {
		p, ok = risk.Calculate(risk.Input{Bankroll: bankroll, Leverage: leverage, QuoteRate: d.QuoteRate}, d.Signal)
	}

	fmt.Println()
	if !ok {
		fmt.Println("⚠️  Risk projection unavailable for the current signal")
		return nil
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Position", "Lot", "Risk", "Profit", "R:R", "Break-even", "Leverage"}),
	)
	lev := fmt.Sprintf("%.0fx", leverage)
	if p.SuggestedLeverage > 0 {
		lev = fmt.Sprintf("%.0fx (suggested)", p.SuggestedLeverage)
	}
	table.Append([]string{
		service.FormatPrice(p.PositionValue),
		fmt.Sprintf("%.6f", p.LotSize),
		service.FormatPrice(p.RiskAmount),
		service.FormatPrice(p.ProfitAmount),
		fmt.Sprintf("%.2f", p.RiskReward),
		fmt.Sprintf("%.1f%%", p.BreakEvenWinRate),
		lev,
	})
	table.Render()
	return nil
}

func runReplay(series model.Series, ip indicator.Params, sp strategy.Params) {
	start := len(series) - replay
	if start < sp.MinCandles-1 {
		start = sp.MinCandles - 1
	}
	if start < 0 {
		start = 0
	}
	total := len(series) - start
	if total <= 0 {
		fmt.Println("⚠️  Not enough candles to replay")
		return
	}

	bar := progressbar.NewOptions(total,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Replaying"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	pool := worker.NewPool(workers, series, ip, sp)
	pool.OnProgress(func() { bar.Add(1) })
	points := pool.Run(start, len(series))
	bar.Finish()
	fmt.Println()

	changes := worker.Transitions(points)
	fmt.Printf("\n%d signal changes over %d candles:\n\n", len(changes), total)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Time", "Price", "Signal", "Rule", "Reasons"}),
	)
	for _, pt := range changes {
		reasons := []rune(strings.Join(pt.Signal.Reasons, "; "))
		if len(reasons) > 60 {
			reasons = append(reasons[:60], []rune("...")...)
		}
		table.Append([]string{
			pt.Timestamp.Format("2006-01-02 15:04"),
			service.FormatPrice(pt.Price),
			string(pt.Signal.Signal),
			pt.Signal.Rule,
			string(reasons),
		})
	}
	table.Render()

	printBacktest(points)
}

// printBacktest walks the replayed points through a signal monitor and
// summarizes how the actionable signals would have closed
func printBacktest(points []strategy.ReplayPoint) {
	mon := monitor.NewSignalMonitor().Quiet()
	var last model.SignalType
	for _, pt := range points {
		mon.Check(pt.Price, pt.Timestamp)
		if pt.Signal.Signal != last {
			mon.Track(pt.Signal, pt.Timestamp)
			last = pt.Signal.Signal
		}
	}

	stats := mon.Stats()
	fmt.Printf("\n%d closed signals:\n\n", stats.TotalTrades)
	if stats.TotalTrades == 0 {
		return
	}

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Trades", "Win rate", "Total", "Avg win", "Avg loss", "Profit factor", "Max DD"}),
	)
	table.Append([]string{
		fmt.Sprintf("%d", stats.TotalTrades),
		fmt.Sprintf("%.1f%%", stats.WinRate),
		service.FormatPercent(stats.TotalPnL),
		fmt.Sprintf("%.2f%%", stats.AvgWin),
		fmt.Sprintf("%.2f%%", stats.AvgLoss),
		fmt.Sprintf("%.2f", stats.ProfitFactor),
		fmt.Sprintf("%.2f%%", stats.MaxDrawdown),
	})
	table.Render()
}

func optionalPrice(v float64) string {
	if v == 0 {
		return "n/a"
	}
	return service.FormatPrice(v)
}

func boolToColor(green bool) string {
	if green {
		return "green"
	}
	return "red"
}

// vwapCell shows the current window value and whether it rose over the
// previous one
func vwapCell(v model.VwapPeriodValue) string {
	if v.Current == 0 {
		return "n/a"
	}
	arrow := "↓"
	if v.Rising() {
		arrow = "↑"
	}
	return fmt.Sprintf("%s %s", service.FormatPrice(v.Current), arrow)
}
