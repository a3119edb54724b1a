package loader

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"btcsignal-go/internal/indicator"
	"btcsignal-go/internal/metrics"
	"btcsignal-go/internal/model"
	"btcsignal-go/internal/monitor"
	"btcsignal-go/internal/service"
	"btcsignal-go/internal/strategy"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

var (
	ErrRunInProgress = errors.New("previous run still in progress")
	ErrNotLoaded     = errors.New("history not loaded yet")
)

// Notifier receives signal changes and free-form alerts
type Notifier interface {
	SendSignal(d *model.Dashboard) error
	SendMessage(message string) error
}

// Publisher fans published dashboards out to live consumers. Publish is
// called while the run lock is held and must not block.
type Publisher interface {
	Publish(d *model.Dashboard)
}

// Options configures the pipeline driver
type Options struct {
	HistoryDepth       int
	IndicatorParams    indicator.Params
	StrategyParams     strategy.Params
	TickSpec           string
	HistoryRefreshSpec string
	AnalysisSpec       string
	IncludeSeries      bool
	CallTimeout        time.Duration
}

// Loader owns the candle series and runs the indicator+signal pipeline on
// the initial load, on every tick and on every history refresh. Runs never
// overlap, and each run publishes a complete new dashboard.
type Loader struct {
	provider  service.MarketDataProvider
	rates     service.RateProvider
	analysis  service.AnalysisProvider
	notifier  Notifier
	publisher Publisher
	monitor   *monitor.SignalMonitor
	metrics   *metrics.Metrics
	opts      Options
	clock     func() time.Time

	runMu     sync.Mutex // guards series, quoteRate and dashboard writes
	series    model.Series
	quoteRate float64
	isRunning atomic.Bool
	current   atomic.Pointer[model.Dashboard]

	cron *cron.Cron
	ctx  context.Context
}

// NewLoader creates a new loader instance
func NewLoader(provider service.MarketDataProvider, m *metrics.Metrics, opts Options) *Loader {
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 30 * time.Second
	}
	return &Loader{
		provider: provider,
		monitor:  monitor.NewSignalMonitor(),
		metrics:  m,
		opts:     opts,
		clock:    time.Now,
		ctx:      context.Background(),
	}
}

func (l *Loader) SetRateProvider(r service.RateProvider)         { l.rates = r }
func (l *Loader) SetAnalysisProvider(a service.AnalysisProvider) { l.analysis = a }
func (l *Loader) SetNotifier(n Notifier)                         { l.notifier = n }
func (l *Loader) SetPublisher(p Publisher)                       { l.publisher = p }

// Current returns the latest published dashboard, or nil before the first run
func (l *Loader) Current() *model.Dashboard {
	return l.current.Load()
}

// Monitor exposes the active signal monitor
func (l *Loader) Monitor() *monitor.SignalMonitor {
	return l.monitor
}

// Start loads history, runs the pipeline once and schedules the periodic jobs
func (l *Loader) Start(ctx context.Context) error {
	log.Println("🚀 Starting BTC/USD Signal Loader...")
	l.ctx = ctx

	if err := l.LoadHistory(ctx); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(l.opts.TickSpec, l.job("tick", l.Tick)); err != nil {
		return fmt.Errorf("invalid tick schedule %q: %w", l.opts.TickSpec, err)
	}
	if l.opts.HistoryRefreshSpec != "" {
		if _, err := c.AddFunc(l.opts.HistoryRefreshSpec, l.job("refresh", l.LoadHistory)); err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", l.opts.HistoryRefreshSpec, err)
		}
	}
	if l.analysis != nil && l.opts.AnalysisSpec != "" {
		if _, err := c.AddFunc(l.opts.AnalysisSpec, l.job("analysis", l.RefreshAnalysis)); err != nil {
			return fmt.Errorf("invalid analysis schedule %q: %w", l.opts.AnalysisSpec, err)
		}
		service.SafeGo("initial-analysis", l.job("analysis", l.RefreshAnalysis))
	}

	l.cron = c
	c.Start()

	log.Printf("⏰ Scheduler started - tick %s, refresh %s", l.opts.TickSpec, l.opts.HistoryRefreshSpec)
	return nil
}

// Stop cancels future jobs. The returned context is done once any running
// job has finished.
func (l *Loader) Stop() context.Context {
	if l.cron == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	log.Println("🛑 Stopping scheduler...")
	return l.cron.Stop()
}

func (l *Loader) job(name string, fn func(context.Context) error) func() {
	return func() {
		defer service.RecoverAndLog("loader " + name)
		ctx, cancel := context.WithTimeout(l.ctx, l.opts.CallTimeout)
		defer cancel()
		if err := fn(ctx); err != nil && !errors.Is(err, ErrRunInProgress) {
			log.Printf("❌ [Loader] %s failed: %v", name, err)
		}
	}
}

// LoadHistory replaces the series wholesale and reruns the pipeline
func (l *Loader) LoadHistory(ctx context.Context) error {
	if !l.isRunning.CompareAndSwap(false, true) {
		log.Println("⏭️  Skipping refresh - previous run still in progress")
		l.metrics.SkippedTicks.Inc()
		return ErrRunInProgress
	}
	defer l.isRunning.Store(false)

	series, err := l.provider.FetchHistoricalCandles(ctx, l.opts.HistoryDepth)
	if err != nil {
		l.metrics.ProviderErrors.WithLabelValues("history").Inc()
		return fmt.Errorf("failed to fetch history: %w", err)
	}
	if err := series.Validate(); err != nil {
		l.metrics.ProviderErrors.WithLabelValues("history").Inc()
		return fmt.Errorf("provider returned invalid series: %w", err)
	}
	log.Printf("📊 Loaded %d candles (%s → %s)", len(series),
		series[0].Timestamp.Format(time.RFC3339), series.Last().Timestamp.Format(time.RFC3339))

	if l.rates != nil {
		if rate, err := l.rates.FetchRate(ctx); err != nil {
			l.metrics.ProviderErrors.WithLabelValues("rate").Inc()
			log.Printf("⚠️  Failed to fetch quote rate, keeping %.4f: %v", l.quoteRate, err)
		} else {
			l.runMu.Lock()
			l.quoteRate = rate
			l.runMu.Unlock()
		}
	}

	l.runMu.Lock()
	l.series = series
	d, changed, err := l.run("load", series.Last().Close)
	l.runMu.Unlock()
	if err != nil {
		return err
	}

	l.afterRun(d, changed)
	return nil
}

// Tick folds the latest price into the last candle and reruns the pipeline
func (l *Loader) Tick(ctx context.Context) error {
	if !l.isRunning.CompareAndSwap(false, true) {
		log.Println("⏭️  Skipping tick - previous run still running")
		l.metrics.SkippedTicks.Inc()
		return ErrRunInProgress
	}
	defer l.isRunning.Store(false)

	l.runMu.Lock()
	loaded := len(l.series) > 0
	l.runMu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}

	price, err := l.provider.FetchLatestPrice(ctx)
	if err != nil {
		l.metrics.ProviderErrors.WithLabelValues("price").Inc()
		return fmt.Errorf("failed to fetch price: %w", err)
	}
	if !service.ValidatePrice(price) {
		l.metrics.ProviderErrors.WithLabelValues("price").Inc()
		return fmt.Errorf("provider returned invalid price %v", price)
	}

	l.runMu.Lock()
	l.series.ApplyTick(price)
	d, changed, err := l.run("tick", price)
	l.runMu.Unlock()
	if err != nil {
		return err
	}

	l.afterRun(d, changed)
	return nil
}

// run recomputes every indicator and the signal and publishes the new
// dashboard. Callers hold runMu.
func (l *Loader) run(trigger string, price float64) (*model.Dashboard, bool, error) {
	start := time.Now()

	values, err := indicator.Compute(l.series, l.opts.IndicatorParams)
	if err != nil {
		return nil, false, fmt.Errorf("failed to compute indicators: %w", err)
	}

	var chart *model.IndicatorSeries
	if l.opts.IncludeSeries {
		if chart, err = indicator.ComputeSeries(l.series, l.opts.IndicatorParams); err != nil {
			return nil, false, fmt.Errorf("failed to compute chart series: %w", err)
		}
	}

	prev := l.current.Load()
	signal := strategy.Evaluate(price, l.series, values, l.opts.StrategyParams)
	if signal == nil {
		l.metrics.InsufficientData.Inc()
		if prev != nil {
			signal = prev.Signal
		}
	}

	d := &model.Dashboard{
		ID:         uuid.NewString(),
		UpdatedAt:  l.clock().UTC(),
		Price:      price,
		QuoteRate:  l.quoteRate,
		Candles:    len(l.series),
		LastCandle: l.series.Last(),
		Indicators: values,
		Series:     chart,
		Signal:     signal,
		KeyLevels:  strategy.KeyLevels(price, values, l.opts.StrategyParams.KeyLevelProximity),
	}
	if prev != nil {
		d.Analysis = prev.Analysis
	}

	changed := signal != nil && (prev == nil || prev.Signal == nil || prev.Signal.Signal != signal.Signal)
	l.store(d)

	l.metrics.PipelineDur.Observe(time.Since(start).Seconds())
	l.metrics.PipelineRuns.WithLabelValues(trigger).Inc()
	l.metrics.LastPrice.Set(price)
	l.metrics.LastRSI.Set(values.RSI)
	l.metrics.SeriesLength.Set(float64(len(l.series)))
	if changed {
		l.metrics.SignalChanges.WithLabelValues(string(signal.Signal)).Inc()
	}

	return d, changed, nil
}

// store swaps in a new dashboard and publishes it. Callers hold runMu so
// publication order matches store order.
func (l *Loader) store(d *model.Dashboard) {
	l.current.Store(d)
	if l.publisher != nil {
		l.publisher.Publish(d)
	}
}

// afterRun updates the signal monitor and sends notifications
func (l *Loader) afterRun(d *model.Dashboard, changed bool) {
	if closure := l.monitor.Check(d.Price, d.UpdatedAt); closure != nil {
		l.notify(monitor.FormatClosure(*closure))
	}

	if !changed {
		return
	}
	log.Printf("🔔 Signal changed to %s (%s) @ %.2f", d.Signal.Signal, d.Signal.Rule, d.Price)

	if closure := l.monitor.Track(d.Signal, d.UpdatedAt); closure != nil {
		l.notify(monitor.FormatClosure(*closure))
	}
	if l.notifier != nil {
		if err := l.notifier.SendSignal(d); err != nil {
			log.Printf("⚠️  Failed to send signal notification: %v", err)
		}
	}
}

func (l *Loader) notify(message string) {
	if l.notifier == nil {
		return
	}
	if err := l.notifier.SendMessage(message); err != nil {
		log.Printf("⚠️  Failed to send notification: %v", err)
	}
}

// RefreshAnalysis asks the analysis provider for fresh commentary and merges
// it into a new copy of the current dashboard
func (l *Loader) RefreshAnalysis(ctx context.Context) error {
	if l.analysis == nil {
		return nil
	}
	d := l.Current()
	if d == nil || d.Indicators.VWAP == nil {
		return ErrNotLoaded
	}

	log.Printf("🤖 Requesting analysis at price %.2f...", d.Price)
	result, err := l.analysis.Analyze(ctx, d.Price, *d.Indicators.VWAP)
	if err != nil {
		l.metrics.ProviderErrors.WithLabelValues("analysis").Inc()
		return fmt.Errorf("analysis failed: %w", err)
	}

	l.runMu.Lock()
	defer l.runMu.Unlock()
	cur := *l.current.Load()
	cur.ID = uuid.NewString()
	cur.Analysis = result
	l.store(&cur)
	return nil
}
