package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the signal pipeline.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns     *prometheus.CounterVec // labels: trigger=load|tick|refresh
	PipelineDur      prometheus.Histogram
	SkippedTicks     prometheus.Counter
	ProviderErrors   *prometheus.CounterVec // labels: op
	SignalChanges    *prometheus.CounterVec // labels: signal
	InsufficientData prometheus.Counter

	LastPrice    prometheus.Gauge
	LastRSI      prometheus.Gauge
	SeriesLength prometheus.Gauge
	WSClients    prometheus.Gauge
}

// NewMetrics registers every metric on a private registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btcsignal_pipeline_runs_total",
			Help: "Completed indicator+signal pipeline runs",
		}, []string{"trigger"}),
		PipelineDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "btcsignal_pipeline_duration_seconds",
			Help:    "Indicator+signal computation time",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),
		SkippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "btcsignal_skipped_ticks_total",
			Help: "Ticks skipped because a run was still in progress",
		}),
		ProviderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btcsignal_provider_errors_total",
			Help: "Upstream provider failures",
		}, []string{"op"}),
		SignalChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "btcsignal_signal_changes_total",
			Help: "Signal classification changes",
		}, []string{"signal"}),
		InsufficientData: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "btcsignal_insufficient_data_total",
			Help: "Runs where the series was below the engine minimum",
		}),
		LastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcsignal_last_price",
			Help: "Most recent price fed to the engine",
		}),
		LastRSI: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcsignal_last_rsi",
			Help: "Most recent RSI reading",
		}),
		SeriesLength: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcsignal_series_length",
			Help: "Candles in the working series",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcsignal_ws_clients",
			Help: "Connected websocket clients",
		}),
	}

	m.registry.MustRegister(
		m.PipelineRuns,
		m.PipelineDur,
		m.SkippedTicks,
		m.ProviderErrors,
		m.SignalChanges,
		m.InsufficientData,
		m.LastPrice,
		m.LastRSI,
		m.SeriesLength,
		m.WSClients,
	)
	return m
}

// Registry exposes the private registry for scraping and tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
