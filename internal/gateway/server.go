package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/metrics"
	"btcsignal-go/internal/model"
	"btcsignal-go/internal/monitor"
	"btcsignal-go/internal/risk"

	"github.com/gorilla/websocket"
)

// DashboardSource provides the latest published dashboard
type DashboardSource interface {
	Current() *model.Dashboard
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes the dashboard over HTTP and websocket
type Server struct {
	source  DashboardSource
	monitor *monitor.SignalMonitor
	hub     *Hub
	metrics *metrics.Metrics
	http    *http.Server
}

func NewServer(addr string, source DashboardSource, mon *monitor.SignalMonitor, hub *Hub, m *metrics.Metrics) *Server {
	s := &Server{source: source, monitor: mon, hub: hub, metrics: m}
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Routes registers every endpoint on a new mux
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/levels", s.handleLevels)
	mux.HandleFunc("/api/risk", s.handleRisk)
	mux.HandleFunc("/api/monitor", s.handleMonitor)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())
	return mux
}

// ListenAndServe blocks until the server stops
func (s *Server) ListenAndServe() error {
	log.Printf("🌐 [Gateway] Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains HTTP requests and disconnects websocket clients
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.Close()
	return s.http.Shutdown(ctx)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("⚠️  [Gateway] ws upgrade error: %v", err)
		return
	}
	s.hub.Attach(conn)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	d := s.source.Current()
	status := map[string]interface{}{
		"ready":      d != nil,
		"ws_clients": s.hub.ClientCount(),
	}
	if d != nil {
		status["updated_at"] = d.UpdatedAt
		status["candles"] = d.Candles
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d := s.source.Current()
	if d == nil {
		writeError(w, http.StatusServiceUnavailable, "dashboard not ready")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

type levelsResponse struct {
	Price     float64                       `json:"price"`
	KeyLevels []model.KeyLevel              `json:"key_levels"`
	Pivots    *internalmath.PivotPoints     `json:"pivots,omitempty"`
	Fibonacci *internalmath.FibonacciLevels `json:"fibonacci,omitempty"`
	VWAP      *model.VwapData               `json:"vwap,omitempty"`
}

func (s *Server) handleLevels(w http.ResponseWriter, r *http.Request) {
	d := s.source.Current()
	if d == nil {
		writeError(w, http.StatusServiceUnavailable, "dashboard not ready")
		return
	}
	writeJSON(w, http.StatusOK, levelsResponse{
		Price:     d.Price,
		KeyLevels: d.KeyLevels,
		Pivots:    d.Indicators.Pivots,
		Fibonacci: d.Indicators.Fibonacci,
		VWAP:      d.Indicators.VWAP,
	})
}

type riskResponse struct {
	Available  bool                  `json:"available"`
	Signal     *model.SignalDetails  `json:"signal,omitempty"`
	Projection *model.RiskProjection `json:"projection,omitempty"`
}

// handleRisk projects a position on the current signal. Query parameters:
// bankroll (required), leverage, target, quote=true when target is in the
// quote currency, profile=conservative|aggressive to size by risk instead
// of leverage.
func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	d := s.source.Current()
	if d == nil {
		writeError(w, http.StatusServiceUnavailable, "dashboard not ready")
		return
	}

	q := r.URL.Query()
	bankroll, err := strconv.ParseFloat(q.Get("bankroll"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bankroll must be a number")
		return
	}

	var (
		projection model.RiskProjection
		ok         bool
	)
	if p := q.Get("profile"); p != "" {
		profile, err := risk.ParseProfile(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		projection, ok = risk.CalculateByProfile(bankroll, profile, d.QuoteRate, d.Signal)
	} else {
		in := risk.Input{Bankroll: bankroll, QuoteRate: d.QuoteRate, Leverage: 1}
		if v := q.Get("leverage"); v != "" {
			if in.Leverage, err = strconv.ParseFloat(v, 64); err != nil {
				writeError(w, http.StatusBadRequest, "leverage must be a number")
				return
			}
		}
		if v := q.Get("target"); v != "" {
			if in.TargetPrice, err = strconv.ParseFloat(v, 64); err != nil {
				writeError(w, http.StatusBadRequest, "target must be a number")
				return
			}
		}
		in.TargetInQuote, _ = strconv.ParseBool(q.Get("quote"))
		projection, ok = risk.Calculate(in, d.Signal)
	}

	resp := riskResponse{Available: ok, Signal: d.Signal}
	if ok {
		resp.Projection = &projection
	}
	writeJSON(w, http.StatusOK, resp)
}

type monitorResponse struct {
	Active  *monitor.ActiveSignal `json:"active,omitempty"`
	History []monitor.Closure     `json:"history"`
	Stats   internalmath.PnLStats `json:"stats"`
}

func (s *Server) handleMonitor(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, monitorResponse{
		Active:  s.monitor.Active(),
		History: s.monitor.History(),
		Stats:   s.monitor.Stats(),
	})
}
