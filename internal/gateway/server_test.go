package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"btcsignal-go/internal/metrics"
	"btcsignal-go/internal/model"
	"btcsignal-go/internal/monitor"

	"github.com/gorilla/websocket"
)

type staticSource struct {
	d atomic.Pointer[model.Dashboard]
}

func (s *staticSource) Current() *model.Dashboard { return s.d.Load() }

func testDashboard() *model.Dashboard {
	vwap := &model.VwapData{Daily: model.VwapPeriodValue{Current: 99500, Previous: 99000}}
	return &model.Dashboard{
		ID:        "dash-1",
		UpdatedAt: time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC),
		Price:     100000,
		QuoteRate: 5,
		Candles:   300,
		Indicators: model.IndicatorValues{
			RSI:  45,
			VWAP: vwap,
		},
		Signal: &model.SignalDetails{
			Signal:     model.SignalBuy,
			Bias:       model.BiasBuy,
			Actionable: true,
			Entry:      100000,
			StopLoss:   95000,
			TakeProfit: 115000,
		},
		KeyLevels: []model.KeyLevel{{Name: "VWAP Diária", Price: 99500, IsNear: true}},
	}
}

func newTestServer(t *testing.T) (*httptest.Server, *staticSource, *Hub, *monitor.SignalMonitor) {
	t.Helper()
	m := metrics.NewMetrics()
	hub := NewHub(m)
	src := &staticSource{}
	mon := monitor.NewSignalMonitor().Quiet()
	s := NewServer(":0", src, mon, hub, m)
	ts := httptest.NewServer(s.Routes())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
	})
	return ts, src, hub, mon
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("GET %s: missing CORS header", url)
	}
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("GET %s: decode: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestDashboardEndpoints(t *testing.T) {
	ts, src, _, _ := newTestServer(t)

	for _, path := range []string{"/api/dashboard", "/api/levels", "/api/risk?bankroll=1000"} {
		var body map[string]string
		if status := getJSON(t, ts.URL+path, &body); status != http.StatusServiceUnavailable {
			t.Errorf("%s before first run: got %d, want 503", path, status)
		}
		if body["error"] == "" {
			t.Errorf("%s: expected an error message", path)
		}
	}

	src.d.Store(testDashboard())

	var d model.Dashboard
	if status := getJSON(t, ts.URL+"/api/dashboard", &d); status != http.StatusOK {
		t.Fatalf("dashboard: got %d", status)
	}
	if d.ID != "dash-1" || d.Signal == nil || d.Signal.Signal != model.SignalBuy {
		t.Errorf("unexpected dashboard %+v", d)
	}

	var levels levelsResponse
	getJSON(t, ts.URL+"/api/levels", &levels)
	if levels.Price != 100000 || len(levels.KeyLevels) != 1 || levels.VWAP == nil || levels.VWAP.Daily.Current != 99500 {
		t.Errorf("unexpected levels %+v", levels)
	}

	var health map[string]interface{}
	getJSON(t, ts.URL+"/healthz", &health)
	if health["ready"] != true {
		t.Errorf("expected ready, got %v", health)
	}
}

func TestRiskEndpoint(t *testing.T) {
	ts, src, _, _ := newTestServer(t)
	src.d.Store(testDashboard())

	var resp riskResponse
	if status := getJSON(t, ts.URL+"/api/risk?bankroll=1000&leverage=50", &resp); status != http.StatusOK {
		t.Fatalf("risk: got %d", status)
	}
	if !resp.Available || resp.Projection == nil {
		t.Fatal("expected a projection")
	}
	if resp.Projection.PositionValue != 50000 || resp.Projection.RiskAmount != 2500 || resp.Projection.RiskAmountQuote != 12500 {
		t.Errorf("unexpected projection %+v", resp.Projection)
	}

	resp = riskResponse{}
	getJSON(t, ts.URL+"/api/risk?bankroll=1000&leverage=10&target=550000&quote=true", &resp)
	if !resp.Available || resp.Projection.TargetPrice != 110000 {
		t.Errorf("quote target should convert to 110000, got %+v", resp.Projection)
	}

	resp = riskResponse{}
	getJSON(t, ts.URL+"/api/risk?bankroll=1000&profile=conservative", &resp)
	if !resp.Available || resp.Projection.SuggestedLeverage <= 0 {
		t.Errorf("profile sizing should suggest leverage, got %+v", resp.Projection)
	}

	resp = riskResponse{}
	getJSON(t, ts.URL+"/api/risk?bankroll=-5", &resp)
	if resp.Available || resp.Projection != nil {
		t.Error("negative bankroll should be unavailable")
	}

	for _, q := range []string{"", "bankroll=abc", "bankroll=1000&leverage=x", "bankroll=1000&target=x", "bankroll=1000&profile=yolo"} {
		if status := getJSON(t, ts.URL+"/api/risk?"+q, nil); status != http.StatusBadRequest {
			t.Errorf("/api/risk?%s: got %d, want 400", q, status)
		}
	}
}

func TestMonitorEndpoint(t *testing.T) {
	ts, _, _, mon := newTestServer(t)
	at := time.Date(2025, 1, 14, 12, 0, 0, 0, time.UTC)

	mon.Track(testDashboard().Signal, at)
	mon.Check(115500, at.Add(time.Hour))
	mon.Track(&model.SignalDetails{
		Signal: model.SignalSell, Bias: model.BiasSell, Actionable: true,
		Entry: 115000, StopLoss: 120750, TakeProfit: 97750,
	}, at.Add(2*time.Hour))

	var resp monitorResponse
	if status := getJSON(t, ts.URL+"/api/monitor", &resp); status != http.StatusOK {
		t.Fatalf("monitor: got %d", status)
	}
	if resp.Active == nil || resp.Active.Signal != model.SignalSell {
		t.Errorf("expected active sell, got %+v", resp.Active)
	}
	if len(resp.History) != 1 || resp.History[0].Reason != monitor.CloseTPHit {
		t.Fatalf("expected one TP closure, got %+v", resp.History)
	}
	if resp.Stats.TotalTrades != 1 || resp.Stats.WinningTrades != 1 {
		t.Errorf("unexpected stats %+v", resp.Stats)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, _, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	buf := new(strings.Builder)
	if _, err := io.Copy(buf, resp.Body); err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(buf.String(), "btcsignal_ws_clients") {
		t.Error("metrics output missing btcsignal_ws_clients")
	}
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read ws frame: %v", err)
	}
	return env
}

func TestWebsocketPublish(t *testing.T) {
	ts, _, hub, _ := newTestServer(t)
	first := testDashboard()
	hub.Publish(first)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// a new client gets the latest dashboard right away
	if env := readEnvelope(t, conn); env.Type != "dashboard" || env.Data.ID != "dash-1" {
		t.Errorf("unexpected first frame %+v", env)
	}

	next := testDashboard()
	next.ID = "dash-2"
	hub.Publish(next)
	if env := readEnvelope(t, conn); env.Data.ID != "dash-2" {
		t.Errorf("expected dash-2, got %s", env.Data.ID)
	}
	if hub.ClientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount())
	}

	hub.Close()
	if hub.ClientCount() != 0 {
		t.Error("close should drop every client")
	}
}
