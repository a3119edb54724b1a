package monitor

import (
	"fmt"
	"log"
	"sync"
	"time"

	internalmath "btcsignal-go/internal/math"
	"btcsignal-go/internal/model"
)

const (
	CloseTPHit    = "TP_HIT"
	CloseSLHit    = "SL_HIT"
	CloseReversed = "REVERSED"
)

// ActiveSignal is an actionable signal whose stop and target are watched
type ActiveSignal struct {
	Signal     model.SignalType `json:"signal"`
	Bias       model.Bias       `json:"bias"`
	Entry      float64          `json:"entry"`
	StopLoss   float64          `json:"stop_loss"`
	TakeProfit float64          `json:"take_profit"`
	OpenedAt   time.Time        `json:"opened_at"`
}

// Closure records how an active signal ended
type Closure struct {
	Active     ActiveSignal `json:"active"`
	Reason     string       `json:"reason"`
	ExitPrice  float64      `json:"exit_price"`
	PnLPercent float64      `json:"pnl_percent"`
	ClosedAt   time.Time    `json:"closed_at"`
}

// SignalMonitor tracks at most one active signal in memory and keeps the
// results of the ones it closed
type SignalMonitor struct {
	mu      sync.Mutex
	active  *ActiveSignal
	history []Closure
	quiet   bool
}

func NewSignalMonitor() *SignalMonitor {
	return &SignalMonitor{}
}

// Quiet disables per-signal logging, used for replays
func (sm *SignalMonitor) Quiet() *SignalMonitor {
	sm.quiet = true
	return sm
}

// Track starts watching an actionable signal. A signal in the same direction
// as the active one is ignored; an opposite one replaces it and the old one
// is returned as reversed.
func (sm *SignalMonitor) Track(details *model.SignalDetails, at time.Time) *Closure {
	if details == nil || !details.Actionable {
		return nil
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.active != nil && sm.active.Bias == details.Bias {
		return nil
	}

	var closure *Closure
	if sm.active != nil {
		c := sm.closeSignal(*sm.active, CloseReversed, details.Entry, at)
		closure = &c
	}

	sm.active = &ActiveSignal{
		Signal:     details.Signal,
		Bias:       details.Bias,
		Entry:      details.Entry,
		StopLoss:   details.StopLoss,
		TakeProfit: details.TakeProfit,
		OpenedAt:   at,
	}
	if !sm.quiet {
		log.Printf("📌 Added %s @ %.2f to active monitoring", details.Signal, details.Entry)
	}
	return closure
}

// Check closes the active signal when price reaches its target or stop
func (sm *SignalMonitor) Check(price float64, at time.Time) *Closure {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.active == nil {
		return nil
	}
	a := *sm.active

	var reason string
	if a.Bias == model.BiasBuy {
		if price >= a.TakeProfit {
			reason = CloseTPHit
		} else if price <= a.StopLoss {
			reason = CloseSLHit
		}
	} else {
		if price <= a.TakeProfit {
			reason = CloseTPHit
		} else if price >= a.StopLoss {
			reason = CloseSLHit
		}
	}
	if reason == "" {
		return nil
	}

	sm.active = nil
	c := sm.closeSignal(a, reason, price, at)
	if !sm.quiet {
		log.Printf("🏁 %s closed: %s (%.2f%%)", a.Signal, reason, c.PnLPercent)
	}
	return &c
}

// Active returns a copy of the watched signal, if any
func (sm *SignalMonitor) Active() *ActiveSignal {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sm.active == nil {
		return nil
	}
	a := *sm.active
	return &a
}

// History returns every closure in the order it happened
func (sm *SignalMonitor) History() []Closure {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return append([]Closure(nil), sm.history...)
}

// Stats summarizes the closed signals
func (sm *SignalMonitor) Stats() internalmath.PnLStats {
	sm.mu.Lock()
	results := make([]float64, len(sm.history))
	for i, c := range sm.history {
		results[i] = c.PnLPercent
	}
	sm.mu.Unlock()
	return internalmath.CalculatePnLStats(results)
}

// closeSignal is called with mu held
func (sm *SignalMonitor) closeSignal(a ActiveSignal, reason string, exit float64, at time.Time) Closure {
	pnl := internalmath.CalculatePercentageChange(a.Entry, exit)
	if a.Bias == model.BiasSell {
		pnl = -pnl
	}
	c := Closure{Active: a, Reason: reason, ExitPrice: exit, PnLPercent: pnl, ClosedAt: at}
	sm.history = append(sm.history, c)
	return c
}

// FormatClosure renders a closure as a Telegram HTML message
func FormatClosure(c Closure) string {
	title := "🏆 <b>ALVO ATINGIDO</b>"
	switch c.Reason {
	case CloseSLHit:
		title = "🛑 <b>STOP ATINGIDO</b>"
	case CloseReversed:
		title = "🔄 <b>SINAL INVERTIDO</b>"
	}
	return fmt.Sprintf("%s (%s)\n\n🚀 Entrada: <code>%.2f</code>\n🏁 Saída: <code>%.2f</code>\n📊 Resultado: <b>%+.2f%%</b>\n⏱️ Duração: %s",
		title, c.Active.Signal, c.Active.Entry, c.ExitPrice, c.PnLPercent,
		c.ClosedAt.Sub(c.Active.OpenedAt).Round(time.Minute))
}
