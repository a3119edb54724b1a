package strategy

import (
	"fmt"
	"time"

	"btcsignal-go/internal/indicator"
	"btcsignal-go/internal/model"
)

// ReplayPoint is the signal the engine would have shown at one candle
type ReplayPoint struct {
	Index     int
	Timestamp time.Time
	Price     float64
	Signal    *model.SignalDetails
}

// EvaluateAt recomputes indicators over series[:idx+1] and evaluates the
// engine at that candle's close
func EvaluateAt(series model.Series, idx int, ip indicator.Params, sp Params) (ReplayPoint, error) {
	if idx < 0 || idx >= len(series) {
		return ReplayPoint{}, fmt.Errorf("replay index %d out of range [0,%d)", idx, len(series))
	}

	prefix := series[:idx+1]
	values, err := indicator.Compute(prefix, ip)
	if err != nil {
		return ReplayPoint{}, fmt.Errorf("failed to compute indicators at %d: %w", idx, err)
	}

	last := prefix.Last()
	return ReplayPoint{
		Index:     idx,
		Timestamp: last.Timestamp,
		Price:     last.Close,
		Signal:    Evaluate(last.Close, prefix, values, sp),
	}, nil
}
