package math

import "math"

// RiskReward measures a trade plan by its distances from entry
type RiskReward struct {
	Ratio            float64 `json:"ratio"`
	Risk             float64 `json:"risk"`
	Reward           float64 `json:"reward"`
	BreakEvenWinRate float64 `json:"break_even_win_rate"` // percent
}

// CalculateRiskReward compares the entry-to-target distance with the
// entry-to-stop distance. Ratio is 0 when the stop sits on the entry.
func CalculateRiskReward(entry, stop, target float64) RiskReward {
	rr := RiskReward{
		Risk:   math.Abs(entry - stop),
		Reward: math.Abs(target - entry),
	}
	if rr.Risk > 0 {
		rr.Ratio = rr.Reward / rr.Risk
	}
	// a trade at this ratio breaks even when it wins risk/(risk+reward) of the time
	if total := rr.Risk + rr.Reward; total > 0 {
		rr.BreakEvenWinRate = rr.Risk / total * 100
	}
	return rr
}
