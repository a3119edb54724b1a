package math

// PnLStats summarizes a sequence of closed signal results, all in percent
type PnLStats struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalPnL      float64 `json:"total_pnl"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	LargestWin    float64 `json:"largest_win"`
	LargestLoss   float64 `json:"largest_loss"`
	ProfitFactor  float64 `json:"profit_factor"`
	ExpectedValue float64 `json:"expected_value"`
	MaxDrawdown   float64 `json:"max_drawdown"`
}

// CalculatePnLStats calculates trading statistics from per-trade percent
// results. A zero result counts as a loss.
func CalculatePnLStats(results []float64) PnLStats {
	if len(results) == 0 {
		return PnLStats{}
	}

	stats := PnLStats{TotalTrades: len(results)}

	var totalWins, totalLosses float64
	equity := make([]float64, 0, len(results)+1)
	equity = append(equity, 100)

	for _, pnl := range results {
		stats.TotalPnL += pnl
		equity = append(equity, equity[len(equity)-1]*(1+pnl/100))

		if pnl > 0 {
			stats.WinningTrades++
			totalWins += pnl
			if pnl > stats.LargestWin {
				stats.LargestWin = pnl
			}
			continue
		}
		stats.LosingTrades++
		totalLosses += -pnl
		if -pnl > stats.LargestLoss {
			stats.LargestLoss = -pnl
		}
	}

	stats.WinRate = float64(stats.WinningTrades) / float64(stats.TotalTrades) * 100
	if stats.WinningTrades > 0 {
		stats.AvgWin = totalWins / float64(stats.WinningTrades)
	}
	if stats.LosingTrades > 0 {
		stats.AvgLoss = totalLosses / float64(stats.LosingTrades)
	}
	if totalLosses > 0 {
		stats.ProfitFactor = totalWins / totalLosses
	}

	winProb := float64(stats.WinningTrades) / float64(stats.TotalTrades)
	lossProb := float64(stats.LosingTrades) / float64(stats.TotalTrades)
	stats.ExpectedValue = winProb*stats.AvgWin - lossProb*stats.AvgLoss
	stats.MaxDrawdown = CalculateMaxDrawdown(equity)

	return stats
}

// CalculateDrawdown calculates drawdown from peak
func CalculateDrawdown(peak, current float64) float64 {
	if peak == 0 {
		return 0
	}
	return ((peak - current) / peak) * 100
}

// CalculateMaxDrawdown finds maximum drawdown from equity curve
func CalculateMaxDrawdown(equity []float64) float64 {
	if len(equity) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak := equity[0]

	for _, value := range equity {
		if value > peak {
			peak = value
		}

		drawdown := CalculateDrawdown(peak, value)
		if drawdown > maxDrawdown {
			maxDrawdown = drawdown
		}
	}

	return maxDrawdown
}
