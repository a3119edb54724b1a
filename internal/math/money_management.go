package math

import "math"

// CalculatePositionValue returns the notional exposure of a leveraged stake
func CalculatePositionValue(bankroll, leverage float64) float64 {
	return bankroll * leverage
}

// CalculateLotSize converts notional exposure into units of the base asset
func CalculateLotSize(positionValue, entryPrice float64) float64 {
	if entryPrice == 0 {
		return 0
	}
	return positionValue / entryPrice
}

// CalculatePositionSize calculates position size based on risk percentage
func CalculatePositionSize(accountBalance, riskPercentage, entryPrice, stopLoss float64) float64 {
	riskAmount := accountBalance * (riskPercentage / 100.0)
	priceRisk := math.Abs(entryPrice - stopLoss)

	if priceRisk == 0 {
		return 0
	}

	return riskAmount / priceRisk
}

// CalculateRiskAmount calculates money lost if the stop is hit
func CalculateRiskAmount(positionSize, entryPrice, stopLoss float64) float64 {
	return positionSize * math.Abs(entryPrice-stopLoss)
}

// CalculateProfitAmount calculates money made if the target is hit
func CalculateProfitAmount(positionSize, entryPrice, targetPrice float64) float64 {
	return positionSize * math.Abs(targetPrice-entryPrice)
}

// CalculateLeverage calculates leverage used
func CalculateLeverage(positionValue, accountBalance float64) float64 {
	if accountBalance == 0 {
		return 0
	}
	return positionValue / accountBalance
}
