package strategy

// Params holds the thresholds of the rule hierarchy
type Params struct {
	MinCandles        int
	Oversold          float64
	Overbought        float64
	NearOversold      float64
	NearOverbought    float64
	NeutralLow        float64
	NeutralHigh       float64
	FibProximity      float64 // relative distance, 0.005 = 0.5%
	KeyLevelProximity float64 // relative distance for "near" key levels
	EMAFastPeriod     int     // only used to label reasons
	EMASlowPeriod     int
}

// DefaultParams returns the standard thresholds
func DefaultParams() Params {
	return Params{
		MinCandles:        200,
		Oversold:          30,
		Overbought:        70,
		NearOversold:      35,
		NearOverbought:    65,
		NeutralLow:        45,
		NeutralHigh:       55,
		FibProximity:      0.005,
		KeyLevelProximity: 0.01,
		EMAFastPeriod:     50,
		EMASlowPeriod:     200,
	}
}
