package math

// PivotPoints represents classic floor-trader pivot levels
type PivotPoints struct {
	Pivot float64 `json:"pivot"` // Central pivot point
	R1    float64 `json:"r1"`    // Resistance 1
	R2    float64 `json:"r2"`    // Resistance 2
	R3    float64 `json:"r3"`    // Resistance 3
	S1    float64 `json:"s1"`    // Support 1
	S2    float64 `json:"s2"`    // Support 2
	S3    float64 `json:"s3"`    // Support 3
}

// NamedLevel is a price level with a display name
type NamedLevel struct {
	Name  string
	Price float64
}

// CalculateStandardPivots calculates standard pivot points from one reference bar
func CalculateStandardPivots(high, low, close float64) PivotPoints {
	pivot := (high + low + close) / 3.0

	r1 := (2 * pivot) - low
	r2 := pivot + (high - low)
	r3 := high + 2*(pivot-low)

	s1 := (2 * pivot) - high
	s2 := pivot - (high - low)
	s3 := low - 2*(high-pivot)

	return PivotPoints{
		Pivot: pivot,
		R1:    r1,
		R2:    r2,
		R3:    r3,
		S1:    s1,
		S2:    s2,
		S3:    s3,
	}
}

// Levels returns the pivot levels ordered from R3 down to S3
func (p PivotPoints) Levels() []NamedLevel {
	return []NamedLevel{
		{"R3", p.R3},
		{"R2", p.R2},
		{"R1", p.R1},
		{"Pivot", p.Pivot},
		{"S1", p.S1},
		{"S2", p.S2},
		{"S3", p.S3},
	}
}

// FindNearestPivotLevel finds the closest pivot level to current price.
// Ties resolve to the higher level.
func FindNearestPivotLevel(currentPrice float64, pivots PivotPoints) (float64, string) {
	return nearest(currentPrice, pivots.Levels())
}

func nearest(currentPrice float64, levels []NamedLevel) (float64, string) {
	nearestLevel := ""
	nearestPrice := 0.0
	minDiff := -1.0

	for _, l := range levels {
		diff := abs(currentPrice - l.Price)
		if minDiff < 0 || diff < minDiff {
			minDiff = diff
			nearestLevel = l.Name
			nearestPrice = l.Price
		}
	}

	return nearestPrice, nearestLevel
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
