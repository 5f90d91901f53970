package viewport

import "math"

// Config holds the tunable constants of the viewport. The bias and slack
// percentages shape the visible window and are not load-bearing.
type Config struct {
	MinScale float64
	MaxScale float64
	// SnapBackBand is the fraction above MinScale inside which a committed
	// scale is snapped back to 1.0.
	SnapBackBand float64

	Padding         float64
	SpacingReserve  float64
	CellWidthRatio  float64
	CellHeightRatio float64
	MinSeatSize     float64
	MaxSeatSize     float64
	SpacingRatio    float64
	MinSpacing      float64

	VerticalBias    float64
	HorizontalSlack float64
	TopSlack        float64
	BottomSlack     float64
}

func DefaultConfig() Config {
	return Config{
		MinScale:        0.5,
		MaxScale:        3.0,
		SnapBackBand:    0.05,
		Padding:         16,
		SpacingReserve:  0.12,
		CellWidthRatio:  1.5,
		CellHeightRatio: 0.8,
		MinSeatSize:     35,
		MaxSeatSize:     70,
		SpacingRatio:    0.1,
		MinSpacing:      5,
		VerticalBias:    0.10,
		HorizontalSlack: 0.10,
		TopSlack:        0.05,
		BottomSlack:     0.15,
	}
}

// ClampScale clamps candidate to [MinScale, MaxScale]. NaN clamps to MinScale.
func (c Config) ClampScale(candidate float64) float64 {
	switch {
	case math.IsNaN(candidate), candidate < c.MinScale:
		return c.MinScale
	case candidate > c.MaxScale:
		return c.MaxScale
	default:
		return candidate
	}
}

// nearMinimum reports whether scale falls inside the snap-back band.
func (c Config) nearMinimum(scale float64) bool {
	return scale <= c.MinScale*(1+c.SnapBackBand)
}
