package mathutil

import (
	"math"

	"golang.org/x/exp/constraints"
)

// DegToRad converts degrees to radians.
func DegToRad[T constraints.Integer | constraints.Float](deg T) float64 {
	return float64(deg) * (math.Pi / 180)
}

// RadToDeg converts radians to degrees.
func RadToDeg[T constraints.Float](rad T) float64 {
	return float64(rad) * (180 / math.Pi)
}

// NormDeg wraps an angle in degrees into [0, 360).
func NormDeg(angle float64) float64 {
	a := math.Mod(angle, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
