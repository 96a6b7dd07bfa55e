package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// clamp clamps v between minVal and maxVal.
func clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// normalizeAngle wraps an angle to [-Pi, Pi]. Non-finite angles become 0.
func normalizeAngle(angle float64) float64 {
	if math.IsInf(angle, 0) || math.IsNaN(angle) {
		return 0
	}
	return math.Remainder(angle, 2*math.Pi)
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// rotate turns v by angle radians.
func rotate(v r2.Vec, angle float64) r2.Vec {
	c, s := math.Cos(angle), math.Sin(angle)
	return r2.Vec{X: v.X*c - v.Y*s, Y: v.X*s + v.Y*c}
}

// crossSV is the cross product of a scalar angular velocity with a vector.
func crossSV(w float64, r r2.Vec) r2.Vec {
	return r2.Vec{X: -w * r.Y, Y: w * r.X}
}

// clampLength shortens v to at most maxLen.
func clampLength(v r2.Vec, maxLen float64) r2.Vec {
	l := r2.Norm(v)
	if l <= maxLen || l == 0 {
		return v
	}
	return r2.Scale(maxLen/l, v)
}
