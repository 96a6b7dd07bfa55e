package systems

import "math"

// KnockRule decides when a can counts as down.
type KnockRule struct {
	TiltThreshold float64 // radians
	FloorY        float64
}

// IsDown reports whether a can is tilted past the threshold or has fallen
// below the floor line. +Y points down.
func (k KnockRule) IsDown(v BodyView) bool {
	return math.Abs(v.Angle) > k.TiltThreshold || v.Pos.Y > k.FloorY
}
