package components

import "gonum.org/v1/gonum/spatial/r2"

// Transform is a body's pose. Angle is in radians, kept in [-Pi, Pi].
type Transform struct {
	Pos   r2.Vec
	Angle float64
}

// Motion holds velocities and the force accumulators for the current step.
type Motion struct {
	Vel    r2.Vec
	AngVel float64 // radians per second
	Force  r2.Vec
	Torque float64
}
