// Package components defines ECS components for the physics world.
package components

import "math"

// Kind labels what a body represents in the game.
type Kind uint8

const (
	KindGround Kind = iota
	KindWall
	KindCeiling
	KindSlipper
	KindCan
)

// String returns the label used in logs and telemetry.
func (k Kind) String() string {
	switch k {
	case KindGround:
		return "ground"
	case KindWall:
		return "wall"
	case KindCeiling:
		return "ceiling"
	case KindSlipper:
		return "slipper"
	case KindCan:
		return "can"
	}
	return "unknown"
}

// ShapeKind selects the collision geometry.
type ShapeKind uint8

const (
	ShapeCircle ShapeKind = iota
	ShapeBox
)

// Shape is the collision geometry in body-local space.
type Shape struct {
	Kind   ShapeKind
	Radius float64 // Circle only
	HalfW  float64 // Box only
	HalfH  float64
}

// Area returns the shape's area.
func (s Shape) Area() float64 {
	if s.Kind == ShapeCircle {
		return math.Pi * s.Radius * s.Radius
	}
	return 4 * s.HalfW * s.HalfH
}

// Mass holds inverse quantities so static bodies are just zeros.
type Mass struct {
	Mass       float64
	InvMass    float64
	Inertia    float64
	InvInertia float64
}

// Material holds surface and damping coefficients.
type Material struct {
	Restitution float64
	Friction    float64
	Drag        float64 // Linear damping per second
	AngularDrag float64 // Angular damping per second
}

// Body holds per-body flags.
type Body struct {
	Kind          Kind
	Static        bool
	Sleeping      bool
	FixedRotation bool
	RestTime      float64 // Seconds spent below sleep tolerances
	// Mass before the body was made static, restored when it becomes dynamic again.
	DynamicMass Mass
}
