package systems

import (
	"fmt"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/components"
)

// BodyID is a stable handle to a body. Ids of removed bodies are never
// reported alive again.
type BodyID = ecs.Entity

// WorldConfig holds step parameters for a World.
type WorldConfig struct {
	Width, Height     float64
	Gravity           r2.Vec
	Iterations        int
	GridCellSize      float64
	CorrectionPercent float64
	CorrectionSlop    float64
	BounceThreshold   float64
	SleepTime         float64
	SleepLinear       float64
	SleepAngular      float64
}

// BodyDef describes a body to add.
type BodyDef struct {
	Kind          components.Kind
	Shape         components.Shape
	Pos           r2.Vec
	Angle         float64
	Vel           r2.Vec
	Static        bool
	Density       float64
	Material      components.Material
	FixedRotation bool
}

// BodyView is a read-only snapshot of a body for rendering and tests.
type BodyView struct {
	ID       BodyID
	Kind     components.Kind
	Shape    components.Shape
	Pos      r2.Vec
	Angle    float64
	Vel      r2.Vec
	AngVel   float64
	Mass     float64
	Static   bool
	Sleeping bool
}

// World owns every rigid body. Bodies live as ECS entities; everything
// outside the world refers to them by BodyID.
type World struct {
	cfg WorldConfig

	ecs    *ecs.World
	mapper *ecs.Map6[
		components.Transform,
		components.Motion,
		components.Shape,
		components.Mass,
		components.Material,
		components.Body,
	]
	filter *ecs.Filter5[
		components.Transform,
		components.Motion,
		components.Mass,
		components.Material,
		components.Body,
	]

	order    []BodyID // insertion order, for deterministic iteration
	grid     *SpatialGrid
	pairs    []bodyPair
	seen     map[pairKey]struct{}
	contacts []Contact
}

// NewWorld creates an empty world.
func NewWorld(cfg WorldConfig) *World {
	if cfg.Iterations < 1 {
		cfg.Iterations = 1
	}
	if cfg.GridCellSize <= 0 {
		cfg.GridCellSize = 64
	}
	w := ecs.NewWorld()
	return &World{
		cfg: cfg,
		ecs: w,
		mapper: ecs.NewMap6[
			components.Transform,
			components.Motion,
			components.Shape,
			components.Mass,
			components.Material,
			components.Body,
		](w),
		filter: ecs.NewFilter5[
			components.Transform,
			components.Motion,
			components.Mass,
			components.Material,
			components.Body,
		](w),
		grid: NewSpatialGrid(cfg.Width, cfg.Height, cfg.GridCellSize),
		seen: make(map[pairKey]struct{}),
	}
}

// Config returns the world's step parameters.
func (w *World) Config() WorldConfig { return w.cfg }

// AddBody inserts a body and returns its id.
func (w *World) AddBody(def BodyDef) BodyID {
	dyn := massFor(def.Shape, def.Density, def.FixedRotation)
	mass := dyn
	if def.Static {
		mass = components.Mass{}
	}
	xf := components.Transform{Pos: def.Pos, Angle: normalizeAngle(def.Angle)}
	mo := components.Motion{}
	if !def.Static {
		mo.Vel = def.Vel
	}
	shape := def.Shape
	mat := def.Material
	body := components.Body{
		Kind:          def.Kind,
		Static:        def.Static,
		FixedRotation: def.FixedRotation,
		DynamicMass:   dyn,
	}

	id := w.mapper.NewEntity(&xf, &mo, &shape, &mass, &mat, &body)
	w.order = append(w.order, id)
	return id
}

// massFor derives mass and rotational inertia from shape and density.
func massFor(s components.Shape, density float64, fixedRotation bool) components.Mass {
	m := density * s.Area()
	if m <= 0 {
		return components.Mass{}
	}
	var inertia float64
	switch s.Kind {
	case components.ShapeCircle:
		inertia = 0.5 * m * s.Radius * s.Radius
	case components.ShapeBox:
		w, h := 2*s.HalfW, 2*s.HalfH
		inertia = m * (w*w + h*h) / 12
	}
	out := components.Mass{Mass: m, InvMass: 1 / m}
	if fixedRotation || inertia <= 0 {
		out.Inertia = math.Inf(1)
		return out
	}
	out.Inertia = inertia
	out.InvInertia = 1 / inertia
	return out
}

// RemoveBody deletes a body. The id is dead afterwards.
func (w *World) RemoveBody(id BodyID) error {
	if !w.Alive(id) {
		return fmt.Errorf("remove body %v: %w", id, ErrUnknownBody)
	}
	w.ecs.RemoveEntity(id)
	for i, o := range w.order {
		if o == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return nil
}

// Alive reports whether id refers to a body in this world.
func (w *World) Alive(id BodyID) bool {
	return !id.IsZero() && w.ecs.Alive(id)
}

// Clear removes every body.
func (w *World) Clear() {
	for _, id := range w.order {
		if w.ecs.Alive(id) {
			w.ecs.RemoveEntity(id)
		}
	}
	w.order = w.order[:0]
	w.contacts = w.contacts[:0]
}

// Count returns the number of bodies.
func (w *World) Count() int { return len(w.order) }

// CountKind returns the number of bodies of the given kind.
func (w *World) CountKind(kind components.Kind) int {
	n := 0
	for _, id := range w.order {
		_, _, _, _, _, body := w.mapper.Get(id)
		if body.Kind == kind {
			n++
		}
	}
	return n
}

// CountAwake returns the number of dynamic bodies that are not asleep.
func (w *World) CountAwake() int {
	n := 0
	for _, id := range w.order {
		_, _, _, _, _, body := w.mapper.Get(id)
		if !body.Static && !body.Sleeping {
			n++
		}
	}
	return n
}

func (w *World) get(id BodyID) (*components.Transform, *components.Motion, *components.Mass, *components.Body, error) {
	if !w.Alive(id) {
		return nil, nil, nil, nil, fmt.Errorf("body %v: %w", id, ErrUnknownBody)
	}
	xf, mo, _, mass, _, body := w.mapper.Get(id)
	return xf, mo, mass, body, nil
}

// SetPosition moves a body without changing its velocity.
func (w *World) SetPosition(id BodyID, p r2.Vec) error {
	xf, _, _, body, err := w.get(id)
	if err != nil {
		return err
	}
	xf.Pos = p
	wake(body)
	return nil
}

// SetVelocity sets linear velocity. Static bodies keep zero velocity.
func (w *World) SetVelocity(id BodyID, v r2.Vec) error {
	_, mo, _, body, err := w.get(id)
	if err != nil {
		return err
	}
	if body.Static {
		return nil
	}
	mo.Vel = v
	wake(body)
	return nil
}

// SetAngle sets orientation in radians.
func (w *World) SetAngle(id BodyID, angle float64) error {
	xf, _, _, body, err := w.get(id)
	if err != nil {
		return err
	}
	xf.Angle = normalizeAngle(angle)
	wake(body)
	return nil
}

// SetAngularVelocity sets spin in radians per second. Static and
// fixed-rotation bodies ignore it.
func (w *World) SetAngularVelocity(id BodyID, av float64) error {
	_, mo, _, body, err := w.get(id)
	if err != nil {
		return err
	}
	if body.Static || body.FixedRotation {
		return nil
	}
	mo.AngVel = av
	wake(body)
	return nil
}

// SetStatic toggles a body between static and dynamic. Pose is kept and
// velocity is zeroed either way.
func (w *World) SetStatic(id BodyID, static bool) error {
	_, mo, mass, body, err := w.get(id)
	if err != nil {
		return err
	}
	body.Static = static
	if static {
		*mass = components.Mass{}
	} else {
		*mass = body.DynamicMass
	}
	*mo = components.Motion{}
	wake(body)
	return nil
}

// ApplyImpulse changes momentum instantly. point is in world space; the
// body's center gives a purely linear impulse.
func (w *World) ApplyImpulse(id BodyID, impulse, point r2.Vec) error {
	xf, mo, mass, body, err := w.get(id)
	if err != nil {
		return err
	}
	if body.Static {
		return nil
	}
	mo.Vel = r2.Add(mo.Vel, r2.Scale(mass.InvMass, impulse))
	r := r2.Sub(point, xf.Pos)
	mo.AngVel += r2.Cross(r, impulse) * mass.InvInertia
	wake(body)
	return nil
}

// ApplyForce accumulates a force for the next step.
func (w *World) ApplyForce(id BodyID, force r2.Vec) error {
	_, mo, _, body, err := w.get(id)
	if err != nil {
		return err
	}
	mo.Force = r2.Add(mo.Force, force)
	wake(body)
	return nil
}

// Wake clears a body's sleep state.
func (w *World) Wake(id BodyID) error {
	_, _, _, body, err := w.get(id)
	if err != nil {
		return err
	}
	wake(body)
	return nil
}

func wake(body *components.Body) {
	body.Sleeping = false
	body.RestTime = 0
}

// Body returns a snapshot of one body.
func (w *World) Body(id BodyID) (BodyView, bool) {
	if !w.Alive(id) {
		return BodyView{}, false
	}
	return w.view(id), true
}

// Bodies returns snapshots of every body in insertion order.
func (w *World) Bodies() []BodyView {
	out := make([]BodyView, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.view(id))
	}
	return out
}

func (w *World) view(id BodyID) BodyView {
	xf, mo, shape, _, _, body := w.mapper.Get(id)
	return BodyView{
		ID:       id,
		Kind:     body.Kind,
		Shape:    *shape,
		Pos:      xf.Pos,
		Angle:    xf.Angle,
		Vel:      mo.Vel,
		AngVel:   mo.AngVel,
		Mass:     body.DynamicMass.Mass,
		Static:   body.Static,
		Sleeping: body.Sleeping,
	}
}

// Step advances the world by dt and returns this step's contacts, one per
// touching pair. The slice is reused by the next Step.
func (w *World) Step(dt float64) []Contact {
	if dt <= 0 {
		return nil
	}
	w.integrate(dt)
	w.detect()
	w.resolve()
	w.correct()
	w.updateSleep(dt)
	return w.contacts
}
