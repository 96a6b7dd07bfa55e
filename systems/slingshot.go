package systems

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// SlingState is the launcher's state.
type SlingState uint8

const (
	SlingIdle SlingState = iota
	SlingAiming
	SlingLaunched
)

func (s SlingState) String() string {
	switch s {
	case SlingIdle:
		return "idle"
	case SlingAiming:
		return "aiming"
	case SlingLaunched:
		return "launched"
	}
	return "unknown"
}

// SlingshotConfig holds launcher tuning.
type SlingshotConfig struct {
	Anchor         r2.Vec
	Field          r2.Box // aim-start must fall inside
	Hold           r2.Box // the held projectile's center stays inside; empty = no limit
	MaxPull        float64
	MinPull        float64
	VelocityScale  float64
	MinLaunchSpeed float64
}

// Slingshot drives one projectile body through aim and launch. Launch
// direction is anchor minus drag point, opposite the pull.
type Slingshot struct {
	cfg   SlingshotConfig
	body  BodyID
	state SlingState
	drag  r2.Vec
}

// NewSlingshot creates an idle slingshot for the given projectile.
func NewSlingshot(cfg SlingshotConfig, projectile BodyID) *Slingshot {
	return &Slingshot{cfg: cfg, body: projectile, drag: cfg.Anchor}
}

// State returns the current state.
func (s *Slingshot) State() SlingState { return s.state }

// Aiming reports whether an aim is in progress.
func (s *Slingshot) Aiming() bool { return s.state == SlingAiming }

// Launched reports whether a shot was fired since the last reset.
func (s *Slingshot) Launched() bool { return s.state == SlingLaunched }

// Anchor returns the rest point of the projectile.
func (s *Slingshot) Anchor() r2.Vec { return s.cfg.Anchor }

// DragPoint returns the clamped drag point. Equals the anchor when idle.
func (s *Slingshot) DragPoint() r2.Vec { return s.drag }

// Pull returns anchor minus drag point.
func (s *Slingshot) Pull() r2.Vec { return r2.Sub(s.cfg.Anchor, s.drag) }

// Projectile returns the body the slingshot drives.
func (s *Slingshot) Projectile() BodyID { return s.body }

// Begin starts an aim at p. The projectile is frozen at the anchor.
func (s *Slingshot) Begin(w *World, p r2.Vec) error {
	if s.state == SlingLaunched {
		return ErrAlreadyLaunched
	}
	if !inBox(s.cfg.Field, p) {
		return fmt.Errorf("aim start at (%.1f, %.1f): %w", p.X, p.Y, ErrOutOfBounds)
	}
	if err := s.hold(w, s.cfg.Anchor); err != nil {
		return err
	}
	s.state = SlingAiming
	s.drag = s.cfg.Anchor
	return s.Drag(w, p)
}

// Drag moves the aim to p, clamped to the maximum pull radius and then to
// the hold box, so the projectile is never held inside a wall.
func (s *Slingshot) Drag(w *World, p r2.Vec) error {
	if s.state != SlingAiming {
		return ErrNotAiming
	}
	offset := clampLength(r2.Sub(p, s.cfg.Anchor), s.cfg.MaxPull)
	s.drag = clampToBox(s.cfg.Hold, r2.Add(s.cfg.Anchor, offset))
	return s.hold(w, s.drag)
}

// Release fires the projectile and returns its launch velocity. Pulls
// shorter than MinPull return ErrDegenerateLaunch and put the projectile
// back at the anchor.
func (s *Slingshot) Release(w *World) (r2.Vec, error) {
	if s.state != SlingAiming {
		return r2.Vec{}, ErrNotAiming
	}
	pull := s.Pull()
	if r2.Norm(pull) < s.cfg.MinPull {
		s.state = SlingIdle
		s.drag = s.cfg.Anchor
		if err := s.hold(w, s.cfg.Anchor); err != nil {
			return r2.Vec{}, err
		}
		return r2.Vec{}, fmt.Errorf("pull %.2f: %w", r2.Norm(pull), ErrDegenerateLaunch)
	}

	vel := r2.Scale(s.cfg.VelocityScale, pull)
	if speed := r2.Norm(vel); speed < s.cfg.MinLaunchSpeed {
		vel = r2.Scale(s.cfg.MinLaunchSpeed/speed, vel)
	}

	if err := w.SetStatic(s.body, false); err != nil {
		return r2.Vec{}, err
	}
	// SetStatic left the body at rest, so one impulse of m*v yields v.
	view, _ := w.Body(s.body)
	if err := w.ApplyImpulse(s.body, r2.Scale(view.Mass, vel), view.Pos); err != nil {
		return r2.Vec{}, err
	}
	if err := w.Wake(s.body); err != nil {
		return r2.Vec{}, err
	}
	s.state = SlingLaunched
	return vel, nil
}

// Reset returns the projectile to the anchor and allows a new shot.
func (s *Slingshot) Reset(w *World) error {
	s.state = SlingIdle
	s.drag = s.cfg.Anchor
	if err := s.hold(w, s.cfg.Anchor); err != nil {
		return err
	}
	return w.SetAngle(s.body, 0)
}

// hold freezes the projectile at p.
func (s *Slingshot) hold(w *World, p r2.Vec) error {
	if err := w.SetStatic(s.body, true); err != nil {
		return err
	}
	return w.SetPosition(s.body, p)
}

func clampToBox(b r2.Box, p r2.Vec) r2.Vec {
	if b.Empty() {
		return p
	}
	return r2.Vec{X: clamp(p.X, b.Min.X, b.Max.X), Y: clamp(p.Y, b.Min.Y, b.Max.Y)}
}

func inBox(b r2.Box, p r2.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
