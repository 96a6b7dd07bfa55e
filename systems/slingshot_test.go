package systems

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func newTestSling(t *testing.T) (*World, *Slingshot, BodyID) {
	t.Helper()
	w := NewWorld(testWorldConfig())
	def := circleDef(r2.Vec{X: 100, Y: 500}, 20)
	def.Static = true
	id := w.AddBody(def)
	s := NewSlingshot(SlingshotConfig{
		Anchor:         r2.Vec{X: 100, Y: 500},
		Field:          r2.Box{Max: r2.Vec{X: 800, Y: 600}},
		MaxPull:        130,
		MinPull:        5,
		VelocityScale:  8,
		MinLaunchSpeed: 240,
	}, id)
	return w, s, id
}

func TestSlingshotBeginOutOfBounds(t *testing.T) {
	w, s, id := newTestSling(t)

	for _, p := range []r2.Vec{{X: -1, Y: 300}, {X: 400, Y: 601}, {X: 900, Y: 900}} {
		if err := s.Begin(w, p); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Begin(%v) err = %v, want ErrOutOfBounds", p, err)
		}
	}
	if s.State() != SlingIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
	if v, _ := w.Body(id); v.Pos != s.Anchor() {
		t.Errorf("projectile moved to %v", v.Pos)
	}
}

func TestSlingshotDragClamps(t *testing.T) {
	tests := []struct {
		name     string
		p        r2.Vec
		wantPull float64
	}{
		{"inside radius", r2.Vec{X: 40, Y: 520}, math.Hypot(60, 20)},
		{"at radius", r2.Vec{X: -30, Y: 500}, 130},
		{"beyond radius", r2.Vec{X: 0, Y: 600}, 130},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, s, id := newTestSling(t)
			if err := s.Begin(w, s.Anchor()); err != nil {
				t.Fatalf("Begin: %v", err)
			}
			if err := s.Drag(w, tt.p); err != nil {
				t.Fatalf("Drag: %v", err)
			}
			if got := r2.Norm(s.Pull()); math.Abs(got-tt.wantPull) > 1e-9 {
				t.Errorf("pull = %v, want %v", got, tt.wantPull)
			}
			v, _ := w.Body(id)
			if v.Pos != s.DragPoint() || !v.Static {
				t.Errorf("projectile at %v static=%v, want held at %v", v.Pos, v.Static, s.DragPoint())
			}
		})
	}
}

func TestSlingshotDragStaysInHoldBox(t *testing.T) {
	tests := []struct {
		name     string
		p        r2.Vec
		wantDrag r2.Vec
	}{
		{"behind left wall", r2.Vec{X: -30, Y: 500}, r2.Vec{X: 40, Y: 500}},
		{"below ground", r2.Vec{X: 100, Y: 700}, r2.Vec{X: 100, Y: 560}},
		{"corner", r2.Vec{X: 0, Y: 600}, r2.Vec{X: 40, Y: 560}},
		{"clear of walls", r2.Vec{X: 60, Y: 470}, r2.Vec{X: 60, Y: 470}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, s, id := newTestSling(t)
			s.cfg.Hold = r2.Box{Min: r2.Vec{X: 40, Y: 40}, Max: r2.Vec{X: 760, Y: 560}}

			if err := s.Begin(w, s.Anchor()); err != nil {
				t.Fatalf("Begin: %v", err)
			}
			if err := s.Drag(w, tt.p); err != nil {
				t.Fatalf("Drag: %v", err)
			}

			if s.DragPoint() != tt.wantDrag {
				t.Errorf("drag point = %v, want %v", s.DragPoint(), tt.wantDrag)
			}
			if v, _ := w.Body(id); v.Pos != tt.wantDrag {
				t.Errorf("projectile held at %v, want %v", v.Pos, tt.wantDrag)
			}

			// The launch comes from the held point, not the raw pointer.
			vel, err := s.Release(w)
			if err != nil {
				t.Fatalf("Release: %v", err)
			}
			want := r2.Scale(8, r2.Sub(s.Anchor(), tt.wantDrag))
			if math.Abs(vel.X-want.X) > 1e-9 || math.Abs(vel.Y-want.Y) > 1e-9 {
				t.Errorf("velocity = %v, want %v", vel, want)
			}
		})
	}
}

func TestSlingshotDegenerateRelease(t *testing.T) {
	w, s, id := newTestSling(t)
	if err := s.Begin(w, r2.Vec{X: 97, Y: 500}); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	vel, err := s.Release(w)
	if !errors.Is(err, ErrDegenerateLaunch) {
		t.Fatalf("err = %v, want ErrDegenerateLaunch", err)
	}
	if vel != (r2.Vec{}) {
		t.Errorf("velocity = %v, want zero", vel)
	}
	if s.State() != SlingIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
	v, _ := w.Body(id)
	if !v.Static || v.Pos != s.Anchor() {
		t.Errorf("projectile not back at anchor: %+v", v)
	}
}

func TestSlingshotRelease(t *testing.T) {
	w, s, id := newTestSling(t)
	if err := s.Begin(w, r2.Vec{X: 40, Y: 580}); err != nil { // pull (60, -80), length 100
		t.Fatalf("Begin: %v", err)
	}

	vel, err := s.Release(w)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	want := r2.Vec{X: 480, Y: -640}
	if math.Abs(vel.X-want.X) > 1e-9 || math.Abs(vel.Y-want.Y) > 1e-9 {
		t.Errorf("velocity = %v, want %v", vel, want)
	}

	v, _ := w.Body(id)
	if v.Static || v.Sleeping {
		t.Error("projectile should be dynamic and awake")
	}
	if math.Abs(v.Vel.X-want.X) > 1e-6 || math.Abs(v.Vel.Y-want.Y) > 1e-6 {
		t.Errorf("body velocity = %v, want %v", v.Vel, want)
	}
	if s.State() != SlingLaunched {
		t.Errorf("state = %v, want launched", s.State())
	}

	if err := s.Begin(w, s.Anchor()); !errors.Is(err, ErrAlreadyLaunched) {
		t.Errorf("Begin after launch err = %v, want ErrAlreadyLaunched", err)
	}
	if _, err := s.Release(w); !errors.Is(err, ErrNotAiming) {
		t.Errorf("Release after launch err = %v, want ErrNotAiming", err)
	}
}

func TestSlingshotMinLaunchSpeed(t *testing.T) {
	w, s, _ := newTestSling(t)
	if err := s.Begin(w, r2.Vec{X: 90, Y: 500}); err != nil { // pull 10 -> 80 raised to 240
		t.Fatalf("Begin: %v", err)
	}
	vel, err := s.Release(w)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if math.Abs(r2.Norm(vel)-240) > 1e-9 || vel.X <= 0 {
		t.Errorf("velocity = %v, want 240 along +x", vel)
	}
}

func TestSlingshotDragWithoutBegin(t *testing.T) {
	w, s, _ := newTestSling(t)
	if err := s.Drag(w, r2.Vec{X: 50, Y: 500}); !errors.Is(err, ErrNotAiming) {
		t.Errorf("Drag err = %v, want ErrNotAiming", err)
	}
}

func TestSlingshotReset(t *testing.T) {
	w, s, id := newTestSling(t)
	if err := s.Begin(w, r2.Vec{X: 20, Y: 500}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Release(w); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		w.Step(1.0 / 60)
	}

	if err := s.Reset(w); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	v, _ := w.Body(id)
	if !v.Static || v.Pos != s.Anchor() || v.Vel != (r2.Vec{}) {
		t.Errorf("after reset: %+v", v)
	}
	if s.State() != SlingIdle {
		t.Errorf("state = %v, want idle", s.State())
	}
}
