package systems

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/components"
)

func TestCircleCircle(t *testing.T) {
	tests := []struct {
		name      string
		pa, pb    r2.Vec
		ra, rb    float64
		wantHit   bool
		wantDepth float64
		wantN     r2.Vec
	}{
		{"overlapping", r2.Vec{}, r2.Vec{X: 30}, 20, 20, true, 10, r2.Vec{X: 1}},
		{"touching", r2.Vec{}, r2.Vec{X: 40}, 20, 20, false, 0, r2.Vec{}},
		{"apart", r2.Vec{}, r2.Vec{Y: 100}, 20, 20, false, 0, r2.Vec{}},
		{"vertical", r2.Vec{}, r2.Vec{Y: -25}, 20, 10, true, 5, r2.Vec{Y: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := circleCircle(tt.pa, tt.ra, tt.pb, tt.rb)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if math.Abs(m.depth-tt.wantDepth) > 1e-9 {
				t.Errorf("depth = %v, want %v", m.depth, tt.wantDepth)
			}
			if math.Abs(m.normal.X-tt.wantN.X) > 1e-9 || math.Abs(m.normal.Y-tt.wantN.Y) > 1e-9 {
				t.Errorf("normal = %v, want %v", m.normal, tt.wantN)
			}
		})
	}
}

func TestCircleBox(t *testing.T) {
	box := components.Shape{Kind: components.ShapeBox, HalfW: 20, HalfH: 30}

	tests := []struct {
		name      string
		circle    r2.Vec
		angle     float64
		wantHit   bool
		wantDepth float64
		wantN     r2.Vec // circle -> box
	}{
		{"left face", r2.Vec{X: -25}, 0, true, 5, r2.Vec{X: 1}},
		{"top face", r2.Vec{Y: -35}, 0, true, 5, r2.Vec{Y: 1}},
		{"miss", r2.Vec{X: -50}, 0, false, 0, r2.Vec{}},
		{"center inside", r2.Vec{X: -15}, 0, true, 15, r2.Vec{X: 1}},
		{"rotated quarter", r2.Vec{X: -35}, math.Pi / 2, true, 5, r2.Vec{X: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xf := &components.Transform{Angle: tt.angle}
			m, ok := circleBox(tt.circle, 10, xf, &box)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if math.Abs(m.depth-tt.wantDepth) > 1e-9 {
				t.Errorf("depth = %v, want %v", m.depth, tt.wantDepth)
			}
			if math.Abs(m.normal.X-tt.wantN.X) > 1e-9 || math.Abs(m.normal.Y-tt.wantN.Y) > 1e-9 {
				t.Errorf("normal = %v, want %v", m.normal, tt.wantN)
			}
		})
	}
}

func TestBoxBox(t *testing.T) {
	can := components.Shape{Kind: components.ShapeBox, HalfW: 20, HalfH: 30}

	tests := []struct {
		name      string
		posB      r2.Vec
		angleB    float64
		wantHit   bool
		wantDepth float64
		wantN     r2.Vec
	}{
		{"side by side overlap", r2.Vec{X: 36}, 0, true, 4, r2.Vec{X: 1}},
		{"stacked overlap", r2.Vec{Y: -58}, 0, true, 2, r2.Vec{Y: -1}},
		{"gap", r2.Vec{X: 44}, 0, false, 0, r2.Vec{}},
		{"rotated separated", r2.Vec{X: 100}, 0.3, false, 0, r2.Vec{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xfA := &components.Transform{}
			xfB := &components.Transform{Pos: tt.posB, Angle: tt.angleB}
			m, ok := boxBox(xfA, &can, xfB, &can)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if math.Abs(m.depth-tt.wantDepth) > 1e-9 {
				t.Errorf("depth = %v, want %v", m.depth, tt.wantDepth)
			}
			if math.Abs(m.normal.X-tt.wantN.X) > 1e-9 || math.Abs(m.normal.Y-tt.wantN.Y) > 1e-9 {
				t.Errorf("normal = %v, want %v", m.normal, tt.wantN)
			}
		})
	}
}

func TestCollideBoxCircleFlipsNormal(t *testing.T) {
	box := components.Shape{Kind: components.ShapeBox, HalfW: 20, HalfH: 30}
	circle := components.Shape{Kind: components.ShapeCircle, Radius: 10}

	m, ok := collide(&components.Transform{}, &box, &components.Transform{Pos: r2.Vec{X: 25}}, &circle)
	if !ok {
		t.Fatal("expected contact")
	}
	// Normal points from A (box) to B (circle).
	if math.Abs(m.normal.X-1) > 1e-9 || math.Abs(m.normal.Y) > 1e-9 {
		t.Errorf("normal = %v, want (1, 0)", m.normal)
	}
}

func TestContactMatch(t *testing.T) {
	w := NewWorld(testWorldConfig())
	slipper := w.AddBody(circleDef(r2.Vec{X: 100, Y: 100}, 20))
	can := w.AddBody(boxDef(components.KindCan, r2.Vec{X: 200, Y: 100}, 40, 60, true))

	c := Contact{
		A: can, B: slipper,
		KindA: components.KindCan, KindB: components.KindSlipper,
		VelA: r2.Vec{}, VelB: r2.Vec{X: 300},
	}
	s, k, vs, _, ok := c.Match(components.KindSlipper, components.KindCan)
	if !ok || s != slipper || k != can || vs.X != 300 {
		t.Errorf("Match swapped wrong: %v %v %v %v", s, k, vs, ok)
	}
	if _, _, _, _, ok := c.Match(components.KindSlipper, components.KindGround); ok {
		t.Error("unexpected match")
	}
}

func TestStepReportsContactsOnce(t *testing.T) {
	cfg := testWorldConfig()
	cfg.Gravity = r2.Vec{}
	cfg.GridCellSize = 16 // bodies span many cells
	w := NewWorld(cfg)

	slipper := w.AddBody(circleDef(r2.Vec{X: 385, Y: 300}, 20))
	can := w.AddBody(boxDef(components.KindCan, r2.Vec{X: 420, Y: 300}, 40, 60, true))
	if err := w.SetVelocity(slipper, r2.Vec{X: 120}); err != nil {
		t.Fatal(err)
	}

	contacts := w.Step(1.0 / 60)
	n := 0
	for i := range contacts {
		if _, _, _, _, ok := contacts[i].Match(components.KindSlipper, components.KindCan); ok {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("slipper-can contacts = %d, want 1", n)
	}
	c := contacts[0]
	if c.A != slipper || c.B != can {
		t.Errorf("contact order %v %v", c.A, c.B)
	}
	if c.VelA.X != 120 {
		t.Errorf("pre-solve velocity = %v, want 120", c.VelA.X)
	}

	v, _ := w.Body(slipper)
	if v.Vel.X >= 0 {
		t.Errorf("slipper should bounce back off a static can, vel %v", v.Vel)
	}
}

func TestStaticPairsSkipped(t *testing.T) {
	w := NewWorld(testWorldConfig())
	w.AddBody(boxDef(components.KindCan, r2.Vec{X: 400, Y: 300}, 40, 60, true))
	w.AddBody(boxDef(components.KindCan, r2.Vec{X: 410, Y: 300}, 40, 60, true))

	if contacts := w.Step(1.0 / 60); len(contacts) != 0 {
		t.Errorf("static overlap produced %d contacts", len(contacts))
	}
}
