package game

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/systems"
)

func TestAimedShotKnocksCansDown(t *testing.T) {
	tests := []struct {
		name string
		pull r2.Vec
	}{
		{"flat", r2.Vec{X: 120, Y: -10}},
		{"slight lob", r2.Vec{X: 125, Y: -25}},
		{"short lob", r2.Vec{X: 110, Y: -30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, nil)
			g.StartRound()
			g.Aim(tt.pull)

			field := g.cfg.Field
			scored, down, launched := 0, 0, 0
			for i := 0; i < 600 && down == 0; i++ {
				events := g.Step()
				scored += countEvents(events, EventScored)
				down += countEvents(events, EventCanDown)
				launched += countEvents(events, EventLaunched)

				p := g.SlipperPosition()
				if p.X < 0 || p.X > field.Width || p.Y > field.Height {
					t.Fatalf("tick %d: slipper left the field at %v", g.Tick(), p)
				}
			}

			if launched != 1 {
				t.Fatalf("launched = %d, want 1", launched)
			}
			if scored < 1 {
				t.Error("slipper never hit a can")
			}
			if down < 1 {
				t.Error("no can went down")
			}
			if g.CansDown() != down {
				t.Errorf("cans down = %d, events = %d", g.CansDown(), down)
			}
		})
	}
}

func TestHeldSlipperDoesNotScore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Physics.GravityY = 0
	cfg.Hit.Spin = 0
	cfg.Recompute()
	g := newTestGame(t, cfg)
	g.StartRound()
	g.Step()

	// A loose can beside the band, overlapping where the slipper is held.
	can := g.cans[0]
	if err := g.world.SetStatic(can, false); err != nil {
		t.Fatalf("SetStatic: %v", err)
	}
	start := r2.Vec{X: 280, Y: 380}
	if err := g.world.SetPosition(can, start); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}

	a := g.cfg.Derived.Anchor
	g.PointerDown(a.X, a.Y)
	g.PointerMove(250, 380)

	scored := 0
	for i := 0; i < 10; i++ {
		scored += countEvents(g.Step(), EventScored)
	}

	if scored != 0 || g.Score() != 0 {
		t.Errorf("scored %d events, score %d; want none from a held slipper", scored, g.Score())
	}
	if v, _ := g.world.Body(can); v.Pos.X <= start.X {
		t.Errorf("can at %v, want pushed clear of the held slipper", v.Pos)
	}
	if g.Slingshot().State != systems.SlingAiming {
		t.Error("slipper should still be held on the band")
	}
	if v, _ := g.Slipper(); !v.Static {
		t.Error("held slipper should stay static")
	}
}
