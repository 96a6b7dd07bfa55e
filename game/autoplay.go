package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/systems"
)

// Autoplayer drives a round without a human: it fires a fixed pull whenever
// the slingshot is ready, reloads once the shot is spent and ticks the timer
// every simulated second.
type Autoplayer struct {
	g           *Game
	pull        r2.Vec
	shotTimeout int32
	launchedAt  int32
	shots       int
}

// NewAutoplayer creates an autoplayer firing pull. A shot is spent when the
// slipper sleeps, leaves the field or flies for shotSeconds.
func NewAutoplayer(g *Game, pull r2.Vec, shotSeconds float64) *Autoplayer {
	return &Autoplayer{
		g:           g,
		pull:        pull,
		shotTimeout: int32(shotSeconds * float64(g.cfg.Derived.TicksPerSecond)),
		launchedAt:  -1,
	}
}

// Shots returns the number of launches made.
func (a *Autoplayer) Shots() int { return a.shots }

// Step runs one tick of autoplay and returns its events.
func (a *Autoplayer) Step() []Event {
	g := a.g
	if g.Phase() != PhaseRunning {
		return g.Step()
	}

	switch g.sling.State() {
	case systems.SlingIdle:
		g.Aim(a.pull)
	case systems.SlingLaunched:
		if a.spent() {
			g.ResetSlipper()
			a.launchedAt = -1
		}
	}

	events := g.Step()
	for _, e := range events {
		if e.Type == EventLaunched {
			a.launchedAt = e.Tick
			a.shots++
		}
	}

	if tps := int32(g.cfg.Derived.TicksPerSecond); tps > 0 && g.tick%tps == 0 {
		g.TickTimer()
	}
	return events
}

func (a *Autoplayer) spent() bool {
	g := a.g
	if a.launchedAt >= 0 && a.shotTimeout > 0 && g.tick-a.launchedAt >= a.shotTimeout {
		return true
	}
	v, ok := g.world.Body(g.slipper)
	if !ok {
		return true
	}
	b := g.cfg.Derived.Bounds
	out := v.Pos.X < b.Min.X || v.Pos.X > b.Max.X || v.Pos.Y < b.Min.Y || v.Pos.Y > b.Max.Y
	return v.Sleeping || out
}
