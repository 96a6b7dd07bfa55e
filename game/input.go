package game

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/systems"
)

type pointerKind uint8

const (
	pointerDown pointerKind = iota
	pointerMove
	pointerUp
)

func (k pointerKind) String() string {
	switch k {
	case pointerDown:
		return "down"
	case pointerMove:
		return "move"
	case pointerUp:
		return "up"
	}
	return "unknown"
}

type pointerEvent struct {
	kind pointerKind
	pos  r2.Vec
}

// PointerDown queues a press at (x, y). Input is applied at the start of the
// next tick.
func (g *Game) PointerDown(x, y float64) {
	g.inputs = append(g.inputs, pointerEvent{kind: pointerDown, pos: r2.Vec{X: x, Y: y}})
}

// PointerMove queues a drag to (x, y).
func (g *Game) PointerMove(x, y float64) {
	g.inputs = append(g.inputs, pointerEvent{kind: pointerMove, pos: r2.Vec{X: x, Y: y}})
}

// PointerUp queues a release at (x, y).
func (g *Game) PointerUp(x, y float64) {
	g.inputs = append(g.inputs, pointerEvent{kind: pointerUp, pos: r2.Vec{X: x, Y: y}})
}

// PointerFrame is one frame of mouse state as a front end polls it.
type PointerFrame struct {
	X, Y     float64
	Pressed  bool // went down this frame
	Released bool // went up this frame
	Down     bool
	Moved    bool
}

// Pointer queues the events for one polled frame. A press and a release in
// the same frame both queue, press first.
func (g *Game) Pointer(f PointerFrame) {
	if f.Pressed {
		g.PointerDown(f.X, f.Y)
	}
	if f.Released {
		g.PointerUp(f.X, f.Y)
	} else if f.Down && f.Moved && !f.Pressed {
		g.PointerMove(f.X, f.Y)
	}
}

// Aim queues a full press-drag-release gesture that pulls the band by pull
// from the anchor.
func (g *Game) Aim(pull r2.Vec) {
	a := g.cfg.Derived.Anchor
	p := r2.Sub(a, pull)
	g.PointerDown(a.X, a.Y)
	g.PointerMove(p.X, p.Y)
	g.PointerUp(p.X, p.Y)
}

// applyInputs drains the input queue into the slingshot. Rejected input is
// logged and dropped; nothing is applied unless the round is running.
func (g *Game) applyInputs() {
	if len(g.inputs) == 0 {
		return
	}
	inputs := g.inputs
	g.inputs = nil

	if g.round.Phase() != PhaseRunning {
		return
	}

	for _, in := range inputs {
		var err error
		switch in.kind {
		case pointerDown:
			err = g.sling.Begin(g.world, in.pos)
		case pointerMove:
			if g.sling.Aiming() {
				err = g.sling.Drag(g.world, in.pos)
			}
		case pointerUp:
			if !g.sling.Aiming() {
				continue
			}
			if err = g.sling.Drag(g.world, in.pos); err != nil {
				break
			}
			var vel r2.Vec
			vel, err = g.sling.Release(g.world)
			if err == nil {
				g.collector.RecordShot(r2.Norm(vel))
				g.emit(launchedEvent(vel))
			}
		}
		if err != nil {
			g.logRejected(in, err)
		}
	}
}

func (g *Game) logRejected(in pointerEvent, err error) {
	msg := "aim_ignored"
	if errors.Is(err, systems.ErrDegenerateLaunch) {
		msg = "launch_discarded"
	}
	slog.Debug(msg, "tick", g.tick, "pointer", in.kind.String(), "x", in.pos.X, "y", in.pos.Y, "error", err)
}
