package game

import (
	"log/slog"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/components"
	"github.com/pthm-cable/lata/systems"
	"github.com/pthm-cable/lata/telemetry"
)

// Step runs one fixed tick and returns the events it produced, after
// delivering them to subscribers. The world only moves while the round is
// running; otherwise the tick just drains input and events.
func (g *Game) Step() []Event {
	if g.stopped {
		return nil
	}

	g.perf.StartTick()

	// 1. Queued pointer input
	g.perf.StartPhase(telemetry.PhaseInput)
	g.applyInputs()

	if g.round.Phase() == PhaseRunning {
		// 2. Physics
		g.perf.StartPhase(telemetry.PhasePhysics)
		contacts := g.world.Step(g.cfg.Physics.DT)
		g.perf.CountContacts(len(contacts))

		// 3. Scoring and activation
		g.perf.StartPhase(telemetry.PhaseContacts)
		g.handleContacts(contacts)

		// 4. Can-down evaluation
		g.perf.StartPhase(telemetry.PhaseKnockdown)
		g.updateKnockdowns()

		// 5. Level clear and advance
		g.perf.StartPhase(telemetry.PhaseLevel)
		g.updateLevel()
	}

	// 6. Invariants
	g.perf.StartPhase(telemetry.PhaseInvariants)
	g.checkInvariants()

	// 7. Telemetry
	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.perf.CountAwake(g.world.CountAwake())
	g.perf.EndTick()
	g.flushPerf()

	g.tick++
	return g.dispatch()
}

// Advance runs as many fixed ticks as fit in the elapsed seconds, capped at
// physics.max_steps_per_update. It returns all events produced.
func (g *Game) Advance(seconds float64) []Event {
	dt := g.cfg.Physics.DT
	g.accumulator += seconds

	var events []Event
	steps := 0
	for g.accumulator >= dt && steps < g.cfg.Physics.MaxStepsPerUpdate {
		events = append(events, g.Step()...)
		g.accumulator -= dt
		steps++
	}
	// Drop the backlog after a stall instead of spiralling.
	if steps == g.cfg.Physics.MaxStepsPerUpdate && g.accumulator >= dt {
		g.accumulator = 0
	}
	return events
}

// handleContacts scores slipper hits and activates static cans, in
// detection order. A slipper held on the band is static and never scores.
func (g *Game) handleContacts(contacts []systems.Contact) {
	hit := g.cfg.Hit
	for i := range contacts {
		c := &contacts[i]

		if _, can, slipperVel, _, ok := c.Match(components.KindSlipper, components.KindCan); ok {
			if !g.slipperFlying() {
				continue
			}
			g.round.Score += hit.Points
			g.collector.RecordHit(hit.Points)
			g.emit(scoredEvent(hit.Points, can))
			g.activate(can, slipperVel)
			continue
		}

		if !hit.Chain || c.KindA != components.KindCan || c.KindB != components.KindCan {
			continue
		}
		a, aok := g.world.Body(c.A)
		b, bok := g.world.Body(c.B)
		if !aok || !bok || a.Static == b.Static {
			continue
		}
		moverVel, target := c.VelA, c.B
		if a.Static {
			moverVel, target = c.VelB, c.A
		}
		if r2.Norm(moverVel) > hit.ChainMinSpeed {
			g.activate(target, moverVel)
		}
	}
}

// slipperFlying reports whether the slipper is a dynamic body.
func (g *Game) slipperFlying() bool {
	v, ok := g.world.Body(g.slipper)
	return ok && !v.Static
}

// activate turns a static can dynamic with a share of the striker's velocity
// and a random spin. Already dynamic cans are left to the solver.
func (g *Game) activate(can systems.BodyID, strikerVel r2.Vec) {
	v, ok := g.world.Body(can)
	if !ok || !v.Static {
		return
	}
	hit := g.cfg.Hit
	if err := g.world.SetStatic(can, false); err != nil {
		g.violation(err)
		return
	}
	v, _ = g.world.Body(can)
	impulse := r2.Scale(hit.ImpulseScale*v.Mass, strikerVel)
	if err := g.world.ApplyImpulse(can, impulse, v.Pos); err != nil {
		g.violation(err)
		return
	}
	if err := g.world.SetAngularVelocity(can, g.uniform(hit.Spin)); err != nil {
		g.violation(err)
		return
	}
	g.collector.RecordActivation()
}

// updateKnockdowns counts cans that newly tipped past the threshold or fell
// below the floor line. Each can counts once per level.
func (g *Game) updateKnockdowns() {
	for _, id := range g.cans {
		if _, done := g.knocked[id]; done {
			continue
		}
		v, ok := g.world.Body(id)
		if !ok || !g.knock.IsDown(v) {
			continue
		}
		g.knocked[id] = struct{}{}
		g.round.CansDown++
		if !v.Static {
			if err := g.world.SetAngularVelocity(id, v.AngVel+g.uniform(g.cfg.Knock.Kick)); err != nil {
				g.violation(err)
			}
		}
		g.collector.RecordCanDown()
		g.emit(canDownEvent(id))
	}
}

// updateLevel fires LevelCleared once when every can is down and advances
// when the scheduled tick is reached.
func (g *Game) updateLevel() {
	if !g.levelCleared && g.round.CansTotal > 0 && g.round.CansDown >= g.round.CansTotal {
		g.levelCleared = true
		g.advanceAt = g.tick + int32(g.cfg.Derived.AdvanceDelayTicks)
		g.emit(Event{Type: EventLevelCleared})
		slog.Info("level_cleared", "tick", g.tick, "level", g.round.Level, "score", g.round.Score)
	}
	if g.levelCleared && g.advanceAt >= 0 && g.tick >= g.advanceAt {
		g.advanceLevel()
	}
}

// uniform returns a value in [-limit, limit).
func (g *Game) uniform(limit float64) float64 {
	if limit <= 0 {
		return 0
	}
	return (g.rng.Float64()*2 - 1) * limit
}
