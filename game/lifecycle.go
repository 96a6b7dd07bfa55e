package game

import (
	"log/slog"
)

// StartRound begins a fresh round: score 0, level 1, full timer and the
// first pyramid. It works from any phase, including after Stop. A round
// still running is closed out and recorded first.
func (g *Game) StartRound() {
	if g.stopped {
		g.buildWorld()
		g.stopped = false
	}
	if g.round.Phase() == PhaseRunning {
		g.endLevel(false)
		g.endRound()
	}

	cfg := g.cfg
	g.round.start(cfg.Round.Timer, cfg.Level.StartCans)
	g.inputs = nil
	g.accumulator = 0
	g.rebuildCans(g.round.CansTotal)
	if err := g.sling.Reset(g.world); err != nil {
		g.violation(err)
	}

	g.collector.StartRound(g.tick)
	g.collector.StartLevel(g.tick, g.round.Level, g.round.CansTotal)

	g.emit(Event{Type: EventRoundStarted})
	slog.Info("round_started", "tick", g.tick, "cans", g.round.CansTotal, "timer", g.round.Timer)
}

// RestartRound tears the world down and starts a new round on a freshly
// built field. Subscribers are kept.
func (g *Game) RestartRound() {
	g.world.Clear()
	g.buildWorld()
	g.stopped = false
	g.StartRound()
}

// Stop ends the session: every body and subscriber is dropped and Step
// becomes a no-op until StartRound.
func (g *Game) Stop() {
	g.world.Clear()
	g.cans = nil
	clear(g.knocked)
	g.levelCleared = false
	g.advanceAt = -1
	g.subs = nil
	g.inputs = nil
	g.pending = nil
	g.accumulator = 0
	g.round = idleRound(g.cfg.Round.Timer)
	g.stopped = true
	slog.Info("session_stopped", "tick", g.tick)
}

// TickTimer counts one second off the round. When the timer reaches zero the
// round is over and GameOver is delivered immediately. It never touches the
// world.
func (g *Game) TickTimer() {
	if g.stopped || !g.round.tickTimer() {
		return
	}
	g.endLevel(false)
	g.endRound()
	g.emit(Event{Type: EventGameOver})
	slog.Info("game_over", "tick", g.tick, "score", g.round.Score, "level", g.round.Level)
	g.dispatch()
}

// ResetSlipper puts the projectile back at the anchor, ready to aim.
func (g *Game) ResetSlipper() {
	if g.stopped {
		return
	}
	if err := g.sling.Reset(g.world); err != nil {
		g.violation(err)
	}
}

// advanceLevel moves to the next level and swaps in its pyramid.
func (g *Game) advanceLevel() {
	g.endLevel(true)
	g.round.nextLevel(g.cfg.Level.CansPerLevel)
	g.rebuildCans(g.round.CansTotal)
	if err := g.sling.Reset(g.world); err != nil {
		g.violation(err)
	}
	g.collector.StartLevel(g.tick, g.round.Level, g.round.CansTotal)

	g.emit(Event{Type: EventLevelStarted})
	slog.Info("level_started", "tick", g.tick, "level", g.round.Level, "cans", g.round.CansTotal)
}
