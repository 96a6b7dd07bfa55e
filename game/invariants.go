package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/lata/components"
	"github.com/pthm-cable/lata/systems"
)

// checkInvariants verifies the bookkeeping after a tick and repairs it when
// strict mode is off.
func (g *Game) checkInvariants() {
	if n := g.world.CountKind(components.KindSlipper); n != 1 {
		g.violation(fmt.Errorf("%d slippers in world: %w", n, systems.ErrInvariant))
	}

	for id := range g.knocked {
		if !g.isLevelCan(id) {
			g.violation(fmt.Errorf("knocked can %v not in level: %w", id, systems.ErrInvariant))
			delete(g.knocked, id)
		}
	}

	if len(g.knocked) != g.round.CansDown {
		g.violation(fmt.Errorf("cans down %d, knocked set %d: %w", g.round.CansDown, len(g.knocked), systems.ErrInvariant))
		g.round.CansDown = len(g.knocked)
	}
	if g.round.CansDown > g.round.CansTotal {
		g.violation(fmt.Errorf("cans down %d exceeds total %d: %w", g.round.CansDown, g.round.CansTotal, systems.ErrInvariant))
		g.round.CansDown = g.round.CansTotal
	}
	if g.round.Started && len(g.cans) != g.round.CansTotal {
		g.violation(fmt.Errorf("level has %d cans, want %d: %w", len(g.cans), g.round.CansTotal, systems.ErrInvariant))
	}
}

func (g *Game) isLevelCan(id systems.BodyID) bool {
	for _, c := range g.cans {
		if c == id {
			return true
		}
	}
	return false
}

// violation reports broken internal state. Strict mode panics.
func (g *Game) violation(err error) {
	if g.cfg.Debug.StrictInvariants {
		panic(err)
	}
	slog.Error("invariant_violation", "tick", g.tick, "error", err)
}
