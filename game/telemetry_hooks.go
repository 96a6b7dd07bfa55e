package game

import (
	"log/slog"

	"github.com/pthm-cable/lata/telemetry"
)

// endLevel closes the collector's level window and writes its stats.
func (g *Game) endLevel(cleared bool) {
	stats := g.collector.EndLevel(g.tick, cleared)
	if g.logStats {
		stats.LogStats()
	}
	if err := g.output.WriteLevel(stats); err != nil {
		slog.Error("failed to write level stats", "error", err)
	}
}

// endRound writes the round summary.
func (g *Game) endRound() {
	stats := g.collector.EndRound(g.tick, g.round.Score, g.round.Level)
	if g.logStats {
		stats.LogStats()
	}
	if err := g.output.WriteRound(stats); err != nil {
		slog.Error("failed to write round stats", "error", err)
	}
}

// flushPerf emits perf stats once per collector window.
func (g *Game) flushPerf() {
	window := int32(g.cfg.Telemetry.PerfCollectorWindow)
	if window <= 0 || (g.tick+1)%window != 0 {
		return
	}
	stats := g.perf.Stats()
	if g.logStats {
		stats.LogStats()
	}
	if err := g.output.WritePerf(stats, g.tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
}

// RecordFrame marks a rendered frame for FPS tracking.
func (g *Game) RecordFrame() {
	g.perf.RecordFrame()
}

// PerfStats returns the current perf window.
func (g *Game) PerfStats() telemetry.PerfStats {
	return g.perf.Stats()
}
