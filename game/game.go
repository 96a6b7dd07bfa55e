// Package game runs the slingshot can-knockdown round on top of the
// physics world: fixed-step ticks, scoring, level progression and the
// round timer.
package game

import (
	"log/slog"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/config"
	"github.com/pthm-cable/lata/systems"
	"github.com/pthm-cable/lata/telemetry"
)

// Options configures a Game.
type Options struct {
	Config    *config.Config // nil = config.Cfg()
	Seed      int64
	LogStats  bool   // log level/round/perf stats via slog
	OutputDir string // CSV output directory (empty = disabled)
}

// Game holds the complete game state. It is not safe for concurrent use;
// one goroutine drives ticks, input and queries.
type Game struct {
	cfg *config.Config
	rng *rand.Rand

	// Physics
	world      *systems.World
	sling      *systems.Slingshot
	knock      systems.KnockRule
	layout     systems.PyramidLayout
	slipper    systems.BodyID
	boundaries []systems.BodyID

	// Level state
	cans         []systems.BodyID
	knocked      map[systems.BodyID]struct{}
	levelCleared bool
	advanceAt    int32 // tick of the scheduled level advance, -1 = none

	round RoundState

	// Queues
	inputs    []pointerEvent
	pending   []Event
	subs      []subscription
	nextSubID int

	// Timing
	tick        int32
	accumulator float64
	stopped     bool

	// Telemetry
	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	output    *telemetry.OutputManager
	logStats  bool
}

// NewGame creates a game in the idle phase with the field and slipper built
// but no cans.
func NewGame(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	g := &Game{
		cfg:       cfg,
		rng:       rand.New(rand.NewSource(opts.Seed)),
		knock:     systems.KnockRule{TiltThreshold: cfg.Knock.TiltThreshold, FloorY: cfg.Knock.FloorY},
		layout:    pyramidLayout(cfg),
		knocked:   make(map[systems.BodyID]struct{}),
		advanceAt: -1,
		round:     idleRound(cfg.Round.Timer),
		collector: telemetry.NewCollector(cfg.Physics.DT),
		perf:      telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:  opts.LogStats,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
	} else if om != nil {
		g.output = om
		if err := om.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	g.buildWorld()
	return g
}

// Unload releases output files.
func (g *Game) Unload() {
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// Round returns a copy of the scoreboard.
func (g *Game) Round() RoundState { return g.round }

// Score returns the current score.
func (g *Game) Score() int { return g.round.Score }

// Level returns the current level, starting at 1.
func (g *Game) Level() int { return g.round.Level }

// CansTotal returns the number of cans in the current level.
func (g *Game) CansTotal() int { return g.round.CansTotal }

// CansDown returns how many cans of the current level are down.
func (g *Game) CansDown() int { return g.round.CansDown }

// Timer returns the seconds left in the round.
func (g *Game) Timer() int { return g.round.Timer }

// Started reports whether a round has been started.
func (g *Game) Started() bool { return g.round.Started }

// Over reports whether the round timer ran out.
func (g *Game) Over() bool { return g.round.Over }

// Phase returns the session lifecycle stage.
func (g *Game) Phase() Phase { return g.round.Phase() }

// Tick returns the number of simulation ticks run.
func (g *Game) Tick() int32 { return g.tick }

// Config returns the configuration the game runs with.
func (g *Game) Config() *config.Config { return g.cfg }

// SlipperPosition returns the projectile's center.
func (g *Game) SlipperPosition() r2.Vec {
	v, ok := g.world.Body(g.slipper)
	if !ok {
		return g.cfg.Derived.Anchor
	}
	return v.Pos
}

// Slipper returns a snapshot of the projectile body.
func (g *Game) Slipper() (systems.BodyView, bool) {
	return g.world.Body(g.slipper)
}

// Bodies returns snapshots of every body for rendering.
func (g *Game) Bodies() []systems.BodyView {
	return g.world.Bodies()
}

// Cans returns the ids of the current level's cans.
func (g *Game) Cans() []systems.BodyID {
	out := make([]systems.BodyID, len(g.cans))
	copy(out, g.cans)
	return out
}

// IsDown reports whether a can of the current level has been counted down.
func (g *Game) IsDown(id systems.BodyID) bool {
	_, ok := g.knocked[id]
	return ok
}

// SlingshotView is the launcher state for rendering the band.
type SlingshotView struct {
	State     systems.SlingState
	Anchor    r2.Vec
	DragPoint r2.Vec
	MaxPull   float64
}

// Slingshot returns the launcher state.
func (g *Game) Slingshot() SlingshotView {
	return SlingshotView{
		State:     g.sling.State(),
		Anchor:    g.sling.Anchor(),
		DragPoint: g.sling.DragPoint(),
		MaxPull:   g.cfg.Slingshot.MaxPull,
	}
}
