package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/config"
	"github.com/pthm-cable/lata/game"
	"github.com/pthm-cable/lata/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics, firing a fixed aim")
	logStats := flag.Bool("log-stats", false, "Output level and perf stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = until the round ends)")
	aimX := flag.Float64("aim-x", 120, "Headless pull vector X (anchor minus drag point)")
	aimY := flag.Float64("aim-y", -10, "Headless pull vector Y")
	shotSeconds := flag.Float64("shot-seconds", 3, "Headless reload timeout per shot")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	opts := game.Options{
		Config:    cfg,
		Seed:      rngSeed,
		LogStats:  *logStats,
		OutputDir: *outputDir,
	}

	if *headless {
		// Headless mode - pure CPU simulation, no raylib needed
		g := game.NewGame(opts)
		defer g.Unload()

		pull := r2.Vec{X: *aimX, Y: *aimY}
		slog.Info("starting headless round",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
			"pull_x", pull.X,
			"pull_y", pull.Y,
		)

		g.StartRound()
		auto := game.NewAutoplayer(g, pull, *shotSeconds)
		for !g.Over() {
			auto.Step()
			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick())
				break
			}
		}

		r := g.Round()
		slog.Info("headless round finished",
			"tick", g.Tick(),
			"shots", auto.Shots(),
			"score", r.Score,
			"level", r.Level,
			"cans_down", r.CansDown,
		)
		return
	}

	// Graphical mode
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Lata")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(opts)
	defer g.Unload()

	v := ui.NewViewer(g)
	for !rl.WindowShouldClose() {
		v.Update()
		v.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
