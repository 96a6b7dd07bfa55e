package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/lata/config"
)

// evalRecord is one row of aim_log.csv.
type evalRecord struct {
	Eval     int     `csv:"eval"`
	Fitness  float64 `csv:"fitness"`
	PullX    float64 `csv:"pull_x"`
	PullY    float64 `csv:"pull_y"`
	CansDown float64 `csv:"cans_down"`
	Score    float64 `csv:"score"`
	Ticks    float64 `csv:"ticks"`
}

// bestAim is written to best_aim.yaml.
type bestAim struct {
	Level    int     `yaml:"level"`
	PullX    float64 `yaml:"pull_x"`
	PullY    float64 `yaml:"pull_y"`
	Fitness  float64 `yaml:"fitness"`
	CansDown float64 `yaml:"cans_down"`
	Score    float64 `yaml:"score"`
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	level := flag.Int("level", 1, "Level whose pyramid to aim at")
	maxTicks := flag.Int("max-ticks", 600, "Ticks to simulate after the shot")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 120, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if *level < 1 {
		log.Fatal("--level must be at least 1")
	}

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	params := NewParamVector(baseCfg)

	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evaluator := NewFitnessEvaluator(params, *level, int32(*maxTicks), evalSeeds, baseCfg)

	dim := params.Dim()
	initX := params.Normalize(params.DefaultVector())

	popSize := *population
	if popSize == 0 {
		popSize = 4 + int(3.0*float64(dim)/2.0)
	}

	settings := &optimize.Settings{
		FuncEvaluations: *maxEvals,
		Concurrent:      0, // Sequential evaluation
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   popSize,
	}

	logPath := filepath.Join(*outputDir, "aim_log.csv")
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()
	headerWritten := false

	evalCount := 0
	bestFitness := 1e9
	var best bestAim
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			pull := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(pull)
			shot := evaluator.LastShot()
			evalCount++

			if fitness < bestFitness {
				bestFitness = fitness
				best = bestAim{
					Level:    *level,
					PullX:    pull[0],
					PullY:    pull[1],
					Fitness:  fitness,
					CansDown: shot.CansDown,
					Score:    shot.Score,
				}
			}

			rec := []evalRecord{{
				Eval:     evalCount,
				Fitness:  fitness,
				PullX:    pull[0],
				PullY:    pull[1],
				CansDown: shot.CansDown,
				Score:    shot.Score,
				Ticks:    shot.Ticks,
			}}
			if headerWritten {
				err = gocsv.MarshalWithoutHeaders(rec, logFile)
			} else {
				err = gocsv.Marshal(rec, logFile)
				headerWritten = true
			}
			if err != nil {
				log.Printf("failed to log evaluation: %v", err)
			}

			elapsed := time.Since(startTime)
			avgPerEval := elapsed / time.Duration(evalCount)
			remaining := time.Duration(*maxEvals-evalCount) * avgPerEval

			fmt.Printf("Eval %d/%d: pull=(%.1f, %.1f) down=%.1f score=%.0f (best=%.0f) | elapsed: %s, ETA: %s\n",
				evalCount, *maxEvals, pull[0], pull[1], shot.CansDown, shot.Score, bestFitness,
				formatDuration(elapsed), formatDuration(remaining))

			return fitness
		},
	}

	fmt.Printf("Starting CMA-ES aim search on level %d, population=%d, max_evals=%d\n",
		*level, popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per shot: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	if evalCount == 0 && result != nil {
		pull := params.Clamp(params.Denormalize(result.X))
		best = bestAim{Level: *level, PullX: pull[0], PullY: pull[1], Fitness: result.F}
	}

	fmt.Printf("\nSearch complete after %d evaluations in %s\n", evalCount, formatDuration(time.Since(startTime)))
	fmt.Printf("Best aim: pull=(%.2f, %.2f) cans_down=%.1f score=%.0f\n", best.PullX, best.PullY, best.CansDown, best.Score)

	data, err := yaml.Marshal(best)
	if err != nil {
		log.Fatalf("failed to marshal best aim: %v", err)
	}
	aimPath := filepath.Join(*outputDir, "best_aim.yaml")
	if err := os.WriteFile(aimPath, data, 0644); err != nil {
		log.Fatalf("failed to write best aim: %v", err)
	}
	fmt.Printf("Best aim saved to: %s\n", aimPath)
}
