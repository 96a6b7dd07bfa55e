package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/config"
	"github.com/pthm-cable/lata/game"
)

// FitnessEvaluator fires one shot per seed on a fresh game and scores it.
type FitnessEvaluator struct {
	params   *ParamVector
	maxTicks int32
	seeds    []int64
	base     *config.Config

	mu       sync.Mutex
	lastShot shotResult // averaged over seeds, from the most recent Evaluate
}

// NewFitnessEvaluator creates an evaluator playing level on a copy of baseCfg.
func NewFitnessEvaluator(params *ParamVector, level int, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:   params,
		maxTicks: maxTicks,
		seeds:    seeds,
		base:     levelConfig(baseCfg, level),
	}
}

// levelConfig returns a copy of cfg whose first level has as many cans as
// the given level would.
func levelConfig(cfg *config.Config, level int) *config.Config {
	c := *cfg
	if level > 1 {
		c.Level.StartCans += (level - 1) * c.Level.CansPerLevel
	}
	c.Recompute()
	return &c
}

// shotResult holds the outcome of a single shot.
type shotResult struct {
	CansDown float64
	Score    float64
	Ticks    float64 // ticks until the level cleared, or the budget
}

// LastShot returns the averaged outcome of the most recent evaluation.
func (fe *FitnessEvaluator) LastShot() shotResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastShot
}

// Evaluate computes fitness for a raw pull vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	pull := fe.params.Clamp(x)

	// Run all seeds in parallel; each game is independent.
	results := make([]shotResult, len(fe.seeds))
	var wg sync.WaitGroup
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runShot(r2.Vec{X: pull[0], Y: pull[1]}, s)
		}(i, seed)
	}
	wg.Wait()

	var avg shotResult
	for _, r := range results {
		avg.CansDown += r.CansDown
		avg.Score += r.Score
		avg.Ticks += r.Ticks
	}
	n := float64(len(results))
	avg.CansDown /= n
	avg.Score /= n
	avg.Ticks /= n

	fe.mu.Lock()
	fe.lastShot = avg
	fe.mu.Unlock()

	return computeFitness(avg)
}

// runShot plays a single shot from the start of a round.
func (fe *FitnessEvaluator) runShot(pull r2.Vec, seed int64) shotResult {
	g := game.NewGame(game.Options{Config: fe.base, Seed: seed})
	defer g.Unload()

	g.StartRound()
	g.Aim(pull)

	var res shotResult
	for g.Tick() < fe.maxTicks {
		cleared := false
		for _, e := range g.Step() {
			switch e.Type {
			case game.EventCanDown:
				res.CansDown++
			case game.EventLevelCleared:
				cleared = true
			}
		}
		if cleared {
			break
		}
	}
	res.Score = float64(g.Score())
	res.Ticks = float64(g.Tick())
	return res
}

// computeFitness: -(cans down × 100 + score). Knocked cans dominate; score
// breaks ties between shots that fell the same number.
func computeFitness(r shotResult) float64 {
	f := -(r.CansDown*100 + r.Score)
	if math.IsNaN(f) {
		return 0
	}
	return f
}
