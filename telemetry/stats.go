package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// LevelStats summarizes one level.
type LevelStats struct {
	Level       int     `csv:"level"`
	Cans        int     `csv:"cans"`
	Cleared     bool    `csv:"cleared"`
	StartTick   int32   `csv:"-"`
	EndTick     int32   `csv:"end_tick"`
	DurationSec float64 `csv:"duration"`
	Shots       int     `csv:"shots"`
	Hits        int     `csv:"hits"`
	Points      int     `csv:"points"`
	CansDown    int     `csv:"cans_down"`
	Activations int     `csv:"activations"`
}

// RoundStats summarizes one round.
type RoundStats struct {
	EndTick         int32   `csv:"end_tick"`
	DurationSec     float64 `csv:"duration"`
	Score           int     `csv:"score"`
	Level           int     `csv:"level"`
	LevelsCleared   int     `csv:"levels_cleared"`
	Shots           int     `csv:"shots"`
	Hits            int     `csv:"hits"`
	CansDown        int     `csv:"cans_down"`
	MeanLaunchSpeed float64 `csv:"mean_launch_speed"`
	P50LaunchSpeed  float64 `csv:"p50_launch_speed"`
	MaxLaunchSpeed  float64 `csv:"max_launch_speed"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// LaunchSpeedStats returns mean, median and max, or zeros for no launches.
func LaunchSpeedStats(speeds []float64) (mean, median, peak float64) {
	if len(speeds) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(speeds))
	copy(sorted, speeds)
	sort.Float64s(sorted)
	return stat.Mean(speeds, nil), Percentile(sorted, 0.5), floats.Max(speeds)
}

// LogValue implements slog.LogValuer for structured logging.
func (s LevelStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("level", s.Level),
		slog.Int("cans", s.Cans),
		slog.Bool("cleared", s.Cleared),
		slog.Int("end_tick", int(s.EndTick)),
		slog.Float64("duration", s.DurationSec),
		slog.Int("shots", s.Shots),
		slog.Int("hits", s.Hits),
		slog.Int("points", s.Points),
		slog.Int("cans_down", s.CansDown),
		slog.Int("activations", s.Activations),
	)
}

// LogStats logs the level stats using slog.
func (s LevelStats) LogStats() {
	slog.Info("level_stats", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s RoundStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("end_tick", int(s.EndTick)),
		slog.Float64("duration", s.DurationSec),
		slog.Int("score", s.Score),
		slog.Int("level", s.Level),
		slog.Int("levels_cleared", s.LevelsCleared),
		slog.Int("shots", s.Shots),
		slog.Int("hits", s.Hits),
		slog.Int("cans_down", s.CansDown),
		slog.Float64("mean_launch_speed", s.MeanLaunchSpeed),
		slog.Float64("p50_launch_speed", s.P50LaunchSpeed),
		slog.Float64("max_launch_speed", s.MaxLaunchSpeed),
	)
}

// LogStats logs the round stats using slog.
func (s RoundStats) LogStats() {
	slog.Info("round_stats", "stats", s)
}
