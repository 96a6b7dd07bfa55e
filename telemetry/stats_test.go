package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestLaunchSpeedStats(t *testing.T) {
	mean, median, peak := LaunchSpeedStats([]float64{400, 240, 1040, 600})

	if math.Abs(mean-570) > 0.001 {
		t.Errorf("mean = %v, want 570", mean)
	}
	if math.Abs(median-500) > 0.001 {
		t.Errorf("median = %v, want 500", median)
	}
	if peak != 1040 {
		t.Errorf("max = %v, want 1040", peak)
	}
}

func TestLaunchSpeedStatsEmpty(t *testing.T) {
	mean, median, peak := LaunchSpeedStats(nil)
	if mean != 0 || median != 0 || peak != 0 {
		t.Error("no launches should return all zeros")
	}
}

func TestCollectorLevelAndRound(t *testing.T) {
	c := NewCollector(0.5)
	c.StartRound(10)
	c.StartLevel(10, 1, 5)

	c.RecordShot(300)
	c.RecordHit(10)
	c.RecordHit(10)
	c.RecordActivation()
	for i := 0; i < 5; i++ {
		c.RecordCanDown()
	}
	lvl := c.EndLevel(30, true)

	if lvl.Level != 1 || lvl.Cans != 5 || !lvl.Cleared {
		t.Errorf("level header = %+v", lvl)
	}
	if lvl.Shots != 1 || lvl.Hits != 2 || lvl.Points != 20 || lvl.CansDown != 5 || lvl.Activations != 1 {
		t.Errorf("level counters = %+v", lvl)
	}
	if math.Abs(lvl.DurationSec-10) > 1e-9 {
		t.Errorf("level duration = %v, want 10", lvl.DurationSec)
	}

	c.StartLevel(30, 2, 7)
	c.RecordShot(500)
	lvl2 := c.EndLevel(40, false)
	if lvl2.Shots != 1 || lvl2.Hits != 0 {
		t.Errorf("level counters leaked across levels: %+v", lvl2)
	}

	round := c.EndRound(40, 20, 2)
	if round.Shots != 2 || round.Hits != 2 || round.CansDown != 5 || round.LevelsCleared != 1 {
		t.Errorf("round counters = %+v", round)
	}
	if math.Abs(round.MeanLaunchSpeed-400) > 1e-9 || round.MaxLaunchSpeed != 500 {
		t.Errorf("launch speeds = mean %v max %v", round.MeanLaunchSpeed, round.MaxLaunchSpeed)
	}
	if math.Abs(round.DurationSec-15) > 1e-9 {
		t.Errorf("round duration = %v, want 15", round.DurationSec)
	}

	c.StartRound(50)
	if fresh := c.EndRound(50, 0, 1); fresh.Shots != 0 || fresh.LevelsCleared != 0 {
		t.Errorf("StartRound did not reset: %+v", fresh)
	}
}

func TestOutputManagerDisabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}
	// nil manager swallows writes
	if err := om.WriteLevel(LevelStats{}); err != nil {
		t.Errorf("nil WriteLevel: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestOutputManagerWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for lvl := 1; lvl <= 3; lvl++ {
		if err := om.WriteLevel(LevelStats{Level: lvl, Cans: 3 + 2*lvl, Cleared: true}); err != nil {
			t.Fatalf("WriteLevel: %v", err)
		}
	}
	if err := om.WriteRound(RoundStats{Score: 120, Level: 3}); err != nil {
		t.Fatalf("WriteRound: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "levels.csv"))
	if err != nil {
		t.Fatalf("reading levels.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("levels.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "level,cans,cleared") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(string(data), "level,cans") != 1 {
		t.Error("header written more than once")
	}

	rounds, err := os.ReadFile(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		t.Fatalf("reading rounds.csv: %v", err)
	}
	if !strings.Contains(string(rounds), "120") {
		t.Errorf("rounds.csv missing score: %q", rounds)
	}
}
