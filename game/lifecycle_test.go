package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/telemetry"
)

func TestStartRoundWhileRunningRecordsRound(t *testing.T) {
	dir := t.TempDir()
	g := NewGame(Options{Config: testConfig(t), Seed: 1, OutputDir: dir})

	g.StartRound()
	g.Aim(r2.Vec{X: 120, Y: -10})
	for i := 0; i < 10; i++ {
		g.Step()
	}

	// Restarting mid-round closes out the first round.
	g.StartRound()
	if g.Phase() != PhaseRunning || g.Score() != 0 {
		t.Fatalf("phase = %v, score = %d after restart", g.Phase(), g.Score())
	}
	g.Unload()

	var rounds []telemetry.RoundStats
	if err := gocsv.UnmarshalFile(mustOpen(t, filepath.Join(dir, "rounds.csv")), &rounds); err != nil {
		t.Fatalf("reading rounds.csv: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("rounds recorded = %d, want 1", len(rounds))
	}
	if rounds[0].Shots != 1 {
		t.Errorf("recorded shots = %d, want 1", rounds[0].Shots)
	}
	if rounds[0].EndTick != 10 {
		t.Errorf("recorded end tick = %d, want 10", rounds[0].EndTick)
	}
}

func TestStartRoundFromIdleRecordsNothing(t *testing.T) {
	dir := t.TempDir()
	g := NewGame(Options{Config: testConfig(t), Seed: 1, OutputDir: dir})

	g.StartRound()
	g.Unload()

	data, err := os.ReadFile(filepath.Join(dir, "rounds.csv"))
	if err != nil {
		t.Fatalf("reading rounds.csv: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("rounds.csv = %q, want empty", data)
	}
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}
