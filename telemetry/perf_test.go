package telemetry

import (
	"math"
	"testing"
	"time"
)

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhasePhysics)
		time.Sleep(200 * time.Microsecond)
		pc.StartPhase(PhaseContacts)
		time.Sleep(20 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Ticks != 5 {
		t.Errorf("ticks = %d, want 5", stats.Ticks)
	}
	if stats.AvgTickDuration <= 0 || stats.TicksPerSecond <= 0 {
		t.Errorf("expected positive tick timing, got %v / %v", stats.AvgTickDuration, stats.TicksPerSecond)
	}
	if stats.MaxTickDuration < stats.AvgTickDuration {
		t.Errorf("max %v below avg %v", stats.MaxTickDuration, stats.AvgTickDuration)
	}
	if stats.PhasePct[PhasePhysics] <= stats.PhasePct[PhaseContacts] {
		t.Errorf("physics %.1f%% should exceed contacts %.1f%%",
			stats.PhasePct[PhasePhysics], stats.PhasePct[PhaseContacts])
	}
	if _, ok := stats.PhaseAvg[PhaseLevel]; ok {
		t.Error("phase that never ran should be absent")
	}
}

func TestPerfCollectorUnknownPhaseIgnored(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase("warmup")
	pc.StartPhase(PhaseInput)
	pc.EndTick()

	stats := pc.Stats()
	if _, ok := stats.PhaseAvg["warmup"]; ok {
		t.Error("unknown phase should not be recorded")
	}
	if _, ok := stats.PhaseAvg[PhaseInput]; !ok {
		t.Error("input phase missing")
	}
}

func TestPerfCollectorLoadCounters(t *testing.T) {
	pc := NewPerfCollector(3)

	// Five ticks through a window of three: only the last three count.
	for _, n := range []int{100, 100, 2, 4, 6} {
		pc.StartTick()
		pc.CountContacts(n)
		pc.CountAwake(n / 2)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.Ticks != 3 {
		t.Fatalf("ticks = %d, want 3", stats.Ticks)
	}
	if math.Abs(stats.AvgContacts-4) > 1e-9 {
		t.Errorf("avg contacts = %v, want 4", stats.AvgContacts)
	}
	if stats.MaxContacts != 6 {
		t.Errorf("max contacts = %d, want 6", stats.MaxContacts)
	}
	if math.Abs(stats.AvgAwake-2) > 1e-9 {
		t.Errorf("avg awake = %v, want 2", stats.AvgAwake)
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats.Ticks != 0 || stats.AvgTickDuration != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("expected non-nil phase maps")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	if fps := pc.Stats().FPS; fps <= 0 || fps > 70 {
		t.Errorf("fps = %v, want (0, 70]", fps)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		AvgContacts:     3.5,
		MaxContacts:     9,
		PhasePct: map[string]float64{
			PhasePhysics:   60,
			PhaseContacts:  25,
			PhaseKnockdown: 15,
		},
	}

	row := stats.ToCSV(600)
	if row.Tick != 600 || row.AvgTickUS != 250 {
		t.Errorf("row = %+v", row)
	}
	if row.PhysicsPct != 60 || row.ContactsPct != 25 || row.KnockdownPct != 15 {
		t.Errorf("phase pct = %v/%v/%v, want 60/25/15", row.PhysicsPct, row.ContactsPct, row.KnockdownPct)
	}
	if row.AvgContacts != 3.5 || row.MaxContacts != 9 {
		t.Errorf("contacts = %v/%d, want 3.5/9", row.AvgContacts, row.MaxContacts)
	}
	if row.LevelPct != 0 {
		t.Errorf("unrecorded phase pct = %v, want 0", row.LevelPct)
	}
}
