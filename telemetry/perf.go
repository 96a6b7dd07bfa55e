package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Phase names for the simulation step.
const (
	PhaseInput      = "input"
	PhasePhysics    = "physics"
	PhaseContacts   = "contacts"
	PhaseKnockdown  = "knockdown"
	PhaseLevel      = "level"
	PhaseInvariants = "invariants"
	PhaseTelemetry  = "telemetry"
)

var phaseOrder = [...]string{
	PhaseInput, PhasePhysics, PhaseContacts, PhaseKnockdown,
	PhaseLevel, PhaseInvariants, PhaseTelemetry,
}

const numPhases = len(phaseOrder)

// Phases returns the phase names in step order.
func Phases() []string {
	return append([]string(nil), phaseOrder[:]...)
}

func phaseIndex(name string) int {
	for i, p := range phaseOrder {
		if p == name {
			return i
		}
	}
	return -1
}

// tickSample is one tick's timing and load.
type tickSample struct {
	total    time.Duration
	phases   [numPhases]time.Duration
	ran      [numPhases]bool
	contacts int
	awake    int
}

// PerfCollector keeps a ring of recent tick samples. Besides phase
// timings it records how many contacts the physics step produced and how
// many bodies were awake, since a collapsing pyramid is what makes ticks
// expensive.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur        tickSample
	tickStart  time.Time
	phaseStart time.Time
	phase      int // -1 when no phase is open

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over window ticks.
func NewPerfCollector(window int) *PerfCollector {
	if window < 1 {
		window = 60
	}
	return &PerfCollector{ring: make([]tickSample, window), phase: -1}
}

// StartTick begins timing a new tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.tickStart = time.Now()
	p.phase = -1
}

// StartPhase closes the open phase and opens the named one. Unknown names
// close the open phase without starting a new one.
func (p *PerfCollector) StartPhase(name string) {
	now := time.Now()
	p.closePhase(now)
	p.phase = phaseIndex(name)
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.cur.ran[p.phase] = true
	}
	p.phase = -1
}

// CountContacts records the contacts produced this tick.
func (p *PerfCollector) CountContacts(n int) { p.cur.contacts += n }

// CountAwake records the number of awake dynamic bodies this tick.
func (p *PerfCollector) CountAwake(n int) { p.cur.awake = n }

// EndTick stores the tick in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	p.filled = min(p.filled+1, len(p.ring))
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the ring.
type PerfStats struct {
	Ticks           int
	AvgTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64 // share of the average tick

	AvgContacts float64
	MaxContacts int
	AvgAwake    float64

	FPS float64
}

// Stats computes the aggregate over the samples currently in the ring.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		Ticks:    p.filled,
		PhaseAvg: make(map[string]time.Duration, numPhases),
		PhasePct: make(map[string]float64, numPhases),
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.filled == 0 {
		return s
	}

	totals := make([]float64, p.filled)
	contacts := make([]float64, p.filled)
	awake := make([]float64, p.filled)
	var phaseSum [numPhases]time.Duration
	var ran [numPhases]bool
	for i, t := range p.ring[:p.filled] {
		totals[i] = float64(t.total)
		contacts[i] = float64(t.contacts)
		awake[i] = float64(t.awake)
		for j, d := range t.phases {
			phaseSum[j] += d
			ran[j] = ran[j] || t.ran[j]
		}
	}

	avg := stat.Mean(totals, nil)
	s.AvgTickDuration = time.Duration(avg)
	s.MaxTickDuration = time.Duration(floats.Max(totals))
	if avg > 0 {
		s.TicksPerSecond = float64(time.Second) / avg
	}
	for j, name := range phaseOrder {
		if !ran[j] {
			continue
		}
		pa := phaseSum[j] / time.Duration(p.filled)
		s.PhaseAvg[name] = pa
		if avg > 0 {
			s.PhasePct[name] = float64(pa) / avg * 100
		}
	}
	s.AvgContacts = stat.Mean(contacts, nil)
	s.MaxContacts = int(floats.Max(contacts))
	s.AvgAwake = stat.Mean(awake, nil)
	return s
}

// LogStats logs the perf window using slog.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
		slog.Float64("avg_contacts", s.AvgContacts),
		slog.Int("max_contacts", s.MaxContacts),
		slog.Float64("avg_awake", s.AvgAwake),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range phaseOrder {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	Tick          int32   `csv:"tick"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	AvgContacts   float64 `csv:"avg_contacts"`
	MaxContacts   int     `csv:"max_contacts"`
	AvgAwake      float64 `csv:"avg_awake"`
	PhysicsPct    float64 `csv:"physics_pct"`
	ContactsPct   float64 `csv:"contacts_pct"`
	KnockdownPct  float64 `csv:"knockdown_pct"`
	LevelPct      float64 `csv:"level_pct"`
	InvariantsPct float64 `csv:"invariants_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(tick int32) PerfStatsCSV {
	return PerfStatsCSV{
		Tick:          tick,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		AvgContacts:   s.AvgContacts,
		MaxContacts:   s.MaxContacts,
		AvgAwake:      s.AvgAwake,
		PhysicsPct:    s.PhasePct[PhasePhysics],
		ContactsPct:   s.PhasePct[PhaseContacts],
		KnockdownPct:  s.PhasePct[PhaseKnockdown],
		LevelPct:      s.PhasePct[PhaseLevel],
		InvariantsPct: s.PhasePct[PhaseInvariants],
	}
}
