// Package telemetry records per-level and per-round play statistics and
// tick timing.
package telemetry

// Collector accumulates play events and produces LevelStats and RoundStats.
type Collector struct {
	dt float64

	// Current round
	roundStartTick int32
	roundShots     int
	roundHits      int
	roundCansDown  int
	levelsCleared  int
	launchSpeeds   []float64

	// Current level
	level          int
	levelCans      int
	levelStartTick int32
	shots          int
	hits           int
	points         int
	cansDown       int
	activations    int
}

// NewCollector creates a collector. dt is seconds per tick.
func NewCollector(dt float64) *Collector {
	return &Collector{dt: dt}
}

// StartRound resets all counters.
func (c *Collector) StartRound(tick int32) {
	*c = Collector{dt: c.dt, roundStartTick: tick}
}

// StartLevel resets the level counters.
func (c *Collector) StartLevel(tick int32, level, cans int) {
	c.level = level
	c.levelCans = cans
	c.levelStartTick = tick
	c.shots = 0
	c.hits = 0
	c.points = 0
	c.cansDown = 0
	c.activations = 0
}

// RecordShot records a launch and its speed.
func (c *Collector) RecordShot(speed float64) {
	c.shots++
	c.roundShots++
	c.launchSpeeds = append(c.launchSpeeds, speed)
}

// RecordHit records a scoring slipper-can contact.
func (c *Collector) RecordHit(points int) {
	c.hits++
	c.roundHits++
	c.points += points
}

// RecordActivation records a static can knocked loose.
func (c *Collector) RecordActivation() {
	c.activations++
}

// RecordCanDown records a can counted as down.
func (c *Collector) RecordCanDown() {
	c.cansDown++
	c.roundCansDown++
}

// EndLevel closes the current level.
func (c *Collector) EndLevel(tick int32, cleared bool) LevelStats {
	if cleared {
		c.levelsCleared++
	}
	ticks := tick - c.levelStartTick
	return LevelStats{
		Level:       c.level,
		Cans:        c.levelCans,
		Cleared:     cleared,
		StartTick:   c.levelStartTick,
		EndTick:     tick,
		DurationSec: float64(ticks) * c.dt,
		Shots:       c.shots,
		Hits:        c.hits,
		Points:      c.points,
		CansDown:    c.cansDown,
		Activations: c.activations,
	}
}

// EndRound closes the round with the final score and level.
func (c *Collector) EndRound(tick int32, score, level int) RoundStats {
	mean, median, peak := LaunchSpeedStats(c.launchSpeeds)
	return RoundStats{
		EndTick:         tick,
		DurationSec:     float64(tick-c.roundStartTick) * c.dt,
		Score:           score,
		Level:           level,
		LevelsCleared:   c.levelsCleared,
		Shots:           c.roundShots,
		Hits:            c.roundHits,
		CansDown:        c.roundCansDown,
		MeanLaunchSpeed: mean,
		P50LaunchSpeed:  median,
		MaxLaunchSpeed:  peak,
	}
}
