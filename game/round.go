package game

// Phase is the session lifecycle stage.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseRunning
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	}
	return "unknown"
}

// RoundState is the scoreboard of one round.
type RoundState struct {
	Score     int
	Level     int
	CansTotal int
	CansDown  int
	Timer     int // seconds left
	Started   bool
	Over      bool
}

// Phase derives the lifecycle stage from the flags.
func (r RoundState) Phase() Phase {
	switch {
	case !r.Started:
		return PhaseIdle
	case r.Over:
		return PhaseOver
	}
	return PhaseRunning
}

// idleRound is the state before the first start and after a stop.
func idleRound(timer int) RoundState {
	return RoundState{Level: 1, Timer: timer}
}

// start resets the scoreboard for a new round.
func (r *RoundState) start(timer, cans int) {
	*r = RoundState{
		Level:     1,
		CansTotal: cans,
		Timer:     timer,
		Started:   true,
	}
}

// nextLevel moves to the following level with extra cans.
func (r *RoundState) nextLevel(extraCans int) {
	r.Level++
	r.CansTotal += extraCans
	r.CansDown = 0
}

// tickTimer counts one second down while the round runs. Reaching zero
// ends the round; it reports true only on that call.
func (r *RoundState) tickTimer() (expired bool) {
	if r.Phase() != PhaseRunning {
		return false
	}
	if r.Timer > 0 {
		r.Timer--
	}
	if r.Timer == 0 {
		r.Over = true
		return true
	}
	return false
}
