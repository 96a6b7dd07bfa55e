package game

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/lata/systems"
)

// EventType identifies a gameplay event.
type EventType uint8

const (
	EventScored EventType = iota
	EventCanDown
	EventLevelCleared
	EventLevelStarted
	EventLaunched
	EventRoundStarted
	EventGameOver
)

func (t EventType) String() string {
	switch t {
	case EventScored:
		return "scored"
	case EventCanDown:
		return "can_down"
	case EventLevelCleared:
		return "level_cleared"
	case EventLevelStarted:
		return "level_started"
	case EventLaunched:
		return "launched"
	case EventRoundStarted:
		return "round_started"
	case EventGameOver:
		return "game_over"
	}
	return "unknown"
}

// Event is something the presentation layer may react to. Events are
// queued during a tick and delivered once at its end, in emission order.
type Event struct {
	Type  EventType
	Tick  int32
	Level int

	// Optional fields depending on event type
	Points   int            // scored
	Body     systems.BodyID // scored, can_down: the can
	Velocity r2.Vec         // launched
}

func (g *Game) emit(e Event) {
	e.Tick = g.tick
	if e.Level == 0 {
		e.Level = g.round.Level
	}
	g.pending = append(g.pending, e)
}

func scoredEvent(points int, can systems.BodyID) Event {
	return Event{Type: EventScored, Points: points, Body: can}
}

func canDownEvent(can systems.BodyID) Event {
	return Event{Type: EventCanDown, Body: can}
}

func launchedEvent(vel r2.Vec) Event {
	return Event{Type: EventLaunched, Velocity: vel}
}

// Listener receives dispatched events.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn for every future event and returns a function
// that removes it.
func (g *Game) Subscribe(fn Listener) (cancel func()) {
	g.nextSubID++
	id := g.nextSubID
	g.subs = append(g.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range g.subs {
			if s.id == id {
				g.subs = append(g.subs[:i], g.subs[i+1:]...)
				return
			}
		}
	}
}

// dispatch delivers and clears the pending queue.
func (g *Game) dispatch() []Event {
	if len(g.pending) == 0 {
		return nil
	}
	events := g.pending
	g.pending = nil

	subs := make([]subscription, len(g.subs))
	copy(subs, g.subs)
	for _, e := range events {
		for _, s := range subs {
			s.fn(e)
		}
	}
	return events
}
