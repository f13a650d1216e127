package core

import (
	"time"

	"github.com/google/uuid"
)

// EventType classifies lifecycle events.
type EventType string

const (
	EventDiscovered     EventType = "discovered"
	EventPlanned        EventType = "planned"
	EventPhaseStarted   EventType = "phase_started"
	EventPhaseCompleted EventType = "phase_completed"
	EventPhaseFailed    EventType = "phase_failed"
)

// Event is a one-way lifecycle notification. Nothing in the core depends on
// what observers do with it.
type Event struct {
	ID       string
	RunID    string
	Type     EventType
	Time     time.Time
	Module   string
	Phase    Phase
	State    State
	Duration time.Duration
	Err      error
	// Plan is set on EventPlanned.
	Plan Plan
}

// Observer receives lifecycle events synchronously. Implementations must not
// block.
type Observer interface {
	OnEvent(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

type observers []Observer

func (o observers) emit(e Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	for _, obs := range o {
		obs.OnEvent(e)
	}
}
