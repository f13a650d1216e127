package core

import "fmt"

// State is a module's position in the lifecycle. Only the Orchestrator
// writes it.
type State int

const (
	StateDiscovered State = iota
	StateInitializing
	StateInitialized
	StateStarting
	StateStarted
	StateStopping
	StateStopped
	StateDisposing
	StateDisposed
	// StateFaulted is terminal.
	StateFaulted
)

var stateNames = [...]string{
	StateDiscovered:   "discovered",
	StateInitializing: "initializing",
	StateInitialized:  "initialized",
	StateStarting:     "starting",
	StateStarted:      "started",
	StateStopping:     "stopping",
	StateStopped:      "stopped",
	StateDisposing:    "disposing",
	StateDisposed:     "disposed",
	StateFaulted:      "faulted",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Phase names one of the four lifecycle calls.
type Phase string

const (
	PhaseInitialize Phase = "initialize"
	PhaseStart      Phase = "start"
	PhaseStop       Phase = "stop"
	PhaseDispose    Phase = "dispose"
)

// transitions maps a phase to its in-flight and completed states.
func (p Phase) transitions() (inFlight, done State) {
	switch p {
	case PhaseInitialize:
		return StateInitializing, StateInitialized
	case PhaseStart:
		return StateStarting, StateStarted
	case PhaseStop:
		return StateStopping, StateStopped
	default:
		return StateDisposing, StateDisposed
	}
}
