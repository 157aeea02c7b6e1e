package core

import "time"

// AgentState represents an agent's position in its lifecycle state machine.
type AgentState int

const (
	// StateIdle means the agent is registered and eligible for scheduling.
	StateIdle AgentState = iota
	// StateRunning means the agent's Execute is currently on the worker.
	StateRunning
	// StatePaused is reserved for future pause/resume support; no transition
	// currently produces or consumes it.
	StatePaused
	// StateCompleted is the terminal state forced by Shutdown.
	StateCompleted
	// StateFailed means the last Execute returned an error or panicked. A
	// failed agent is never rescheduled until externally reset.
	StateFailed
)

// String returns the human-readable state name.
func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Failure records why and when an agent's Execute failed. It is retained on
// the agent alongside the StateFailed transition so callers can inspect the
// cause instead of only observing the state.
type Failure struct {
	Err error
	At  time.Time
}
