package core

import (
	"time"

	"github.com/google/uuid"
)

// NewID returns a new unique identifier string.
func NewID() string { return uuid.NewString() }

// Message is an immutable inter-agent message. Messages are value types:
// they are copied into queues and never mutated after creation. Delivery is
// in-process FIFO, best effort; a message addressed to an unknown agent is
// silently dropped by the orchestrator.
type Message struct {
	ID        string
	From      string
	To        string
	Type      string
	Payload   string
	Timestamp time.Time
}

// NewMessage builds a message stamped with a fresh id and the current time.
func NewMessage(from, to, msgType, payload string) Message {
	return Message{
		ID:        NewID(),
		From:      from,
		To:        to,
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// MessageRouter accepts messages for asynchronous delivery. The orchestrator
// implements it; agents hold it as their only link back to the mesh so they
// never reference each other directly.
type MessageRouter interface {
	RouteMessage(msg Message)
}
