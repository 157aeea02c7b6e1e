package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgentState_String(t *testing.T) {
	cases := map[AgentState]string{
		StateIdle:      "idle",
		StateRunning:   "running",
		StatePaused:    "paused",
		StateCompleted: "completed",
		StateFailed:    "failed",
		AgentState(42): "unknown",
	}
	for state, want := range cases {
		assert.Equal(t, want, state.String())
	}
}

func TestNewMessage(t *testing.T) {
	before := time.Now()
	msg := NewMessage("a1", "a2", "greeting", "hi")

	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "a1", msg.From)
	assert.Equal(t, "a2", msg.To)
	assert.Equal(t, "greeting", msg.Type)
	assert.Equal(t, "hi", msg.Payload)
	assert.False(t, msg.Timestamp.Before(before))

	other := NewMessage("a1", "a2", "greeting", "hi")
	assert.NotEqual(t, msg.ID, other.ID)
}
