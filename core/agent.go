package core

import "context"

// Agent is the capability set every agent variant must implement.
//
// Agents are autonomous units bound to exactly one tenant. All cognitive
// work (Execute, OnMessage) runs on the orchestrator's single worker, so
// implementations never observe concurrent invocations of those two methods
// and do not need to guard their own working state against themselves.
// Identity and state accessors, however, may be called from any goroutine.
//
// Embed agent.BaseAgent to inherit the lifecycle defaults and only supply
// Execute.
type Agent interface {
	// ID returns the agent identifier, unique within an orchestrator.
	ID() string

	// TenantID returns the tenant the agent was constructed against. It is
	// immutable for the agent's lifetime.
	TenantID() string

	// Initialize prepares the agent for scheduling. The orchestrator calls
	// it during registration while holding its registry lock, so
	// implementations must not call back into the orchestrator here.
	// Initialize must be idempotent.
	Initialize() error

	// Execute runs one unit of work against the agent's store. A non-nil
	// error (or a panic, which the orchestrator contains) transitions the
	// agent to StateFailed with the cause recorded.
	Execute(ctx context.Context) error

	// Shutdown finalizes the agent, forcing StateCompleted regardless of
	// the prior state. Called by the orchestrator on unregistration.
	Shutdown()

	// OnMessage delivers a routed message. The default behavior is to
	// ignore it.
	OnMessage(msg Message)

	// State returns the current lifecycle state.
	State() AgentState

	// SetState forces a lifecycle state. Used by the orchestrator to drive
	// the Idle/Running transitions around Execute.
	SetState(state AgentState)

	// MarkFailed transitions the agent to StateFailed recording the cause
	// and the current time.
	MarkFailed(err error)

	// LastFailure returns the most recent Execute failure, or nil if the
	// agent has never failed.
	LastFailure() *Failure

	// Attach binds the router SendMessage forwards to. The orchestrator
	// calls it during registration; until then sending is a no-op.
	Attach(router MessageRouter)
}
