package agent

import (
	"sync"
	"time"

	"github.com/hupe1980/cogmesh/core"
	"github.com/hupe1980/cogmesh/knowledge"
)

// BaseAgent bundles identity, the tenant store binding and the guarded state
// machine shared by all agent variants. Embed it in concrete implementations
// and supply an Execute method to satisfy core.Agent. All exported methods
// are goroutine-safe.
type BaseAgent struct {
	id       string
	tenantID string
	store    *knowledge.Store

	mu      sync.Mutex
	state   core.AgentState
	failure *core.Failure
	router  core.MessageRouter
}

// NewBaseAgent constructs a BaseAgent bound to its tenant's store, creating
// the store on first reference.
func NewBaseAgent(id, tenantID string, registry *knowledge.Registry) BaseAgent {
	return BaseAgent{
		id:       id,
		tenantID: tenantID,
		store:    registry.GetOrCreate(tenantID),
		state:    core.StateIdle,
	}
}

// ID returns the agent identifier.
func (b *BaseAgent) ID() string { return b.id }

// TenantID returns the tenant the agent is bound to.
func (b *BaseAgent) TenantID() string { return b.tenantID }

// Store returns the agent's tenant knowledge store. Agents mutate only their
// own tenant's store and talk to other agents exclusively by message.
func (b *BaseAgent) Store() *knowledge.Store { return b.store }

// State returns the current lifecycle state.
func (b *BaseAgent) State() core.AgentState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// SetState forces a lifecycle state.
func (b *BaseAgent) SetState(state core.AgentState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
}

// MarkFailed transitions the agent to StateFailed recording the cause and
// the current time.
func (b *BaseAgent) MarkFailed(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = core.StateFailed
	b.failure = &core.Failure{Err: err, At: time.Now()}
}

// LastFailure returns the most recent execution failure, or nil.
func (b *BaseAgent) LastFailure() *core.Failure {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failure
}

// Attach binds the router used by SendMessage. Called by the orchestrator
// during registration.
func (b *BaseAgent) Attach(router core.MessageRouter) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.router = router
}

// Initialize resets the agent to StateIdle. Idempotent; variants overriding
// it should keep that property.
func (b *BaseAgent) Initialize() error {
	b.SetState(core.StateIdle)
	return nil
}

// Shutdown forces StateCompleted regardless of the prior state.
func (b *BaseAgent) Shutdown() {
	b.SetState(core.StateCompleted)
}

// OnMessage ignores the message. Variants override it to react to traffic.
func (b *BaseAgent) OnMessage(core.Message) {}

// SendMessage builds a message stamped with this agent's id and the current
// time and forwards it to the attached orchestrator's routing queue. A
// silent no-op when the agent is not attached.
func (b *BaseAgent) SendMessage(to, msgType, payload string) {
	b.mu.Lock()
	router := b.router
	b.mu.Unlock()

	if router == nil {
		return
	}
	router.RouteMessage(core.NewMessage(b.id, to, msgType, payload))
}
