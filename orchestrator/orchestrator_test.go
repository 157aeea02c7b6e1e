package orchestrator

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hupe1980/cogmesh/agent"
	"github.com/hupe1980/cogmesh/core"
	"github.com/hupe1980/cogmesh/knowledge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAgent is a testify mock over the full core.Agent surface, used where
// the tests need to script lifecycle results.
type MockAgent struct {
	mock.Mock
	id     string
	tenant string
}

func NewMockAgent(id, tenant string) *MockAgent { return &MockAgent{id: id, tenant: tenant} }

func (m *MockAgent) ID() string       { return m.id }
func (m *MockAgent) TenantID() string { return m.tenant }

func (m *MockAgent) Initialize() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockAgent) Execute(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockAgent) Shutdown() { m.Called() }

func (m *MockAgent) OnMessage(msg core.Message) { m.Called(msg) }

func (m *MockAgent) State() core.AgentState {
	args := m.Called()
	return args.Get(0).(core.AgentState)
}

func (m *MockAgent) SetState(state core.AgentState) { m.Called(state) }

func (m *MockAgent) MarkFailed(err error) { m.Called(err) }

func (m *MockAgent) LastFailure() *core.Failure {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*core.Failure)
}

func (m *MockAgent) Attach(router core.MessageRouter) { m.Called(router) }

// workerAgent counts executions and records received messages. Counters are
// atomic / mutex guarded because tests read them while the worker writes.
type workerAgent struct {
	agent.BaseAgent

	executions atomic.Int32
	execErr    error

	mu       sync.Mutex
	received []core.Message
}

func newWorkerAgent(id, tenantID string, registry *knowledge.Registry) *workerAgent {
	return &workerAgent{BaseAgent: agent.NewBaseAgent(id, tenantID, registry)}
}

func (a *workerAgent) Execute(context.Context) error {
	a.executions.Add(1)
	return a.execErr
}

func (a *workerAgent) OnMessage(msg core.Message) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.received = append(a.received, msg)
}

func (a *workerAgent) messages() []core.Message {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Message, len(a.received))
	copy(out, a.received)
	return out
}

// panicAgent panics on execution.
type panicAgent struct {
	agent.BaseAgent
}

func (a *panicAgent) Execute(context.Context) error { panic("unhinged") }

func newOrchestrator() *Orchestrator {
	return New(func(o *Options) { o.PollInterval = time.Millisecond })
}

func TestOrchestrator_RegisterAgent(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	a1 := newWorkerAgent("a1", "t1", registry)
	assert.True(t, orch.RegisterAgent(a1))
	assert.False(t, orch.RegisterAgent(nil))

	// Duplicate id is rejected and the existing registration is untouched.
	dup := newWorkerAgent("a1", "t2", registry)
	assert.False(t, orch.RegisterAgent(dup))
	got, ok := orch.GetAgent("a1")
	require.True(t, ok)
	assert.Equal(t, "t1", got.TenantID())
}

func TestOrchestrator_RegisterAgentInitializeFailure(t *testing.T) {
	orch := newOrchestrator()

	a := NewMockAgent("a1", "t1")
	a.On("Attach", mock.Anything).Once()
	a.On("Initialize").Return(errors.New("no store")).Once()

	assert.False(t, orch.RegisterAgent(a), "Initialize result is propagated")
	a.AssertExpectations(t)
}

func TestOrchestrator_UnregisterAgent(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	a1 := newWorkerAgent("a1", "t1", registry)
	require.True(t, orch.RegisterAgent(a1))

	assert.True(t, orch.UnregisterAgent("a1"))
	assert.Equal(t, core.StateCompleted, a1.State(), "unregistration shuts the agent down")

	_, ok := orch.GetAgent("a1")
	assert.False(t, ok)
	assert.False(t, orch.UnregisterAgent("a1"))
}

func TestOrchestrator_AgentsByTenant(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	orch.RegisterAgent(newWorkerAgent("a1", "t1", registry))
	orch.RegisterAgent(newWorkerAgent("a2", "t1", registry))
	orch.RegisterAgent(newWorkerAgent("a3", "t2", registry))

	assert.Len(t, orch.AgentsByTenant("t1"), 2)
	assert.Len(t, orch.AgentsByTenant("t2"), 1)
	assert.Empty(t, orch.AgentsByTenant("t3"))
}

func TestOrchestrator_MessageDelivery(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	a1 := newWorkerAgent("agent1", "t1", registry)
	a2 := newWorkerAgent("agent2", "t1", registry)
	require.True(t, orch.RegisterAgent(a1))
	require.True(t, orch.RegisterAgent(a2))

	a1.SendMessage("agent2", "greeting", "hi")

	orch.Start()
	defer orch.Stop()

	require.Eventually(t, func() bool { return len(a2.messages()) == 1 },
		time.Second, time.Millisecond)

	msg := a2.messages()[0]
	assert.Equal(t, "agent1", msg.From)
	assert.Equal(t, "agent2", msg.To)
	assert.Equal(t, "greeting", msg.Type)
	assert.Equal(t, "hi", msg.Payload)

	// Delivered exactly once.
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, a2.messages(), 1)
	assert.Empty(t, a1.messages())
}

func TestOrchestrator_MessageOrderingFIFO(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	sink := newWorkerAgent("sink", "t1", registry)
	require.True(t, orch.RegisterAgent(sink))

	payloads := []string{"one", "two", "three", "four"}
	for _, p := range payloads {
		orch.RouteMessage(core.NewMessage("ext", "sink", "seq", p))
	}

	orch.Start()
	defer orch.Stop()

	require.Eventually(t, func() bool { return len(sink.messages()) == len(payloads) },
		time.Second, time.Millisecond)
	for i, msg := range sink.messages() {
		assert.Equal(t, payloads[i], msg.Payload)
	}
}

func TestOrchestrator_MessageToUnknownAgentDropped(t *testing.T) {
	orch := newOrchestrator()
	orch.RouteMessage(core.NewMessage("ext", "ghost", "x", "y"))

	orch.Start()
	time.Sleep(20 * time.Millisecond)
	orch.Stop()
	// Nothing to assert beyond "no panic, worker kept going".
	assert.False(t, orch.IsRunning())
}

func TestOrchestrator_Broadcast(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	agents := make([]*workerAgent, 4)
	ids := []string{"a1", "a2", "a3", "a4"}
	for i, id := range ids {
		agents[i] = newWorkerAgent(id, "t1", registry)
		require.True(t, orch.RegisterAgent(agents[i]))
	}

	orch.BroadcastMessage("a1", "announce", "all hands")

	orch.Start()
	defer orch.Stop()

	// Exactly N-1 messages, none to the sender.
	require.Eventually(t, func() bool {
		total := 0
		for _, a := range agents {
			total += len(a.messages())
		}
		return total == 3
	}, time.Second, time.Millisecond)

	assert.Empty(t, agents[0].messages())
	for _, a := range agents[1:] {
		require.Len(t, a.messages(), 1)
		assert.Equal(t, "a1", a.messages()[0].From)
		assert.Equal(t, a.ID(), a.messages()[0].To)
	}
}

func TestOrchestrator_ScheduledExecution(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	a1 := newWorkerAgent("a1", "t1", registry)
	require.True(t, orch.RegisterAgent(a1))

	orch.Start()
	defer orch.Stop()

	orch.ScheduleAgent("a1")

	require.Eventually(t, func() bool { return a1.executions.Load() == 1 },
		time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return a1.State() == core.StateIdle },
		time.Second, time.Millisecond)
}

func TestOrchestrator_ScheduleNonIdleOrUnknownDropped(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	a1 := newWorkerAgent("a1", "t1", registry)
	require.True(t, orch.RegisterAgent(a1))
	a1.SetState(core.StateRunning)

	orch.Start()
	defer orch.Stop()

	orch.ScheduleAgent("a1")    // non-idle: consumed, not serviced
	orch.ScheduleAgent("ghost") // unknown: consumed, not serviced

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(0), a1.executions.Load())
	assert.Equal(t, core.StateRunning, a1.State())
}

func TestOrchestrator_FailedAgentRecordsCauseAndStaysFailed(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	a1 := newWorkerAgent("a1", "t1", registry)
	a1.execErr = errors.New("boom")
	require.True(t, orch.RegisterAgent(a1))

	orch.Start()
	defer orch.Stop()

	orch.ScheduleAgent("a1")
	require.Eventually(t, func() bool { return a1.State() == core.StateFailed },
		time.Second, time.Millisecond)

	failure := a1.LastFailure()
	require.NotNil(t, failure)
	assert.ErrorContains(t, failure.Err, "boom")
	assert.False(t, failure.At.IsZero())

	// A failed agent is never rescheduled until externally reset.
	orch.ScheduleAgent("a1")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), a1.executions.Load())

	require.NoError(t, a1.Initialize())
	orch.ScheduleAgent("a1")
	require.Eventually(t, func() bool { return a1.executions.Load() == 2 },
		time.Second, time.Millisecond)
}

func TestOrchestrator_PanicContained(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	bad := &panicAgent{BaseAgent: agent.NewBaseAgent("bad", "t1", registry)}
	good := newWorkerAgent("good", "t1", registry)
	require.True(t, orch.RegisterAgent(bad))
	require.True(t, orch.RegisterAgent(good))

	orch.Start()
	defer orch.Stop()

	orch.ScheduleAgent("bad")
	orch.ScheduleAgent("good")

	require.Eventually(t, func() bool { return bad.State() == core.StateFailed },
		time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return good.executions.Load() == 1 },
		time.Second, time.Millisecond)

	failure := bad.LastFailure()
	require.NotNil(t, failure)
	assert.ErrorContains(t, failure.Err, "agent panic")
}

func TestOrchestrator_StartStopIdempotent(t *testing.T) {
	orch := newOrchestrator()

	assert.False(t, orch.IsRunning())
	orch.Start()
	orch.Start()
	assert.True(t, orch.IsRunning())

	orch.Stop()
	orch.Stop()
	assert.False(t, orch.IsRunning())

	// Restart works.
	orch.Start()
	assert.True(t, orch.IsRunning())
	orch.Stop()
	assert.False(t, orch.IsRunning())
}

func TestOrchestrator_ConcurrentRoutingAndScheduling(t *testing.T) {
	orch := newOrchestrator()
	registry := knowledge.NewRegistry()

	sink := newWorkerAgent("sink", "t1", registry)
	require.True(t, orch.RegisterAgent(sink))

	orch.Start()
	defer orch.Stop()

	wg := sync.WaitGroup{}
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			orch.RouteMessage(core.NewMessage("ext", "sink", "load", "x"))
			orch.ScheduleAgent("sink")
		}()
	}
	wg.Wait()

	require.Eventually(t, func() bool { return len(sink.messages()) == 20 },
		time.Second, time.Millisecond)
	require.Eventually(t, func() bool { return sink.executions.Load() == 20 },
		time.Second, time.Millisecond)
}
