package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/cogmesh/core"
	"github.com/hupe1980/cogmesh/logging"
)

// DefaultPollInterval bounds worst-case event latency when no wake signal
// arrives.
const DefaultPollInterval = 10 * time.Millisecond

// Options configures an Orchestrator.
type Options struct {
	// PollInterval is the worker's liveness fallback tick. Routing and
	// scheduling wake the worker immediately; the tick only bounds latency
	// if a signal is ever missed.
	PollInterval time.Duration

	// Logger receives diagnostic output; defaults to NoOpLogger. Log
	// output is not a semantic error channel: callers observe failures
	// only through state inspection and boolean returns.
	Logger logging.Logger
}

// Orchestrator is the agent registry, message bus and single-worker
// scheduler. Zero or one worker runs at any time, started by Start and
// stopped by Stop.
//
// Locking discipline: agentsMu guards the registry, queueMu guards both
// queues. Paths touching both (BroadcastMessage) take agentsMu before
// queueMu, never the reverse. Neither lock is held while calling into agent
// code, with one documented exception: the registry lock is held during
// RegisterAgent's Initialize call, so Initialize must not call back into the
// orchestrator.
type Orchestrator struct {
	pollInterval time.Duration
	logger       logging.Logger

	agentsMu sync.RWMutex
	agents   map[string]core.Agent

	queueMu   sync.Mutex
	messages  []core.Message
	scheduled []string

	// wake has capacity 1; RouteMessage and ScheduleAgent signal it so the
	// worker reacts without waiting out the poll interval.
	wake chan struct{}

	runMu   sync.Mutex
	running bool
	cancel  context.CancelFunc
	stop    chan struct{}
	done    chan struct{}
}

// New constructs a stopped Orchestrator with optional overrides.
func New(optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		PollInterval: DefaultPollInterval,
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Orchestrator{
		pollInterval: opts.PollInterval,
		logger:       opts.Logger,
		agents:       make(map[string]core.Agent),
		wake:         make(chan struct{}, 1),
	}
}

// RegisterAgent binds the orchestrator into the agent, inserts it into the
// registry and calls its Initialize, propagating the result. Returns false
// with no side effect for a nil agent or a duplicate id.
func (o *Orchestrator) RegisterAgent(a core.Agent) bool {
	if a == nil {
		return false
	}

	o.agentsMu.Lock()
	defer o.agentsMu.Unlock()

	if _, exists := o.agents[a.ID()]; exists {
		return false
	}

	a.Attach(o)
	o.agents[a.ID()] = a

	if err := a.Initialize(); err != nil {
		o.logger.Warn("agent initialize failed", "agent_id", a.ID(), "error", err)
		return false
	}

	o.logger.Debug("agent registered", "agent_id", a.ID(), "tenant_id", a.TenantID())
	return true
}

// UnregisterAgent shuts the agent down and removes it from the registry.
// Returns false if the id is unknown.
func (o *Orchestrator) UnregisterAgent(agentID string) bool {
	o.agentsMu.Lock()
	defer o.agentsMu.Unlock()

	a, ok := o.agents[agentID]
	if !ok {
		return false
	}

	a.Shutdown()
	delete(o.agents, agentID)
	o.logger.Debug("agent unregistered", "agent_id", agentID)
	return true
}

// GetAgent returns the registered agent with the given id, or false.
func (o *Orchestrator) GetAgent(agentID string) (core.Agent, bool) {
	o.agentsMu.RLock()
	defer o.agentsMu.RUnlock()
	a, ok := o.agents[agentID]
	return a, ok
}

// AgentsByTenant returns a snapshot of the registered agents bound to the
// given tenant, order unspecified.
func (o *Orchestrator) AgentsByTenant(tenantID string) []core.Agent {
	o.agentsMu.RLock()
	defer o.agentsMu.RUnlock()

	var result []core.Agent
	for _, a := range o.agents {
		if a.TenantID() == tenantID {
			result = append(result, a)
		}
	}
	return result
}

// RouteMessage appends the message to the delivery queue. Always succeeds;
// the queue is bounded only by memory. Delivery is FIFO in routing order,
// globally across all senders.
func (o *Orchestrator) RouteMessage(msg core.Message) {
	o.queueMu.Lock()
	o.messages = append(o.messages, msg)
	o.queueMu.Unlock()
	o.signalWake()
}

// BroadcastMessage routes one individually addressed message to every
// registered agent except the sender: exactly N-1 messages for N registered
// agents. Holds the registry lock before the queue lock, per the package
// lock order.
func (o *Orchestrator) BroadcastMessage(from, msgType, payload string) {
	o.agentsMu.RLock()
	defer o.agentsMu.RUnlock()

	for id := range o.agents {
		if id == from {
			continue
		}
		o.RouteMessage(core.NewMessage(from, id, msgType, payload))
	}
}

// ScheduleAgent queues one execution request for the named agent. Existence
// is not validated here but at dispatch time: a request naming an unknown or
// non-idle agent is consumed and silently dropped, never requeued.
func (o *Orchestrator) ScheduleAgent(agentID string) {
	o.queueMu.Lock()
	o.scheduled = append(o.scheduled, agentID)
	o.queueMu.Unlock()
	o.signalWake()
}

// Start spawns the worker. Idempotent; a second Start while running is a
// no-op.
func (o *Orchestrator) Start() {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	if o.running {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.stop = make(chan struct{})
	o.done = make(chan struct{})
	o.running = true

	go o.loop(ctx, o.stop, o.done)
	o.logger.Info("orchestrator started")
}

// Stop signals the worker and blocks until it exits. Cancellation is
// cooperative at loop-iteration granularity: an in-flight Execute always
// runs to completion first. Idempotent.
func (o *Orchestrator) Stop() {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	if !o.running {
		return
	}

	close(o.stop)
	<-o.done
	o.cancel()
	o.running = false
	o.logger.Info("orchestrator stopped")
}

// IsRunning reports whether the worker is active.
func (o *Orchestrator) IsRunning() bool {
	o.runMu.Lock()
	defer o.runMu.Unlock()
	return o.running
}

func (o *Orchestrator) signalWake() {
	select {
	case o.wake <- struct{}{}:
	default:
	}
}

// loop is the single worker: each iteration drains the whole message queue
// in FIFO order, then pops and services at most one scheduled agent, then
// blocks until woken or the fallback tick fires.
func (o *Orchestrator) loop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for {
		o.drainMessages()
		o.runOneScheduled(ctx)

		if o.pendingWork() {
			o.signalWake()
		}

		select {
		case <-stop:
			return
		case <-o.wake:
		case <-ticker.C:
		}
	}
}

// drainMessages snapshots the queue under the lock, then delivers outside it
// so OnMessage bodies never run under a lock domain.
func (o *Orchestrator) drainMessages() {
	o.queueMu.Lock()
	pending := o.messages
	o.messages = nil
	o.queueMu.Unlock()

	for _, msg := range pending {
		a, ok := o.GetAgent(msg.To)
		if !ok {
			o.logger.Debug("message dropped, unknown destination",
				"to", msg.To, "from", msg.From, "type", msg.Type)
			continue
		}
		a.OnMessage(msg)
	}
}

// runOneScheduled pops one schedule request and executes its agent if it
// exists and is exactly idle; otherwise the request is dropped with no
// feedback.
func (o *Orchestrator) runOneScheduled(ctx context.Context) {
	o.queueMu.Lock()
	if len(o.scheduled) == 0 {
		o.queueMu.Unlock()
		return
	}
	agentID := o.scheduled[0]
	o.scheduled = o.scheduled[1:]
	o.queueMu.Unlock()

	a, ok := o.GetAgent(agentID)
	if !ok || a.State() != core.StateIdle {
		o.logger.Debug("schedule request dropped", "agent_id", agentID, "known", ok)
		return
	}

	a.SetState(core.StateRunning)
	if err := o.execute(ctx, a); err != nil {
		a.MarkFailed(err)
		o.logger.Warn("agent execution failed", "agent_id", agentID, "error", err)
		return
	}
	a.SetState(core.StateIdle)
}

// execute contains panics raised by agent code, converting them to errors so
// one poisoned agent cannot take down the worker.
func (o *Orchestrator) execute(ctx context.Context, a core.Agent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent panic: %v", r)
		}
	}()
	return a.Execute(ctx)
}

func (o *Orchestrator) pendingWork() bool {
	o.queueMu.Lock()
	defer o.queueMu.Unlock()
	return len(o.messages) > 0 || len(o.scheduled) > 0
}
