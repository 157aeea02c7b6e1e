// Package cogmesh provides a high-level façade over the knowledge registry,
// agent factory and orchestrator, enabling rapid construction of
// multi-tenant cognitive agent systems. Most applications interact with this
// package by:
//  1. Creating a CogMesh via New() (optionally overriding registry, factory or logger)
//  2. Registering agent instances (or spawning them by type tag via the factory)
//  3. Starting the orchestrator and driving it with ScheduleAgent / messages
//
// The façade delegates coordination to orchestrator.Orchestrator while
// keeping setup ergonomics concise. All defaults are safe for local
// development and testing.
package cogmesh

import (
	"fmt"
	"time"

	"github.com/hupe1980/cogmesh/agent"
	"github.com/hupe1980/cogmesh/core"
	"github.com/hupe1980/cogmesh/knowledge"
	"github.com/hupe1980/cogmesh/logging"
	"github.com/hupe1980/cogmesh/orchestrator"
)

// Options configures the CogMesh instance.
type Options struct {
	// Registry holds the tenant knowledge stores. Defaults to a fresh
	// registry; pass a shared one to compose with host tooling.
	Registry *knowledge.Registry

	// Factory maps agent type tags to constructors for SpawnAgent.
	// Defaults to an empty factory.
	Factory *agent.Factory

	// PollInterval is the orchestrator worker's fallback tick.
	PollInterval time.Duration

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger
}

// CogMesh is the high-level façade aggregating the registry, factory and
// orchestrator.
type CogMesh struct {
	registry     *knowledge.Registry
	factory      *agent.Factory
	orchestrator *orchestrator.Orchestrator
}

// New creates a new CogMesh instance with optional overrides. Any unset
// collaborator is initialized with a default instance; nothing here is a
// process-wide singleton, so independent meshes can coexist in one process.
func New(optFns ...func(o *Options)) *CogMesh {
	opts := Options{
		PollInterval: orchestrator.DefaultPollInterval,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Registry == nil {
		opts.Registry = knowledge.NewRegistry(func(o *knowledge.RegistryOptions) {
			o.Logger = opts.Logger
		})
	}
	if opts.Factory == nil {
		opts.Factory = agent.NewFactory()
	}

	orch := orchestrator.New(func(o *orchestrator.Options) {
		o.PollInterval = opts.PollInterval
		o.Logger = opts.Logger
	})

	return &CogMesh{
		registry:     opts.Registry,
		factory:      opts.Factory,
		orchestrator: orch,
	}
}

// Registry returns the tenant store registry.
func (m *CogMesh) Registry() *knowledge.Registry { return m.registry }

// Factory returns the agent type factory.
func (m *CogMesh) Factory() *agent.Factory { return m.factory }

// Orchestrator returns the underlying orchestrator for direct control.
func (m *CogMesh) Orchestrator() *orchestrator.Orchestrator { return m.orchestrator }

// RegisterAgent adds an agent instance to the orchestrator.
func (m *CogMesh) RegisterAgent(a core.Agent) bool { return m.orchestrator.RegisterAgent(a) }

// SpawnAgent constructs an agent of the given type via the factory and
// registers it.
func (m *CogMesh) SpawnAgent(typeTag, agentID, tenantID string) (core.Agent, error) {
	a, err := m.factory.Create(typeTag, agentID, tenantID)
	if err != nil {
		return nil, err
	}
	if !m.orchestrator.RegisterAgent(a) {
		return nil, fmt.Errorf("register agent %q: id already registered or initialize failed", agentID)
	}
	return a, nil
}

// Start launches the orchestrator worker.
func (m *CogMesh) Start() { m.orchestrator.Start() }

// Stop halts the orchestrator worker, blocking until it exits.
func (m *CogMesh) Stop() { m.orchestrator.Stop() }
