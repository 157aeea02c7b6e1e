package agent

import (
	"fmt"
	"sync"

	"github.com/hupe1980/cogmesh/core"
)

// Constructor builds an agent variant bound to an agent id and tenant id.
// Constructors typically close over a knowledge.Registry and any other
// collaborators the variant needs.
type Constructor func(agentID, tenantID string) (core.Agent, error)

// Factory maps agent type tags to constructors. It is a plain value owned by
// the composition root (no process-wide singleton); create one per process
// or per test. Safe for concurrent use.
type Factory struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewFactory constructs an empty factory.
func NewFactory() *Factory {
	return &Factory{constructors: make(map[string]Constructor)}
}

// Register binds a constructor to a type tag, replacing any previous
// binding.
func (f *Factory) Register(typeTag string, ctor Constructor) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.constructors[typeTag] = ctor
}

// Create builds an agent of the named type. Returns an error for an unknown
// type tag or when the constructor itself fails.
func (f *Factory) Create(typeTag, agentID, tenantID string) (core.Agent, error) {
	f.mu.RLock()
	ctor, ok := f.constructors[typeTag]
	f.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown agent type %q", typeTag)
	}
	a, err := ctor(agentID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("construct agent %q of type %q: %w", agentID, typeTag, err)
	}
	return a, nil
}

// Types returns a snapshot of the registered type tags, order unspecified.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.constructors))
	for tag := range f.constructors {
		types = append(types, tag)
	}
	return types
}
