package knowledge

import (
	"sync"

	"github.com/hupe1980/cogmesh/logging"
)

// RegistryOptions configures a Registry.
type RegistryOptions struct {
	// Logger receives diagnostic output; defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry lazily maps tenant ids to store instances. It is a plain value
// created at the composition root and passed to whatever needs it; there is
// no process-wide singleton, so parallel tests can each own an independent
// registry.
//
// Stores are shared by reference: a store obtained before Remove stays
// usable by agents that still hold it, the registry merely forgets it.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*Store
	logger logging.Logger
}

// NewRegistry constructs an empty registry with optional overrides.
func NewRegistry(optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{stores: make(map[string]*Store), logger: opts.Logger}
}

// GetOrCreate returns the tenant's store, creating it on first reference.
// Idempotent: two calls with the same tenant id yield the same instance
// until the tenant is removed.
func (r *Registry) GetOrCreate(tenantID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	if store, ok := r.stores[tenantID]; ok {
		return store
	}

	store := NewStore(tenantID)
	r.stores[tenantID] = store
	r.logger.Debug("knowledge store created", "tenant_id", tenantID)
	return store
}

// Get returns the tenant's store or false; it never creates.
func (r *Registry) Get(tenantID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	store, ok := r.stores[tenantID]
	return store, ok
}

// Remove detaches the registry's reference to the tenant's store, reporting
// whether an entry existed.
func (r *Registry) Remove(tenantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.stores[tenantID]; !ok {
		return false
	}
	delete(r.stores, tenantID)
	r.logger.Debug("knowledge store removed", "tenant_id", tenantID)
	return true
}

// TenantIDs returns a snapshot of the registered tenant ids, order
// unspecified.
func (r *Registry) TenantIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.stores))
	for id := range r.stores {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of registered tenants.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}
