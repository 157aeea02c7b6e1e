package knowledge

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_GetOrCreateIdentity(t *testing.T) {
	registry := NewRegistry()

	first := registry.GetOrCreate("t1")
	second := registry.GetOrCreate("t1")
	assert.Same(t, first, second)
	assert.Equal(t, "t1", first.TenantID())
}

func TestRegistry_TenantIsolation(t *testing.T) {
	registry := NewRegistry()

	a := registry.GetOrCreate("ta")
	b := registry.GetOrCreate("tb")

	atom := a.AddNode(ConceptNode, "secret")
	_, ok := b.GetAtom(atom.ID())
	assert.False(t, ok)
	_, ok = b.GetAtomByName("secret")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Size())
}

func TestRegistry_GetNeverCreates(t *testing.T) {
	registry := NewRegistry()

	_, ok := registry.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, registry.Count())

	registry.GetOrCreate("t1")
	store, ok := registry.Get("t1")
	require.True(t, ok)
	assert.Equal(t, "t1", store.TenantID())
}

func TestRegistry_RemoveDetachesButStoreSurvives(t *testing.T) {
	registry := NewRegistry()

	store := registry.GetOrCreate("t1")
	store.AddNode(ConceptNode, "kept")

	assert.True(t, registry.Remove("t1"))
	assert.False(t, registry.Remove("t1"))

	// Holders of the old reference keep a usable store.
	assert.Equal(t, 1, store.Size())

	// A re-created tenant gets a fresh instance.
	fresh := registry.GetOrCreate("t1")
	assert.NotSame(t, store, fresh)
	assert.Equal(t, 0, fresh.Size())
}

func TestRegistry_TenantIDsAndCount(t *testing.T) {
	registry := NewRegistry()
	registry.GetOrCreate("a")
	registry.GetOrCreate("b")
	registry.GetOrCreate("a")

	assert.Equal(t, 2, registry.Count())
	assert.ElementsMatch(t, []string{"a", "b"}, registry.TenantIDs())
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	registry := NewRegistry()

	stores := make([]*Store, 50)
	wg := sync.WaitGroup{}
	for i := range stores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			stores[i] = registry.GetOrCreate(fmt.Sprintf("t%d", i%5))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 5, registry.Count())
	for i := range stores {
		assert.Same(t, stores[i%5], stores[i], "same tenant must yield same instance")
	}
}
