// Package knowledge implements the per-tenant knowledge store: a typed,
// triple-indexed collection of atoms (nodes and links) with probabilistic
// truth values, plus the Registry that lazily maps tenant ids to store
// instances.
//
// A Store indexes every atom three ways (by id, by name, by type) under one
// exclusive lock, so arbitrary concurrent callers are safe at the cost of
// serializing all traffic for a tenant. Atoms are created only through the
// store's factory operations (AddNode, AddLink) and carry process-wide
// unique, monotonically increasing ids regardless of which store created
// them.
//
// The store is deliberately volatile: there is no persistence, replication
// or authentication here. Hosts needing durability should snapshot through
// Query and rebuild on boot.
package knowledge
