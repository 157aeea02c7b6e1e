// Package core defines the shared contracts of the cogmesh framework: the
// Agent capability set, the inter-agent Message value type, agent lifecycle
// states and the MessageRouter abstraction that decouples agents from the
// orchestrator implementation. Higher-level packages (agent, orchestrator,
// knowledge) depend on core; core depends on nothing but the standard
// library and uuid.
package core
