// Package agent provides the building blocks for agent variants: BaseAgent
// (identity, tenant store binding and the guarded lifecycle state machine),
// the Factory mapping type tags to constructors, and ModelAgent, an
// LLM-backed variant that grows its tenant's knowledge store from model
// completions.
//
// A concrete variant embeds BaseAgent and supplies Execute:
//
//	type CounterAgent struct {
//		agent.BaseAgent
//		count int
//	}
//
//	func (a *CounterAgent) Execute(ctx context.Context) error {
//		a.count++
//		return nil
//	}
//
// Execute and OnMessage only ever run on the orchestrator's single worker,
// so variant-local state like the counter above needs no locking unless it
// is also read from other goroutines.
package agent
