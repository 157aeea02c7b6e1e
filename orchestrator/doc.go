// Package orchestrator coordinates agents: it owns the agent registry, the
// FIFO message bus and the single worker goroutine that delivers messages
// and executes scheduled agents one at a time.
//
// Registration, routing and scheduling may be called from any goroutine;
// agent Execute and OnMessage bodies only ever run on the worker, so they
// never overlap with each other. A hung agent therefore stalls the whole
// mesh: there is no timeout or mid-execution cancellation.
package orchestrator
