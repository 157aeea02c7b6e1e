// Package logging provides a minimal logging interface and adapters for
// cogmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the orchestrator, registry and agents use for
// observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.New(logging.LevelDebug, "text")
//	orch := orchestrator.New(func(o *orchestrator.Options) { o.Logger = logger })
//
// The core emits no mandatory log channel: every component defaults to
// NoOpLogger, and log output is purely diagnostic, never a semantic error
// surface.
package logging
