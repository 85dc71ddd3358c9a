// Package observability provides hooks for metrics and tracing.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about figure composition and file output.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetSinkHooks(&mySinkHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnComposeStart(base)
//	// ... load and add layers ...
//	observability.Pipeline().OnComposeComplete(base, layers, duration, err)
package observability

import (
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from recipe execution.
type PipelineHooks interface {
	// Compose events. layers counts drapes, point sets, polygon layers and
	// label layers added over the base.
	OnComposeStart(base string)
	OnComposeComplete(base string, layers int, duration time.Duration, err error)
	// Save events
	OnSaveStart(path string)
	OnSaveComplete(path string, duration time.Duration, err error)
}

// =============================================================================
// Sink Hooks
// =============================================================================

// SinkHooks receives events from figure file output.
type SinkHooks interface {
	// OnWrite records a completed atomic write.
	OnWrite(path, format string, size int64)
	// OnWriteError records a failed write; no file was left behind.
	OnWriteError(path, format string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnComposeStart(string)                               {}
func (NoopPipelineHooks) OnComposeComplete(string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnSaveStart(string)                                  {}
func (NoopPipelineHooks) OnSaveComplete(string, time.Duration, error)         {}

// NoopSinkHooks is a no-op implementation of SinkHooks.
type NoopSinkHooks struct{}

func (NoopSinkHooks) OnWrite(string, string, int64)      {}
func (NoopSinkHooks) OnWriteError(string, string, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	sinkHooks     SinkHooks     = NoopSinkHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any recipe runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetSinkHooks registers custom sink hooks.
func SetSinkHooks(h SinkHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		sinkHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Sink returns the registered sink hooks.
func Sink() SinkHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return sinkHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	sinkHooks = NoopSinkHooks{}
}
