// Package observability provides hooks for metrics, tracing, and logging.
//
// Graphshake libraries emit events through globally registered hooks so that
// the CLI or an embedding build system can attach a backend (Prometheus,
// OpenTelemetry, plain logs) without the libraries importing it.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetShakeHooks(&myShakeHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Shake().OnShakeStart(ctx, entry, nodeCount)
//	// ... run the engine ...
//	observability.Shake().OnShakeComplete(ctx, entry, chunkCount, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Shake Hooks
// =============================================================================

// ShakeHooks receives events from the tree-shake driver.
type ShakeHooks interface {
	// Run events
	OnShakeStart(ctx context.Context, entry string, nodeCount int)
	OnShakeComplete(ctx context.Context, entry string, chunkCount int, duration time.Duration, err error)

	// Per-module events
	OnShim(ctx context.Context, id string, exportCount int)
	OnMerge(ctx context.Context, id string, dependencyCount int)
}

// =============================================================================
// Transpile Hooks
// =============================================================================

// TranspileHooks receives events from the transpile stage.
type TranspileHooks interface {
	OnTranspile(ctx context.Context, id string, cached bool, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopShakeHooks is a no-op implementation of ShakeHooks.
type NoopShakeHooks struct{}

func (NoopShakeHooks) OnShakeStart(context.Context, string, int) {}
func (NoopShakeHooks) OnShakeComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopShakeHooks) OnShim(context.Context, string, int)  {}
func (NoopShakeHooks) OnMerge(context.Context, string, int) {}

// NoopTranspileHooks is a no-op implementation of TranspileHooks.
type NoopTranspileHooks struct{}

func (NoopTranspileHooks) OnTranspile(context.Context, string, bool, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	shakeHooks     ShakeHooks     = NoopShakeHooks{}
	transpileHooks TranspileHooks = NoopTranspileHooks{}
	cacheHooks     CacheHooks     = NoopCacheHooks{}
	hooksMu        sync.RWMutex
)

// SetShakeHooks registers custom shake hooks.
// This should be called once at application startup before any run.
func SetShakeHooks(h ShakeHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		shakeHooks = h
	}
}

// SetTranspileHooks registers custom transpile hooks.
func SetTranspileHooks(h TranspileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		transpileHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Shake returns the registered shake hooks.
func Shake() ShakeHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return shakeHooks
}

// Transpile returns the registered transpile hooks.
func Transpile() TranspileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return transpileHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	shakeHooks = NoopShakeHooks{}
	transpileHooks = NoopTranspileHooks{}
	cacheHooks = NoopCacheHooks{}
}
