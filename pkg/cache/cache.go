// Package cache stores transpile results between graphshake runs.
//
// Transpiling a module is the most expensive step of a tree-shake run that
// does not depend on the rest of the graph, so its output (code, source map
// and import manifest) is cached by a content hash of the module source and
// the effective transform options.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for build machines
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long transpile results are kept.
const DefaultTTL = 7 * 24 * time.Hour

// keyVersion is bumped whenever the cached transpile payload changes shape.
const keyVersion = "v1"

// TranspileKey returns the cache key for the transpile result of module id
// with the given source and options. opts must be JSON-serializable.
func TranspileKey(id, source string, opts any) string {
	return hashKey("transpile:"+keyVersion, id, Hash([]byte(source)), opts)
}
