package repogen

import "sync"

// Cache stores lowered queries keyed by entity, method and dialect so a
// generation pass that sees the same method signature twice (shared base
// repositories, repeated runs in watch mode) can skip the tokenize/parse/emit
// pipeline. Implementations must be safe for concurrent use; the generation
// pass runs method pipelines in parallel.
type Cache interface {
	// Get retrieves an encoded entry. The second result reports whether
	// the key was present.
	Get(key string) ([]byte, bool)

	// Set stores an encoded entry.
	Set(key string, value []byte)
}

// CacheKey identifies one lowered query. Entity is the entity fingerprint,
// not just its name, so metadata edits invalidate prior entries.
type CacheKey struct {
	Entity  string
	Method  string
	Dialect string
}

// String returns the string form used as the cache key.
func (k CacheKey) String() string {
	return k.Entity + ":" + k.Method + ":" + k.Dialect
}

// MemoryCache is an in-process Cache for a single generation pass.
type MemoryCache struct {
	mu sync.RWMutex
	m  map[string][]byte
}

// NewMemoryCache returns an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{m: make(map[string][]byte)}
}

// Get implements Cache.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.m[key]
	return v, ok
}

// Set implements Cache.
func (c *MemoryCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
}

// Len reports the number of stored entries.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}
