package pref

import "sync"

// Cache holds the authoritative in-memory value for every preference key.
// It is an explicit, injectable store rather than process-global state so
// tests and embedders can construct isolated instances.
//
// Writes are last-write-wins per key with no transactional grouping across
// keys. A write is visible to every subsequent read before any backing
// persistence completes.
type Cache struct {
	mu     sync.RWMutex
	values map[string]Value
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{values: make(map[string]Value)}
}

// Get returns the cached value for key, or def when the key has never been
// written. Absence is not an error.
func (c *Cache) Get(key string, def Value) Value {
	c.mu.RLock()
	defer c.mu.RUnlock()

	v, ok := c.values[key]
	if !ok {
		return def
	}
	return v
}

// Has reports whether key has been written during this session.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.values[key]
	return ok
}

// Set writes the value for key, overwriting any previous value.
func (c *Cache) Set(key string, v Value) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = v
}

// Len returns the number of keys written so far.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.values)
}

// Snapshot returns a copy of the current key/value mapping.
func (c *Cache) Snapshot() map[string]Value {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]Value, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out
}
