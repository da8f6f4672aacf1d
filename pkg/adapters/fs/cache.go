package fs

import (
	"sync"
	"time"
)

// cacheEntry holds a decoded payload and the modification time it was read at.
type cacheEntry struct {
	Payload      map[string]any
	LastModified time.Time
}

// cache keeps decoded fixtures in memory, keyed by relative path (e.g. "corpus/doc.data.js").
type cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	hits    uint64
	misses  uint64
}

func newCache() *cache {
	return &cache{entries: make(map[string]*cacheEntry)}
}

// Get returns a copy of the payload if the entry exists and is fresh.
func (c *cache) Get(relPath string, currentMtime time.Time) (map[string]any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[relPath]
	if !ok || !entry.LastModified.Equal(currentMtime) {
		c.misses++
		return nil, false
	}
	c.hits++
	return clonePayload(entry.Payload), true
}

// Set stores a copy of payload.
func (c *cache) Set(relPath string, payload map[string]any, mtime time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[relPath] = &cacheEntry{Payload: clonePayload(payload), LastModified: mtime}
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(relPath string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.entries[relPath]
	delete(c.entries, relPath)
	return ok
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *cache) stats() (hits, misses uint64) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}

// clonePayload deep-copies the maps and slices of a decoded payload.
// Leaf values are immutable (strings, numbers, bools) and are shared.
func clonePayload(p map[string]any) map[string]any {
	if p == nil {
		return nil
	}
	return cloneValue(p).(map[string]any)
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = cloneValue(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = cloneValue(val)
		}
		return l
	default:
		return v
	}
}
