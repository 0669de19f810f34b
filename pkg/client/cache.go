package client

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cache entry stays fresh before the read
// path revalidates it. A TTL of zero means the entry only goes stale
// through explicit invalidation.
const DefaultTTL = 2 * time.Minute

type entry struct {
	value      interface{}
	stale      bool
	fetchedAt  time.Time
	ttl        time.Duration
	generation uint64
}

// Cache is a keyed, TTL-based read cache owned by one client session.
// It is explicitly constructed and injected, never a package singleton,
// and never shared across processes.
type Cache struct {
	mu         sync.Mutex
	entries    map[Key]*entry
	defaultTTL time.Duration
	nextGen    uint64
	now        func() time.Time
}

func NewCache() *Cache {
	return NewCacheWithTTL(DefaultTTL)
}

func NewCacheWithTTL(ttl time.Duration) *Cache {
	return &Cache{
		entries:    make(map[Key]*entry),
		defaultTTL: ttl,
		now:        time.Now,
	}
}

// Lookup returns the cached value, whether it exists, and whether it is
// still fresh. A stale value is still returned: the read path decides
// whether to serve it or refetch.
func (c *Cache) Lookup(key Key) (interface{}, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}

	fresh := !e.stale
	if fresh && e.ttl > 0 && c.now().Sub(e.fetchedAt) > e.ttl {
		fresh = false
	}
	return e.value, true, fresh
}

// Put stores a fresh value under the default TTL and returns the write
// generation, which optimistic mutations use to detect interleaving.
func (c *Cache) Put(key Key, value interface{}) uint64 {
	return c.PutWithTTL(key, value, c.defaultTTL)
}

func (c *Cache) PutWithTTL(key Key, value interface{}, ttl time.Duration) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextGen++
	c.entries[key] = &entry{
		value:      value,
		fetchedAt:  c.now(),
		ttl:        ttl,
		generation: c.nextGen,
	}
	return c.nextGen
}

// Invalidate marks entries stale without clearing them: the next read
// revalidates lazily while renders keep the last-known-good value.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		if e, ok := c.entries[key]; ok {
			e.stale = true
		}
	}
}

// snapshot captures the current value for rollback.
func (c *Cache) snapshot(key Key) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.value, true
}

// restoreIfUnchanged puts the snapshot back only when no later write
// landed on the key since generation. It reports whether it restored.
func (c *Cache) restoreIfUnchanged(key Key, snapshot interface{}, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.generation != generation {
		return false
	}

	c.nextGen++
	c.entries[key] = &entry{
		value:      snapshot,
		stale:      true,
		fetchedAt:  c.now(),
		ttl:        e.ttl,
		generation: c.nextGen,
	}
	return true
}

// dropIfUnchanged removes an entry the mutation itself created, unless
// a later write claimed the key.
func (c *Cache) dropIfUnchanged(key Key, generation uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || e.generation != generation {
		return false
	}
	delete(c.entries, key)
	return true
}
