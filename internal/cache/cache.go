package cache

import "sync"

// Cache is a generic thread-safe cache with a soft entry limit.
// When the cache exceeds softLimit, least recently used entries are
// evicted in batches.
//
// Cache is safe for concurrent use.
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu        sync.Mutex
	entries   map[K]*entry[K, V]
	order     *lruList[K]
	softLimit int
}

// entry holds a cached value. ready is closed once value and err are set.
type entry[K comparable, V any] struct {
	ready chan struct{}
	value V
	err   error
	node  *lruNode[K]
}

// New creates a new cache with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:   make(map[K]*entry[K, V]),
		order:     newLRUList[K](),
		softLimit: softLimit,
	}
}

// Get retrieves a value from the cache.
// Returns (value, true) if found, (zero, false) otherwise.
// A key whose value is still being created counts as a miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok {
		c.order.MoveToFront(e.node)
	}
	c.mu.Unlock()

	var zero V
	if !ok {
		return zero, false
	}
	select {
	case <-e.ready:
	default:
		return zero, false
	}
	if e.err != nil {
		return zero, false
	}
	return e.value, true
}

// Set stores a value in the cache, replacing any existing entry.
// If the cache exceeds softLimit after insertion, least recently used
// entries are evicted.
func (c *Cache[K, V]) Set(key K, value V) {
	e := &entry[K, V]{ready: make(chan struct{}), value: value}
	close(e.ready)

	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		c.order.Remove(old.node)
	}
	e.node = c.order.PushFront(key)
	c.entries[key] = e
	c.evict()
}

// GetOrCreate returns the cached value for key, calling create on a miss.
// Concurrent calls for the same key share a single create invocation:
// create runs outside the cache lock and late callers wait for the first
// result. A failed create is not cached, so a later call retries.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.order.MoveToFront(e.node)
		c.mu.Unlock()
		<-e.ready
		return e.value, e.err
	}
	e := &entry[K, V]{ready: make(chan struct{})}
	e.node = c.order.PushFront(key)
	c.entries[key] = e
	c.mu.Unlock()

	e.value, e.err = create()
	close(e.ready)

	c.mu.Lock()
	if e.err != nil {
		// Drop the failed entry unless another Set already replaced it.
		if cur, ok := c.entries[key]; ok && cur == e {
			delete(c.entries, key)
			c.order.Remove(e.node)
		}
	} else {
		c.evict()
	}
	c.mu.Unlock()

	return e.value, e.err
}

// Delete removes an entry from the cache.
// Returns true if the entry was found and removed.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	delete(c.entries, key)
	c.order.Remove(e.node)
	return true
}

// Clear removes all entries from the cache.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order.Clear()
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Capacity returns the soft limit of the cache.
func (c *Cache[K, V]) Capacity() int {
	return c.softLimit
}

// evict removes least recently used entries until the cache is at 75%
// of its soft limit, so a full cache does not evict on every insert.
// An in-flight entry can be evicted; its waiters still receive the
// result, it is just not cached. Caller must hold c.mu.
func (c *Cache[K, V]) evict() {
	if c.softLimit <= 0 || len(c.entries) <= c.softLimit {
		return
	}
	target := max(c.softLimit*3/4, 1)
	for len(c.entries) > target {
		key, ok := c.order.RemoveOldest()
		if !ok {
			return
		}
		delete(c.entries, key)
	}
}
