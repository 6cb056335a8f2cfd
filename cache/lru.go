package cache

import "sync"

// LRU is a recency-ordered cache. The least recently used entry is evicted
// when a Put of an absent key finds the cache full. All operations are O(1)
// and serialized through one mutex.
type LRU[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	items    map[K]*entry[K, V]
	order    *entryList[K, V] // front is least recent, back is most recent
}

// NewLRU creates an LRU cache holding at most capacity entries.
// A capacity <= 0 yields a no-op cache.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	return &LRU[K, V]{
		capacity: capacity,
		items:    make(map[K]*entry[K, V]),
		order:    newEntryList[K, V](),
	}
}

// Put inserts or updates key, making it the most recently used entry.
func (c *LRU[K, V]) Put(key K, value V) bool {
	if c.capacity <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		c.order.MoveToBack(e)
		return true
	}
	if len(c.items) >= c.capacity {
		c.evictOldestLocked()
	}
	e := &entry[K, V]{key: key, value: value, freq: 1}
	c.items[key] = e
	c.order.PushBack(e)
	return true
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		c.order.MoveToBack(e)
		e.freq++
		return e.value, true
	}
	var zero V
	return zero, false
}

// Peek returns the value for key without affecting its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		return e.value, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached, without affecting its recency.
func (c *LRU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Remove deletes key, reporting whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.order.Remove(e)
	delete(c.items, key)
	return true
}

// Purge resets the cache to its initial empty state.
func (c *LRU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*entry[K, V])
	c.order.Clear()
}

// Len returns the number of cached entries.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns a snapshot of all cached keys in no particular order.
func (c *LRU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// evictOldestLocked drops the least recently used entry.
func (c *LRU[K, V]) evictOldestLocked() {
	e := c.order.Front()
	if e == nil {
		return
	}
	c.order.Remove(e)
	delete(c.items, e.key)
}

// lrukRecord tracks a key that has not yet earned admission: how many times
// it has been requested and the most recent value offered for it.
type lrukRecord[V any] struct {
	count    int
	value    V
	hasValue bool
}

// LRUK is the LRU-K variant: a key enters the main cache only after it has
// been requested k times. Pre-admission history is itself a bounded LRU, so
// one-shot scan traffic cycles through the history without ever displacing
// admitted entries.
type LRUK[K comparable, V any] struct {
	mu      sync.Mutex
	k       int
	main    *LRU[K, V]
	history *LRU[K, *lrukRecord[V]]
}

// NewLRUK creates an LRU-K cache. capacity bounds the main cache,
// historyCapacity bounds the pre-admission history, and k is the number of
// requests required for admission. k <= 1 behaves like a plain LRU.
func NewLRUK[K comparable, V any](capacity, historyCapacity, k int) *LRUK[K, V] {
	if k < 1 {
		k = 1
	}
	return &LRUK[K, V]{
		k:       k,
		main:    NewLRU[K, V](capacity),
		history: NewLRU[K, *lrukRecord[V]](historyCapacity),
	}
}

// Put offers a value for key. Already-admitted keys update in place; new
// keys accumulate history and are admitted once seen k times.
func (c *LRUK[K, V]) Put(key K, value V) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.main.Peek(key); ok {
		return c.main.Put(key, value)
	}

	rec := c.touchHistoryLocked(key)
	rec.value = value
	rec.hasValue = true
	if rec.count >= c.k {
		c.history.Remove(key)
		return c.main.Put(key, value)
	}
	return true
}

// Get returns the value for key. A request for an unadmitted key counts
// toward its admission threshold; once the threshold is reached and a value
// was previously offered, the key is promoted into the main cache and the
// stored value is returned as a hit.
func (c *LRUK[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.main.Get(key); ok {
		return v, true
	}

	rec := c.touchHistoryLocked(key)
	if rec.count >= c.k && rec.hasValue {
		c.history.Remove(key)
		c.main.Put(key, rec.value)
		return rec.value, true
	}
	var zero V
	return zero, false
}

// Remove deletes key from the main cache and from the admission history.
func (c *LRUK[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	inMain := c.main.Remove(key)
	inHistory := c.history.Remove(key)
	return inMain || inHistory
}

// Purge resets both the main cache and the admission history.
func (c *LRUK[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.main.Purge()
	c.history.Purge()
}

// Contains reports whether key has been admitted. Keys still accumulating
// history are not counted.
func (c *LRUK[K, V]) Contains(key K) bool {
	return c.main.Contains(key)
}

// Len returns the number of admitted entries. Keys still accumulating
// history are not counted.
func (c *LRUK[K, V]) Len() int {
	return c.main.Len()
}

// Keys returns a snapshot of the admitted keys in no particular order.
func (c *LRUK[K, V]) Keys() []K {
	return c.main.Keys()
}

// touchHistoryLocked bumps the request count for an unadmitted key,
// creating its record on first sight.
func (c *LRUK[K, V]) touchHistoryLocked(key K) *lrukRecord[V] {
	rec, ok := c.history.Get(key)
	if !ok {
		rec = &lrukRecord[V]{}
		c.history.Put(key, rec)
	}
	rec.count++
	return rec
}
