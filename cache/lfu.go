package cache

import "sync"

// defaultMaxAverage is the aging ceiling applied when none is configured:
// once the mean access frequency of the population exceeds it, every
// counter is decayed by half the ceiling.
const defaultMaxAverage = 10

// LFUOption configures an LFU cache.
type LFUOption func(*lfuConfig)

type lfuConfig struct {
	maxAverage int
}

// WithMaxAverage sets the aging ceiling for the mean access frequency.
// n <= 0 disables aging entirely.
func WithMaxAverage(n int) LFUOption {
	return func(c *lfuConfig) {
		c.maxAverage = n
	}
}

// LFU is a frequency-ordered cache. The oldest entry among the least
// frequently used is evicted when a Put of an absent key finds the cache
// full. Counters are periodically aged so that long-cold-then-hot keys can
// regain eviction priority instead of being pinned by stale hotness.
type LFU[K comparable, V any] struct {
	mu         sync.Mutex
	capacity   int
	maxAverage int
	items      map[K]*entry[K, V]
	freqs      *freqIndex[K, V]

	// accesses is the running sum of live entry frequencies. It grows by
	// one per access, shrinks by the victim's frequency on eviction, and
	// is recomputed after an aging sweep. accesses / len(items) is the
	// mean frequency compared against maxAverage.
	accesses int64
}

// NewLFU creates an LFU cache holding at most capacity entries.
// A capacity <= 0 yields a no-op cache.
func NewLFU[K comparable, V any](capacity int, opts ...LFUOption) *LFU[K, V] {
	cfg := lfuConfig{maxAverage: defaultMaxAverage}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &LFU[K, V]{
		capacity:   capacity,
		maxAverage: cfg.maxAverage,
		items:      make(map[K]*entry[K, V]),
		freqs:      newFreqIndex[K, V](),
	}
}

// Put inserts or updates key. An update counts as an access and promotes
// the entry to the next frequency bucket.
func (c *LFU[K, V]) Put(key K, value V) bool {
	if c.capacity <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		c.touchLocked(e)
		return true
	}

	if len(c.items) >= c.capacity {
		c.evictLeastFrequentLocked()
	}
	e := &entry[K, V]{key: key, value: value, freq: 1}
	c.items[key] = e
	c.freqs.insert(e)
	c.recordAccessLocked()
	return true
}

// Get returns the value for key and promotes it to the next frequency
// bucket.
func (c *LFU[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		v := e.value
		c.touchLocked(e)
		return v, true
	}
	var zero V
	return zero, false
}

// Contains reports whether key is cached, without counting as an access.
func (c *LFU[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.items[key]
	return ok
}

// Remove deletes key, reporting whether it was present.
func (c *LFU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return false
	}
	c.freqs.remove(e)
	delete(c.items, key)
	c.accesses -= int64(e.freq)
	return true
}

// Purge resets the cache to its initial empty state.
func (c *LFU[K, V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[K]*entry[K, V])
	c.freqs.purge()
	c.accesses = 0
}

// Len returns the number of cached entries.
func (c *LFU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns a snapshot of all cached keys in no particular order.
func (c *LFU[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]K, 0, len(c.items))
	for k := range c.items {
		keys = append(keys, k)
	}
	return keys
}

// MinFrequency returns the smallest access frequency currently present,
// or 0 when the cache is empty.
func (c *LFU[K, V]) MinFrequency() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.freqs.minFreq
}

// touchLocked promotes e to its next frequency bucket and accounts the
// access, aging the population if the mean frequency crossed the ceiling.
func (c *LFU[K, V]) touchLocked(e *entry[K, V]) {
	c.freqs.touch(e)
	c.recordAccessLocked()
}

// recordAccessLocked bumps the access total and runs the aging sweep when
// the mean frequency exceeds the configured ceiling.
func (c *LFU[K, V]) recordAccessLocked() {
	c.accesses++
	if c.maxAverage <= 0 || len(c.items) == 0 {
		return
	}
	if c.accesses/int64(len(c.items)) <= int64(c.maxAverage) {
		return
	}
	c.freqs.age(c.maxAverage / 2)
	var total int64
	for _, e := range c.items {
		total += int64(e.freq)
	}
	c.accesses = total
}

// evictLeastFrequentLocked drops the oldest entry in the minimum frequency
// bucket.
func (c *LFU[K, V]) evictLeastFrequentLocked() {
	e := c.freqs.leastFrequent()
	if e == nil {
		return
	}
	c.freqs.remove(e)
	delete(c.items, e.key)
	c.accesses -= int64(e.freq)
}
