package cache

// defaultTransformThreshold is the access count at which a recency-tracked
// key is mirrored into the frequency side.
const defaultTransformThreshold = 2

// ARCOption configures an ARC cache.
type ARCOption func(*arcConfig)

type arcConfig struct {
	threshold  int
	maxAverage int
}

// WithTransformThreshold sets the access count at which a key tracked by
// the recency side is also admitted to the frequency side.
func WithTransformThreshold(n int) ARCOption {
	return func(c *arcConfig) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithFrequencyAging sets the aging ceiling used by the frequency side.
// n <= 0 disables aging.
func WithFrequencyAging(n int) ARCOption {
	return func(c *arcConfig) {
		c.maxAverage = n
	}
}

// ARC is an adaptive replacement cache. It composes a recency sub-policy
// and a frequency sub-policy of equal initial capacity and arbitrates
// between them. Each sub-policy remembers recently evicted keys in a ghost
// list; a request for a ghost key is evidence that its side evicted an
// entry the workload still wanted, so one unit of capacity moves toward
// that side at the other's expense.
//
// ARC holds no lock of its own. Each sub-policy serializes its own
// operations, so an ARC call touching both sides is atomic per side but
// not as a whole; a concurrent Put on the same key can interleave between
// the two steps of a Get.
type ARC[K comparable, V any] struct {
	lru *arcLRU[K, V]
	lfu *arcLFU[K, V]
}

// NewARC creates an ARC cache. Both sub-policies start with the full
// requested capacity; the adaptive transfer moves units from that baseline.
// A capacity <= 0 yields a no-op cache.
func NewARC[K comparable, V any](capacity int, opts ...ARCOption) *ARC[K, V] {
	cfg := arcConfig{
		threshold:  defaultTransformThreshold,
		maxAverage: defaultMaxAverage,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &ARC[K, V]{
		lru: newArcLRU[K, V](capacity, cfg.threshold),
		lfu: newArcLFU[K, V](capacity, cfg.maxAverage),
	}
}

// Put inserts or updates key. A key found in either ghost list re-enters
// through the recency side only, so a returning key regains residency
// without immediately inflating its frequency. A brand-new key is written
// to the recency side and, when that insert succeeds, to the frequency
// side as well.
func (a *ARC[K, V]) Put(key K, value V) bool {
	if a.checkGhostCaches(key) {
		return a.lru.put(key, value)
	}
	if !a.lru.put(key, value) {
		return false
	}
	a.lfu.put(key, value)
	return true
}

// Get returns the value for key. The ghost probe runs first for its
// capacity-transfer side effect and never short-circuits the lookup. The
// recency side is consulted before the frequency side; a recency hit that
// crossed the transform threshold is mirrored into the frequency side.
func (a *ARC[K, V]) Get(key K) (V, bool) {
	a.checkGhostCaches(key)

	if v, promote, ok := a.lru.get(key); ok {
		if promote {
			a.lfu.put(key, v)
		}
		return v, true
	}
	return a.lfu.get(key)
}

// Remove deletes key from both sub-policies, including their ghost lists.
func (a *ARC[K, V]) Remove(key K) bool {
	inLRU := a.lru.remove(key)
	inLFU := a.lfu.remove(key)
	return inLRU || inLFU
}

// Purge resets both sub-policies to their initial empty state. Capacities
// keep their adapted values.
func (a *ARC[K, V]) Purge() {
	a.lru.purge()
	a.lfu.purge()
}

// Contains reports whether key is cached on either side, without promoting
// it or probing the ghost lists.
func (a *ARC[K, V]) Contains(key K) bool {
	return a.lru.contains(key) || a.lfu.contains(key)
}

// Len returns the number of distinct cached keys. Keys past the transform
// threshold are tracked by both sub-policies and counted once.
func (a *ARC[K, V]) Len() int {
	return len(a.Keys())
}

// Keys returns a snapshot of the distinct cached keys in no particular
// order. Keys past the transform threshold are tracked by both sub-policies
// and appear once.
func (a *ARC[K, V]) Keys() []K {
	distinct := make(map[K]struct{})
	for _, k := range a.lru.keys() {
		distinct[k] = struct{}{}
	}
	for _, k := range a.lfu.keys() {
		distinct[k] = struct{}{}
	}
	keys := make([]K, 0, len(distinct))
	for k := range distinct {
		keys = append(keys, k)
	}
	return keys
}

// checkGhostCaches probes both ghost lists for key. A hit on one side
// attempts to take a unit of capacity from the other; when the other side
// is already at its floor the transfer silently does not happen, which is
// a normal outcome rather than an error.
func (a *ARC[K, V]) checkGhostCaches(key K) bool {
	if a.lru.checkGhost(key) {
		if a.lfu.decreaseCapacity() {
			a.lru.increaseCapacity()
		}
		return true
	}
	if a.lfu.checkGhost(key) {
		if a.lru.decreaseCapacity() {
			a.lfu.increaseCapacity()
		}
		return true
	}
	return false
}
