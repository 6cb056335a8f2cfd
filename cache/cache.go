package cache

// Interface is the capability contract satisfied by every eviction policy
// in this package, including the sharded wrapper.
//
// Put inserts or updates a key. It reports false only when the policy was
// constructed with no capacity and the entry could not be stored.
//
// Get reports whether the key is cached and returns its value. A miss is a
// normal outcome, not an error.
//
// Remove deletes a key and reports whether it was present in any of the
// policy's indexes. Purge resets the policy to its initial empty state.
type Interface[K comparable, V any] interface {
	Put(key K, value V) bool
	Get(key K) (V, bool)
	Remove(key K) bool
	Purge()
}

// Value returns the cached value for key, or the zero value of V on a miss.
// It is the convenience form of Get for callers that treat the zero value
// as an acceptable default.
func Value[K comparable, V any](c Interface[K, V], key K) V {
	v, _ := c.Get(key)
	return v
}
