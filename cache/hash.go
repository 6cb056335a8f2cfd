package cache

import (
	"unsafe"

	"github.com/zeebo/xxh3"
)

// Key is the constraint on sharded keys: string-like types, which give the
// shard hash a stable byte representation and remain usable as map keys
// inside the shard policies.
type Key interface {
	~string
}

// hashKey returns the xxh3 hash used to pick a shard. It is deterministic
// for a fixed key across calls and processes of the same build.
func hashKey[K Key](key K) uint64 {
	return xxh3.Hash(keyToBytes(key))
}

func keyToBytes[K Key](key K) []byte {
	switch k := any(key).(type) {
	case string:
		return unsafe.Slice(unsafe.StringData(k), len(k))
	default:
		// Derived ~string types convert through string.
		s := string(key)
		return unsafe.Slice(unsafe.StringData(s), len(s))
	}
}
