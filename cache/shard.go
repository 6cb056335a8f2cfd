package cache

import "sync/atomic"

// ShardedStats is a snapshot of the sharded wrapper's counters. Hits and
// misses are aggregated across shards without coordination, so the totals
// are approximate under concurrent load.
type ShardedStats struct {
	Hits          uint64
	Misses        uint64
	Shards        int
	ShardCapacity int
}

// Sharded partitions the keyspace by hash across independent policy
// instances, each with its own lock, to bound lock contention under
// concurrent access. Any policy satisfying Interface can back a shard.
type Sharded[K Key, V any] struct {
	shards        []Interface[K, V]
	mask          uint64
	shardCapacity int

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewSharded distributes totalCapacity over shardCount instances built by
// newShard, which receives the per-shard capacity ceil(total/count).
// A shardCount <= 0 defaults to the available hardware parallelism; other
// counts are rounded up to a power of two.
func NewSharded[K Key, V any](totalCapacity, shardCount int, newShard func(capacity int) Interface[K, V]) *Sharded[K, V] {
	if shardCount <= 0 {
		shardCount = defaultShardCount()
	}
	shardCount = nextPowerOf2(shardCount)
	capacity := perShardCapacity(totalCapacity, shardCount)

	s := &Sharded[K, V]{
		shards:        make([]Interface[K, V], shardCount),
		mask:          uint64(shardCount - 1),
		shardCapacity: capacity,
	}
	for i := range s.shards {
		s.shards[i] = newShard(capacity)
	}
	return s
}

// NewShardedARC is a convenience constructor backing every shard with an
// ARC instance.
func NewShardedARC[K Key, V any](totalCapacity, shardCount int, opts ...ARCOption) *Sharded[K, V] {
	return NewSharded(totalCapacity, shardCount, func(capacity int) Interface[K, V] {
		return NewARC[K, V](capacity, opts...)
	})
}

// Put dispatches to the owning shard.
func (s *Sharded[K, V]) Put(key K, value V) bool {
	return s.shard(key).Put(key, value)
}

// Get dispatches to the owning shard and counts the outcome.
func (s *Sharded[K, V]) Get(key K) (V, bool) {
	v, ok := s.shard(key).Get(key)
	if ok {
		s.hits.Add(1)
	} else {
		s.misses.Add(1)
	}
	return v, ok
}

// Remove dispatches to the owning shard.
func (s *Sharded[K, V]) Remove(key K) bool {
	return s.shard(key).Remove(key)
}

// Purge resets every shard and the counters.
func (s *Sharded[K, V]) Purge() {
	for _, shard := range s.shards {
		shard.Purge()
	}
	s.hits.Store(0)
	s.misses.Store(0)
}

// Stats returns a snapshot of the wrapper's counters and layout.
func (s *Sharded[K, V]) Stats() ShardedStats {
	return ShardedStats{
		Hits:          s.hits.Load(),
		Misses:        s.misses.Load(),
		Shards:        len(s.shards),
		ShardCapacity: s.shardCapacity,
	}
}

func (s *Sharded[K, V]) shard(key K) Interface[K, V] {
	return s.shards[hashKey(key)&s.mask]
}
