// Package cache provides in-process cache replacement policies behind a
// single capability contract: recency-based LRU (with an LRU-K admission
// variant), frequency-based LFU with counter aging, and an adaptive ARC
// hybrid that rebalances between recency and frequency using ghost-list
// feedback.
//
// Design
//
//   - Concurrency: every policy instance serializes all mutation and lookup
//     through one mutex scoped to the whole instance. The ARC engine holds
//     no lock of its own; it relies on its two sub-policies' locks, so an
//     ARC operation that touches both sub-policies is atomic per sub-policy
//     but not as a whole.
//
//   - Storage: each policy keeps a map for lookups and one or more intrusive
//     doubly-linked lists for ordering. All operations are O(1) except the
//     LFU aging sweep, which is O(population) and runs only when the mean
//     access frequency exceeds its configured ceiling.
//
//   - Ghost lists: the ARC sub-policies remember recently evicted keys
//     (without values) in bounded history lists. A request for a ghost key
//     shifts one unit of capacity toward the sub-policy that evicted it.
//
//   - Sharding: Sharded partitions the keyspace by xxh3 hash across
//     independently locked policy instances to bound contention under
//     concurrent load. Aggregate capacity and statistics across shards are
//     approximate.
//
// Misses are reported through boolean returns, never errors. A policy
// constructed with capacity <= 0 degrades to a no-op: every Put reports
// false and every Get misses.
package cache
