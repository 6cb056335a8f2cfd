package cache

import "runtime"

// defaultShardCount picks a shard count from the available hardware
// parallelism, rounded up to a power of two so the dispatch can mask
// instead of divide. Bounded to keep per-shard capacity meaningful on very
// wide machines.
func defaultShardCount() int {
	n := nextPowerOf2(runtime.NumCPU())
	if n < 1 {
		n = 1
	}
	if n > 256 {
		n = 256
	}
	return n
}

// nextPowerOf2 returns the next power of 2 >= n.
func nextPowerOf2(n int) int {
	if n <= 0 {
		return 1
	}
	if n&(n-1) == 0 {
		return n
	}
	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

// perShardCapacity splits a total capacity across shards, rounding up.
// The aggregate effective capacity may exceed the requested total by up to
// shards-1 entries; that approximation is accepted in exchange for
// independent per-shard bounds.
func perShardCapacity(total, shards int) int {
	if total <= 0 || shards <= 0 {
		return 0
	}
	return (total + shards - 1) / shards
}
