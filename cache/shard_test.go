package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharded_PutGet(t *testing.T) {
	s := NewShardedARC[string, int](64, 4)

	require.True(t, s.Put("a", 1))
	v, ok := s.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = s.Get("missing")
	require.False(t, ok)

	stats := s.Stats()
	require.Equal(t, uint64(1), stats.Hits)
	require.Equal(t, uint64(1), stats.Misses)
}

func TestSharded_CapacityDistribution(t *testing.T) {
	for _, tc := range []struct {
		total, shards, perShard int
	}{
		{64, 4, 16},
		{100, 8, 13}, // ceil(100/8)
		{1, 4, 1},
		{7, 2, 4},
	} {
		s := NewSharded[string, int](tc.total, tc.shards, func(capacity int) Interface[string, int] {
			return NewLRU[string, int](capacity)
		})
		stats := s.Stats()
		require.Equal(t, tc.shards, stats.Shards)
		require.Equal(t, tc.perShard, stats.ShardCapacity,
			"total=%d shards=%d", tc.total, tc.shards)
	}
}

func TestSharded_ShardCountDefaultsAndRounding(t *testing.T) {
	s := NewSharded[string, int](64, 0, func(capacity int) Interface[string, int] {
		return NewLRU[string, int](capacity)
	})
	stats := s.Stats()
	require.Greater(t, stats.Shards, 0)
	require.Zero(t, stats.Shards&(stats.Shards-1), "default shard count is a power of two")

	s = NewSharded[string, int](64, 3, func(capacity int) Interface[string, int] {
		return NewLRU[string, int](capacity)
	})
	require.Equal(t, 4, s.Stats().Shards, "shard counts round up to a power of two")
}

func TestSharded_StableDispatch(t *testing.T) {
	s := NewShardedARC[string, string](64, 8)

	// The same key must land on the same shard on every call.
	key := "stable-key"
	first := hashKey(key) & s.mask
	for i := 0; i < 100; i++ {
		require.Equal(t, first, hashKey(key)&s.mask)
	}

	s.Put(key, "v")
	v, ok := s.Get(key)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestSharded_KeysSpreadAcrossShards(t *testing.T) {
	const shards = 8
	seen := make(map[uint64]int)
	for i := 0; i < 1000; i++ {
		seen[hashKey(fmt.Sprintf("key-%d", i))&(shards-1)]++
	}
	require.Len(t, seen, shards, "xxh3 must reach every shard over 1000 keys")
}

func TestSharded_RemoveAndPurge(t *testing.T) {
	s := NewShardedARC[string, int](64, 4)

	s.Put("a", 1)
	require.True(t, s.Remove("a"))
	require.False(t, s.Remove("a"))

	s.Put("b", 2)
	s.Get("b")
	s.Purge()

	_, ok := s.Get("b")
	require.False(t, ok)
	stats := s.Stats()
	require.Equal(t, uint64(0), stats.Hits, "Purge resets counters")
}

func TestSharded_DerivedStringKeys(t *testing.T) {
	type userID string

	s := NewSharded[userID, int](64, 4, func(capacity int) Interface[userID, int] {
		return NewLFU[userID, int](capacity)
	})

	s.Put("u-1", 1)
	v, ok := s.Get("u-1")
	require.True(t, ok)
	require.Equal(t, 1, v)
	require.Equal(t, hashKey(userID("u-1")), hashKey("u-1"),
		"derived string types hash like their underlying string")
}

func TestSharded_Concurrent(t *testing.T) {
	s := NewShardedARC[string, int](256, 8)

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := fmt.Sprintf("k-%d", (g*1000+i)%300)
				s.Put(key, i)
				s.Get(key)
			}
		}(g)
	}
	wg.Wait()

	stats := s.Stats()
	require.Equal(t, uint64(16000), stats.Hits+stats.Misses)
}
