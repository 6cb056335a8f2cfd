package cache_test

import (
	"math/rand"
	"strconv"
	"testing"

	hashiarc "github.com/hashicorp/golang-lru/arc/v2"

	"github.com/Xuermosi/CachePool/cache"
)

// Fixed RNG seed for reproducibility.
const rngSeed = 1

type benchCache[K comparable, V any] interface {
	Put(K, V) bool
	Get(K) (V, bool)
}

// hashiWrapper adapts the hashicorp ARC baseline to the local contract.
type hashiWrapper[K comparable, V any] struct {
	*hashiarc.ARCCache[K, V]
}

func (w hashiWrapper[K, V]) Put(key K, value V) bool {
	w.Add(key, value)
	return true
}

func newHashiARC(capacity int, b *testing.B) benchCache[int, int] {
	c, err := hashiarc.NewARC[int, int](capacity)
	if err != nil {
		b.Fatal(err)
	}
	return hashiWrapper[int, int]{ARCCache: c}
}

func constructors() []struct {
	name string
	new  func(capacity int, b *testing.B) benchCache[int, int]
} {
	return []struct {
		name string
		new  func(capacity int, b *testing.B) benchCache[int, int]
	}{
		{"LRU", func(capacity int, _ *testing.B) benchCache[int, int] {
			return cache.NewLRU[int, int](capacity)
		}},
		{"LFU", func(capacity int, _ *testing.B) benchCache[int, int] {
			return cache.NewLFU[int, int](capacity)
		}},
		{"ARC", func(capacity int, _ *testing.B) benchCache[int, int] {
			return cache.NewARC[int, int](capacity)
		}},
		{"hashicorp-ARC", newHashiARC},
	}
}

func patterns(capacity int) []struct {
	name string
	keys []int
} {
	const seqLen = 1 << 15
	rng := rand.New(rand.NewSource(rngSeed))

	hot := make([]int, seqLen)
	for i := range hot {
		// 70% of accesses hit a hot set of 20 keys, the rest spread over
		// a cold universe 100x the capacity.
		if rng.Intn(100) < 70 {
			hot[i] = rng.Intn(20)
		} else {
			hot[i] = 20 + rng.Intn(capacity*100)
		}
	}

	loop := make([]int, seqLen)
	for i := range loop {
		loop[i] = i % (capacity * 2) // cycle slightly larger than capacity
	}

	zipf := make([]int, seqLen)
	z := rand.NewZipf(rng, 1.2, 1, uint64(capacity*16))
	for i := range zipf {
		zipf[i] = int(z.Uint64())
	}

	return []struct {
		name string
		keys []int
	}{
		{"hot", hot},
		{"loop", loop},
		{"zipf", zipf},
	}
}

func BenchmarkPolicies(b *testing.B) {
	for _, capacity := range []int{128, 2048} {
		keysets := patterns(capacity)
		for _, ctor := range constructors() {
			for _, pattern := range keysets {
				name := ctor.name + "/" + pattern.name + "/" + strconv.Itoa(capacity)
				b.Run(name, func(b *testing.B) {
					c := ctor.new(capacity, b)
					b.ReportAllocs()
					b.ResetTimer()
					mask := len(pattern.keys) - 1
					for i := 0; i < b.N; i++ {
						key := pattern.keys[i&mask]
						if _, ok := c.Get(key); !ok {
							c.Put(key, key)
						}
					}
				})
			}
		}
	}
}

func BenchmarkShardedParallel(b *testing.B) {
	for _, shards := range []int{1, 8} {
		b.Run("shards-"+strconv.Itoa(shards), func(b *testing.B) {
			s := cache.NewShardedARC[string, int](8192, shards)
			keys := make([]string, 1024)
			for i := range keys {
				keys[i] = "key-" + strconv.Itoa(i)
			}
			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					key := keys[i&1023]
					if _, ok := s.Get(key); !ok {
						s.Put(key, i)
					}
					i++
				}
			})
		})
	}
}

func BenchmarkLFUAging(b *testing.B) {
	c := cache.NewLFU[int, int](1024, cache.WithMaxAverage(8))
	for i := 0; i < 1024; i++ {
		c.Put(i, i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Skewed access keeps pushing the mean over the ceiling, so the
		// sweep cost shows up in the per-op numbers.
		c.Get(i & 15)
	}
}
