package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLFU_PutGet(t *testing.T) {
	c := NewLFU[string, int](4)

	require.True(t, c.Put("a", 1))
	require.True(t, c.Put("b", 2))

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)

	_, ok = c.Get("missing")
	require.False(t, ok)
}

func TestLFU_FrequencyOrdering(t *testing.T) {
	c := NewLFU[string, int](2)

	c.Put("A", 1)
	c.Put("B", 2)
	_, ok := c.Get("A") // A now has frequency 2
	require.True(t, ok)
	c.Put("C", 3) // evicts B (frequency 1), not A

	_, ok = c.Get("B")
	require.False(t, ok, "B must be evicted")
	_, ok = c.Get("A")
	require.True(t, ok, "A must survive")
	_, ok = c.Get("C")
	require.True(t, ok)
}

func TestLFU_TieBrokenByInsertionOrder(t *testing.T) {
	c := NewLFU[string, int](2)

	c.Put("old", 1)
	c.Put("new", 2)
	c.Put("c", 3) // both at frequency 1; the older insertion is the victim

	_, ok := c.Get("old")
	require.False(t, ok)
	_, ok = c.Get("new")
	require.True(t, ok)
}

func TestLFU_UpdateCountsAsAccess(t *testing.T) {
	c := NewLFU[string, int](2)

	c.Put("A", 1)
	c.Put("B", 2)
	c.Put("A", 10) // update promotes A to frequency 2
	c.Put("C", 3)  // evicts B

	v, ok := c.Get("A")
	require.True(t, ok)
	require.Equal(t, 10, v)
	_, ok = c.Get("B")
	require.False(t, ok)
}

func TestLFU_CapacityBound(t *testing.T) {
	const capacity = 8
	c := NewLFU[int, int](capacity)

	for i := 0; i < 100; i++ {
		c.Put(i, i)
		require.LessOrEqual(t, c.Len(), capacity)
	}
}

func TestLFU_ZeroCapacity(t *testing.T) {
	c := NewLFU[string, int](0)

	require.False(t, c.Put("a", 1))
	_, ok := c.Get("a")
	require.False(t, ok)
}

func TestLFU_MinFrequencyTracksBuckets(t *testing.T) {
	c := NewLFU[string, int](4, WithMaxAverage(0))

	require.Equal(t, 0, c.MinFrequency(), "empty cache has no minimum frequency")

	c.Put("a", 1)
	require.Equal(t, 1, c.MinFrequency())

	c.Get("a") // only entry moves to frequency 2
	require.Equal(t, 2, c.MinFrequency())

	c.Put("b", 2)
	require.Equal(t, 1, c.MinFrequency())
}

func TestLFU_AgingIdempotentOnStableLoad(t *testing.T) {
	c := NewLFU[string, int](8, WithMaxAverage(100))

	c.Put("a", 1)
	c.Put("b", 2)
	for i := 0; i < 20; i++ {
		c.Get("a")
		c.Get("b")
	}

	// Mean frequency stayed far below the ceiling: no counter was decayed.
	c.mu.Lock()
	require.Equal(t, 21, c.items["a"].freq)
	require.Equal(t, 21, c.items["b"].freq)
	c.mu.Unlock()
}

func TestLFU_AgingDecaysHotCounters(t *testing.T) {
	c := NewLFU[string, int](4, WithMaxAverage(10))

	c.Put("hot", 1)
	c.Put("cold", 2)

	// Hammer one key until the mean crosses the ceiling.
	for i := 0; i < 50; i++ {
		c.Get("hot")
	}

	c.mu.Lock()
	hotFreq := c.items["hot"].freq
	coldFreq := c.items["cold"].freq
	c.mu.Unlock()

	require.Less(t, hotFreq, 51, "hot counter must have been decayed at least once")
	require.Equal(t, 1, coldFreq, "cold counter floors at 1")
	require.Less(t, coldFreq, hotFreq, "relative ordering survives aging")

	// Both keys remain cached; aging never evicts.
	_, ok := c.Get("hot")
	require.True(t, ok)
	_, ok = c.Get("cold")
	require.True(t, ok)
}

func TestLFU_AgingRestoresEvictionPriority(t *testing.T) {
	c := NewLFU[string, int](2, WithMaxAverage(10))

	// Make "former" hot, then stop touching it.
	c.Put("former", 1)
	for i := 0; i < 30; i++ {
		c.Get("former")
	}
	c.Put("current", 2)

	// Keep accessing "current" so aging keeps pulling "former" down.
	for i := 0; i < 100; i++ {
		c.Get("current")
	}

	c.mu.Lock()
	former := c.items["former"].freq
	current := c.items["current"].freq
	c.mu.Unlock()
	require.Less(t, former, current,
		"a once-hot key must lose its frequency advantage after aging")

	// The next insert now evicts the aged former hot key.
	c.Put("new", 3)
	_, ok := c.Get("former")
	require.False(t, ok)
	_, ok = c.Get("current")
	require.True(t, ok)
}

func TestLFU_ContainsDoesNotCountAsAccess(t *testing.T) {
	c := NewLFU[string, int](2)

	c.Put("A", 1)
	c.Put("B", 2)
	require.True(t, c.Contains("A"))
	c.Put("C", 3) // both at frequency 1; Contains did not promote A

	require.False(t, c.Contains("A"), "A was still the oldest least-frequent entry")
	require.ElementsMatch(t, []string{"B", "C"}, c.Keys())
}

func TestLFU_RemoveAndPurge(t *testing.T) {
	c := NewLFU[string, int](4)

	c.Put("a", 1)
	c.Put("b", 2)

	require.True(t, c.Remove("a"))
	require.False(t, c.Remove("a"))

	c.Purge()
	require.Equal(t, 0, c.Len())
	require.Equal(t, 0, c.MinFrequency())
	_, ok := c.Get("b")
	require.False(t, ok)
}

func TestLFU_Concurrent(t *testing.T) {
	c := NewLFU[int, int](64)

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := (g*500 + i) % 100
				c.Put(key, i)
				c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	require.LessOrEqual(t, c.Len(), 64)
}
