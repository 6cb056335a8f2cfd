// Command cachebench replays synthetic workloads against the LRU, LFU and
// ARC policies at equal capacity and reports the hit rate of each, making
// the adaptive behavior of ARC visible next to the pure policies.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Xuermosi/CachePool/cache"
)

type options struct {
	capacity int
	ops      int
	seed     int64
}

func main() {
	opts := options{}

	root := &cobra.Command{
		Use:   "cachebench",
		Short: "Compare hit rates of the LRU, LFU and ARC policies",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.capacity <= 0 {
				return fmt.Errorf("capacity must be positive, got %d", opts.capacity)
			}
			if opts.seed == 0 {
				opts.seed = time.Now().UnixNano()
			}
			runHotKeys(opts)
			runLoopScan(opts)
			runWorkloadShift(opts)
			return nil
		},
	}

	root.Flags().IntVar(&opts.capacity, "capacity", 50, "entries per cache")
	root.Flags().IntVar(&opts.ops, "ops", 200000, "operations per scenario")
	root.Flags().Int64Var(&opts.seed, "seed", 0, "RNG seed (0 picks one)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type policy struct {
	name  string
	cache cache.Interface[int, string]
}

func newPolicies(capacity int) []policy {
	return []policy{
		{"LRU", cache.NewLRU[int, string](capacity)},
		{"LFU", cache.NewLFU[int, string](capacity)},
		{"ARC", cache.NewARC[int, string](capacity)},
	}
}

// replay feeds the same key sequence to every policy: a warmup of puts
// followed by measured gets, with optional interleaved updates.
func replay(name string, opts options, keys func(rng *rand.Rand, op int) int, warmup func(c cache.Interface[int, string])) {
	fmt.Printf("=== %s (capacity %d, %d ops) ===\n", name, opts.capacity, opts.ops)

	for _, p := range newPolicies(opts.capacity) {
		rng := rand.New(rand.NewSource(opts.seed))
		if warmup != nil {
			warmup(p.cache)
		}

		hits, gets := 0, 0
		for op := 0; op < opts.ops; op++ {
			key := keys(rng, op)
			gets++
			if _, ok := p.cache.Get(key); ok {
				hits++
			} else {
				p.cache.Put(key, fmt.Sprintf("value%d", key))
			}
		}
		fmt.Printf("  %-4s hit rate: %6.2f%%\n", p.name, 100*float64(hits)/float64(gets))
	}
	fmt.Println()
}

// runHotKeys skews 70% of traffic onto a small hot set over a much larger
// cold universe.
func runHotKeys(opts options) {
	const hotKeys = 20
	coldKeys := opts.capacity * 100

	replay("hot keys", opts, func(rng *rand.Rand, _ int) int {
		if rng.Intn(100) < 70 {
			return rng.Intn(hotKeys)
		}
		return hotKeys + rng.Intn(coldKeys)
	}, nil)
}

// runLoopScan cycles through a working set larger than the cache, the
// classic pattern that defeats pure LRU.
func runLoopScan(opts options) {
	loopSize := opts.capacity * 10

	var pos int
	replay("loop scan", opts, func(rng *rand.Rand, op int) int {
		switch {
		case op%100 < 60: // sequential sweep
			key := pos
			pos = (pos + 1) % loopSize
			return key
		case op%100 < 90: // random inside the loop
			return rng.Intn(loopSize)
		default: // outside traffic
			return loopSize + rng.Intn(loopSize)
		}
	}, func(c cache.Interface[int, string]) {
		pos = 0
		for key := 0; key < loopSize; key++ {
			c.Put(key, fmt.Sprintf("loop%d", key))
		}
	})
}

// runWorkloadShift runs five phases with different locality so the
// adaptive policy has something to adapt to: hot set, wide random,
// sequential scan, clustered, then mixed.
func runWorkloadShift(opts options) {
	phase := opts.ops / 5

	replay("workload shift", opts, func(rng *rand.Rand, op int) int {
		switch {
		case op < phase:
			return rng.Intn(5)
		case op < 2*phase:
			return rng.Intn(1000)
		case op < 3*phase:
			return (op - 2*phase) % 100
		case op < 4*phase:
			cluster := (op / 1000) % 10
			return cluster*20 + rng.Intn(20)
		default:
			switch r := rng.Intn(100); {
			case r < 30:
				return rng.Intn(5)
			case r < 60:
				return 5 + rng.Intn(95)
			default:
				return 100 + rng.Intn(900)
			}
		}
	}, nil)
}
