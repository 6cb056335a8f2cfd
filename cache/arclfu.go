package cache

import "sync"

// arcLFU is the frequency side of the ARC engine: a capacity-bounded main
// index ordered by the frequency bucket index, a ghost index symmetric to
// the recency side's, and the same counter aging as the standalone LFU.
type arcLFU[K comparable, V any] struct {
	mu         sync.Mutex
	capacity   int
	maxAverage int

	items  map[K]*entry[K, V]
	freqs  *freqIndex[K, V]
	ghosts *ghostIndex[K, V]

	accesses int64
}

func newArcLFU[K comparable, V any](capacity, maxAverage int) *arcLFU[K, V] {
	return &arcLFU[K, V]{
		capacity:   capacity,
		maxAverage: maxAverage,
		items:      make(map[K]*entry[K, V]),
		freqs:      newFreqIndex[K, V](),
		ghosts:     newGhostIndex[K, V](capacity),
	}
}

func (p *arcLFU[K, V]) put(key K, value V) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	// capacity mutates at runtime through the transfer calls, so it must be
	// read under the lock.
	if p.capacity <= 0 {
		return false
	}
	if e, ok := p.items[key]; ok {
		e.value = value
		p.touchLocked(e)
		return true
	}
	if len(p.items) >= p.capacity {
		p.evictLeastFrequentLocked()
	}
	e := &entry[K, V]{key: key, value: value, freq: 1}
	p.items[key] = e
	p.freqs.insert(e)
	p.recordAccessLocked()
	return true
}

func (p *arcLFU[K, V]) get(key K) (V, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.items[key]; ok {
		v := e.value
		p.touchLocked(e)
		return v, true
	}
	var zero V
	return zero, false
}

func (p *arcLFU[K, V]) checkGhost(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ghosts.take(key)
}

func (p *arcLFU[K, V]) increaseCapacity() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.capacity++
	p.ghosts.capacity++
}

// decreaseCapacity mirrors arcLRU.decreaseCapacity with a frequency-ordered
// victim.
func (p *arcLFU[K, V]) decreaseCapacity() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.capacity <= 0 {
		return false
	}
	if len(p.items) >= p.capacity {
		p.evictLeastFrequentLocked()
	}
	p.capacity--
	p.ghosts.capacity--
	p.ghosts.trim()
	return true
}

func (p *arcLFU[K, V]) contains(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.items[key]
	return ok
}

func (p *arcLFU[K, V]) remove(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.items[key]; ok {
		p.freqs.remove(e)
		delete(p.items, key)
		p.accesses -= int64(e.freq)
		return true
	}
	return p.ghosts.take(key)
}

func (p *arcLFU[K, V]) purge() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = make(map[K]*entry[K, V])
	p.freqs.purge()
	p.ghosts.purge()
	p.accesses = 0
}

func (p *arcLFU[K, V]) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

func (p *arcLFU[K, V]) keys() []K {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]K, 0, len(p.items))
	for k := range p.items {
		keys = append(keys, k)
	}
	return keys
}

func (p *arcLFU[K, V]) touchLocked(e *entry[K, V]) {
	p.freqs.touch(e)
	p.recordAccessLocked()
}

func (p *arcLFU[K, V]) recordAccessLocked() {
	p.accesses++
	if p.maxAverage <= 0 || len(p.items) == 0 {
		return
	}
	if p.accesses/int64(len(p.items)) <= int64(p.maxAverage) {
		return
	}
	p.freqs.age(p.maxAverage / 2)
	var total int64
	for _, e := range p.items {
		total += int64(e.freq)
	}
	p.accesses = total
}

func (p *arcLFU[K, V]) evictLeastFrequentLocked() {
	e := p.freqs.leastFrequent()
	if e == nil {
		return
	}
	p.freqs.remove(e)
	delete(p.items, e.key)
	p.accesses -= int64(e.freq)
	p.ghosts.add(e)
}
