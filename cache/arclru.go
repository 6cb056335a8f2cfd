package cache

import "sync"

// arcLRU is the recency side of the ARC engine: a capacity-bounded main
// index ordered by recency plus a ghost index of recently evicted keys.
// Every access bumps the entry's counter; get reports whether it crossed
// the transform threshold, signalling the engine to mirror the key into
// the frequency side.
type arcLRU[K comparable, V any] struct {
	mu        sync.Mutex
	capacity  int
	threshold int

	items  map[K]*entry[K, V]
	order  *entryList[K, V] // front is least recent
	ghosts *ghostIndex[K, V]
}

func newArcLRU[K comparable, V any](capacity, threshold int) *arcLRU[K, V] {
	return &arcLRU[K, V]{
		capacity:  capacity,
		threshold: threshold,
		items:     make(map[K]*entry[K, V]),
		order:     newEntryList[K, V](),
		ghosts:    newGhostIndex[K, V](capacity),
	}
}

func (p *arcLRU[K, V]) put(key K, value V) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	// capacity mutates at runtime through the transfer calls, so it must be
	// read under the lock.
	if p.capacity <= 0 {
		return false
	}
	if e, ok := p.items[key]; ok {
		e.value = value
		p.order.MoveToBack(e)
		return true
	}
	if len(p.items) >= p.capacity {
		p.evictOldestLocked()
	}
	e := &entry[K, V]{key: key, value: value, freq: 1}
	p.items[key] = e
	p.order.PushBack(e)
	return true
}

// get returns the value for key, marks it most recently used, and reports
// whether its access count reached the transform threshold.
func (p *arcLRU[K, V]) get(key K) (value V, promote, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, found := p.items[key]
	if !found {
		return value, false, false
	}
	p.order.MoveToBack(e)
	e.freq++
	return e.value, e.freq >= p.threshold, true
}

// checkGhost consumes the ghost entry for key if one exists. A true return
// tells the engine the workload wanted a key this side evicted.
func (p *arcLRU[K, V]) checkGhost(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ghosts.take(key)
}

// increaseCapacity grows the main capacity by one unit; the ghost capacity
// tracks it.
func (p *arcLRU[K, V]) increaseCapacity() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.capacity++
	p.ghosts.capacity++
}

// decreaseCapacity gives up one unit of capacity, evicting the least
// recent entry first when the main index is full. It reports false when
// the capacity is already at its floor, in which case no unit transfers.
func (p *arcLRU[K, V]) decreaseCapacity() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.capacity <= 0 {
		return false
	}
	if len(p.items) >= p.capacity {
		p.evictOldestLocked()
	}
	p.capacity--
	p.ghosts.capacity--
	p.ghosts.trim()
	return true
}

func (p *arcLRU[K, V]) contains(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.items[key]
	return ok
}

func (p *arcLRU[K, V]) remove(key K) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if e, ok := p.items[key]; ok {
		p.order.Remove(e)
		delete(p.items, key)
		return true
	}
	return p.ghosts.take(key)
}

func (p *arcLRU[K, V]) purge() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.items = make(map[K]*entry[K, V])
	p.order.Clear()
	p.ghosts.purge()
}

func (p *arcLRU[K, V]) len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.items)
}

func (p *arcLRU[K, V]) keys() []K {
	p.mu.Lock()
	defer p.mu.Unlock()

	keys := make([]K, 0, len(p.items))
	for k := range p.items {
		keys = append(keys, k)
	}
	return keys
}

// evictOldestLocked demotes the least recent entry to the ghost index.
func (p *arcLRU[K, V]) evictOldestLocked() {
	e := p.order.Front()
	if e == nil {
		return
	}
	p.order.Remove(e)
	delete(p.items, e.key)
	p.ghosts.add(e)
}
