package cache

// ghostIndex is a bounded history of recently evicted keys, ordered by
// eviction recency. Ghost entries retain only the key; the value is cleared
// when the entry is demoted. Both ARC sub-policies keep one ghost index
// each, and all calls happen under the owning sub-policy's lock.
type ghostIndex[K comparable, V any] struct {
	capacity int
	items    map[K]*entry[K, V]
	order    *entryList[K, V]
}

func newGhostIndex[K comparable, V any](capacity int) *ghostIndex[K, V] {
	return &ghostIndex[K, V]{
		capacity: capacity,
		items:    make(map[K]*entry[K, V]),
		order:    newEntryList[K, V](),
	}
}

// add demotes e to a ghost entry and records it at the newest end, dropping
// the oldest ghost first if the index is full. The caller has already
// unlinked e from its main list.
func (g *ghostIndex[K, V]) add(e *entry[K, V]) {
	if g.capacity <= 0 {
		return
	}
	if g.order.Len() >= g.capacity {
		g.dropOldest()
	}
	var zero V
	e.value = zero
	e.freq = 1
	g.order.PushBack(e)
	g.items[e.key] = e
}

// take consumes the ghost entry for key, reporting whether one existed.
func (g *ghostIndex[K, V]) take(key K) bool {
	e, ok := g.items[key]
	if !ok {
		return false
	}
	g.order.Remove(e)
	delete(g.items, key)
	return true
}

// dropOldest silently discards the oldest ghost entry.
func (g *ghostIndex[K, V]) dropOldest() {
	e := g.order.Front()
	if e == nil {
		return
	}
	g.order.Remove(e)
	delete(g.items, e.key)
}

// trim discards oldest ghosts until the index fits its capacity again,
// used after the capacity shrinks.
func (g *ghostIndex[K, V]) trim() {
	for g.order.Len() > g.capacity {
		g.dropOldest()
	}
}

func (g *ghostIndex[K, V]) len() int {
	return g.order.Len()
}

func (g *ghostIndex[K, V]) purge() {
	g.items = make(map[K]*entry[K, V])
	g.order.Clear()
}
