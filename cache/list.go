package cache

// entry is a node in an intrusive doubly-linked list. An entry is owned by
// exactly one list at a time; moving it between lists is an explicit
// Remove followed by PushBack under the owning policy's lock.
type entry[K comparable, V any] struct {
	key   K
	value V

	// freq is the access counter. It starts at 1, drives the frequency
	// bucket index, and is reset to 1 when the entry is demoted to a ghost.
	freq int

	prev *entry[K, V]
	next *entry[K, V]
}

// entryList is a doubly-linked sequence of entries with two sentinel nodes,
// so insert and remove never special-case the empty-list boundaries.
// The front is the oldest position, the back the newest.
type entryList[K comparable, V any] struct {
	head *entry[K, V] // sentinel; head.next is the oldest entry
	tail *entry[K, V] // sentinel; tail.prev is the newest entry
	size int
}

func newEntryList[K comparable, V any]() *entryList[K, V] {
	l := &entryList[K, V]{
		head: &entry[K, V]{},
		tail: &entry[K, V]{},
	}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

// Len returns the number of entries in the list.
func (l *entryList[K, V]) Len() int {
	return l.size
}

// PushBack inserts e at the newest end of the list.
func (l *entryList[K, V]) PushBack(e *entry[K, V]) {
	e.prev = l.tail.prev
	e.next = l.tail
	l.tail.prev.next = e
	l.tail.prev = e
	l.size++
}

// Remove unlinks e. The caller must ensure e belongs to this list.
func (l *entryList[K, V]) Remove(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
	l.size--
}

// MoveToBack moves an existing entry to the newest end.
func (l *entryList[K, V]) MoveToBack(e *entry[K, V]) {
	if l.tail.prev == e {
		return // already newest
	}
	l.Remove(e)
	l.PushBack(e)
}

// Front returns the oldest entry without removing it, or nil if empty.
func (l *entryList[K, V]) Front() *entry[K, V] {
	if l.size == 0 {
		return nil
	}
	return l.head.next
}

// Back returns the newest entry without removing it, or nil if empty.
func (l *entryList[K, V]) Back() *entry[K, V] {
	if l.size == 0 {
		return nil
	}
	return l.tail.prev
}

// Clear unlinks every entry.
func (l *entryList[K, V]) Clear() {
	l.head.next = l.tail
	l.tail.prev = l.head
	l.size = 0
}
