package cache

// freqIndex maps an access frequency to the list of entries sharing it.
// Within a bucket, insertion order breaks ties: the front of the minimum
// bucket is the oldest among the least-frequent entries and therefore the
// eviction victim. A bucket is deleted the moment it empties, so minFreq
// always names the smallest non-empty bucket (0 when the index is empty).
//
// freqIndex is not safe for concurrent use; the owning policy locks around
// every call.
type freqIndex[K comparable, V any] struct {
	buckets map[int]*entryList[K, V]
	minFreq int
}

func newFreqIndex[K comparable, V any]() *freqIndex[K, V] {
	return &freqIndex[K, V]{
		buckets: make(map[int]*entryList[K, V]),
	}
}

// insert links e into the bucket matching e.freq.
func (f *freqIndex[K, V]) insert(e *entry[K, V]) {
	l, ok := f.buckets[e.freq]
	if !ok {
		l = newEntryList[K, V]()
		f.buckets[e.freq] = l
	}
	l.PushBack(e)
	if f.minFreq == 0 || e.freq < f.minFreq {
		f.minFreq = e.freq
	}
}

// remove unlinks e from its bucket. If that was the minimum bucket and it
// emptied, minFreq is recomputed by scanning the remaining bucket keys.
func (f *freqIndex[K, V]) remove(e *entry[K, V]) {
	l, ok := f.buckets[e.freq]
	if !ok {
		return
	}
	l.Remove(e)
	if l.Len() == 0 {
		delete(f.buckets, e.freq)
		if e.freq == f.minFreq {
			f.recomputeMin()
		}
	}
}

// touch promotes e from bucket freq to bucket freq+1. When the vacated
// bucket was the minimum and is now empty, minFreq advances directly to the
// new frequency without a scan.
func (f *freqIndex[K, V]) touch(e *entry[K, V]) {
	old := e.freq
	l := f.buckets[old]
	l.Remove(e)
	e.freq++
	if l.Len() == 0 {
		delete(f.buckets, old)
		if old == f.minFreq {
			f.minFreq = e.freq
		}
	}
	f.insert(e)
}

// leastFrequent returns the eviction victim: the oldest entry in the
// minimum bucket, or nil if the index is empty.
func (f *freqIndex[K, V]) leastFrequent() *entry[K, V] {
	if f.minFreq == 0 {
		return nil
	}
	return f.buckets[f.minFreq].Front()
}

// age subtracts decay from every linked entry's frequency (floored at 1)
// and rebuckets it, then leaves minFreq at the smallest remaining bucket.
// The sweep is O(population); callers run it only when the mean access
// frequency has exceeded its ceiling.
func (f *freqIndex[K, V]) age(decay int) {
	if decay < 1 {
		decay = 1
	}
	old := f.buckets
	f.buckets = make(map[int]*entryList[K, V], len(old))
	f.minFreq = 0
	for _, l := range old {
		for e := l.Front(); e != nil; e = l.Front() {
			l.Remove(e)
			e.freq -= decay
			if e.freq < 1 {
				e.freq = 1
			}
			f.insert(e)
		}
	}
}

func (f *freqIndex[K, V]) recomputeMin() {
	f.minFreq = 0
	for freq := range f.buckets {
		if f.minFreq == 0 || freq < f.minFreq {
			f.minFreq = freq
		}
	}
}

func (f *freqIndex[K, V]) purge() {
	f.buckets = make(map[int]*entryList[K, V])
	f.minFreq = 0
}
