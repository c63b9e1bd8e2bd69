package cache

// Hasher maps a key to a 64-bit hash. The store's index buckets entries by
// this hash and resolves collisions by comparing keys with ==, so any
// reasonable hash quality gives O(1) expected lookups. The default is a
// per-cache randomized hasher over all comparable key types
// (util.DefaultHasher); util.Fnv64a is available when a deterministic,
// seed-free hash is wanted.
type Hasher[K comparable] func(K) uint64

// store combines the recency list with the hash index. It owns every live
// entry: each entry is reachable from exactly one bucket slot and exactly
// one list position, and walking head->tail visits exactly the indexed set.
//
// head and tail are permanent sentinel entries holding no key or value;
// head.next is the most-recently-used entry, tail.prev the least.
type store[K comparable, V any] struct {
	hash    Hasher[K]
	buckets map[uint64][]*entry[K, V]
	size    int

	head *entry[K, V]
	tail *entry[K, V]

	// version increments on every membership or order change. Live
	// iterators snapshot it and fail fast when it moves (see iter.go).
	version uint64
}

func newStore[K comparable, V any](hash Hasher[K]) *store[K, V] {
	s := &store[K, V]{
		hash:    hash,
		buckets: make(map[uint64][]*entry[K, V]),
		head:    &entry[K, V]{},
		tail:    &entry[K, V]{},
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

func (s *store[K, V]) len() int { return s.size }

// lookup finds the entry for k without touching the recency order.
func (s *store[K, V]) lookup(k K) *entry[K, V] {
	for _, e := range s.buckets[s.hash(k)] {
		if e.key == k {
			return e
		}
	}
	return nil
}

// attach splices e immediately after the head sentinel (MRU position).
func (s *store[K, V]) attach(e *entry[K, V]) {
	e.prev = s.head
	e.next = s.head.next
	s.head.next.prev = e
	s.head.next = e
	s.version++
}

// detach unlinks e from the list without touching the index.
func (s *store[K, V]) detach(e *entry[K, V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	s.version++
}

// moveToFront promotes e to MRU. Correct even when e is already at the
// front; the version still moves so iterators notice the access.
func (s *store[K, V]) moveToFront(e *entry[K, V]) {
	s.detach(e)
	s.attach(e)
}

// insert adds e to the index and attaches it at MRU. e.hash must already
// be set under s.hash.
func (s *store[K, V]) insert(e *entry[K, V]) {
	s.buckets[e.hash] = append(s.buckets[e.hash], e)
	s.size++
	s.attach(e)
}

// unindex removes e from its hash bucket.
func (s *store[K, V]) unindex(e *entry[K, V]) {
	b := s.buckets[e.hash]
	for i, x := range b {
		if x == e {
			b[i] = b[len(b)-1]
			b = b[:len(b)-1]
			break
		}
	}
	if len(b) == 0 {
		delete(s.buckets, e.hash)
	} else {
		s.buckets[e.hash] = b
	}
	s.size--
}

// unlink fully removes e from the store: list detach plus index removal.
func (s *store[K, V]) unlink(e *entry[K, V]) {
	s.detach(e)
	s.unindex(e)
}

// back returns the least-recently-used entry, or nil when empty.
func (s *store[K, V]) back() *entry[K, V] {
	if s.tail.prev == s.head {
		return nil
	}
	return s.tail.prev
}

// rekey repurposes a resident entry for a new key/value pair, keeping the
// allocation. Used by Put when a full cache recycles its LRU slot. The
// entry is re-indexed under the new key and promoted to MRU.
func (s *store[K, V]) rekey(e *entry[K, V], k K, v V) {
	s.unindex(e)
	e.key, e.val, e.hash = k, v, s.hash(k)
	s.buckets[e.hash] = append(s.buckets[e.hash], e)
	s.size++
	s.moveToFront(e)
}
