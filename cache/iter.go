package cache

import "iter"

// Iter is a lazy, finite, double-ended view over a cache's recency order.
// Next pulls from the front of the remaining window and NextBack from the
// end; they share one window and together yield each entry exactly once.
// Len reports the exact remaining count. Iterators are not restartable.
//
// An iterator is pinned to the cache state it was created from: any Put,
// Get, Remove, Resize, Purge or tier transfer on the cache invalidates it,
// and the next Next/NextBack panics. This is the fail-fast guard against
// iterating a structure that is being reshaped underneath; value mutation
// through IterMut or PeekMut pointers is fine.
type Iter[K comparable, V any] struct {
	s    *store[K, V]
	next *entry[K, V]
	back *entry[K, V]
	rest int
	ver  uint64
	rev  bool
}

// Iter returns an iterator over entries in most-recently-used-first order.
func (c *Cache[K, V]) Iter() *Iter[K, V] {
	return &Iter[K, V]{
		s:    c.s,
		next: c.s.head.next,
		back: c.s.tail.prev,
		rest: c.s.len(),
		ver:  c.s.version,
	}
}

// ReversedIter returns an iterator over entries in least-recently-used-first
// order.
func (c *Cache[K, V]) ReversedIter() *Iter[K, V] {
	return &Iter[K, V]{
		s:    c.s,
		next: c.s.tail.prev,
		back: c.s.head.next,
		rest: c.s.len(),
		ver:  c.s.version,
		rev:  true,
	}
}

// Next yields the next pair from the front of the remaining window.
// The third return is false once the window is exhausted.
func (it *Iter[K, V]) Next() (K, V, bool) {
	it.check()
	if it.rest == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	e := it.next
	if it.rev {
		it.next = e.prev
	} else {
		it.next = e.next
	}
	it.rest--
	return e.key, e.val, true
}

// NextBack yields the next pair from the end of the remaining window.
func (it *Iter[K, V]) NextBack() (K, V, bool) {
	it.check()
	if it.rest == 0 {
		var zk K
		var zv V
		return zk, zv, false
	}
	e := it.back
	if it.rev {
		it.back = e.next
	} else {
		it.back = e.prev
	}
	it.rest--
	return e.key, e.val, true
}

// Len returns the exact number of pairs not yet yielded.
func (it *Iter[K, V]) Len() int { return it.rest }

func (it *Iter[K, V]) check() {
	if it.ver != it.s.version {
		panic("tierlru: cache mutated during iteration")
	}
}

// IterMut is the mutable counterpart of Iter: it yields a pointer to each
// value for in-place updates. The same window and fail-fast rules apply;
// writing through the yielded pointers does not invalidate the iterator.
type IterMut[K comparable, V any] struct {
	inner Iter[K, V]
}

// IterMut returns a mutable iterator in most-recently-used-first order.
func (c *Cache[K, V]) IterMut() *IterMut[K, V] {
	return &IterMut[K, V]{inner: *c.Iter()}
}

// ReversedIterMut returns a mutable iterator in least-recently-used-first
// order.
func (c *Cache[K, V]) ReversedIterMut() *IterMut[K, V] {
	return &IterMut[K, V]{inner: *c.ReversedIter()}
}

// Next yields the next key and value pointer from the front of the window.
func (it *IterMut[K, V]) Next() (K, *V, bool) {
	it.inner.check()
	if it.inner.rest == 0 {
		var zk K
		return zk, nil, false
	}
	e := it.inner.next
	if it.inner.rev {
		it.inner.next = e.prev
	} else {
		it.inner.next = e.next
	}
	it.inner.rest--
	return e.key, &e.val, true
}

// NextBack yields the next key and value pointer from the end of the window.
func (it *IterMut[K, V]) NextBack() (K, *V, bool) {
	it.inner.check()
	if it.inner.rest == 0 {
		var zk K
		return zk, nil, false
	}
	e := it.inner.back
	if it.inner.rev {
		it.inner.back = e.next
	} else {
		it.inner.back = e.prev
	}
	it.inner.rest--
	return e.key, &e.val, true
}

// Len returns the exact number of pairs not yet yielded.
func (it *IterMut[K, V]) Len() int { return it.inner.rest }

// All returns a range-over-func view in most-recently-used-first order.
// The usual iterator rules apply: do not mutate the cache inside the loop.
func (c *Cache[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := c.Iter()
		for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
			if !yield(k, v) {
				return
			}
		}
	}
}

// ReversedAll returns a range-over-func view in least-recently-used-first
// order, with the same rules as All.
func (c *Cache[K, V]) ReversedAll() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		it := c.ReversedIter()
		for k, v, ok := it.Next(); ok; k, v, ok = it.Next() {
			if !yield(k, v) {
				return
			}
		}
	}
}
