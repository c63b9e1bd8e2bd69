package cache

import (
	"errors"
	"fmt"
	"testing"

	"github.com/IvanBrykalov/tierlru/internal/util"
)

// checkIntegrity walks the recency list in both directions and verifies it
// agrees with the hash index.
func checkIntegrity[K comparable, V any](t *testing.T, s *store[K, V]) {
	t.Helper()

	n := 0
	for e := s.head.next; e != s.tail; e = e.next {
		if s.lookup(e.key) != e {
			t.Fatalf("entry %v on list but not indexed to itself", e.key)
		}
		n++
	}
	if n != s.len() {
		t.Fatalf("forward walk found %d entries, index holds %d", n, s.len())
	}
	n = 0
	for e := s.tail.prev; e != s.head; e = e.prev {
		n++
	}
	if n != s.len() {
		t.Fatalf("backward walk found %d entries, index holds %d", n, s.len())
	}
}

// mruKeys snapshots the keys in most-recently-used-first order.
func mruKeys[K comparable, V any](c *Cache[K, V]) []K {
	var out []K
	it := c.Iter()
	for k, _, ok := it.Next(); ok; k, _, ok = it.Next() {
		out = append(out, k)
	}
	return out
}

// Constructors reject non-positive capacities with a typed error.
func TestNew_InvalidSize(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1, -100} {
		_, err := New[string, int](n)
		var se *SizeError
		if !errors.As(err, &se) || se.Size != n {
			t.Fatalf("New(%d): want *SizeError{%d}, got %v", n, n, err)
		}
		want := fmt.Sprintf("invalid cache size %d", n)
		if err.Error() != want {
			t.Fatalf("error message: want %q, got %q", want, err.Error())
		}
	}
}

// Len never exceeds the capacity, whatever the put sequence.
func TestPut_CapacityBound(t *testing.T) {
	t.Parallel()

	const cap = 7
	c, err := New[int, int](cap)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		c.Put(i%13, i)
		if c.Len() > cap {
			t.Fatalf("len %d exceeds cap %d after put #%d", c.Len(), cap, i)
		}
		checkIntegrity(t, c.s)
	}
}

// Updating an existing key replaces the value, reports the old one, and
// never grows or evicts, even at full capacity.
func TestPut_UpdateDoesNotGrow(t *testing.T) {
	t.Parallel()

	c, _ := New[string, string](2)
	c.Put("a", "1")
	c.Put("b", "2") // full

	res := c.Put("a", "1*")
	if res.Kind != PutUpdated || res.OldValue != "1" {
		t.Fatalf("want Update(1), got %+v", res)
	}
	if c.Len() != 2 {
		t.Fatalf("update must not change len, got %d", c.Len())
	}
	if v, _ := c.Get("a"); v != "1*" {
		t.Fatalf("updated value not visible, got %q", v)
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("update must not evict")
	}
}

// Inserting cap+1 distinct keys with no intervening reads evicts exactly
// the first-inserted key, reported on the final put.
func TestPut_FIFOUnderPressure(t *testing.T) {
	t.Parallel()

	const cap = 5
	c, _ := New[int, int](cap)
	for i := 0; i < cap; i++ {
		if res := c.Put(i, i*10); res.Kind != PutInserted {
			t.Fatalf("put %d: want insert, got %v", i, res.Kind)
		}
	}

	res := c.Put(cap, cap*10)
	if res.Kind != PutEvicted || res.EvictedKey != 0 || res.EvictedValue != 0 {
		t.Fatalf("want Evicted{0, 0}, got %+v", res)
	}
	if c.Contains(0) {
		t.Fatal("key 0 must be gone")
	}
}

// The concrete end-to-end scenario at capacity 2.
func TestPut_EndToEnd(t *testing.T) {
	t.Parallel()

	c, _ := New[string, string](2)

	if res := c.Put("apple", "red"); res.Kind != PutInserted {
		t.Fatalf("put apple: got %+v", res)
	}
	if res := c.Put("banana", "yellow"); res.Kind != PutInserted {
		t.Fatalf("put banana: got %+v", res)
	}
	res := c.Put("pear", "green")
	want := PutResult[string, string]{Kind: PutEvicted, EvictedKey: "apple", EvictedValue: "red"}
	if res != want {
		t.Fatalf("put pear: want %+v, got %+v", want, res)
	}
	if _, ok := c.Get("apple"); ok {
		t.Fatal("apple must be evicted")
	}
	if v, ok := c.Get("banana"); !ok || v != "yellow" {
		t.Fatalf("banana: want yellow, got %q ok=%v", v, ok)
	}
}

// A successful Get promotes the key to the front of the iteration order.
func TestGet_PromotesRecency(t *testing.T) {
	t.Parallel()

	c, _ := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Fatal("expected hit for a")
	}
	keys := mruKeys(c)
	if keys[0] != "a" {
		t.Fatalf("a must be MRU after Get, order %v", keys)
	}
}

// Peek and Contains observe without reordering.
func TestPeek_DoesNotPromote(t *testing.T) {
	t.Parallel()

	c, _ := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	if v, ok := c.Peek("a"); !ok || v != 1 {
		t.Fatalf("peek a: want 1, got %d ok=%v", v, ok)
	}
	if !c.Contains("a") {
		t.Fatal("contains a must hold")
	}
	if keys := mruKeys(c); keys[0] != "c" || keys[2] != "a" {
		t.Fatalf("peek/contains must not reorder, order %v", keys)
	}
}

// PeekMut hands out a pointer for in-place mutation, no reordering.
func TestPeekMut_MutatesInPlace(t *testing.T) {
	t.Parallel()

	c, _ := New[string, int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	p, ok := c.PeekMut("a")
	if !ok {
		t.Fatal("expected hit")
	}
	*p = 99
	if v, _ := c.Peek("a"); v != 99 {
		t.Fatalf("mutation not visible, got %d", v)
	}
	if keys := mruKeys(c); keys[0] != "b" {
		t.Fatalf("PeekMut must not reorder, order %v", keys)
	}
}

// GetLRU promotes the tail; PeekLRU does not. The asymmetry is load-bearing.
func TestGetLRU_PromotesButPeekLRUDoesNot(t *testing.T) {
	t.Parallel()

	c, _ := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	if k, v, ok := c.PeekLRU(); !ok || k != "a" || v != 1 {
		t.Fatalf("peekLRU: want (a,1), got (%v,%v,%v)", k, v, ok)
	}
	if keys := mruKeys(c); keys[0] != "c" {
		t.Fatalf("PeekLRU must not reorder, order %v", keys)
	}

	if k, v, ok := c.GetLRU(); !ok || k != "a" || v != 1 {
		t.Fatalf("getLRU: want (a,1), got (%v,%v,%v)", k, v, ok)
	}
	if keys := mruKeys(c); keys[0] != "a" {
		t.Fatalf("GetLRU must promote the tail, order %v", keys)
	}
	if k, _, _ := c.PeekLRU(); k != "b" {
		t.Fatalf("new LRU must be b, got %v", k)
	}
}

// Remove returns the value, fires the eviction callback, and reports
// absence cleanly.
func TestRemove(t *testing.T) {
	t.Parallel()

	var gone []string
	c, _ := New[string, int](4, WithEvict[string, int](func(k string, _ int) {
		gone = append(gone, k)
	}))
	c.Put("a", 1)
	c.Put("b", 2)

	if v, ok := c.Remove("a"); !ok || v != 1 {
		t.Fatalf("remove a: want 1, got %d ok=%v", v, ok)
	}
	if _, ok := c.Remove("a"); ok {
		t.Fatal("second remove must miss")
	}
	if len(gone) != 1 || gone[0] != "a" {
		t.Fatalf("callback must fire once for explicit removal, got %v", gone)
	}
	checkIntegrity(t, c.s)
}

// RemoveLRU pops the tail, firing the callback; empty cache reports false.
func TestRemoveLRU(t *testing.T) {
	t.Parallel()

	fired := 0
	c, _ := New[string, int](3, WithEvict[string, int](func(string, int) { fired++ }))
	c.Put("a", 1)
	c.Put("b", 2)

	if k, v, ok := c.RemoveLRU(); !ok || k != "a" || v != 1 {
		t.Fatalf("removeLRU: want (a,1), got (%v,%v,%v)", k, v, ok)
	}
	if k, _, _ := c.RemoveLRU(); k != "b" {
		t.Fatalf("second removeLRU must pop b, got %v", k)
	}
	if _, _, ok := c.RemoveLRU(); ok {
		t.Fatal("empty cache must report false")
	}
	if fired != 2 {
		t.Fatalf("callback must fire twice, got %d", fired)
	}
}

// Shrinking evicts least-recent entries first and returns the count;
// growing and same-cap resizes evict nothing.
func TestResize(t *testing.T) {
	t.Parallel()

	var order []int
	c, _ := New[int, int](5, WithEvict[int, int](func(k int, _ int) {
		order = append(order, k)
	}))
	for i := 1; i <= 5; i++ {
		c.Put(i, i)
	}

	if n := c.Resize(5); n != 0 {
		t.Fatalf("same-cap resize must be a no-op, evicted %d", n)
	}
	if n := c.Resize(8); n != 0 || c.Cap() != 8 {
		t.Fatalf("grow: evicted %d cap %d", n, c.Cap())
	}

	if n := c.Resize(2); n != 3 {
		t.Fatalf("shrink 5->2 must evict 3, got %d", n)
	}
	if want := []int{1, 2, 3}; len(order) != 3 || order[0] != want[0] || order[1] != want[1] || order[2] != want[2] {
		t.Fatalf("shrink must evict LRU-to-MRU, got %v", order)
	}
	if keys := mruKeys(c); len(keys) != 2 || keys[0] != 5 || keys[1] != 4 {
		t.Fatalf("survivors must be the most recent, order %v", keys)
	}
}

// Resize(0) empties the cache and pins the capacity; a put against a
// zero-cap cache is its own victim.
func TestResize_ToZero(t *testing.T) {
	t.Parallel()

	c, _ := New[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)

	if n := c.Resize(0); n != 2 {
		t.Fatalf("resize(0) must evict everything, got %d", n)
	}
	if !c.IsEmpty() || c.Cap() != 0 {
		t.Fatalf("want empty cache with cap 0, len=%d cap=%d", c.Len(), c.Cap())
	}

	res := c.Put("x", 9)
	if res.Kind != PutEvicted || res.EvictedKey != "x" || res.EvictedValue != 9 {
		t.Fatalf("zero-cap put must evict its own pair, got %+v", res)
	}
	if !c.IsEmpty() {
		t.Fatal("zero-cap cache must stay empty")
	}
}

// Purge fires the callback exactly once per entry, tail to head.
func TestPurge_FiresOncePerEntryTailFirst(t *testing.T) {
	t.Parallel()

	var order []int
	c, _ := New[int, int](4, WithEvict[int, int](func(k int, _ int) {
		order = append(order, k)
	}))
	for i := 1; i <= 4; i++ {
		c.Put(i, i)
	}

	c.Purge()
	if !c.IsEmpty() {
		t.Fatal("purge must empty the cache")
	}
	if len(order) != 4 {
		t.Fatalf("callback must fire once per entry, got %d", len(order))
	}
	for i, k := range []int{1, 2, 3, 4} {
		if order[i] != k {
			t.Fatalf("purge order must be LRU-to-MRU, got %v", order)
		}
	}
}

// A deliberately colliding hasher forces every key into one bucket; all
// operations must still be correct.
func TestWithHasher_CollisionPile(t *testing.T) {
	t.Parallel()

	c, _ := New[string, int](8, WithHasher[string, int](func(string) uint64 { return 42 }))
	for i := 0; i < 8; i++ {
		c.Put(fmt.Sprintf("k%d", i), i)
	}
	checkIntegrity(t, c.s)

	for i := 0; i < 8; i++ {
		if v, ok := c.Get(fmt.Sprintf("k%d", i)); !ok || v != i {
			t.Fatalf("k%d: want %d, got %d ok=%v", i, i, v, ok)
		}
	}
	if _, ok := c.Remove("k3"); !ok {
		t.Fatal("remove k3 must hit")
	}
	if c.Contains("k3") || c.Len() != 7 {
		t.Fatalf("k3 must be gone, len=%d", c.Len())
	}
	checkIntegrity(t, c.s)
}

// The deterministic FNV hasher routes correctly too (custom-hasher wiring).
func TestWithHasher_Fnv(t *testing.T) {
	t.Parallel()

	c, _ := New[string, string](4, WithHasher[string, string](util.Fnv64a[string]))
	c.Put("a", "1")
	c.Put("b", "2")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("want 1, got %q ok=%v", v, ok)
	}
}

type countingMetrics struct {
	hits, misses int
	evicts       map[EvictReason]int
	size         int
}

func (m *countingMetrics) Hit()                { m.hits++ }
func (m *countingMetrics) Miss()               { m.misses++ }
func (m *countingMetrics) Evict(r EvictReason) { m.evicts[r]++ }
func (m *countingMetrics) Size(n int)          { m.size = n }

// The metrics sink observes hits, misses, and evictions by reason.
func TestWithMetrics(t *testing.T) {
	t.Parallel()

	m := &countingMetrics{evicts: map[EvictReason]int{}}
	c, _ := New[string, int](2, WithMetrics[string, int](m))

	c.Put("a", 1)
	c.Put("b", 2)
	c.Get("a")
	c.Get("zzz")
	c.Put("c", 3) // evicts LRU b
	c.Remove("c")
	c.Resize(1) // a remains, len 1: nothing to evict
	c.Purge()   // purges a

	if m.hits != 1 || m.misses != 1 {
		t.Fatalf("hits=%d misses=%d", m.hits, m.misses)
	}
	if m.evicts[EvictCapacity] != 1 || m.evicts[EvictRemove] != 1 || m.evicts[EvictPurge] != 1 {
		t.Fatalf("evict reasons: %v", m.evicts)
	}
	if m.size != 0 {
		t.Fatalf("size gauge must end at 0, got %d", m.size)
	}
}

// Eviction via capacity pressure hands the evicted pair to the callback.
func TestWithEvict_CapacityEviction(t *testing.T) {
	t.Parallel()

	type pair struct {
		k string
		v int
	}
	var evicted []pair
	c, _ := New[string, int](2, WithEvict[string, int](func(k string, v int) {
		evicted = append(evicted, pair{k, v})
	}))
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	if len(evicted) != 1 || evicted[0] != (pair{"a", 1}) {
		t.Fatalf("want [{a 1}], got %v", evicted)
	}
}
