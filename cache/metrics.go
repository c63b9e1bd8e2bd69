package cache

// EvictReason explains why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity: displaced by an insert at full capacity.
	EvictCapacity EvictReason = iota
	// EvictResize: dropped while shrinking to a smaller capacity.
	EvictResize
	// EvictPurge: dropped by Purge.
	EvictPurge
	// EvictRemove: removed explicitly (Remove / RemoveLRU).
	EvictRemove
)

// Metrics exposes cache observability hooks. A NoopMetrics implementation
// is used when none is configured. Implementations must tolerate being
// called from whatever goroutine drives the cache; the cache itself adds
// no synchronization.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason)
	Size(entries int)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Hit()              {}
func (NoopMetrics) Miss()             {}
func (NoopMetrics) Evict(EvictReason) {}
func (NoopMetrics) Size(int)          {}

var _ Metrics = NoopMetrics{}
