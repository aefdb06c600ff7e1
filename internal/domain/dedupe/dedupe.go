// Package dedupe defines the interface for request idempotency tracking.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen request IDs so a resubmitted recommendation request
// never produces a second scoring run.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen list, allowing it to be retried.
	// Used when a request was marked seen but could not be queued.
	Unrecord(ctx context.Context, id string)

	// Size returns the current number of tracked IDs.
	Size() int64
}

// inMemoryDeduper implements Deduper with a bounded map plus a FIFO ring of
// insertion order: when the cache is full the oldest ID is evicted.
// maxSize <= 0 disables eviction entirely.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order ring, bounded mode only
	head    int      // index of the oldest entry in order
	count   int      // live entries in order
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	if d.maxSize > 0 {
		d.order = make([]string, d.maxSize)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	if d.maxSize > 0 && d.count == d.maxSize {
		// Evict the oldest entry to make room.
		oldest := d.order[d.head]
		delete(d.seen, oldest)
		d.head = (d.head + 1) % d.maxSize
		d.count--
	}

	d.seen[id] = struct{}{}
	if d.maxSize > 0 {
		d.order[(d.head+d.count)%d.maxSize] = id
		d.count++
	}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	// The ring keeps a stale slot until it cycles around; SeenAndRecord
	// consults only the map, so correctness is unaffected.
	delete(d.seen, id)
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
