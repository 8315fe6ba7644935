// Package dedupe defines the interface for event identifier tracking.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen event IDs so each identifier is admitted once.
//
// The set grows monotonically for the lifetime of a session: the visible
// event log truncates at 50 entries, so pruning seen IDs would let an
// evicted event re-enter the display window. Unbounded identifier memory
// is traded for correct dedup.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, id string) bool

	// Size returns the number of identifiers recorded so far.
	Size() int

	// Reset drops every recorded identifier. Used only by a full
	// session reset, never during normal ingestion.
	Reset(ctx context.Context)
}

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithInitialCapacity pre-sizes the seen set.
func WithInitialCapacity(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.capacity = n
		}
	}
}

// inMemoryDeduper implements Deduper with a plain map under a mutex.
type inMemoryDeduper struct {
	mu       sync.Mutex
	seen     map[string]struct{}
	capacity int
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		capacity: 1024,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{}, d.capacity)
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.seen[id]; exists {
		return true
	}
	d.seen[id] = struct{}{}
	return false
}

func (d *inMemoryDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func (d *inMemoryDeduper) Reset(_ context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen = make(map[string]struct{}, d.capacity)
}
