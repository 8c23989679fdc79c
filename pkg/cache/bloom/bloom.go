package bloom

import (
	"context"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"budgetsim/pkg/cache"
)

// Layer fronts a cache layer with a probabilistic seen-key filter. Keys that
// were never written are rejected without touching the wrapped layer, which
// keeps lookups for unknown keys cheap. A bloom hit can still miss in the
// wrapped layer (false positive, or the entry expired); the filter is never
// emptied by deletes, only by Reset.
type Layer struct {
	layer  cache.Layer
	filter *bloom.BloomFilter
	mu     sync.RWMutex

	queries  uint64
	rejected uint64
}

// New creates a bloom filter wrapper around layer.
func New(layer cache.Layer, expectedItems uint, falsePositiveRate float64) *Layer {
	if expectedItems == 0 {
		expectedItems = 10000
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = 0.01
	}

	return &Layer{
		layer:  layer,
		filter: bloom.NewWithEstimates(expectedItems, falsePositiveRate),
	}
}

func (l *Layer) Name() string {
	return "bloom(" + l.layer.Name() + ")"
}

func (l *Layer) Get(ctx context.Context, key string) ([]byte, error) {
	l.mu.Lock()
	l.queries++
	mayExist := l.filter.Test([]byte(key))
	if !mayExist {
		l.rejected++
		l.mu.Unlock()
		return nil, cache.ErrKeyNotFound
	}
	l.mu.Unlock()

	return l.layer.Get(ctx, key)
}

func (l *Layer) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	l.mu.Lock()
	l.filter.Add([]byte(key))
	l.mu.Unlock()

	return l.layer.Set(ctx, key, value, ttl)
}

func (l *Layer) Delete(ctx context.Context, key string) error {
	return l.layer.Delete(ctx, key)
}

func (l *Layer) Close() error {
	return l.layer.Close()
}

// Reset clears the filter and its counters.
func (l *Layer) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.filter = bloom.NewWithEstimates(uint(l.filter.Cap()), 0.01)
	l.queries = 0
	l.rejected = 0
}

// Stats reports how many lookups the filter has short-circuited.
func (l *Layer) Stats() (queries, rejected uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.queries, l.rejected
}
