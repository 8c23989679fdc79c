package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"budgetsim/pkg/logging"
	"budgetsim/pkg/metrics"
)

// Loader fetches the value for a key from the source of truth. It returns
// ErrKeyNotFound when the record does not exist, which is cached negatively.
type Loader func(ctx context.Context) ([]byte, error)

// ReadThrough layers caches in front of a loader. Lookups try each layer in
// order, backfill earlier layers on a hit, and collapse concurrent misses for
// one key into a single load. "Not found" results are remembered briefly so
// repeated lookups for missing records skip the datastore.
type ReadThrough struct {
	layers  []Layer
	group   singleflight.Group
	logger  *logging.Logger
	metrics metrics.Collector

	negMu       sync.Mutex
	negative    map[string]time.Time
	negativeTTL time.Duration
}

// NewReadThrough creates a read-through over the given layers, fastest first.
func NewReadThrough(logger *logging.Logger, collector metrics.Collector, negativeTTL time.Duration, layers ...Layer) *ReadThrough {
	if logger == nil {
		logger = logging.NewNop()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	if negativeTTL <= 0 {
		negativeTTL = time.Minute
	}

	return &ReadThrough{
		layers:      layers,
		logger:      logger.Named("cache"),
		metrics:     collector,
		negative:    make(map[string]time.Time),
		negativeTTL: negativeTTL,
	}
}

// Get returns the cached value for key, loading and caching it on a miss.
func (rt *ReadThrough) Get(ctx context.Context, key string, ttl time.Duration, load Loader) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidKey
	}

	if rt.isNegative(key) {
		return nil, ErrKeyNotFound
	}

	for i, layer := range rt.layers {
		value, err := layer.Get(ctx, key)
		if err == nil {
			rt.metrics.RecordCacheGet(layer.Name(), true)
			rt.backfill(ctx, key, value, ttl, i)
			return value, nil
		}
		rt.metrics.RecordCacheGet(layer.Name(), false)
		if !IsNotFound(err) && !errors.Is(err, ErrUnavailable) {
			rt.logger.Warn("cache layer get failed",
				zap.String("layer", layer.Name()), zap.String("key", key), zap.Error(err))
		}
	}

	value, err, _ := rt.group.Do(key, func() (interface{}, error) {
		data, err := load(ctx)
		if err != nil {
			if IsNotFound(err) {
				rt.cacheNegative(key)
			}
			return nil, err
		}

		for _, layer := range rt.layers {
			if err := layer.Set(ctx, key, data, ttl); err != nil {
				rt.logger.Warn("cache layer set failed",
					zap.String("layer", layer.Name()), zap.String("key", key), zap.Error(err))
			}
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return value.([]byte), nil
}

// Invalidate removes keys from every layer and from the negative map.
func (rt *ReadThrough) Invalidate(ctx context.Context, keys ...string) {
	rt.negMu.Lock()
	for _, key := range keys {
		delete(rt.negative, key)
	}
	rt.negMu.Unlock()

	for _, key := range keys {
		for _, layer := range rt.layers {
			if err := layer.Delete(ctx, key); err != nil {
				rt.logger.Warn("cache layer delete failed",
					zap.String("layer", layer.Name()), zap.String("key", key), zap.Error(err))
			}
		}
	}
}

// Close closes every layer, aggregating errors.
func (rt *ReadThrough) Close() error {
	var err error
	for _, layer := range rt.layers {
		err = multierr.Append(err, layer.Close())
	}
	return err
}

// backfill writes a value found in a slower layer into the faster ones.
func (rt *ReadThrough) backfill(ctx context.Context, key string, value []byte, ttl time.Duration, hitIndex int) {
	for i := 0; i < hitIndex; i++ {
		if err := rt.layers[i].Set(ctx, key, value, ttl); err != nil {
			rt.logger.Warn("cache backfill failed",
				zap.String("layer", rt.layers[i].Name()), zap.String("key", key), zap.Error(err))
		}
	}
}

func (rt *ReadThrough) isNegative(key string) bool {
	rt.negMu.Lock()
	defer rt.negMu.Unlock()

	expiresAt, ok := rt.negative[key]
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		delete(rt.negative, key)
		return false
	}
	return true
}

func (rt *ReadThrough) cacheNegative(key string) {
	rt.negMu.Lock()
	defer rt.negMu.Unlock()

	// Drop stale entries opportunistically; the map stays small.
	now := time.Now()
	for k, expiresAt := range rt.negative {
		if now.After(expiresAt) {
			delete(rt.negative, k)
		}
	}

	rt.negative[key] = now.Add(rt.negativeTTL)
}
