package memory

import (
	"context"
	"sync"
	"time"

	"budgetsim/pkg/cache"
)

// Cache is a thread-safe in-memory cache.Layer with TTL expiration and LRU
// eviction when MaxSize is exceeded.
type Cache struct {
	data map[string]*entry
	mu   sync.RWMutex

	config Config

	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	wg            sync.WaitGroup
}

type entry struct {
	value      []byte
	expiresAt  time.Time
	accessedAt time.Time
}

// Config holds configuration for the memory cache.
type Config struct {
	// Name is the cache layer identifier.
	Name string
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int
	// DefaultTTL applies when Set is called with ttl 0.
	DefaultTTL time.Duration
	// CleanupInterval is how often expired entries are purged.
	CleanupInterval time.Duration
}

// DefaultConfig returns the default memory cache configuration.
func DefaultConfig() Config {
	return Config{
		Name:            "memory",
		MaxSize:         1000,
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Minute,
	}
}

// New creates a memory cache and starts its background TTL cleanup goroutine.
func New(config Config) *Cache {
	if config.Name == "" {
		config.Name = "memory"
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = time.Minute
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}

	c := &Cache{
		data:          make(map[string]*entry),
		config:        config,
		stopCleanup:   make(chan struct{}),
		cleanupTicker: time.NewTicker(config.CleanupInterval),
	}

	c.wg.Add(1)
	go c.cleanup()

	return c
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, cache.ErrInvalidKey
	}

	c.mu.RLock()
	e, exists := c.data[key]
	c.mu.RUnlock()

	if !exists {
		return nil, cache.ErrKeyNotFound
	}

	if time.Now().After(e.expiresAt) {
		c.mu.Lock()
		delete(c.data, key)
		c.mu.Unlock()
		return nil, cache.ErrKeyNotFound
	}

	c.mu.Lock()
	e.accessedAt = time.Now()
	c.mu.Unlock()

	return e.value, nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return cache.ErrInvalidKey
	}

	if ttl == 0 {
		ttl = c.config.DefaultTTL
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.MaxSize > 0 && len(c.data) >= c.config.MaxSize {
		c.evictLRU()
	}

	now := time.Now()
	c.data[key] = &entry{
		value:      value,
		expiresAt:  now.Add(ttl),
		accessedAt: now,
	}

	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if key == "" {
		return cache.ErrInvalidKey
	}

	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()

	return nil
}

func (c *Cache) Name() string {
	return c.config.Name
}

// Close stops the cleanup goroutine and drops all data.
func (c *Cache) Close() error {
	c.cleanupTicker.Stop()
	close(c.stopCleanup)
	c.wg.Wait()

	c.mu.Lock()
	c.data = nil
	c.mu.Unlock()

	return nil
}

// Len returns the current number of entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// evictLRU removes the least recently accessed entry. Caller holds c.mu.
func (c *Cache) evictLRU() {
	var lruKey string
	var lruTime time.Time

	for k, e := range c.data {
		if lruKey == "" || e.accessedAt.Before(lruTime) {
			lruKey = k
			lruTime = e.accessedAt
		}
	}

	if lruKey != "" {
		delete(c.data, lruKey)
	}
}

func (c *Cache) cleanup() {
	defer c.wg.Done()

	for {
		select {
		case <-c.cleanupTicker.C:
			c.removeExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for key, e := range c.data {
		if now.After(e.expiresAt) {
			delete(c.data, key)
		}
	}
}
