package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"budgetsim/pkg/cache"
	"budgetsim/pkg/logging"
)

// Cache is a Redis-backed cache.Layer. All commands run through a circuit
// breaker so a struggling Redis degrades to cache misses instead of slowing
// every request down.
type Cache struct {
	client rueidis.Client
	cb     *gobreaker.CircuitBreaker
	config Config
	logger *logging.Logger
}

// Config holds Redis connection configuration.
type Config struct {
	Name      string
	Addr      string
	Username  string
	Password  string
	DB        int
	KeyPrefix string

	DialTimeout  time.Duration
	WriteTimeout time.Duration

	// BreakerFailures is the consecutive-failure count that opens the circuit.
	BreakerFailures uint32
	// BreakerTimeout is how long the circuit stays open before a probe.
	BreakerTimeout time.Duration
}

// DefaultConfig returns default Redis configuration.
func DefaultConfig() Config {
	return Config{
		Name:            "redis",
		Addr:            "localhost:6379",
		KeyPrefix:       "budgetsim:",
		DialTimeout:     5 * time.Second,
		WriteTimeout:    3 * time.Second,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// New connects to Redis and wraps the connection in a circuit breaker.
func New(config Config, logger *logging.Logger) (*Cache, error) {
	if config.Name == "" {
		config.Name = "redis"
	}
	if config.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}
	if config.BreakerFailures == 0 {
		config.BreakerFailures = 5
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("redis")

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      []string{config.Addr},
		Username:         config.Username,
		Password:         config.Password,
		SelectDB:         config.DB,
		ConnWriteTimeout: config.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    config.Name,
		Timeout: config.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.BreakerFailures
		},
		// A miss is a healthy response, not a backend failure.
		IsSuccessful: func(err error) bool {
			return err == nil || cache.IsNotFound(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("layer", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return &Cache{client: client, cb: cb, config: config, logger: logger}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := c.config.KeyPrefix + key

	result, err := c.cb.Execute(func() (interface{}, error) {
		resp := c.client.Do(ctx, c.client.B().Get().Key(fullKey).Build())
		if err := resp.Error(); err != nil {
			if rueidis.IsRedisNil(err) {
				return nil, cache.ErrKeyNotFound
			}
			return nil, fmt.Errorf("redis get: %w", err)
		}
		return resp.AsBytes()
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, cache.ErrUnavailable
		}
		return nil, err
	}

	return result.([]byte), nil
}

func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	fullKey := c.config.KeyPrefix + key

	_, err := c.cb.Execute(func() (interface{}, error) {
		cmd := c.client.B().Set().Key(fullKey).Value(rueidis.BinaryString(value)).Ex(ttl).Build()
		if err := c.client.Do(ctx, cmd).Error(); err != nil {
			return nil, fmt.Errorf("redis set: %w", err)
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return cache.ErrUnavailable
	}

	return err
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	fullKey := c.config.KeyPrefix + key

	_, err := c.cb.Execute(func() (interface{}, error) {
		if err := c.client.Do(ctx, c.client.B().Del().Key(fullKey).Build()).Error(); err != nil {
			return nil, fmt.Errorf("redis delete: %w", err)
		}
		return nil, nil
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return cache.ErrUnavailable
	}

	return err
}

func (c *Cache) Name() string {
	return c.config.Name
}

func (c *Cache) Close() error {
	c.client.Close()
	return nil
}
