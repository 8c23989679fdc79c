package memory

import (
	"sync"
	"time"
)

// Collector implements metrics.Collector for in-memory testing.
type Collector struct {
	mu sync.Mutex

	StageCounts   map[string]int64
	StageFailures map[string]int64
	Notifications map[string]int64
	LevelUps      int64
	Requests      map[string]int64
	CacheHits     map[string]int64
	CacheMisses   map[string]int64
}

// New creates a new in-memory metrics collector.
func New() *Collector {
	return &Collector{
		StageCounts:   make(map[string]int64),
		StageFailures: make(map[string]int64),
		Notifications: make(map[string]int64),
		Requests:      make(map[string]int64),
		CacheHits:     make(map[string]int64),
		CacheMisses:   make(map[string]int64),
	}
}

func (c *Collector) ObserveStage(stage string, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.StageCounts[stage]++
	if !success {
		c.StageFailures[stage]++
	}
}

func (c *Collector) IncNotification(kind string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Notifications[kind]++
}

func (c *Collector) IncLevelUp() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.LevelUps++
}

func (c *Collector) ObserveRequest(route string, status int, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Requests[route]++
}

func (c *Collector) RecordCacheGet(layer string, hit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if hit {
		c.CacheHits[layer]++
		return
	}
	c.CacheMisses[layer]++
}

// NotificationCount returns the count for one notification type.
func (c *Collector) NotificationCount(kind string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Notifications[kind]
}

// LevelUpCount returns the number of recorded level increments.
func (c *Collector) LevelUpCount() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.LevelUps
}
