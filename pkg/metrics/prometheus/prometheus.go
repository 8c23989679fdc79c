package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements metrics.Collector for Prometheus.
type Collector struct {
	stageLatency  *prometheus.HistogramVec
	stageFailures *prometheus.CounterVec
	notifications *prometheus.CounterVec
	levelUps      prometheus.Counter
	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
}

// New creates a Prometheus collector and registers its metrics with reg.
func New(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		stageLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_duration_seconds",
				Help:      "Latency of each simulation pipeline stage",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
		stageFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_stage_failures_total",
				Help:      "Total number of pipeline stage failures",
			},
			[]string{"stage"},
		),
		notifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "goal_notifications_total",
				Help:      "Total number of goal notifications emitted by type",
			},
			[]string{"type"},
		),
		levelUps: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "level_ups_total",
				Help:      "Total number of account level increments",
			},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by route and status",
			},
			[]string{"route", "status"},
		),
		requestTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by route",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of read-cache hits per layer",
			},
			[]string{"layer"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of read-cache misses per layer",
			},
			[]string{"layer"},
		),
	}

	reg.MustRegister(
		c.stageLatency, c.stageFailures, c.notifications, c.levelUps,
		c.requests, c.requestTime, c.cacheHits, c.cacheMisses,
	)

	return c
}

func (c *Collector) ObserveStage(stage string, success bool, duration time.Duration) {
	c.stageLatency.WithLabelValues(stage).Observe(duration.Seconds())
	if !success {
		c.stageFailures.WithLabelValues(stage).Inc()
	}
}

func (c *Collector) IncNotification(kind string) {
	c.notifications.WithLabelValues(kind).Inc()
}

func (c *Collector) IncLevelUp() {
	c.levelUps.Inc()
}

func (c *Collector) ObserveRequest(route string, status int, duration time.Duration) {
	c.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.requestTime.WithLabelValues(route).Observe(duration.Seconds())
}

func (c *Collector) RecordCacheGet(layer string, hit bool) {
	if hit {
		c.cacheHits.WithLabelValues(layer).Inc()
		return
	}
	c.cacheMisses.WithLabelValues(layer).Inc()
}
