package metrics

import "time"

// Pipeline stage names used as metric labels.
const (
	StageLoadAccount   = "load_account"
	StageGenerate      = "generate"
	StagePersist       = "persist_transactions"
	StageAggregate     = "aggregate"
	StageEvaluateGoals = "evaluate_goals"
	StageUpdateBalance = "update_balance"
)

// Collector defines the interface for collecting service metrics.
// Implementations can export metrics to various backends (Prometheus, in-memory).
type Collector interface {
	// ObserveStage records the outcome and latency of one pipeline stage.
	ObserveStage(stage string, success bool, duration time.Duration)

	// IncNotification counts an emitted goal notification by type.
	IncNotification(kind string)

	// IncLevelUp counts a first-time goal completion level increment.
	IncLevelUp()

	// ObserveRequest records an HTTP request outcome.
	ObserveRequest(route string, status int, duration time.Duration)

	// RecordCacheGet records a read-cache lookup per layer.
	RecordCacheGet(layer string, hit bool)
}

// NopCollector is a no-op implementation of Collector.
// It's used as the default collector when metrics are not needed.
type NopCollector struct{}

func (NopCollector) ObserveStage(stage string, success bool, duration time.Duration) {}
func (NopCollector) IncNotification(kind string)                                     {}
func (NopCollector) IncLevelUp()                                                     {}
func (NopCollector) ObserveRequest(route string, status int, duration time.Duration) {}
func (NopCollector) RecordCacheGet(layer string, hit bool)                           {}
