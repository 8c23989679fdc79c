package sim

import (
	"context"

	"go.uber.org/zap"

	"budgetsim/pkg/logging"
	"budgetsim/pkg/metrics"
	"budgetsim/pkg/store"
)

// LevelTracker increments a profile's account level on first-time goal
// completion. It does not guard against repeat invocation itself; the goal
// evaluator's completion-flag check ensures at most one call per completion.
type LevelTracker struct {
	store   store.Store
	logger  *logging.Logger
	metrics metrics.Collector
}

// NewLevelTracker creates a level tracker.
func NewLevelTracker(st store.Store, logger *logging.Logger, collector metrics.Collector) *LevelTracker {
	if logger == nil {
		logger = logging.NewNop()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &LevelTracker{store: st, logger: logger.Named("levels"), metrics: collector}
}

// Bump resolves the account's owning profile and persists account_level+1.
// Failures are logged and swallowed; a missed level-up never fails the request.
func (t *LevelTracker) Bump(ctx context.Context, accountID string) {
	account, err := t.store.Account(ctx, accountID)
	if err != nil {
		t.logger.Error("failed to fetch account for level increment",
			zap.String("account_id", accountID), zap.Error(err))
		return
	}

	profile, err := t.store.Profile(ctx, account.ProfileID)
	if err != nil {
		t.logger.Error("failed to fetch profile for level increment",
			zap.String("profile_id", account.ProfileID), zap.Error(err))
		return
	}

	newLevel := profile.AccountLevel + 1
	if err := t.store.UpdateProfileLevel(ctx, profile.ID, newLevel); err != nil {
		t.logger.Error("failed to update account level",
			zap.String("profile_id", profile.ID), zap.Int("level", newLevel), zap.Error(err))
		return
	}

	t.metrics.IncLevelUp()
	t.logger.Info("account level incremented",
		zap.String("account_id", accountID), zap.Int("level", newLevel))
}
