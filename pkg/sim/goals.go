package sim

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budgetsim/pkg/logging"
	"budgetsim/pkg/metrics"
	"budgetsim/pkg/model"
	"budgetsim/pkg/store"
)

var (
	hundred = decimal.NewFromInt(100)
	eighty  = decimal.NewFromInt(80)
)

// Evaluator reconciles per-category spend against the profile's three budget
// goals and decides threshold notifications.
type Evaluator struct {
	store   store.Store
	levels  *LevelTracker
	logger  *logging.Logger
	metrics metrics.Collector
}

// NewEvaluator creates a goal evaluator.
func NewEvaluator(st store.Store, levels *LevelTracker, logger *logging.Logger, collector metrics.Collector) *Evaluator {
	if logger == nil {
		logger = logging.NewNop()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	return &Evaluator{store: st, levels: levels, logger: logger.Named("goals"), metrics: collector}
}

// Evaluate updates every category goal with the batch's spend and returns the
// notifications generated, in category order. Goals whose category is absent
// from the batch are still evaluated with a zero delta, so progress already
// past a threshold is re-reported on every batch; deduplication is left to
// callers. A failure on one goal is logged and does not stop the others.
func (e *Evaluator) Evaluate(ctx context.Context, profileID, accountID string, totals Totals) []model.Notification {
	var notifications []model.Notification

	for _, category := range model.Categories() {
		notification, err := e.evaluateGoal(ctx, profileID, accountID, category, totals.For(category))
		if err != nil {
			e.logger.Error("goal evaluation failed",
				zap.String("profile_id", profileID),
				zap.String("category", string(category)),
				zap.Error(err))
			continue
		}
		if notification != nil {
			notifications = append(notifications, *notification)
			e.metrics.IncNotification(string(notification.Type))
		}
	}

	return notifications
}

func (e *Evaluator) evaluateGoal(ctx context.Context, profileID, accountID string, category model.Category, spent decimal.Decimal) (*model.Notification, error) {
	goal, err := e.store.GoalByCategory(ctx, profileID, category)
	if err != nil {
		return nil, fmt.Errorf("fetch goal: %w", err)
	}

	// Progress is intentionally unclamped: crossing 100% is the completion signal.
	newProgress := goal.CurrentProgress.Add(spent)

	notification := thresholdNotification(goal.Name, newProgress, goal.TargetAmount)

	completed := goal.Completed
	if notification != nil && notification.Type == model.NotificationGoalCompleted && !goal.Completed {
		notification.FirstTimeCompletion = true
		completed = true
		e.levels.Bump(ctx, accountID)
	}

	if err := e.store.UpdateGoalProgress(ctx, goal.ID, newProgress, completed); err != nil {
		// The notification already reflects the computed progress; keep it and
		// move on so the remaining goals still get their updates.
		e.logger.Error("failed to persist goal progress",
			zap.String("goal", goal.Name),
			zap.String("progress", newProgress.String()),
			zap.Error(err))
	}

	return notification, nil
}

// thresholdNotification applies the threshold policy, first match wins:
// percentage >= 100 completes the goal, [80,100) is nearly completed with the
// rounded percentage, anything below emits nothing.
func thresholdNotification(goalName string, progress, target decimal.Decimal) *model.Notification {
	if target.IsZero() {
		return nil
	}

	percentage := progress.Div(target).Mul(hundred)

	if percentage.GreaterThanOrEqual(hundred) {
		return &model.Notification{
			Type:     model.NotificationGoalCompleted,
			GoalName: goalName,
			Message:  fmt.Sprintf("Congratulations! You've reached your %s goal! Focus your spending on other categories now.", goalName),
		}
	}

	if percentage.GreaterThanOrEqual(eighty) {
		rounded := percentage.Round(0).IntPart()
		return &model.Notification{
			Type:       model.NotificationGoalNearlyCompleted,
			GoalName:   goalName,
			Percentage: rounded,
			Message:    fmt.Sprintf("You're almost there! You've reached %d%% of your %s goal.", rounded, goalName),
		}
	}

	return nil
}
