package sim

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budgetsim/pkg/logging"
	"budgetsim/pkg/metrics"
	"budgetsim/pkg/model"
	"budgetsim/pkg/store"
)

// ErrMissingAccountID is returned when a simulation request carries no account id.
var ErrMissingAccountID = errors.New("sim: missing account id")

// Result is the outcome of one simulation run, threaded explicitly between
// pipeline stages instead of living on ambient request state.
type Result struct {
	Transactions  []model.Transaction
	Totals        Totals
	TotalSpent    decimal.Decimal
	NewBalance    decimal.Decimal
	Notifications []model.Notification
}

// Config holds pipeline construction options.
type Config struct {
	// Rand seeds the transaction generator; nil seeds from the current time.
	Rand rand.Source
	// Logger defaults to a no-op logger.
	Logger *logging.Logger
	// Metrics defaults to a no-op collector.
	Metrics metrics.Collector
}

// Pipeline runs the simulate-transactions sequence for one request:
// GENERATE → PERSIST_TRANSACTIONS → AGGREGATE → EVALUATE_GOALS →
// UPDATE_BALANCE. Stages are strictly sequential; a stage failure
// short-circuits the rest, and earlier writes are not rolled back.
type Pipeline struct {
	store     store.Store
	generator *Generator
	evaluator *Evaluator
	locks     *accountLocks
	logger    *logging.Logger
	metrics   metrics.Collector
}

// New creates a pipeline over the given datastore.
func New(st store.Store, cfg Config) *Pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	collector := cfg.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}

	levels := NewLevelTracker(st, logger, collector)

	return &Pipeline{
		store:     st,
		generator: NewGenerator(cfg.Rand),
		evaluator: NewEvaluator(st, levels, logger, collector),
		locks:     newAccountLocks(),
		logger:    logger.Named("pipeline"),
		metrics:   collector,
	}
}

// Run executes the pipeline for one account. Concurrent runs for the same
// account are serialized; runs for different accounts proceed independently.
func (p *Pipeline) Run(ctx context.Context, accountID string) (*Result, error) {
	if accountID == "" {
		return nil, ErrMissingAccountID
	}

	unlock := p.locks.lock(accountID)
	defer unlock()

	logger := p.logger.With(zap.String("account_id", accountID))

	account, err := p.loadAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var batch []model.Transaction
	p.timed(metrics.StageGenerate, func() error {
		batch = p.generator.Generate(accountID)
		return nil
	})
	logger.Info("transactions generated", zap.Int("count", len(batch)))

	err = p.timed(metrics.StagePersist, func() error {
		return p.store.InsertTransactions(ctx, batch)
	})
	if err != nil {
		return nil, fmt.Errorf("persist transactions: %w", err)
	}

	var totals Totals
	p.timed(metrics.StageAggregate, func() error {
		totals = Aggregate(batch)
		return nil
	})

	var notifications []model.Notification
	p.timed(metrics.StageEvaluateGoals, func() error {
		notifications = p.evaluator.Evaluate(ctx, account.ProfileID, accountID, totals)
		return nil
	})

	var newBalance decimal.Decimal
	err = p.timed(metrics.StageUpdateBalance, func() error {
		var err error
		newBalance, err = p.updateBalance(ctx, accountID, totals.Grand)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("simulation completed",
		zap.String("total_spent", totals.Grand.String()),
		zap.String("new_balance", newBalance.String()),
		zap.Int("notifications", len(notifications)))

	return &Result{
		Transactions:  batch,
		Totals:        totals,
		TotalSpent:    totals.Grand,
		NewBalance:    newBalance,
		Notifications: notifications,
	}, nil
}

func (p *Pipeline) loadAccount(ctx context.Context, accountID string) (*model.Account, error) {
	var account *model.Account
	err := p.timed(metrics.StageLoadAccount, func() error {
		var err error
		account, err = p.store.Account(ctx, accountID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("load account: %w", err)
	}
	return account, nil
}

// updateBalance reads the current balance, subtracts the batch total and
// persists the result. Balances may go negative; there is no overdraft check.
func (p *Pipeline) updateBalance(ctx context.Context, accountID string, totalSpent decimal.Decimal) (decimal.Decimal, error) {
	account, err := p.store.Account(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch balance: %w", err)
	}

	newBalance := account.Balance.Sub(totalSpent)
	if err := p.store.UpdateAccountBalance(ctx, accountID, newBalance); err != nil {
		return decimal.Zero, fmt.Errorf("update balance: %w", err)
	}

	return newBalance, nil
}

func (p *Pipeline) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	p.metrics.ObserveStage(stage, err == nil, time.Since(start))
	return err
}
