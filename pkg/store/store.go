package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"budgetsim/pkg/model"
)

// Datastore operation errors.
var (
	// ErrNotFound is returned when no record matches the given key.
	ErrNotFound = errors.New("store: record not found")

	// ErrNoRecords is returned when a bulk write is attempted with no records.
	ErrNoRecords = errors.New("store: no records to write")
)

// IsNotFound checks if the given error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// Store is the relational datastore collaborator. Every mutation is a
// single-record write; there is no transactional wrapping across calls.
type Store interface {
	// Profile templates (seeded, read-only).
	ListTemplates(ctx context.Context) ([]model.ProfileTemplate, error)
	Template(ctx context.Context, id int64) (*model.ProfileTemplate, error)

	// User financial profiles.
	CreateProfile(ctx context.Context, profile *model.Profile) error
	Profile(ctx context.Context, id string) (*model.Profile, error)
	ProfileByUser(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfileLevel(ctx context.Context, profileID string, level int) error

	// Accounts.
	CreateAccounts(ctx context.Context, accounts []model.Account) error
	Account(ctx context.Context, id string) (*model.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal) error

	// Financial goals.
	CreateGoals(ctx context.Context, goals []model.FinancialGoal) error
	GoalsByProfile(ctx context.Context, profileID string) ([]model.FinancialGoal, error)
	GoalByCategory(ctx context.Context, profileID string, category model.Category) (*model.FinancialGoal, error)
	UpdateGoalProgress(ctx context.Context, goalID string, progress decimal.Decimal, completed bool) error

	// Transactions.
	InsertTransactions(ctx context.Context, transactions []model.Transaction) error
	TransactionsByAccount(ctx context.Context, accountID string, limit int) ([]model.Transaction, error)

	Close() error
}
