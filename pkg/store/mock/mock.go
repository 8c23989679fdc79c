package mock

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"budgetsim/pkg/model"
	"budgetsim/pkg/store"
)

// Store is a mock implementation of store.Store for testing.
// Set the Func hooks to customize behavior; unset getters report not-found and
// unset mutations succeed. Call counts use atomic operations for race-free access.
type Store struct {
	ListTemplatesFunc         func(ctx context.Context) ([]model.ProfileTemplate, error)
	TemplateFunc              func(ctx context.Context, id int64) (*model.ProfileTemplate, error)
	CreateProfileFunc         func(ctx context.Context, profile *model.Profile) error
	ProfileFunc               func(ctx context.Context, id string) (*model.Profile, error)
	ProfileByUserFunc         func(ctx context.Context, userID string) (*model.Profile, error)
	UpdateProfileLevelFunc    func(ctx context.Context, profileID string, level int) error
	CreateAccountsFunc        func(ctx context.Context, accounts []model.Account) error
	AccountFunc               func(ctx context.Context, id string) (*model.Account, error)
	UpdateAccountBalanceFunc  func(ctx context.Context, accountID string, balance decimal.Decimal) error
	CreateGoalsFunc           func(ctx context.Context, goals []model.FinancialGoal) error
	GoalsByProfileFunc        func(ctx context.Context, profileID string) ([]model.FinancialGoal, error)
	GoalByCategoryFunc        func(ctx context.Context, profileID string, category model.Category) (*model.FinancialGoal, error)
	UpdateGoalProgressFunc    func(ctx context.Context, goalID string, progress decimal.Decimal, completed bool) error
	InsertTransactionsFunc    func(ctx context.Context, transactions []model.Transaction) error
	TransactionsByAccountFunc func(ctx context.Context, accountID string, limit int) ([]model.Transaction, error)
	CloseFunc                 func() error

	listTemplatesCalls         int64
	templateCalls              int64
	createProfileCalls         int64
	profileCalls               int64
	profileByUserCalls         int64
	updateProfileLevelCalls    int64
	createAccountsCalls        int64
	accountCalls               int64
	updateAccountBalanceCalls  int64
	createGoalsCalls           int64
	goalsByProfileCalls        int64
	goalByCategoryCalls        int64
	updateGoalProgressCalls    int64
	insertTransactionsCalls    int64
	transactionsByAccountCalls int64
}

var _ store.Store = (*Store)(nil)

func (m *Store) ListTemplates(ctx context.Context) ([]model.ProfileTemplate, error) {
	atomic.AddInt64(&m.listTemplatesCalls, 1)
	if m.ListTemplatesFunc != nil {
		return m.ListTemplatesFunc(ctx)
	}
	return nil, nil
}

func (m *Store) Template(ctx context.Context, id int64) (*model.ProfileTemplate, error) {
	atomic.AddInt64(&m.templateCalls, 1)
	if m.TemplateFunc != nil {
		return m.TemplateFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *Store) CreateProfile(ctx context.Context, profile *model.Profile) error {
	atomic.AddInt64(&m.createProfileCalls, 1)
	if m.CreateProfileFunc != nil {
		return m.CreateProfileFunc(ctx, profile)
	}
	return nil
}

func (m *Store) Profile(ctx context.Context, id string) (*model.Profile, error) {
	atomic.AddInt64(&m.profileCalls, 1)
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *Store) ProfileByUser(ctx context.Context, userID string) (*model.Profile, error) {
	atomic.AddInt64(&m.profileByUserCalls, 1)
	if m.ProfileByUserFunc != nil {
		return m.ProfileByUserFunc(ctx, userID)
	}
	return nil, store.ErrNotFound
}

func (m *Store) UpdateProfileLevel(ctx context.Context, profileID string, level int) error {
	atomic.AddInt64(&m.updateProfileLevelCalls, 1)
	if m.UpdateProfileLevelFunc != nil {
		return m.UpdateProfileLevelFunc(ctx, profileID, level)
	}
	return nil
}

func (m *Store) CreateAccounts(ctx context.Context, accounts []model.Account) error {
	atomic.AddInt64(&m.createAccountsCalls, 1)
	if m.CreateAccountsFunc != nil {
		return m.CreateAccountsFunc(ctx, accounts)
	}
	return nil
}

func (m *Store) Account(ctx context.Context, id string) (*model.Account, error) {
	atomic.AddInt64(&m.accountCalls, 1)
	if m.AccountFunc != nil {
		return m.AccountFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *Store) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	atomic.AddInt64(&m.updateAccountBalanceCalls, 1)
	if m.UpdateAccountBalanceFunc != nil {
		return m.UpdateAccountBalanceFunc(ctx, accountID, balance)
	}
	return nil
}

func (m *Store) CreateGoals(ctx context.Context, goals []model.FinancialGoal) error {
	atomic.AddInt64(&m.createGoalsCalls, 1)
	if m.CreateGoalsFunc != nil {
		return m.CreateGoalsFunc(ctx, goals)
	}
	return nil
}

func (m *Store) GoalsByProfile(ctx context.Context, profileID string) ([]model.FinancialGoal, error) {
	atomic.AddInt64(&m.goalsByProfileCalls, 1)
	if m.GoalsByProfileFunc != nil {
		return m.GoalsByProfileFunc(ctx, profileID)
	}
	return nil, nil
}

func (m *Store) GoalByCategory(ctx context.Context, profileID string, category model.Category) (*model.FinancialGoal, error) {
	atomic.AddInt64(&m.goalByCategoryCalls, 1)
	if m.GoalByCategoryFunc != nil {
		return m.GoalByCategoryFunc(ctx, profileID, category)
	}
	return nil, store.ErrNotFound
}

func (m *Store) UpdateGoalProgress(ctx context.Context, goalID string, progress decimal.Decimal, completed bool) error {
	atomic.AddInt64(&m.updateGoalProgressCalls, 1)
	if m.UpdateGoalProgressFunc != nil {
		return m.UpdateGoalProgressFunc(ctx, goalID, progress, completed)
	}
	return nil
}

func (m *Store) InsertTransactions(ctx context.Context, transactions []model.Transaction) error {
	atomic.AddInt64(&m.insertTransactionsCalls, 1)
	if m.InsertTransactionsFunc != nil {
		return m.InsertTransactionsFunc(ctx, transactions)
	}
	return nil
}

func (m *Store) TransactionsByAccount(ctx context.Context, accountID string, limit int) ([]model.Transaction, error) {
	atomic.AddInt64(&m.transactionsByAccountCalls, 1)
	if m.TransactionsByAccountFunc != nil {
		return m.TransactionsByAccountFunc(ctx, accountID, limit)
	}
	return nil, nil
}

func (m *Store) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Call count accessors.

func (m *Store) ListTemplatesCalls() int64     { return atomic.LoadInt64(&m.listTemplatesCalls) }
func (m *Store) TemplateCalls() int64          { return atomic.LoadInt64(&m.templateCalls) }
func (m *Store) CreateProfileCalls() int64     { return atomic.LoadInt64(&m.createProfileCalls) }
func (m *Store) ProfileCalls() int64           { return atomic.LoadInt64(&m.profileCalls) }
func (m *Store) ProfileByUserCalls() int64     { return atomic.LoadInt64(&m.profileByUserCalls) }
func (m *Store) UpdateProfileLevelCalls() int64 {
	return atomic.LoadInt64(&m.updateProfileLevelCalls)
}
func (m *Store) CreateAccountsCalls() int64 { return atomic.LoadInt64(&m.createAccountsCalls) }
func (m *Store) AccountCalls() int64        { return atomic.LoadInt64(&m.accountCalls) }
func (m *Store) UpdateAccountBalanceCalls() int64 {
	return atomic.LoadInt64(&m.updateAccountBalanceCalls)
}
func (m *Store) CreateGoalsCalls() int64    { return atomic.LoadInt64(&m.createGoalsCalls) }
func (m *Store) GoalsByProfileCalls() int64 { return atomic.LoadInt64(&m.goalsByProfileCalls) }
func (m *Store) GoalByCategoryCalls() int64 { return atomic.LoadInt64(&m.goalByCategoryCalls) }
func (m *Store) UpdateGoalProgressCalls() int64 {
	return atomic.LoadInt64(&m.updateGoalProgressCalls)
}
func (m *Store) InsertTransactionsCalls() int64 {
	return atomic.LoadInt64(&m.insertTransactionsCalls)
}
func (m *Store) TransactionsByAccountCalls() int64 {
	return atomic.LoadInt64(&m.transactionsByAccountCalls)
}
