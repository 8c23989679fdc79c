package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType distinguishes the two accounts provisioned per profile.
type AccountType string

const (
	AccountChecking AccountType = "checking"
	AccountSavings  AccountType = "savings"
)

// GoalType classifies a financial goal.
type GoalType string

const (
	GoalSpendingLimit GoalType = "spending_limit"
	GoalSavingsTarget GoalType = "savings_target"
	GoalDebtReduction GoalType = "debt_reduction"
)

// NotificationType classifies goal-progress notifications.
type NotificationType string

const (
	NotificationGoalCompleted       NotificationType = "goal_completed"
	NotificationGoalNearlyCompleted NotificationType = "goal_nearly_completed"
)

// ProfileTemplate is a base financial profile a user picks at onboarding.
type ProfileTemplate struct {
	ID               int64           `json:"id"`
	Name             string          `json:"profile_name"`
	Description      string          `json:"description"`
	StartingIncome   decimal.Decimal `json:"starting_income"`
	StartingExpenses decimal.Decimal `json:"starting_expenses"`
	StartingDebt     decimal.Decimal `json:"starting_debt"`
	Goals            string          `json:"goals"`
}

// Profile is a user's financial-simulation state. Budgets are computed once at
// creation from the template income using the 50/30/20 rule and never recomputed.
type Profile struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	TemplateID      int64           `json:"base_profile_id"`
	CurrentIncome   decimal.Decimal `json:"current_income"`
	CurrentExpenses decimal.Decimal `json:"current_expenses"`
	CurrentDebt     decimal.Decimal `json:"current_debt"`
	NeedsBudget     decimal.Decimal `json:"needs_budget"`
	WantsBudget     decimal.Decimal `json:"wants_budget"`
	SavingsBudget   decimal.Decimal `json:"savings_budget"`
	AccountLevel    int             `json:"account_level"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BudgetFor returns the profile's budget allocation for a category.
func (p *Profile) BudgetFor(c Category) decimal.Decimal {
	switch c {
	case CategoryNeeds:
		return p.NeedsBudget
	case CategoryWants:
		return p.WantsBudget
	case CategorySavings:
		return p.SavingsBudget
	}
	return decimal.Zero
}

// Account is a simulated checking or savings account. Its balance is mutated
// only by the pipeline's balance-update stage and may go negative.
type Account struct {
	ID        string          `json:"id"`
	ProfileID string          `json:"user_financial_profile_id"`
	Type      AccountType     `json:"account_type"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is a single simulated spend. Immutable once created.
type Transaction struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	Category    Category        `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// FinancialGoal tracks budget progress for one category of one profile.
// CurrentProgress is monotone non-decreasing and intentionally unclamped:
// crossing 100% of the target is the completion signal. Completed is one-way.
// Goals are keyed by (profile, category); Name is display-only.
type FinancialGoal struct {
	ID              string          `json:"id"`
	ProfileID       string          `json:"user_financial_profile_id"`
	Category        Category        `json:"category"`
	Name            string          `json:"name"`
	Type            GoalType        `json:"type"`
	TargetAmount    decimal.Decimal `json:"target_amount"`
	CurrentProgress decimal.Decimal `json:"current_progress"`
	Completed       bool            `json:"is_completed"`
}

// Notification reports a goal threshold crossed during a simulation batch.
type Notification struct {
	Type                NotificationType `json:"type"`
	GoalName            string           `json:"goalName"`
	Message             string           `json:"message"`
	Percentage          int64            `json:"percentage,omitempty"`
	FirstTimeCompletion bool             `json:"firstTimeCompletion,omitempty"`
}
