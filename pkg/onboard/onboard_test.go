package onboard

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"budgetsim/pkg/model"
	"budgetsim/pkg/store"
	"budgetsim/pkg/store/mock"
)

func templateStore(income string) *mock.Store {
	return &mock.Store{
		TemplateFunc: func(ctx context.Context, id int64) (*model.ProfileTemplate, error) {
			if id != 1 {
				return nil, store.ErrNotFound
			}
			return &model.ProfileTemplate{
				ID:               1,
				Name:             "Undergraduate Student",
				StartingIncome:   decimal.RequireFromString(income),
				StartingExpenses: decimal.RequireFromString("800.00"),
				StartingDebt:     decimal.RequireFromString("5000.00"),
			}, nil
		},
	}
}

func TestCreateProfile_BudgetSplit(t *testing.T) {
	tests := []struct {
		name    string
		income  string
		needs   string
		wants   string
		savings string
	}{
		{name: "round income", income: "1200.00", needs: "600.00", wants: "360.00", savings: "240.00"},
		{name: "odd income rounds to cents", income: "1000.01", needs: "500.01", wants: "300.00", savings: "200.00"},
		{name: "zero income", income: "0.00", needs: "0.00", wants: "0.00", savings: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(templateStore(tt.income), nil)

			profile, err := svc.CreateProfile(context.Background(), "user-1", 1)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			checks := []struct {
				name     string
				got      decimal.Decimal
				expected string
			}{
				{"needs", profile.NeedsBudget, tt.needs},
				{"wants", profile.WantsBudget, tt.wants},
				{"savings", profile.SavingsBudget, tt.savings},
			}
			for _, c := range checks {
				if !c.got.Equal(decimal.RequireFromString(c.expected)) {
					t.Errorf("%s budget: expected %s, got %s", c.name, c.expected, c.got)
				}
			}
			if profile.AccountLevel != 1 {
				t.Errorf("Expected account level 1, got %d", profile.AccountLevel)
			}
			if !profile.CurrentIncome.Equal(decimal.RequireFromString(tt.income)) {
				t.Errorf("Expected income %s, got %s", tt.income, profile.CurrentIncome)
			}
			if !profile.CurrentExpenses.Equal(decimal.RequireFromString("800.00")) {
				t.Errorf("Expected expenses 800.00, got %s", profile.CurrentExpenses)
			}
		})
	}
}

func TestCreateProfile_ProvisionsGoalsAndAccounts(t *testing.T) {
	st := templateStore("1200.00")

	var createdGoals []model.FinancialGoal
	st.CreateGoalsFunc = func(ctx context.Context, goals []model.FinancialGoal) error {
		createdGoals = goals
		return nil
	}
	var createdAccounts []model.Account
	st.CreateAccountsFunc = func(ctx context.Context, accounts []model.Account) error {
		createdAccounts = accounts
		return nil
	}

	svc := New(st, nil)
	profile, err := svc.CreateProfile(context.Background(), "user-1", 1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(createdGoals) != 3 {
		t.Fatalf("Expected 3 goals, got %d", len(createdGoals))
	}
	expectedGoals := []struct {
		category model.Category
		name     string
		goalType model.GoalType
		target   string
	}{
		{model.CategoryNeeds, "Essential Needs Budget", model.GoalSpendingLimit, "600.00"},
		{model.CategoryWants, "Wants Budget", model.GoalSpendingLimit, "360.00"},
		{model.CategorySavings, "Savings Budget", model.GoalSavingsTarget, "240.00"},
	}
	for i, expected := range expectedGoals {
		goal := createdGoals[i]
		if goal.Category != expected.category {
			t.Errorf("Goal %d: expected category %q, got %q", i, expected.category, goal.Category)
		}
		if goal.Name != expected.name {
			t.Errorf("Goal %d: expected name %q, got %q", i, expected.name, goal.Name)
		}
		if goal.Type != expected.goalType {
			t.Errorf("Goal %d: expected type %q, got %q", i, expected.goalType, goal.Type)
		}
		if !goal.TargetAmount.Equal(decimal.RequireFromString(expected.target)) {
			t.Errorf("Goal %d: expected target %s, got %s", i, expected.target, goal.TargetAmount)
		}
		if !goal.CurrentProgress.IsZero() {
			t.Errorf("Goal %d: expected zero progress, got %s", i, goal.CurrentProgress)
		}
		if goal.Completed {
			t.Errorf("Goal %d: expected not completed", i)
		}
		if goal.ProfileID != profile.ID {
			t.Errorf("Goal %d: expected profile id %q, got %q", i, profile.ID, goal.ProfileID)
		}
	}

	if len(createdAccounts) != 2 {
		t.Fatalf("Expected 2 accounts, got %d", len(createdAccounts))
	}
	checking, savings := createdAccounts[0], createdAccounts[1]
	if checking.Type != model.AccountChecking {
		t.Errorf("Expected first account checking, got %q", checking.Type)
	}
	if !checking.Balance.Equal(decimal.RequireFromString("1200.00")) {
		t.Errorf("Expected checking balance 1200.00, got %s", checking.Balance)
	}
	if savings.Type != model.AccountSavings {
		t.Errorf("Expected second account savings, got %q", savings.Type)
	}
	if !savings.Balance.IsZero() {
		t.Errorf("Expected empty savings account, got %s", savings.Balance)
	}
}

func TestCreateProfile_Validation(t *testing.T) {
	svc := New(&mock.Store{}, nil)

	tests := []struct {
		name       string
		userID     string
		templateID int64
	}{
		{name: "missing user id", userID: "", templateID: 1},
		{name: "missing template id", userID: "user-1", templateID: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProfile(context.Background(), tt.userID, tt.templateID)
			if !errors.Is(err, ErrMissingFields) {
				t.Fatalf("Expected ErrMissingFields, got %v", err)
			}
		})
	}
}

func TestCreateProfile_UnknownTemplate(t *testing.T) {
	svc := New(templateStore("1200.00"), nil)

	_, err := svc.CreateProfile(context.Background(), "user-1", 99)
	if !store.IsNotFound(err) {
		t.Fatalf("Expected a not-found error, got %v", err)
	}
}

func TestGoals(t *testing.T) {
	st := &mock.Store{
		ProfileByUserFunc: func(ctx context.Context, userID string) (*model.Profile, error) {
			if userID != "user-1" {
				return nil, store.ErrNotFound
			}
			return &model.Profile{
				ID:            "profile-1",
				UserID:        userID,
				NeedsBudget:   decimal.RequireFromString("600.00"),
				WantsBudget:   decimal.RequireFromString("360.00"),
				SavingsBudget: decimal.RequireFromString("240.00"),
			}, nil
		},
		GoalsByProfileFunc: func(ctx context.Context, profileID string) ([]model.FinancialGoal, error) {
			return []model.FinancialGoal{
				{ID: "g1", ProfileID: profileID, Category: model.CategoryNeeds},
				{ID: "g2", ProfileID: profileID, Category: model.CategoryWants},
				{ID: "g3", ProfileID: profileID, Category: model.CategorySavings},
			}, nil
		},
	}

	svc := New(st, nil)
	summary, err := svc.Goals(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(summary.Goals) != 3 {
		t.Errorf("Expected 3 goals, got %d", len(summary.Goals))
	}
	if !summary.NeedsBudget.Equal(decimal.RequireFromString("600.00")) {
		t.Errorf("Expected needs budget 600.00, got %s", summary.NeedsBudget)
	}
	if !summary.WantsBudget.Equal(decimal.RequireFromString("360.00")) {
		t.Errorf("Expected wants budget 360.00, got %s", summary.WantsBudget)
	}
	if !summary.SavingsBudget.Equal(decimal.RequireFromString("240.00")) {
		t.Errorf("Expected savings budget 240.00, got %s", summary.SavingsBudget)
	}
}

func TestGoals_UnknownUser(t *testing.T) {
	svc := New(&mock.Store{}, nil)

	_, err := svc.Goals(context.Background(), "nobody")
	if !store.IsNotFound(err) {
		t.Fatalf("Expected a not-found error, got %v", err)
	}
}
