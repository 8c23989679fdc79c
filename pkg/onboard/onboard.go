package onboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budgetsim/pkg/logging"
	"budgetsim/pkg/model"
	"budgetsim/pkg/store"
)

// ErrMissingFields is returned when a profile creation request lacks the user
// id or template id.
var ErrMissingFields = errors.New("onboard: missing required fields")

// Budget allocation percentages per the 50/30/20 rule.
var (
	needsShare   = decimal.NewFromInt(50)
	wantsShare   = decimal.NewFromInt(30)
	savingsShare = decimal.NewFromInt(20)
	oneHundred   = decimal.NewFromInt(100)
)

// Service provisions user financial profiles: the profile record with its
// budget allocations, the three category goals and the checking/savings
// account pair, created together.
type Service struct {
	store  store.Store
	logger *logging.Logger
}

// New creates an onboarding service.
func New(st store.Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{store: st, logger: logger.Named("onboard")}
}

// GoalSummary is the fetch-goals response: the profile's goals plus its
// budget allocations.
type GoalSummary struct {
	Goals         []model.FinancialGoal `json:"goals"`
	NeedsBudget   decimal.Decimal       `json:"needs_budget"`
	WantsBudget   decimal.Decimal       `json:"wants_budget"`
	SavingsBudget decimal.Decimal       `json:"savings_budget"`
}

// CreateProfile assigns a base template to a user. Budgets are split 50/30/20
// from the template's starting income, the three category goals start at zero
// progress, and the checking account opens with the income while savings opens
// empty.
func (s *Service) CreateProfile(ctx context.Context, userID string, templateID int64) (*model.Profile, error) {
	if userID == "" || templateID == 0 {
		return nil, ErrMissingFields
	}

	template, err := s.store.Template(ctx, templateID)
	if err != nil {
		return nil, fmt.Errorf("fetch template: %w", err)
	}

	now := time.Now().UTC()
	profile := &model.Profile{
		ID:            uuid.New().String(),
		UserID:        userID,
		TemplateID:    template.ID,
		CurrentIncome:   template.StartingIncome,
		CurrentExpenses: template.StartingExpenses,
		CurrentDebt:     template.StartingDebt,
		NeedsBudget:     share(template.StartingIncome, needsShare),
		WantsBudget:     share(template.StartingIncome, wantsShare),
		SavingsBudget:   share(template.StartingIncome, savingsShare),
		AccountLevel:    1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.store.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}

	goals := make([]model.FinancialGoal, 0, len(model.Categories()))
	for _, category := range model.Categories() {
		goals = append(goals, model.FinancialGoal{
			ID:              uuid.New().String(),
			ProfileID:       profile.ID,
			Category:        category,
			Name:            category.GoalName(),
			Type:            category.GoalType(),
			TargetAmount:    profile.BudgetFor(category),
			CurrentProgress: decimal.Zero,
		})
	}
	if err := s.store.CreateGoals(ctx, goals); err != nil {
		return nil, fmt.Errorf("create goals: %w", err)
	}

	accounts := []model.Account{
		{
			ID:        uuid.New().String(),
			ProfileID: profile.ID,
			Type:      model.AccountChecking,
			Balance:   profile.CurrentIncome,
			CreatedAt: now,
		},
		{
			ID:        uuid.New().String(),
			ProfileID: profile.ID,
			Type:      model.AccountSavings,
			Balance:   decimal.Zero,
			CreatedAt: now,
		},
	}
	if err := s.store.CreateAccounts(ctx, accounts); err != nil {
		return nil, fmt.Errorf("create accounts: %w", err)
	}

	s.logger.Info("user financial profile created",
		zap.String("profile_id", profile.ID),
		zap.String("user_id", userID),
		zap.Int64("template_id", templateID))

	return profile, nil
}

// Goals returns the user's goals together with the profile's budget allocations.
func (s *Service) Goals(ctx context.Context, userID string) (*GoalSummary, error) {
	profile, err := s.store.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}

	goals, err := s.store.GoalsByProfile(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("fetch goals: %w", err)
	}

	return &GoalSummary{
		Goals:         goals,
		NeedsBudget:   profile.NeedsBudget,
		WantsBudget:   profile.WantsBudget,
		SavingsBudget: profile.SavingsBudget,
	}, nil
}

func share(income, percent decimal.Decimal) decimal.Decimal {
	return income.Mul(percent).Div(oneHundred).Round(2)
}
