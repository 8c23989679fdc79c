package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"budgetsim/pkg/model"
	"budgetsim/pkg/store"
)

// Store implements store.Store on PostgreSQL.
type Store struct {
	db *sql.DB
}

// Config holds PostgreSQL connection configuration.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DefaultConfig returns default PostgreSQL configuration.
func DefaultConfig() Config {
	return Config{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "postgres",
		Database: "budgetsim",
		SSLMode:  "disable",
	}
}

// New opens a connection pool, creates the schema if missing and seeds the
// base profile templates.
func New(cfg Config) (*Store, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{db: db}

	if err := s.initTables(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("init tables: %w", err)
	}
	if err := s.seedTemplates(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed templates: %w", err)
	}

	return s, nil
}

func (s *Store) initTables(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS financial_profiles (
			id SERIAL PRIMARY KEY,
			profile_name VARCHAR(100) NOT NULL,
			description TEXT,
			starting_income NUMERIC(10,2) NOT NULL DEFAULT 0.00,
			starting_expenses NUMERIC(10,2) NOT NULL DEFAULT 0.00,
			starting_debt NUMERIC(10,2) NOT NULL DEFAULT 0.00,
			goals TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS user_financial_profiles (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			base_profile_id INTEGER NOT NULL REFERENCES financial_profiles(id),
			current_income NUMERIC(10,2) NOT NULL,
			current_expenses NUMERIC(10,2) NOT NULL DEFAULT 0.00,
			current_debt NUMERIC(10,2) NOT NULL,
			needs_budget NUMERIC(10,2) NOT NULL,
			wants_budget NUMERIC(10,2) NOT NULL,
			savings_budget NUMERIC(10,2) NOT NULL,
			account_level INTEGER NOT NULL DEFAULT 1,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL,
			updated_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_user_financial_profiles_user_id ON user_financial_profiles(user_id)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY,
			user_financial_profile_id UUID NOT NULL REFERENCES user_financial_profiles(id),
			account_type TEXT NOT NULL,
			balance NUMERIC(10,2) NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS financial_goals (
			id UUID PRIMARY KEY,
			user_financial_profile_id UUID NOT NULL REFERENCES user_financial_profiles(id),
			category TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			target_amount NUMERIC(10,2) NOT NULL,
			current_progress NUMERIC(10,2) NOT NULL DEFAULT 0.00,
			is_completed BOOLEAN NOT NULL DEFAULT FALSE,
			UNIQUE (user_financial_profile_id, category)
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			account_id UUID NOT NULL REFERENCES accounts(id),
			category TEXT NOT NULL,
			amount NUMERIC(10,2) NOT NULL,
			description TEXT,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return err
		}
	}

	return nil
}

// seedTemplates inserts the base profile templates on first startup.
func (s *Store) seedTemplates(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM financial_profiles`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	seed := []model.ProfileTemplate{
		{
			Name:           "Budget-Conscious Undergrad",
			Description:    "A student with minimal income relying on scholarships and family support. Focuses on strict budgeting.",
			StartingIncome: decimal.NewFromFloat(500.00), StartingExpenses: decimal.NewFromFloat(600.00), StartingDebt: decimal.Zero,
			Goals: "Learn budgeting, reduce unnecessary expenses, and build credit over time.",
		},
		{
			Name:           "Part-Time Working Undergrad",
			Description:    "A student juggling part-time work and studies, with a moderate income. Balances work and academic commitments.",
			StartingIncome: decimal.NewFromFloat(1000.00), StartingExpenses: decimal.NewFromFloat(800.00), StartingDebt: decimal.NewFromFloat(100.00),
			Goals: "Manage work-study balance, build savings, and develop a healthy financial profile.",
		},
		{
			Name:           "Scholarship/Grant-Funded Undergrad",
			Description:    "A student primarily funded through scholarships or grants, with a stable but limited income source.",
			StartingIncome: decimal.NewFromFloat(1200.00), StartingExpenses: decimal.NewFromFloat(1100.00), StartingDebt: decimal.Zero,
			Goals: "Maximize scholarship funds, minimize debt, and plan for future expenses.",
		},
		{
			Name:           "Financially Independent Undergrad",
			Description:    "A student who self-funds through full-time work or entrepreneurship, balancing higher expenses with greater income.",
			StartingIncome: decimal.NewFromFloat(1500.00), StartingExpenses: decimal.NewFromFloat(1300.00), StartingDebt: decimal.NewFromFloat(200.00),
			Goals: "Achieve financial independence, manage higher cash flow, and build credit responsibly.",
		},
	}

	query := `
		INSERT INTO financial_profiles (profile_name, description, starting_income, starting_expenses, starting_debt, goals)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for _, t := range seed {
		if _, err := s.db.ExecContext(ctx, query,
			t.Name, t.Description, t.StartingIncome, t.StartingExpenses, t.StartingDebt, t.Goals,
		); err != nil {
			return err
		}
	}

	return nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]model.ProfileTemplate, error) {
	query := `
		SELECT id, profile_name, description, starting_income, starting_expenses, starting_debt, goals
		FROM financial_profiles ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query templates: %w", err)
	}
	defer rows.Close()

	var templates []model.ProfileTemplate
	for rows.Next() {
		var t model.ProfileTemplate
		if err := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.StartingIncome, &t.StartingExpenses, &t.StartingDebt, &t.Goals,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}

func (s *Store) Template(ctx context.Context, id int64) (*model.ProfileTemplate, error) {
	query := `
		SELECT id, profile_name, description, starting_income, starting_expenses, starting_debt, goals
		FROM financial_profiles WHERE id = $1
	`

	var t model.ProfileTemplate
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.StartingIncome, &t.StartingExpenses, &t.StartingDebt, &t.Goals,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query template: %w", err)
	}

	return &t, nil
}

func (s *Store) CreateProfile(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO user_financial_profiles
			(id, user_id, base_profile_id, current_income, current_expenses, current_debt, needs_budget, wants_budget, savings_budget, account_level, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := s.db.ExecContext(ctx, query,
		p.ID, p.UserID, p.TemplateID, p.CurrentIncome, p.CurrentExpenses, p.CurrentDebt,
		p.NeedsBudget, p.WantsBudget, p.SavingsBudget, p.AccountLevel, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	return nil
}

const profileColumns = `id, user_id, base_profile_id, current_income, current_expenses, current_debt, needs_budget, wants_budget, savings_budget, account_level, created_at, updated_at`

func (s *Store) scanProfile(row *sql.Row) (*model.Profile, error) {
	var p model.Profile
	err := row.Scan(
		&p.ID, &p.UserID, &p.TemplateID, &p.CurrentIncome, &p.CurrentExpenses, &p.CurrentDebt,
		&p.NeedsBudget, &p.WantsBudget, &p.SavingsBudget, &p.AccountLevel, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	return &p, nil
}

func (s *Store) Profile(ctx context.Context, id string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_financial_profiles WHERE id = $1`
	return s.scanProfile(s.db.QueryRowContext(ctx, query, id))
}

func (s *Store) ProfileByUser(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_financial_profiles WHERE user_id = $1`
	return s.scanProfile(s.db.QueryRowContext(ctx, query, userID))
}

func (s *Store) UpdateProfileLevel(ctx context.Context, profileID string, level int) error {
	query := `UPDATE user_financial_profiles SET account_level = $1, updated_at = NOW() WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, level, profileID)
	if err != nil {
		return fmt.Errorf("update profile level: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) CreateAccounts(ctx context.Context, accounts []model.Account) error {
	if len(accounts) == 0 {
		return store.ErrNoRecords
	}

	query := `
		INSERT INTO accounts (id, user_financial_profile_id, account_type, balance, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, a := range accounts {
		if _, err := s.db.ExecContext(ctx, query, a.ID, a.ProfileID, a.Type, a.Balance, a.CreatedAt); err != nil {
			return fmt.Errorf("create account: %w", err)
		}
	}

	return nil
}

func (s *Store) Account(ctx context.Context, id string) (*model.Account, error) {
	query := `
		SELECT id, user_financial_profile_id, account_type, balance, created_at
		FROM accounts WHERE id = $1
	`

	var a model.Account
	err := s.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.ProfileID, &a.Type, &a.Balance, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query account: %w", err)
	}

	return &a, nil
}

func (s *Store) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1 WHERE id = $2`

	res, err := s.db.ExecContext(ctx, query, balance, accountID)
	if err != nil {
		return fmt.Errorf("update account balance: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) CreateGoals(ctx context.Context, goals []model.FinancialGoal) error {
	if len(goals) == 0 {
		return store.ErrNoRecords
	}

	query := `
		INSERT INTO financial_goals
			(id, user_financial_profile_id, category, name, type, target_amount, current_progress, is_completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, g := range goals {
		if _, err := s.db.ExecContext(ctx, query,
			g.ID, g.ProfileID, g.Category, g.Name, g.Type, g.TargetAmount, g.CurrentProgress, g.Completed,
		); err != nil {
			return fmt.Errorf("create goal: %w", err)
		}
	}

	return nil
}

const goalColumns = `id, user_financial_profile_id, category, name, type, target_amount, current_progress, is_completed`

func (s *Store) GoalsByProfile(ctx context.Context, profileID string) ([]model.FinancialGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM financial_goals WHERE user_financial_profile_id = $1 ORDER BY category`

	rows, err := s.db.QueryContext(ctx, query, profileID)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	var goals []model.FinancialGoal
	for rows.Next() {
		var g model.FinancialGoal
		if err := rows.Scan(
			&g.ID, &g.ProfileID, &g.Category, &g.Name, &g.Type, &g.TargetAmount, &g.CurrentProgress, &g.Completed,
		); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		goals = append(goals, g)
	}

	return goals, rows.Err()
}

func (s *Store) GoalByCategory(ctx context.Context, profileID string, category model.Category) (*model.FinancialGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM financial_goals WHERE user_financial_profile_id = $1 AND category = $2`

	var g model.FinancialGoal
	err := s.db.QueryRowContext(ctx, query, profileID, category).Scan(
		&g.ID, &g.ProfileID, &g.Category, &g.Name, &g.Type, &g.TargetAmount, &g.CurrentProgress, &g.Completed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query goal: %w", err)
	}

	return &g, nil
}

func (s *Store) UpdateGoalProgress(ctx context.Context, goalID string, progress decimal.Decimal, completed bool) error {
	query := `UPDATE financial_goals SET current_progress = $1, is_completed = $2 WHERE id = $3`

	res, err := s.db.ExecContext(ctx, query, progress, completed, goalID)
	if err != nil {
		return fmt.Errorf("update goal progress: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return store.ErrNotFound
	}

	return nil
}

func (s *Store) InsertTransactions(ctx context.Context, transactions []model.Transaction) error {
	if len(transactions) == 0 {
		return store.ErrNoRecords
	}

	// Single multi-row insert so the batch persists in one round trip.
	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`INSERT INTO transactions (id, account_id, category, amount, description, created_at) VALUES `)
	for i, t := range transactions {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 6
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5, base+6)
		args = append(args, t.ID, t.AccountID, t.Category, t.Amount, t.Description, t.CreatedAt)
	}

	if _, err := s.db.ExecContext(ctx, sb.String(), args...); err != nil {
		return fmt.Errorf("insert transactions: %w", err)
	}

	return nil
}

func (s *Store) TransactionsByAccount(ctx context.Context, accountID string, limit int) ([]model.Transaction, error) {
	query := `
		SELECT id, account_id, category, amount, description, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []model.Transaction
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.AccountID, &t.Category, &t.Amount, &t.Description, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}

	return transactions, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
