package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"budgetsim/pkg/cache"
	"budgetsim/pkg/model"
	"budgetsim/pkg/onboard"
	"budgetsim/pkg/sim"
	"budgetsim/pkg/store"
)

const (
	templatesCacheKey       = "profiles:templates"
	templatesCacheTTL       = 5 * time.Minute
	transactionsCachePrefix = "transactions:account:"
	transactionsCacheTTL    = 2 * time.Minute
	transactionsPageSize    = 50
)

type simulateRequest struct {
	AccountID string `json:"account_id"`
}

type simulateResponse struct {
	Transactions  []model.Transaction  `json:"transactions"`
	TotalSpent    decimal.Decimal      `json:"total_spent"`
	NewBalance    decimal.Decimal      `json:"new_balance"`
	Notifications []model.Notification `json:"notifications"`
}

// handleSimulateTransactions runs the simulation pipeline for one account.
func (s *Server) handleSimulateTransactions(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body.", err)
		return
	}

	result, err := s.pipeline.Run(r.Context(), req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, sim.ErrMissingAccountID):
			s.respondError(w, http.StatusBadRequest, "Missing account id.", err)
		case store.IsNotFound(err):
			s.respondError(w, http.StatusNotFound, "Account not found.", err)
		default:
			s.respondError(w, http.StatusInternalServerError, "Failed to generate transactions.", err)
		}
		return
	}

	if s.cache != nil {
		s.cache.Invalidate(r.Context(), transactionsCachePrefix+req.AccountID)
	}

	notifications := result.Notifications
	if notifications == nil {
		notifications = []model.Notification{}
	}

	writeJSON(w, http.StatusOK, simulateResponse{
		Transactions:  result.Transactions,
		TotalSpent:    result.TotalSpent,
		NewBalance:    result.NewBalance,
		Notifications: notifications,
	})
}

// handleListTransactions returns an account's recent transactions, cached.
func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["accountID"]

	data, err := s.cachedJSON(r, transactionsCachePrefix+accountID, transactionsCacheTTL, func() (interface{}, error) {
		transactions, err := s.store.TransactionsByAccount(r.Context(), accountID, transactionsPageSize)
		if err != nil {
			return nil, err
		}
		if transactions == nil {
			transactions = []model.Transaction{}
		}
		return transactions, nil
	})
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch transactions.", err)
		return
	}

	writeRawJSON(w, http.StatusOK, data)
}

// handleListTemplates returns the seeded base financial profiles, cached.
func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	data, err := s.cachedJSON(r, templatesCacheKey, templatesCacheTTL, func() (interface{}, error) {
		templates, err := s.store.ListTemplates(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"financialProfiles": templates}, nil
	})
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch financial profiles.", err)
		return
	}

	writeRawJSON(w, http.StatusOK, data)
}

type createProfileRequest struct {
	UserID     string `json:"user_id"`
	TemplateID int64  `json:"template_id"`
}

// handleCreateProfile provisions a profile, its goals and its account pair.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body.", err)
		return
	}

	profile, err := s.onboard.CreateProfile(r.Context(), req.UserID, req.TemplateID)
	if err != nil {
		switch {
		case errors.Is(err, onboard.ErrMissingFields):
			s.respondError(w, http.StatusBadRequest, "Missing required fields.", err)
		case store.IsNotFound(err):
			s.respondError(w, http.StatusBadRequest, "Invalid financial profile selected.", err)
		default:
			s.respondError(w, http.StatusInternalServerError, "Failed to create user financial profile.", err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":              "User financial profile and goals created successfully.",
		"userFinancialProfile": profile,
	})
}

// handleGoals returns a user's goals and budget allocations.
func (s *Server) handleGoals(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userID"]

	summary, err := s.onboard.Goals(r.Context(), userID)
	if err != nil {
		if store.IsNotFound(err) {
			s.respondError(w, http.StatusNotFound, "User financial profile not found.", err)
			return
		}
		s.respondError(w, http.StatusInternalServerError, "Failed to fetch financial goals.", err)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// cachedJSON serves a GET payload through the read cache, marshaling the
// loader's value on a miss. With no cache configured it loads directly.
func (s *Server) cachedJSON(r *http.Request, key string, ttl time.Duration, load func() (interface{}, error)) ([]byte, error) {
	marshal := func() ([]byte, error) {
		value, err := load()
		if err != nil {
			if store.IsNotFound(err) {
				return nil, cache.ErrKeyNotFound
			}
			return nil, err
		}
		return json.Marshal(value)
	}

	if s.cache == nil {
		return marshal()
	}

	data, err := s.cache.Get(r.Context(), key, ttl, func(context.Context) ([]byte, error) { return marshal() })
	if err != nil {
		s.logger.Debug("cache read-through failed", zap.String("key", key), zap.Error(err))
		return nil, err
	}
	return data, nil
}
