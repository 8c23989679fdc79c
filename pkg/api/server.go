package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"budgetsim/pkg/cache"
	"budgetsim/pkg/logging"
	"budgetsim/pkg/metrics"
	"budgetsim/pkg/onboard"
	"budgetsim/pkg/sim"
	"budgetsim/pkg/store"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	// Address to listen on (e.g., ":8080").
	Address string

	// ReadTimeout for HTTP requests.
	ReadTimeout time.Duration

	// WriteTimeout for HTTP responses.
	WriteTimeout time.Duration

	// MetricsHandler, when set, is mounted at /metrics.
	MetricsHandler http.Handler
}

// DefaultServerConfig returns a default configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:      ":8080",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}

// Server exposes the simulation backend over HTTP.
type Server struct {
	store    store.Store
	pipeline *sim.Pipeline
	onboard  *onboard.Service
	cache    *cache.ReadThrough
	logger   *logging.Logger
	metrics  metrics.Collector
	server   *http.Server
}

// NewServer wires the HTTP surface over the pipeline, onboarding service,
// datastore and read cache.
func NewServer(st store.Store, pipeline *sim.Pipeline, onboarding *onboard.Service, readCache *cache.ReadThrough, logger *logging.Logger, collector metrics.Collector, config ServerConfig) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	if collector == nil {
		collector = metrics.NopCollector{}
	}

	s := &Server{
		store:    st,
		pipeline: pipeline,
		onboard:  onboarding,
		cache:    readCache,
		logger:   logger.Named("api"),
		metrics:  collector,
	}

	router := mux.NewRouter()
	router.Use(s.requestMetrics)

	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	if config.MetricsHandler != nil {
		router.Handle("/metrics", config.MetricsHandler).Methods(http.MethodGet)
	}

	apiRouter := router.PathPrefix("/api").Subrouter()
	apiRouter.HandleFunc("/transactions", s.handleSimulateTransactions).Methods(http.MethodPost)
	apiRouter.HandleFunc("/transactions/account/{accountID}", s.handleListTransactions).Methods(http.MethodGet)
	apiRouter.HandleFunc("/profiles", s.handleListTemplates).Methods(http.MethodGet)
	apiRouter.HandleFunc("/profiles", s.handleCreateProfile).Methods(http.MethodPost)
	apiRouter.HandleFunc("/goals/user/{userID}", s.handleGoals).Methods(http.MethodGet)

	s.server = &http.Server{
		Addr:         config.Address,
		Handler:      router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return s
}

// Handler returns the root HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("http server failed", zap.Error(err))
		}
	}()
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// requestMetrics records per-route request counts and latency.
func (s *Server) requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if template, err := current.GetPathTemplate(); err == nil {
				route = template
			}
		}
		s.metrics.ObserveRequest(route, recorder.status, time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type errorResponse struct {
	Error string `json:"error"`
}

// respondError logs the internal error and returns only the stable message.
func (s *Server) respondError(w http.ResponseWriter, status int, message string, err error) {
	s.logger.Error(message, zap.Int("status", status), zap.Error(err))
	writeJSON(w, status, errorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
