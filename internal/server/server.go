package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"github.com/pennypilot/backend/internal/model"
	"github.com/pennypilot/backend/internal/service"
	"github.com/pennypilot/backend/internal/store"
)

// Server exposes the analytics service over JSON. Serialization lives
// here; the engine itself has no wire surface.
type Server struct {
	svc     *service.AnalyticsService
	logger  *slog.Logger
	limiter *rate.Limiter
}

// New builds a Server. The limiter is shared across all requests.
func New(svc *service.AnalyticsService, logger *slog.Logger, perSecond float64, burst int) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		svc:     svc,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Router wires all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.rateLimit)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1/users/{userID}", func(r chi.Router) {
		r.Route("/analytics", func(r chi.Router) {
			r.Get("/forecast", s.handleForecast)
			r.Get("/insights", s.handleInsights)
			r.Get("/recurring", s.handleRecurring)
			r.Get("/budget-suggestions", s.handleBudgetSuggestions)
			r.Get("/anomalies", s.handleAnomalies)
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", s.handleCreateTransaction)
			r.Get("/", s.handleListTransactions)
			r.Delete("/{id}", s.handleDeleteTransaction)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Post("/", s.handleCreateBudget)
			r.Get("/", s.handleListBudgets)
		})
	})

	return r
}

func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			s.logger.Warn("rate limit exceeded", "method", r.Method, "path", r.URL.Path, "remoteAddr", r.RemoteAddr)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	result, err := s.svc.GetForecast(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := s.svc.GetInsights(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

func (s *Server) handleRecurring(w http.ResponseWriter, r *http.Request) {
	patterns, err := s.svc.GetRecurringPatterns(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"patterns": patterns})
}

func (s *Server) handleBudgetSuggestions(w http.ResponseWriter, r *http.Request) {
	suggestions, err := s.svc.GetBudgetSuggestions(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	var sensitivity float64
	if raw := r.URL.Query().Get("sensitivity"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "sensitivity must be a number in [0,1]"})
			return
		}
		sensitivity = v
	}

	anomalies, err := s.svc.GetAnomalies(r.Context(), chi.URLParam(r, "userID"), sensitivity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"anomalies": anomalies})
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var tx model.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	tx.UserID = chi.URLParam(r, "userID")

	created, err := s.svc.CreateTransaction(r.Context(), &tx)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	start, err := parseTimeParam(r, "start")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start must be RFC 3339"})
		return
	}
	end, err := parseTimeParam(r, "end")
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end must be RFC 3339"})
		return
	}

	txns, err := s.svc.ListTransactions(r.Context(), chi.URLParam(r, "userID"), start, end)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	err := s.svc.DeleteTransaction(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var budget model.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	budget.UserID = chi.URLParam(r, "userID")

	created, err := s.svc.CreateBudget(r.Context(), &budget)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	budgets, err := s.svc.ListBudgets(r.Context(), chi.URLParam(r, "userID"), includeInactive)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"budgets": budgets})
}

func parseTimeParam(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, service.ErrInvalidInput):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
