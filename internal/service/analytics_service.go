package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"

	"github.com/pennypilot/backend/internal/analytics"
	"github.com/pennypilot/backend/internal/model"
	"github.com/pennypilot/backend/internal/store"
)

// Cache keys for per-user analytics results. Invalidated on any write to
// the user's transactions or budgets.
const (
	ckForecast    = "forecast_user_%s"
	ckInsights    = "insights_user_%s"
	ckRecurring   = "recurring_user_%s"
	ckSuggestions = "suggestions_user_%s"
)

// ErrInvalidInput marks caller contract violations (bad type, zero amount).
var ErrInvalidInput = errors.New("invalid input")

// Clock supplies "now" so analytics stay deterministic under test.
type Clock func() time.Time

// AnalyticsService loads a user's snapshot from the store and runs the
// analytics engine over it, caching results between writes.
type AnalyticsService struct {
	store  store.Store
	engine *analytics.Engine
	cache  *cache.Cache
	now    Clock
	logger *slog.Logger
}

// NewAnalyticsService wires the service. A nil clock defaults to
// time.Now; a nil logger defaults to slog.Default.
func NewAnalyticsService(st store.Store, engine *analytics.Engine, resultCache *cache.Cache, now Clock, logger *slog.Logger) *AnalyticsService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsService{
		store:  st,
		engine: engine,
		cache:  resultCache,
		now:    now,
		logger: logger,
	}
}

// snapshot materializes the user's full transaction history. The engine
// operates on this bounded, immutable list only.
func (s *AnalyticsService) snapshot(ctx context.Context, userID string) ([]model.Transaction, error) {
	txns, err := s.store.ListTransactions(ctx, userID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("load transaction snapshot: %w", err)
	}
	return txns, nil
}

// GetForecast returns the bucketed history with the projected horizon and
// trend classification.
func (s *AnalyticsService) GetForecast(ctx context.Context, userID string) (*analytics.ForecastResult, error) {
	key := fmt.Sprintf(ckForecast, userID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*analytics.ForecastResult), nil
	}

	txns, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	result := s.engine.Forecast(txns, s.now())
	s.cache.SetDefault(key, &result)

	s.logger.Debug("forecast computed", "userID", userID, "transactions", len(txns))
	return &result, nil
}

// GetInsights returns the generated financial insights.
func (s *AnalyticsService) GetInsights(ctx context.Context, userID string) ([]analytics.Insight, error) {
	key := fmt.Sprintf(ckInsights, userID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]analytics.Insight), nil
	}

	txns, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	insights := s.engine.Insights(txns, s.now())
	s.cache.SetDefault(key, insights)
	return insights, nil
}

// GetRecurringPatterns returns detected recurring payments.
func (s *AnalyticsService) GetRecurringPatterns(ctx context.Context, userID string) ([]analytics.RecurringPattern, error) {
	key := fmt.Sprintf(ckRecurring, userID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]analytics.RecurringPattern), nil
	}

	txns, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	patterns := s.engine.RecurringPatterns(txns)
	s.cache.SetDefault(key, patterns)
	return patterns, nil
}

// GetBudgetSuggestions returns recommended ceilings for categories without
// an active budget.
func (s *AnalyticsService) GetBudgetSuggestions(ctx context.Context, userID string) ([]analytics.BudgetSuggestion, error) {
	key := fmt.Sprintf(ckSuggestions, userID)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]analytics.BudgetSuggestion), nil
	}

	txns, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	budgets, err := s.store.ListBudgets(ctx, userID, false)
	if err != nil {
		return nil, fmt.Errorf("load budgets: %w", err)
	}
	suggestions := s.engine.BudgetSuggestions(txns, budgets, s.now())
	s.cache.SetDefault(key, suggestions)
	return suggestions, nil
}

// GetAnomalies returns flagged outlier transactions. Sensitivity varies
// per request, so results are not cached.
func (s *AnalyticsService) GetAnomalies(ctx context.Context, userID string, sensitivity float64) ([]analytics.Anomaly, error) {
	txns, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.engine.Anomalies(txns, s.now(), sensitivity), nil
}

// CreateTransaction validates and persists a transaction, then drops the
// user's cached analytics.
func (s *AnalyticsService) CreateTransaction(ctx context.Context, tx *model.Transaction) (*model.Transaction, error) {
	if tx.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if !tx.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown transaction type %q", ErrInvalidInput, tx.Type)
	}
	if tx.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must be non-negative", ErrInvalidInput)
	}
	if tx.Date.IsZero() {
		tx.Date = s.now()
	}

	tx.ID = uuid.New().String()
	tx.CreatedAt = s.now()
	tx.UpdatedAt = tx.CreatedAt

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}
	s.invalidate(tx.UserID)
	return tx, nil
}

// ListTransactions returns the user's transactions, optionally bounded.
func (s *AnalyticsService) ListTransactions(ctx context.Context, userID string, start, end *time.Time) ([]model.Transaction, error) {
	return s.store.ListTransactions(ctx, userID, start, end)
}

// DeleteTransaction removes a transaction and drops the user's cache.
func (s *AnalyticsService) DeleteTransaction(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// CreateBudget validates and persists a budget, then drops the user's
// cached analytics (budget suggestions depend on budget coverage).
func (s *AnalyticsService) CreateBudget(ctx context.Context, budget *model.Budget) (*model.Budget, error) {
	if budget.UserID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if budget.CategoryID == "" {
		return nil, fmt.Errorf("%w: category id is required", ErrInvalidInput)
	}
	if budget.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	budget.ID = uuid.New().String()
	budget.IsActive = true
	budget.CreatedAt = s.now()
	budget.UpdatedAt = budget.CreatedAt

	if err := s.store.CreateBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("create budget: %w", err)
	}
	s.invalidate(budget.UserID)
	return budget, nil
}

// ListBudgets returns the user's budgets.
func (s *AnalyticsService) ListBudgets(ctx context.Context, userID string, includeInactive bool) ([]model.Budget, error) {
	return s.store.ListBudgets(ctx, userID, includeInactive)
}

func (s *AnalyticsService) invalidate(userID string) {
	for _, pattern := range []string{ckForecast, ckInsights, ckRecurring, ckSuggestions} {
		s.cache.Delete(fmt.Sprintf(pattern, userID))
	}
}
