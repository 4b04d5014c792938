package service

import (
	"context"
	"errors"
	"testing"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/pennypilot/backend/internal/analytics"
	"github.com/pennypilot/backend/internal/model"
	"github.com/pennypilot/backend/internal/store"
)

var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*AnalyticsService, *store.MockStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockStore := store.NewMockStore(ctrl)
	svc := NewAnalyticsService(
		mockStore,
		analytics.New(analytics.DefaultConfig()),
		cache.New(time.Minute, time.Minute),
		func() time.Time { return fixedNow },
		nil,
	)
	return svc, mockStore
}

func TestGetForecastCachesSnapshot(t *testing.T) {
	svc, mockStore := newTestService(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{ID: "tx-1", UserID: "user-1", Amount: 2000, Date: fixedNow.AddDate(0, -1, 0), Type: model.TransactionTypeIncome},
	}
	mockStore.EXPECT().
		ListTransactions(ctx, "user-1", nil, nil).
		Return(txns, nil).
		Times(1)

	first, err := svc.GetForecast(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.GetForecast(ctx, "user-1")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestGetForecastStoreError(t *testing.T) {
	svc, mockStore := newTestService(t)
	ctx := context.Background()

	storeErr := errors.New("connection reset")
	mockStore.EXPECT().
		ListTransactions(ctx, "user-1", nil, nil).
		Return(nil, storeErr)

	_, err := svc.GetForecast(ctx, "user-1")
	assert.ErrorIs(t, err, storeErr)
}

func TestCreateTransactionInvalidatesCache(t *testing.T) {
	svc, mockStore := newTestService(t)
	ctx := context.Background()

	mockStore.EXPECT().
		ListTransactions(ctx, "user-1", nil, nil).
		Return(nil, nil).
		Times(2)
	mockStore.EXPECT().
		CreateTransaction(ctx, gomock.Any()).
		Return(nil)

	_, err := svc.GetForecast(ctx, "user-1")
	require.NoError(t, err)

	created, err := svc.CreateTransaction(ctx, &model.Transaction{
		UserID: "user-1",
		Amount: 25,
		Type:   model.TransactionTypeExpense,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, fixedNow, created.Date)
	assert.Equal(t, fixedNow, created.CreatedAt)

	// Cache was dropped, so the snapshot is reloaded.
	_, err = svc.GetForecast(ctx, "user-1")
	require.NoError(t, err)
}

func TestCreateTransactionValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		tx   model.Transaction
	}{
		{"missing user", model.Transaction{Type: model.TransactionTypeExpense, Amount: 10}},
		{"unknown type", model.Transaction{UserID: "user-1", Type: "refund", Amount: 10}},
		{"negative amount", model.Transaction{UserID: "user-1", Type: model.TransactionTypeExpense, Amount: -10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateTransaction(ctx, &tc.tx)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestGetBudgetSuggestionsLoadsBudgets(t *testing.T) {
	svc, mockStore := newTestService(t)
	ctx := context.Background()

	txns := []model.Transaction{
		{ID: "tx-1", UserID: "user-1", Amount: 300, Date: fixedNow.AddDate(0, 0, -10),
			Type: model.TransactionTypeExpense, CategoryID: "cat-1", CategoryName: "Groceries"},
		{ID: "tx-2", UserID: "user-1", Amount: 300, Date: fixedNow.AddDate(0, 0, -40),
			Type: model.TransactionTypeExpense, CategoryID: "cat-1", CategoryName: "Groceries"},
		{ID: "tx-3", UserID: "user-1", Amount: 300, Date: fixedNow.AddDate(0, 0, -70),
			Type: model.TransactionTypeExpense, CategoryID: "cat-1", CategoryName: "Groceries"},
	}
	mockStore.EXPECT().
		ListTransactions(ctx, "user-1", nil, nil).
		Return(txns, nil)
	mockStore.EXPECT().
		ListBudgets(ctx, "user-1", false).
		Return(nil, nil)

	suggestions, err := svc.GetBudgetSuggestions(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, "cat-1", suggestions[0].CategoryID)
	assert.Equal(t, 330.0, suggestions[0].SuggestedAmount)
}

func TestGetAnomaliesNotCached(t *testing.T) {
	svc, mockStore := newTestService(t)
	ctx := context.Background()

	// Two calls hit the store both times.
	mockStore.EXPECT().
		ListTransactions(ctx, "user-1", nil, nil).
		Return(nil, nil).
		Times(2)

	_, err := svc.GetAnomalies(ctx, "user-1", 0.5)
	require.NoError(t, err)
	_, err = svc.GetAnomalies(ctx, "user-1", 1.0)
	require.NoError(t, err)
}

func TestCreateBudget(t *testing.T) {
	svc, mockStore := newTestService(t)
	ctx := context.Background()

	t.Run("valid budget is persisted active", func(t *testing.T) {
		mockStore.EXPECT().
			CreateBudget(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, b *model.Budget) error {
				assert.True(t, b.IsActive)
				assert.NotEmpty(t, b.ID)
				return nil
			})

		created, err := svc.CreateBudget(ctx, &model.Budget{
			UserID:     "user-1",
			CategoryID: "cat-1",
			Name:       "Groceries",
			Amount:     400,
		})
		require.NoError(t, err)
		assert.Equal(t, fixedNow, created.CreatedAt)
	})

	t.Run("zero amount is rejected", func(t *testing.T) {
		_, err := svc.CreateBudget(ctx, &model.Budget{
			UserID:     "user-1",
			CategoryID: "cat-1",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDeleteTransaction(t *testing.T) {
	svc, mockStore := newTestService(t)
	ctx := context.Background()

	t.Run("missing transaction passes through not found", func(t *testing.T) {
		mockStore.EXPECT().
			DeleteTransaction(ctx, "tx-missing").
			Return(store.ErrNotFound)

		err := svc.DeleteTransaction(ctx, "user-1", "tx-missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete drops cached results", func(t *testing.T) {
		mockStore.EXPECT().
			ListTransactions(ctx, "user-1", nil, nil).
			Return(nil, nil).
			Times(2)
		mockStore.EXPECT().
			DeleteTransaction(ctx, "tx-1").
			Return(nil)

		_, err := svc.GetRecurringPatterns(ctx, "user-1")
		require.NoError(t, err)
		require.NoError(t, svc.DeleteTransaction(ctx, "user-1", "tx-1"))
		_, err = svc.GetRecurringPatterns(ctx, "user-1")
		require.NoError(t, err)
	})
}
