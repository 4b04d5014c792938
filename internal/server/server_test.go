package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pennypilot/backend/internal/analytics"
	"github.com/pennypilot/backend/internal/service"
	"github.com/pennypilot/backend/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc := service.NewAnalyticsService(
		store.NewMemoryStore(),
		analytics.New(analytics.DefaultConfig()),
		cache.New(time.Minute, time.Minute),
		func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) },
		nil,
	)
	return New(svc, nil, 1000, 1000).Router()
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestTransactionEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("create returns the stored transaction", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/users/user-1/transactions/",
			`{"description":"Coffee","amount":4.5,"type":"expense","date":"2025-06-10T00:00:00Z"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created struct {
			ID     string  `json:"id"`
			UserID string  `json:"userId"`
			Amount float64 `json:"amount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "user-1", created.UserID)
		assert.Equal(t, 4.5, created.Amount)
	})

	t.Run("list returns the user's transactions", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/users/user-1/transactions/", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Transactions []json.RawMessage `json:"transactions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Transactions, 1)
	})

	t.Run("invalid type is a 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/users/user-1/transactions/",
			`{"amount":10,"type":"refund"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/users/user-1/transactions/", `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed start bound is a 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/users/user-1/transactions/?start=yesterday", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("deleting a missing transaction is a 404", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodDelete, "/api/v1/users/user-1/transactions/nope", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBudgetEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("create returns 201", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/users/user-1/budgets/",
			`{"name":"Groceries","categoryId":"cat-1","amount":400}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("missing category is a 400", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/api/v1/users/user-1/budgets/",
			`{"name":"Groceries","amount":400}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("list returns the created budget", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/users/user-1/budgets/", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Budgets []struct {
				Name     string `json:"name"`
				IsActive bool   `json:"isActive"`
			} `json:"budgets"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Budgets, 1)
		assert.Equal(t, "Groceries", resp.Budgets[0].Name)
		assert.True(t, resp.Budgets[0].IsActive)
	})
}

func TestAnalyticsEndpoints(t *testing.T) {
	router := newTestRouter(t)

	t.Run("forecast on an empty history", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet, "/api/v1/users/user-1/analytics/forecast", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Buckets []struct {
				Month     string `json:"month"`
				Predicted bool   `json:"predicted"`
			} `json:"buckets"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Buckets, 19)
	})

	t.Run("anomalies validates sensitivity", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodGet,
			"/api/v1/users/user-1/analytics/anomalies?sensitivity=1.5", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doRequest(t, router, http.MethodGet,
			"/api/v1/users/user-1/analytics/anomalies?sensitivity=0.8", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("remaining analytics routes respond", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/users/user-1/analytics/insights",
			"/api/v1/users/user-1/analytics/recurring",
			"/api/v1/users/user-1/analytics/budget-suggestions",
		} {
			rec := doRequest(t, router, http.MethodGet, path, "")
			assert.Equal(t, http.StatusOK, rec.Code, path)
		}
	})
}

func TestRateLimit(t *testing.T) {
	svc := service.NewAnalyticsService(
		store.NewMemoryStore(),
		analytics.New(analytics.DefaultConfig()),
		cache.New(time.Minute, time.Minute),
		nil,
		nil,
	)
	router := New(svc, nil, 1, 1).Router()

	first := doRequest(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
