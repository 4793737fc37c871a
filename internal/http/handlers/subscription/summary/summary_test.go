package summary

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/services/identity"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Summary(ctx context.Context, principal models.Principal) (models.Summary, error) {
	args := m.Called(ctx, principal)
	return args.Get(0).(models.Summary), args.Error(1)
}

func TestSummaryHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{ExternalID: "user_1"}

	t.Run("метрики", func(t *testing.T) {
		m := new(MockService)
		m.On("Summary", mock.Anything, principal).Return(models.Summary{
			MonthlyTotal:           49.97,
			ActiveCount:            3,
			YearlyProjection:       599.64,
			NormalizedMonthlyTotal: 32.24,
			ByCategory: []models.CategoryTotal{
				{Category: models.CategoryEntertainment, Total: 49.97, Count: 3},
			},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/summary", nil)
		req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), principal))
		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var got models.Summary
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, 49.97, got.MonthlyTotal)
		assert.Equal(t, 599.64, got.YearlyProjection)
		assert.Equal(t, 3, got.ActiveCount)
		assert.Len(t, got.ByCategory, 1)
	})

	t.Run("пользователь не найден", func(t *testing.T) {
		m := new(MockService)
		m.On("Summary", mock.Anything, principal).Return(models.Summary{}, identity.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/summary", nil)
		req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), principal))
		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"status":"Error","error":"User not found"}`, w.Body.String())
	})

	t.Run("ошибка сервиса", func(t *testing.T) {
		m := new(MockService)
		m.On("Summary", mock.Anything, principal).Return(models.Summary{}, errors.New("boom"))

		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/summary", nil)
		req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), principal))
		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("без идентичности", func(t *testing.T) {
		m := new(MockService)
		req := httptest.NewRequest(http.MethodGet, "/api/subscriptions/summary", nil)
		w := httptest.NewRecorder()
		New(logger, m).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		m.AssertNotCalled(t, "Summary", mock.Anything, mock.Anything)
	})
}
