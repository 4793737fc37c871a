package create

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/services/subscription"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, principal models.Principal, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, principal, req)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{ExternalID: "user_1"}
	created := &models.Subscription{
		ID:           "s1",
		UserID:       "u1",
		Name:         "Netflix",
		Cost:         9.99,
		Currency:     "GBP",
		BillingCycle: models.BillingMonthly,
		NextPayment:  time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		Category:     models.CategoryEntertainment,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}

	tests := []struct {
		name           string
		body           string
		noPrincipal    bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "стоимость строкой",
			body: `{"name":"Netflix","cost":"9.99","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, mock.MatchedBy(func(r models.DummySubscription) bool {
					return r.Cost == "9.99"
				})).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"cost":9.99`,
		},
		{
			name: "стоимость числом",
			body: `{"name":"Netflix","cost":9.99,"billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment","description":"hd"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, mock.Anything).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"s1"`,
		},
		{
			name:           "нет стоимости",
			body:           `{"name":"Netflix","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Missing required fields"}`,
		},
		{
			name:           "пустая строка стоимости",
			body:           `{"name":"Netflix","cost":"","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Missing required fields"}`,
		},
		{
			name:           "стоимость из пробелов",
			body:           `{"name":"Netflix","cost":"   ","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Missing required fields"}`,
		},
		{
			name:           "нулевая стоимость",
			body:           `{"name":"Netflix","cost":0,"billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Missing required fields"}`,
		},
		{
			name:           "нулевая стоимость строкой",
			body:           `{"name":"Netflix","cost":"0.00","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Missing required fields"}`,
		},
		{
			name: "стоимость без округления",
			body: `{"name":"Netflix","cost":"9.999","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, mock.MatchedBy(func(r models.DummySubscription) bool {
					return r.Cost == "9.999"
				})).Return(created, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"id":"s1"`,
		},
		{
			name:           "пустое имя",
			body:           `{"name":"","cost":1,"billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `Missing required fields`,
		},
		{
			name:           "неизвестная категория",
			body:           `{"name":"Netflix","cost":1,"billingCycle":"monthly","nextPayment":"2025-12-01","category":"Games"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field category is not a known category`,
		},
		{
			name:           "неизвестный период",
			body:           `{"name":"Netflix","cost":1,"billingCycle":"daily","nextPayment":"2025-12-01","category":"Other"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `field billingCycle must be one of weekly, monthly, yearly`,
		},
		{
			name:           "некорректный JSON",
			body:           `{"name":`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"Invalid request body"}`,
		},
		{
			name:           "нечисловая стоимость",
			body:           `{"name":"Netflix","cost":"abc","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Other"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `Invalid request body`,
		},
		{
			name: "отрицательная стоимость",
			body: `{"name":"Netflix","cost":-1,"billingCycle":"monthly","nextPayment":"2025-12-01","category":"Other"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, mock.Anything).
					Return(nil, fmt.Errorf("subscription.Create: %w", &subscription.InputError{Reason: "cost must not be negative"}))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"cost must not be negative"}`,
		},
		{
			name:           "нет идентичности",
			body:           `{}`,
			noPrincipal:    true,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `Unauthorized`,
		},
		{
			name: "ошибка хранилища",
			body: `{"name":"Netflix","cost":1,"billingCycle":"monthly","nextPayment":"2025-12-01","category":"Other"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, principal, mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(tt.body))
			if !tt.noPrincipal {
				req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), principal))
			}
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}

func TestCreateHandler_ResponseShape(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{ExternalID: "user_1"}
	mockService := new(MockService)
	mockService.On("Create", mock.Anything, principal, mock.Anything).Return(&models.Subscription{
		ID: "s1", Name: "Netflix", Cost: 9.99, CreatedAt: time.Now(),
	}, nil)

	body := `{"name":"Netflix","cost":"9.99","billingCycle":"monthly","nextPayment":"2025-12-01","category":"Entertainment"}`
	req := httptest.NewRequest(http.MethodPost, "/api/subscriptions", strings.NewReader(body))
	req = req.WithContext(middlewarectx.WithPrincipal(req.Context(), principal))
	w := httptest.NewRecorder()
	New(logger, mockService).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	for _, key := range []string{"id", "userId", "name", "cost", "currency", "billingCycle", "nextPayment", "category", "description", "isActive", "createdAt"} {
		assert.Contains(t, got, key)
	}
	assert.Nil(t, got["description"])
}
