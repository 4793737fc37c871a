package deactivate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/services/identity"
	"github.com/magabrotheeeer/subsense/internal/services/subscription"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Deactivate(ctx context.Context, principal models.Principal, id string) (*models.Subscription, error) {
	args := m.Called(ctx, principal, id)
	sub, _ := args.Get(0).(*models.Subscription)
	return sub, args.Error(1)
}

func TestDeactivateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	principal := models.Principal{ExternalID: "user_1"}
	const id = "7f1c6b2e-4a55-4d6a-9d0e-3c9b1f0a2b11"

	tests := []struct {
		name           string
		id             string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешная деактивация",
			id:   id,
			setupMock: func(m *MockService) {
				m.On("Deactivate", mock.Anything, principal, id).Return(&models.Subscription{ID: id, IsActive: false}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"isActive":false`,
		},
		{
			name: "некорректный ID",
			id:   "abc",
			setupMock: func(m *MockService) {
				m.On("Deactivate", mock.Anything, principal, "abc").
					Return(nil, &subscription.InputError{Reason: "invalid subscription id"})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid subscription id"}`,
		},
		{
			name: "подписка не найдена",
			id:   id,
			setupMock: func(m *MockService) {
				m.On("Deactivate", mock.Anything, principal, id).
					Return(nil, fmt.Errorf("subscription.Deactivate: %w", subscription.ErrSubscriptionNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"Subscription not found"}`,
		},
		{
			name: "пользователь не найден",
			id:   id,
			setupMock: func(m *MockService) {
				m.On("Deactivate", mock.Anything, principal, id).Return(nil, identity.ErrUserNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `User not found`,
		},
		{
			name: "ошибка хранилища",
			id:   id,
			setupMock: func(m *MockService) {
				m.On("Deactivate", mock.Anything, principal, id).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `Internal server error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			req := httptest.NewRequest(http.MethodPost, "/api/subscriptions/"+tt.id+"/deactivate", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = middlewarectx.WithPrincipal(ctx, principal)
			req = req.WithContext(ctx)
			w := httptest.NewRecorder()

			New(logger, mockService).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
