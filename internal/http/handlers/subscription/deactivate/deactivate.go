// Package deactivate реализует HTTP-обработчик деактивации подписки.
package deactivate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/http/response"
	"github.com/magabrotheeeer/subsense/internal/lib/sl"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/services/identity"
	"github.com/magabrotheeeer/subsense/internal/services/subscription"
)

// Handler обрабатывает POST /api/subscriptions/{id}/deactivate.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service снимает признак активности с подписки.
type Service interface {
	Deactivate(ctx context.Context, principal models.Principal, id string) (*models.Subscription, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Деактивировать подписку
// @Tags Subscriptions
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID подписки"
// @Success 200 {object} models.Subscription
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка или пользователь не найдены"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/deactivate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.deactivate"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	id := chi.URLParam(r, "id")
	sub, err := h.service.Deactivate(r.Context(), principal, id)
	var inputErr *subscription.InputError
	switch {
	case errors.As(err, &inputErr):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(inputErr.Reason))
		return
	case errors.Is(err, identity.ErrUnauthorized):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	case errors.Is(err, identity.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgUserNotFound))
		return
	case errors.Is(err, subscription.ErrSubscriptionNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgSubscriptionNotFound))
		return
	case err != nil:
		log.Error("failed to deactivate subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalServerError))
		return
	}

	log.Info("subscription deactivated", slog.String("id", sub.ID))
	render.JSON(w, r, sub)
}
