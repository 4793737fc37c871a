// Package create реализует HTTP-обработчик для создания новой подписки.
//
// Handler принимает JSON с данными подписки, проверяет обязательные поля и
// перечисления, передаёт запрос сервису и возвращает созданную запись со статусом 201.
// Пользователь создаётся при первом обращении.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/http/response"
	"github.com/magabrotheeeer/subsense/internal/lib/sl"
	"github.com/magabrotheeeer/subsense/internal/lib/validation"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/services/identity"
	"github.com/magabrotheeeer/subsense/internal/services/subscription"
)

// Handler управляет HTTP-запросами на создание подписок.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики для создания подписок
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики создания подписки.
type Service interface {
	Create(ctx context.Context, principal models.Principal, req models.DummySubscription) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validation.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать подписку
// @Description Создает подписку для текущего пользователя. Стоимость принимается числом или строкой.
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DummySubscription true "Данные новой подписки"
// @Success 201 {object} models.Subscription
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		sl.Op(op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	principal, ok := middlewarectx.PrincipalFrom(r.Context())
	if !ok {
		log.Warn("principal not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	}

	var req models.DummySubscription
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.MsgInvalidRequestBody))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		var verrs validator.ValidationErrors
		render.Status(r, http.StatusBadRequest)
		if errors.As(err, &verrs) {
			render.JSON(w, r, response.ValidationError(verrs))
		} else {
			render.JSON(w, r, response.Error(response.MsgInvalidRequestBody))
		}
		return
	}

	created, err := h.service.Create(r.Context(), principal, req)
	var inputErr *subscription.InputError
	switch {
	case errors.As(err, &inputErr):
		log.Info("invalid input", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(inputErr.Reason))
		return
	case errors.Is(err, identity.ErrUnauthorized):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	case err != nil:
		log.Error("failed to create subscription", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalServerError))
		return
	}

	log.Info("subscription created", slog.String("id", created.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
