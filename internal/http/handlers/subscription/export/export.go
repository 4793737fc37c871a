// Package export реализует HTTP-обработчик XLSX-выгрузки подписок.
package export

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	xlsx "github.com/magabrotheeeer/subsense/internal/export"
	"github.com/magabrotheeeer/subsense/internal/http/middlewarectx"
	"github.com/magabrotheeeer/subsense/internal/http/response"
	"github.com/magabrotheeeer/subsense/internal/lib/sl"
	"github.com/magabrotheeeer/subsense/internal/models"
	"github.com/magabrotheeeer/subsense/internal/services/identity"
)

// Handler обрабатывает GET /api/subscriptions/export.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service возвращает подписки пользователя.
type Service interface {
	List(ctx context.Context, principal models.Principal) ([]models.Subscription, error)
}

// New создает новый Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Выгрузка подписок в XLSX
// @Tags Subscriptions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/export [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.export"
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

	subs, err := h.service.List(r.Context(), principal)
	switch {
	case errors.Is(err, identity.ErrUnauthorized):
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error(response.MsgUnauthorized))
		return
	case errors.Is(err, identity.ErrUserNotFound):
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error(response.MsgUserNotFound))
		return
	case err != nil:
		log.Error("failed to list subscriptions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalServerError))
		return
	}

	// Книга собирается в буфер, чтобы ошибка формирования не оборвала начатый ответ.
	var buf bytes.Buffer
	if err := xlsx.WriteXLSX(&buf, subs); err != nil {
		log.Error("failed to build workbook", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error(response.MsgInternalServerError))
		return
	}

	w.Header().Set("Content-Type", xlsx.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="subscriptions.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn("failed to write workbook", sl.Err(err))
	}
}
