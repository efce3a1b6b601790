// Package list возвращает подписки текущего пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Service определяет интерфейс чтения подписок.
type Service interface {
	ListForUser(ctx context.Context, userUID string) ([]models.Subscription, error)
}

// Handler обрабатывает запросы на список подписок.
type Handler struct {
	log                 *slog.Logger
	subscriptionService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ss Service) *Handler {
	return &Handler{
		log:                 log,
		subscriptionService: ss,
	}
}

// ServeHTTP godoc
// @Summary Список подписок
// @Description Возвращает все подписки пользователя в любом статусе.
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Subscription} "Список подписок"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UserUIDFrom(r.Context())
	if userUID == "" {
		log.Warn("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	subs, err := h.subscriptionService.ListForUser(r.Context(), userUID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if subs == nil {
		subs = []models.Subscription{}
	}

	render.JSON(w, r, response.OKWithData(subs))
}
