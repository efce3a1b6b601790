// Package cancel реализует отмену подписки пользователя на артиста.
// Отмена действует сразу: доступ к контенту артиста прекращается.
package cancel

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Service определяет интерфейс отмены подписки.
type Service interface {
	Cancel(ctx context.Context, userUID, artistID string) (*models.Subscription, error)
}

// Handler обрабатывает запросы на отмену подписки.
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
// @Summary Отменить подписку
// @Description Отменяет подписку на артиста. Доступ прекращается немедленно.
// @Tags Subscriptions
// @Produce  json
// @Param artistID path string true "ID артиста"
// @Success 200 {object} response.Response{data=models.Subscription} "Подписка отменена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /subscriptions/{artistID} [delete]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
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
	artistID := chi.URLParam(r, "artistID")

	sub, err := h.subscriptionService.Cancel(r.Context(), userUID, artistID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	log.Info("subscription cancelled", slog.String("artist_id", artistID))
	render.JSON(w, r, response.OKWithData(sub))
}
