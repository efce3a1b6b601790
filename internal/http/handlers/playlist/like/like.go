// Package like отмечает песню понравившейся.
package like

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
)

// Service определяет интерфейс лайков.
type Service interface {
	LikeSong(ctx context.Context, userUID, songID string) error
}

// Handler обрабатывает запросы на лайк песни.
type Handler struct {
	log             *slog.Logger
	playlistService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	return &Handler{
		log:             log,
		playlistService: ps,
	}
}

// ServeHTTP godoc
// @Summary Лайкнуть песню
// @Description Добавляет песню в понравившиеся. Повторный лайк ничего не меняет.
// @Tags Playlists
// @Produce  json
// @Param id path string true "ID песни"
// @Success 200 {object} response.Response "Песня отмечена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Песня не найдена"
// @Router /songs/{id}/like [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.playlist.like"
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
	songID := chi.URLParam(r, "id")

	if err := h.playlistService.LikeSong(r.Context(), userUID, songID); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{"song_id": songID, "liked": true}))
}
