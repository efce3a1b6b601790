// Package list возвращает плейлисты текущего пользователя.
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

// Service определяет интерфейс чтения плейлистов.
type Service interface {
	List(ctx context.Context, userUID string) ([]models.Playlist, error)
}

// Handler обрабатывает запросы на список плейлистов.
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
// @Summary Список плейлистов
// @Tags Playlists
// @Produce  json
// @Success 200 {object} response.Response{data=[]models.Playlist} "Плейлисты с песнями"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /playlists [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.playlist.list"
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

	playlists, err := h.playlistService.List(r.Context(), userUID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}

	render.JSON(w, r, response.OKWithData(playlists))
}
