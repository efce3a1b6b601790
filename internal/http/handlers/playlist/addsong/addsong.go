// Package addsong добавляет песню в плейлист владельца.
package addsong

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
)

// Request песня для добавления.
type Request struct {
	SongID string `json:"song_id" validate:"required"`
}

// Service определяет интерфейс изменения плейлиста.
type Service interface {
	AddSong(ctx context.Context, userUID string, playlistID int, songID string) error
}

// Handler обрабатывает запросы на добавление песни.
type Handler struct {
	log             *slog.Logger
	playlistService Service
	validate        *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	return &Handler{
		log:             log,
		playlistService: ps,
		validate:        validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Добавить песню в плейлист
// @Description Добавляет песню в плейлист текущего пользователя. Повторное добавление ничего не меняет.
// @Tags Playlists
// @Accept  json
// @Produce  json
// @Param id path int true "ID плейлиста"
// @Param request body Request true "Песня"
// @Success 200 {object} response.Response "Песня добавлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Плейлист или песня не найдены"
// @Router /playlists/{id}/songs [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.playlist.addsong"
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

	playlistID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		log.Warn("invalid playlist id", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid playlist id"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.playlistService.AddSong(r.Context(), userUID, playlistID, req.SongID); err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"playlist_id": playlistID,
		"song_id":     req.SongID,
	}))
}
