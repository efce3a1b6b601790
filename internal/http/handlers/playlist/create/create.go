// Package create реализует создание плейлиста пользователя.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
)

// Request входные данные плейлиста.
type Request struct {
	Title       string `json:"title" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

// Service определяет интерфейс создания плейлиста.
type Service interface {
	Create(ctx context.Context, userUID, title, description string) (int, error)
}

// Handler обрабатывает запросы на создание плейлиста.
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
// @Summary Создать плейлист
// @Description Создает плейлист. У пользователя не больше 10 плейлистов.
// @Tags Playlists
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные плейлиста"
// @Success 201 {object} response.Response "Плейлист создан"
// @Failure 400 {object} response.ErrorResponse "Достигнут лимит плейлистов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /playlists [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.playlist.create"
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

	id, err := h.playlistService.Create(r.Context(), userUID, req.Title, req.Description)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{"playlist_id": id}))
}
