// Package songstream выдаёт подписанную ссылку на воспроизведение песни.
// Запрос может быть анонимным: бесплатные песни доступны всем.
package songstream

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/lib/mediaurl"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Entitlement решает, может ли пользователь слушать песню.
type Entitlement interface {
	CanStreamSong(ctx context.Context, userUID, songID string) bool
}

// Catalog источник записей каталога.
type Catalog interface {
	GetSong(ctx context.Context, id string) (*models.Song, error)
}

// Signer подписывает ссылки на медиафайлы.
type Signer interface {
	Sign(mediaKey, userUID string) (*mediaurl.SignedURL, error)
}

// Response данные ответа со ссылкой.
type Response struct {
	SongID    string `json:"song_id"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// Handler обрабатывает запросы на воспроизведение песни.
type Handler struct {
	log         *slog.Logger
	entitlement Entitlement
	catalog     Catalog
	signer      Signer
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ent Entitlement, catalog Catalog, signer Signer) *Handler {
	return &Handler{
		log:         log,
		entitlement: ent,
		catalog:     catalog,
		signer:      signer,
	}
}

// ServeHTTP godoc
// @Summary Ссылка на песню
// @Description Проверяет право доступа и возвращает ограниченную по времени ссылку на файл песни.
// @Tags Streaming
// @Produce  json
// @Param id path string true "ID песни"
// @Success 200 {object} response.Response{data=Response} "Подписанная ссылка"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /songs/{id}/stream [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stream.song"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	songID := chi.URLParam(r, "id")
	userUID := middlewarectx.UserUIDFrom(r.Context())

	// отсутствующая песня и отказ неразличимы для клиента
	if songID == "" || !h.entitlement.CanStreamSong(r.Context(), userUID, songID) {
		log.Info("stream denied", slog.String("song_id", songID), slog.String("user_uid", userUID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error(response.MsgNoAccess))
		return
	}

	song, err := h.catalog.GetSong(r.Context(), songID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	signed, err := h.signer.Sign(song.MediaKey, userUID)
	if err != nil {
		log.Error("failed to sign media url", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	render.JSON(w, r, response.OKWithData(Response{
		SongID:    song.ID,
		URL:       signed.URL,
		ExpiresAt: signed.ExpiresAt.Format(time.RFC3339),
	}))
}
