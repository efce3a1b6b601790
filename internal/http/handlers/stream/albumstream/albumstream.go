// Package albumstream выдаёт подписанные ссылки на все песни альбома.
package albumstream

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

// Entitlement решает, может ли пользователь слушать альбом.
type Entitlement interface {
	CanStreamAlbum(ctx context.Context, userUID, albumID string) bool
}

// Catalog источник песен альбома.
type Catalog interface {
	ListAlbumSongs(ctx context.Context, albumID string) ([]models.Song, error)
}

// Signer подписывает ссылки на медиафайлы.
type Signer interface {
	Sign(mediaKey, userUID string) (*mediaurl.SignedURL, error)
}

// Track ссылка на одну песню альбома.
type Track struct {
	SongID    string `json:"song_id"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	ExpiresAt string `json:"expires_at"`
}

// Response данные ответа.
type Response struct {
	AlbumID string  `json:"album_id"`
	Tracks  []Track `json:"tracks"`
}

// Handler обрабатывает запросы на воспроизведение альбома.
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
// @Summary Ссылки на альбом
// @Description Проверяет право доступа к альбому и возвращает подписанные ссылки на его песни.
// @Tags Streaming
// @Produce  json
// @Param id path string true "ID альбома"
// @Success 200 {object} response.Response{data=Response} "Подписанные ссылки"
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /albums/{id}/stream [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stream.album"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	albumID := chi.URLParam(r, "id")
	userUID := middlewarectx.UserUIDFrom(r.Context())

	if albumID == "" || !h.entitlement.CanStreamAlbum(r.Context(), userUID, albumID) {
		log.Info("stream denied", slog.String("album_id", albumID), slog.String("user_uid", userUID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error(response.MsgNoAccess))
		return
	}

	songs, err := h.catalog.ListAlbumSongs(r.Context(), albumID)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	tracks := make([]Track, 0, len(songs))
	for _, song := range songs {
		signed, err := h.signer.Sign(song.MediaKey, userUID)
		if err != nil {
			log.Error("failed to sign media url", slog.String("song_id", song.ID), sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal server error"))
			return
		}
		tracks = append(tracks, Track{
			SongID:    song.ID,
			Title:     song.Title,
			URL:       signed.URL,
			ExpiresAt: signed.ExpiresAt.Format(time.RFC3339),
		})
	}

	render.JSON(w, r, response.OKWithData(Response{AlbumID: albumID, Tracks: tracks}))
}
