// Package entitlement решает, может ли пользователь слушать песню или альбом.
//
// Проверки выполняются по порядку и завершаются на первом разрешении:
// объект не найден -> отказ; free -> доступ; аноним -> отказ;
// пользователь не найден -> отказ; admin -> доступ; subscription -> активная
// подписка на артиста; purchase-only -> покупка объекта. Любая ошибка
// чтения приводит к отказу.
package entitlement

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/metrics"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Catalog источник записей каталога.
type Catalog interface {
	GetSong(ctx context.Context, id string) (*models.Song, error)
	GetAlbum(ctx context.Context, id string) (*models.Album, error)
}

// Repository состояние пользователя: профиль, подписки и покупки.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	HasActiveSubscription(ctx context.Context, userUID, artistID string, now time.Time) (bool, error)
	HasPurchasedSong(ctx context.Context, userUID, songID string) (bool, error)
	HasPurchasedAlbum(ctx context.Context, userUID, albumID string) (bool, error)
}

// Service проверка прав на прослушивание.
type Service struct {
	catalog Catalog
	repo    Repository
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// New создаёт Service.
func New(log *slog.Logger, catalog Catalog, repo Repository, m *metrics.Metrics) *Service {
	return &Service{
		catalog: catalog,
		repo:    repo,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// CanStreamSong решает, может ли пользователь слушать песню. Пустой userUID
// означает анонимного пользователя.
func (s *Service) CanStreamSong(ctx context.Context, userUID, songID string) bool {
	allowed := s.canStreamSong(ctx, userUID, songID)
	s.metrics.EntitlementDecision("song", allowed)
	return allowed
}

func (s *Service) canStreamSong(ctx context.Context, userUID, songID string) bool {
	const op = "entitlement.CanStreamSong"
	log := s.log.With(sl.Op(op), slog.String("song_id", songID))

	song, err := s.catalog.GetSong(ctx, songID)
	if err != nil {
		log.Debug("song lookup failed", sl.Err(err))
		return false
	}
	if song.AccessType == models.AccessFree {
		return true
	}
	user := s.loadUser(ctx, log, userUID)
	if user == nil {
		return false
	}
	return s.HasAccessToSong(ctx, user, song)
}

// CanStreamAlbum решает, может ли пользователь слушать альбом.
func (s *Service) CanStreamAlbum(ctx context.Context, userUID, albumID string) bool {
	allowed := s.canStreamAlbum(ctx, userUID, albumID)
	s.metrics.EntitlementDecision("album", allowed)
	return allowed
}

func (s *Service) canStreamAlbum(ctx context.Context, userUID, albumID string) bool {
	const op = "entitlement.CanStreamAlbum"
	log := s.log.With(sl.Op(op), slog.String("album_id", albumID))

	album, err := s.catalog.GetAlbum(ctx, albumID)
	if err != nil {
		log.Debug("album lookup failed", sl.Err(err))
		return false
	}
	if album.AccessType == models.AccessFree {
		return true
	}
	user := s.loadUser(ctx, log, userUID)
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}

	switch album.AccessType {
	case models.AccessSubscription:
		return s.hasSubscription(ctx, log, user.UUID, album.ArtistID)
	case models.AccessPurchaseOnly:
		owned, err := s.repo.HasPurchasedAlbum(ctx, user.UUID, album.ID)
		if err != nil {
			log.Warn("purchase lookup failed", sl.Err(err))
			return false
		}
		return owned
	}
	return false
}

// HasAccessToSong применяет правила доступа к уже загруженным пользователю и песне.
// Используется, когда нужно решить, показывать ли платные поля песни.
func (s *Service) HasAccessToSong(ctx context.Context, user *models.User, song *models.Song) bool {
	const op = "entitlement.HasAccessToSong"
	if song == nil {
		return false
	}
	if song.AccessType == models.AccessFree {
		return true
	}
	if user == nil {
		return false
	}
	if user.IsAdmin() {
		return true
	}

	log := s.log.With(sl.Op(op), slog.String("song_id", song.ID))
	switch song.AccessType {
	case models.AccessSubscription:
		return s.hasSubscription(ctx, log, user.UUID, song.ArtistID)
	case models.AccessPurchaseOnly:
		owned, err := s.repo.HasPurchasedSong(ctx, user.UUID, song.ID)
		if err != nil {
			log.Warn("purchase lookup failed", sl.Err(err))
			return false
		}
		return owned
	}
	return false
}

func (s *Service) loadUser(ctx context.Context, log *slog.Logger, userUID string) *models.User {
	if userUID == "" {
		return nil
	}
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		log.Debug("user lookup failed", sl.Err(err))
		return nil
	}
	return user
}

func (s *Service) hasSubscription(ctx context.Context, log *slog.Logger, userUID, artistID string) bool {
	active, err := s.repo.HasActiveSubscription(ctx, userUID, artistID, s.now())
	if err != nil {
		log.Warn("subscription lookup failed", sl.Err(err))
		return false
	}
	return active
}
