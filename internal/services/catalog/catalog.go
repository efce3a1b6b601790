// Package catalog предоставляет чтение каталога через кеш Redis и пакетный импорт.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// KeyPrefix общий префикс ключей каталога в кеше.
const KeyPrefix = "catalog:"

// Repository хранилище каталога.
type Repository interface {
	GetSong(ctx context.Context, id string) (*models.Song, error)
	GetAlbum(ctx context.Context, id string) (*models.Album, error)
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
	ListAlbumSongs(ctx context.Context, albumID string) ([]models.Song, error)
	ImportCatalog(ctx context.Context, c models.Catalog) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Service read-through доступ к каталогу. Кеш может быть nil.
type Service struct {
	repo  Repository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// New создаёт Service.
func New(log *slog.Logger, repo Repository, cache Cache, ttl time.Duration) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func cached[T any](ctx context.Context, s *Service, key string, load func() (T, error)) (T, error) {
	var result T
	if s.cache != nil {
		found, err := s.cache.Get(ctx, key, &result)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		} else if found {
			return result, nil
		}
	}

	result, err := load()
	if err != nil {
		return result, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		}
	}
	return result, nil
}

// GetSong возвращает песню по ID.
func (s *Service) GetSong(ctx context.Context, id string) (*models.Song, error) {
	return cached(ctx, s, KeyPrefix+"song:"+id, func() (*models.Song, error) {
		return s.repo.GetSong(ctx, id)
	})
}

// GetAlbum возвращает альбом по ID.
func (s *Service) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	return cached(ctx, s, KeyPrefix+"album:"+id, func() (*models.Album, error) {
		return s.repo.GetAlbum(ctx, id)
	})
}

// GetArtist возвращает артиста по ID.
func (s *Service) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	return cached(ctx, s, KeyPrefix+"artist:"+id, func() (*models.Artist, error) {
		return s.repo.GetArtist(ctx, id)
	})
}

// ListAlbumSongs возвращает песни альбома.
func (s *Service) ListAlbumSongs(ctx context.Context, albumID string) ([]models.Song, error) {
	return cached(ctx, s, KeyPrefix+"album-songs:"+albumID, func() ([]models.Song, error) {
		return s.repo.ListAlbumSongs(ctx, albumID)
	})
}

// Validate проверяет инварианты цен и обязательные поля каталога.
func Validate(c models.Catalog) error {
	for _, a := range c.Artists {
		if a.ID == "" || a.Name == "" {
			return fmt.Errorf("%w: artist id and name are required", models.ErrBadRequest)
		}
		if a.SubscriptionPrice < 0 {
			return fmt.Errorf("artist %s: %w", a.ID, models.ErrInvalidPrice)
		}
	}
	for _, a := range c.Albums {
		if a.ID == "" || a.ArtistID == "" {
			return fmt.Errorf("%w: album id and artist are required", models.ErrBadRequest)
		}
		if err := models.ValidatePricing(a.AccessType, a.Price); err != nil {
			return fmt.Errorf("album %s: %w", a.ID, err)
		}
	}
	for _, song := range c.Songs {
		if song.ID == "" || song.ArtistID == "" {
			return fmt.Errorf("%w: song id and artist are required", models.ErrBadRequest)
		}
		if err := models.ValidatePricing(song.AccessType, song.Price); err != nil {
			return fmt.Errorf("song %s: %w", song.ID, err)
		}
	}
	return nil
}

// Import проверяет и сохраняет каталог, затем сбрасывает кеш каталога.
func (s *Service) Import(ctx context.Context, c models.Catalog, defaultCurrency string) error {
	const op = "catalog.Import"
	log := s.log.With(sl.Op(op))

	applyCurrency(&c, defaultCurrency)
	if err := Validate(c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.ImportCatalog(ctx, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("catalog imported",
		slog.Int("artists", len(c.Artists)),
		slog.Int("albums", len(c.Albums)),
		slog.Int("songs", len(c.Songs)),
	)

	if s.cache != nil {
		if err := s.cache.InvalidatePrefix(ctx, KeyPrefix); err != nil {
			log.Warn("failed to invalidate catalog cache", sl.Err(err))
		}
	}
	return nil
}

func applyCurrency(c *models.Catalog, currency string) {
	for i := range c.Artists {
		if c.Artists[i].Currency == "" {
			c.Artists[i].Currency = currency
		}
	}
	for i := range c.Albums {
		if c.Albums[i].Currency == "" {
			c.Albums[i].Currency = currency
		}
	}
	for i := range c.Songs {
		if c.Songs[i].Currency == "" {
			c.Songs[i].Currency = currency
		}
	}
}
