// Package playlist управляет библиотекой пользователя: плейлисты и лайки.
package playlist

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Repository хранилище плейлистов и лайков.
type Repository interface {
	CreatePlaylist(ctx context.Context, p models.Playlist, maxPerUser int) (int, error)
	GetPlaylistOwner(ctx context.Context, playlistID int) (string, error)
	AddSongToPlaylist(ctx context.Context, playlistID int, songID string) (bool, error)
	ListPlaylists(ctx context.Context, userUID string) ([]models.Playlist, error)
	LikeSong(ctx context.Context, userUID, songID string) (bool, error)
}

// Songs проверяет существование песни в каталоге.
type Songs interface {
	GetSong(ctx context.Context, id string) (*models.Song, error)
}

// Service сервис библиотеки пользователя.
type Service struct {
	repo  Repository
	songs Songs
	log   *slog.Logger
}

// New создаёт Service.
func New(log *slog.Logger, repo Repository, songs Songs) *Service {
	return &Service{
		repo:  repo,
		songs: songs,
		log:   log,
	}
}

// Create создаёт плейлист. У пользователя не больше models.MaxPlaylistsPerUser плейлистов.
func (s *Service) Create(ctx context.Context, userUID, title, description string) (int, error) {
	const op = "playlist.Create"
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("%s: %w: title is required", op, models.ErrBadRequest)
	}

	id, err := s.repo.CreatePlaylist(ctx, models.Playlist{
		UserUID:     userUID,
		Title:       title,
		Description: description,
	}, models.MaxPlaylistsPerUser)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("playlist created", sl.Op(op), slog.String("user_uid", userUID), slog.Int("playlist_id", id))
	return id, nil
}

// AddSong добавляет песню в плейлист владельца. Чужой плейлист неотличим от отсутствующего.
func (s *Service) AddSong(ctx context.Context, userUID string, playlistID int, songID string) error {
	const op = "playlist.AddSong"

	owner, err := s.repo.GetPlaylistOwner(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if owner != userUID {
		return fmt.Errorf("%s: playlist %d: %w", op, playlistID, models.ErrNotFound)
	}
	if _, err := s.songs.GetSong(ctx, songID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.AddSongToPlaylist(ctx, playlistID, songID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// List возвращает плейлисты пользователя вместе с песнями.
func (s *Service) List(ctx context.Context, userUID string) ([]models.Playlist, error) {
	const op = "playlist.List"
	res, err := s.repo.ListPlaylists(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// LikeSong отмечает песню понравившейся. Повторный лайк ничего не меняет.
func (s *Service) LikeSong(ctx context.Context, userUID, songID string) error {
	const op = "playlist.LikeSong"
	if _, err := s.songs.GetSong(ctx, songID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := s.repo.LikeSong(ctx, userUID, songID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
