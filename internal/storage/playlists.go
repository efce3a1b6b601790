package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// CreatePlaylist создаёт плейлист, если у пользователя их меньше maxPerUser.
// Строка пользователя блокируется на время проверки, поэтому параллельные
// запросы не превысят лимит.
func (s *Storage) CreatePlaylist(ctx context.Context, p models.Playlist, maxPerUser int) (int, error) {
	const op = "storage.CreatePlaylist"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var uid string
	if err := tx.QueryRowContext(ctx,
		`SELECT uid::text FROM users WHERE uid::text = $1 FOR UPDATE`, p.UserUID).Scan(&uid); err != nil {
		return 0, notFound(op, err)
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM playlists WHERE user_uid::text = $1`, p.UserUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if count >= maxPerUser {
		return 0, fmt.Errorf("%s: %w", op, models.ErrPlaylistLimit)
	}

	var id int
	if err := tx.QueryRowContext(ctx, `
		INSERT INTO playlists (user_uid, title, description)
		VALUES ($1, $2, $3) RETURNING id`, uid, p.Title, p.Description).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetPlaylistOwner возвращает UID владельца плейлиста.
func (s *Storage) GetPlaylistOwner(ctx context.Context, playlistID int) (string, error) {
	const op = "storage.GetPlaylistOwner"
	if err := ctxDone(ctx, op); err != nil {
		return "", err
	}

	var owner string
	if err := s.DB.QueryRowContext(ctx,
		`SELECT user_uid::text FROM playlists WHERE id = $1`, playlistID).Scan(&owner); err != nil {
		return "", notFound(op, err)
	}
	return owner, nil
}

// AddSongToPlaylist добавляет песню в плейлист, повтор игнорируется.
func (s *Storage) AddSongToPlaylist(ctx context.Context, playlistID int, songID string) (bool, error) {
	return s.insertIgnore(ctx, "storage.AddSongToPlaylist",
		`INSERT INTO playlist_songs (playlist_id, song_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, playlistID, songID)
}

// ListPlaylists возвращает плейлисты пользователя вместе с песнями.
func (s *Storage) ListPlaylists(ctx context.Context, userUID string) ([]models.Playlist, error) {
	const op = "storage.ListPlaylists"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, user_uid::text, title, description, created_at
		FROM playlists WHERE user_uid::text = $1
		ORDER BY created_at, id`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var result []models.Playlist
	index := map[int]int{}
	for rows.Next() {
		var p models.Playlist
		if err := rows.Scan(&p.ID, &p.UserUID, &p.Title, &p.Description, &p.CreatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		p.SongIDs = []string{}
		index[p.ID] = len(result)
		result = append(result, p)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(result) == 0 {
		return result, nil
	}

	songRows, err := s.DB.QueryContext(ctx, `
		SELECT ps.playlist_id, ps.song_id
		FROM playlist_songs ps
		JOIN playlists p ON p.id = ps.playlist_id
		WHERE p.user_uid::text = $1
		ORDER BY ps.added_at, ps.song_id`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = songRows.Close()
	}()
	for songRows.Next() {
		var playlistID int
		var songID string
		if err := songRows.Scan(&playlistID, &songID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if i, ok := index[playlistID]; ok {
			result[i].SongIDs = append(result[i].SongIDs, songID)
		}
	}
	if err := songRows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// LikeSong добавляет песню в понравившиеся.
func (s *Storage) LikeSong(ctx context.Context, userUID, songID string) (bool, error) {
	return s.insertIgnore(ctx, "storage.LikeSong",
		`INSERT INTO user_liked_songs (user_uid, song_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userUID, songID)
}
