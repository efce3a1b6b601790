package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const songColumns = `id, title, artist_id, album_id, genre, media_key, access_type, price, currency`

func scanSong(row interface{ Scan(...any) error }) (*models.Song, error) {
	var song models.Song
	var albumID sql.NullString
	if err := row.Scan(&song.ID, &song.Title, &song.ArtistID, &albumID, &song.Genre,
		&song.MediaKey, &song.AccessType, &song.Price, &song.Currency); err != nil {
		return nil, err
	}
	if albumID.Valid {
		song.AlbumID = &albumID.String
	}
	return &song, nil
}

// GetSong возвращает песню по ID.
func (s *Storage) GetSong(ctx context.Context, id string) (*models.Song, error) {
	const op = "storage.GetSong"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	song, err := scanSong(s.DB.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return song, nil
}

// GetAlbum возвращает альбом по ID.
func (s *Storage) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	const op = "storage.GetAlbum"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	var a models.Album
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, title, artist_id, access_type, price, currency
		FROM albums WHERE id = $1`, id).
		Scan(&a.ID, &a.Title, &a.ArtistID, &a.AccessType, &a.Price, &a.Currency)
	if err != nil {
		return nil, notFound(op, err)
	}
	return &a, nil
}

// GetArtist возвращает артиста по ID.
func (s *Storage) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	const op = "storage.GetArtist"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	var a models.Artist
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, name, subscription_price, currency
		FROM artists WHERE id = $1`, id).
		Scan(&a.ID, &a.Name, &a.SubscriptionPrice, &a.Currency)
	if err != nil {
		return nil, notFound(op, err)
	}
	return &a, nil
}

// ListAlbumSongs возвращает песни альбома.
func (s *Storage) ListAlbumSongs(ctx context.Context, albumID string) ([]models.Song, error) {
	const op = "storage.ListAlbumSongs"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+songColumns+` FROM songs WHERE album_id = $1 ORDER BY title, id`, albumID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Song
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ImportCatalog вставляет или обновляет записи каталога в одной транзакции.
func (s *Storage) ImportCatalog(ctx context.Context, c models.Catalog) error {
	const op = "storage.ImportCatalog"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, g := range c.Genres {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO genres (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name`, g.ID, g.Name); err != nil {
			return fmt.Errorf("%s: genre %s: %w", op, g.ID, err)
		}
	}
	for _, a := range c.Artists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO artists (id, name, subscription_price, currency) VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				subscription_price = EXCLUDED.subscription_price,
				currency = EXCLUDED.currency`,
			a.ID, a.Name, a.SubscriptionPrice, a.Currency); err != nil {
			return fmt.Errorf("%s: artist %s: %w", op, a.ID, err)
		}
	}
	for _, a := range c.Albums {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO albums (id, title, artist_id, access_type, price, currency)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				artist_id = EXCLUDED.artist_id,
				access_type = EXCLUDED.access_type,
				price = EXCLUDED.price,
				currency = EXCLUDED.currency`,
			a.ID, a.Title, a.ArtistID, a.AccessType, a.Price, a.Currency); err != nil {
			return fmt.Errorf("%s: album %s: %w", op, a.ID, err)
		}
	}
	for _, song := range c.Songs {
		var albumID sql.NullString
		if song.AlbumID != nil {
			albumID = nullString(*song.AlbumID)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO songs (id, title, artist_id, album_id, genre, media_key, access_type, price, currency)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				title = EXCLUDED.title,
				artist_id = EXCLUDED.artist_id,
				album_id = EXCLUDED.album_id,
				genre = EXCLUDED.genre,
				media_key = EXCLUDED.media_key,
				access_type = EXCLUDED.access_type,
				price = EXCLUDED.price,
				currency = EXCLUDED.currency`,
			song.ID, song.Title, song.ArtistID, albumID, song.Genre, song.MediaKey,
			song.AccessType, song.Price, song.Currency); err != nil {
			return fmt.Errorf("%s: song %s: %w", op, song.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
