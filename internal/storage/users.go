package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const userColumns = `uid, email, username, password_hash, COALESCE(oauth_id, ''), role, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	if err := row.Scan(&u.UUID, &u.Email, &u.Username, &u.PasswordHash,
		&u.OAuthID, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя и возвращает его UID.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	if err := ctxDone(ctx, op); err != nil {
		return "", err
	}

	role := user.Role
	if role == "" {
		role = models.RoleUser
	}
	var newID string
	query := `INSERT INTO users (email, username, password_hash, oauth_id, role)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, nullString(user.OAuthID), role).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, models.ErrUserExists)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid::text = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, notFound(op, err)
	}
	return u, nil
}

// SetUserRole меняет роль пользователя.
func (s *Storage) SetUserRole(ctx context.Context, username, role string) error {
	const op = "storage.SetUserRole"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET role = $2 WHERE username = $1`, username, role)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}

func (s *Storage) exists(ctx context.Context, op, query string, args ...any) (bool, error) {
	if err := ctxDone(ctx, op); err != nil {
		return false, err
	}
	var ok bool
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&ok); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return ok, nil
}

// HasPurchasedSong проверяет, купил ли пользователь песню.
func (s *Storage) HasPurchasedSong(ctx context.Context, userUID, songID string) (bool, error) {
	return s.exists(ctx, "storage.HasPurchasedSong",
		`SELECT EXISTS (SELECT 1 FROM user_purchased_songs WHERE user_uid::text = $1 AND song_id = $2)`,
		userUID, songID)
}

// HasPurchasedAlbum проверяет, купил ли пользователь альбом.
func (s *Storage) HasPurchasedAlbum(ctx context.Context, userUID, albumID string) (bool, error) {
	return s.exists(ctx, "storage.HasPurchasedAlbum",
		`SELECT EXISTS (SELECT 1 FROM user_purchased_albums WHERE user_uid::text = $1 AND album_id = $2)`,
		userUID, albumID)
}

func (s *Storage) insertIgnore(ctx context.Context, op, query string, args ...any) (bool, error) {
	if err := ctxDone(ctx, op); err != nil {
		return false, err
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// AddPurchasedSong добавляет песню в покупки пользователя. Повторная вставка игнорируется,
// возвращаемый флаг сообщает, была ли запись добавлена.
func (s *Storage) AddPurchasedSong(ctx context.Context, userUID, songID string) (bool, error) {
	return s.insertIgnore(ctx, "storage.AddPurchasedSong",
		`INSERT INTO user_purchased_songs (user_uid, song_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userUID, songID)
}

// AddPurchasedAlbum добавляет альбом в покупки пользователя.
func (s *Storage) AddPurchasedAlbum(ctx context.Context, userUID, albumID string) (bool, error) {
	return s.insertIgnore(ctx, "storage.AddPurchasedAlbum",
		`INSERT INTO user_purchased_albums (user_uid, album_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, userUID, albumID)
}

// AddPurchaseHistory записывает покупку в историю. Дубликаты по payment_id,
// а для песен и альбомов и по самому объекту, игнорируются.
func (s *Storage) AddPurchaseHistory(ctx context.Context, userUID string, rec models.PurchaseRecord) (bool, error) {
	return s.insertIgnore(ctx, "storage.AddPurchaseHistory",
		`INSERT INTO purchase_history (user_uid, item_type, item_id, price, currency, payment_id, purchased_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT DO NOTHING`,
		userUID, rec.ItemType, rec.ItemID, rec.Price, rec.Currency, rec.PaymentID, rec.PurchasedAt)
}

// ListPurchaseHistory возвращает историю покупок пользователя, новые первыми.
func (s *Storage) ListPurchaseHistory(ctx context.Context, userUID string) ([]models.PurchaseRecord, error) {
	const op = "storage.ListPurchaseHistory"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT item_type, item_id, price, currency, payment_id, purchased_at
		FROM purchase_history
		WHERE user_uid::text = $1
		ORDER BY purchased_at DESC, id DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.PurchaseRecord
	for rows.Next() {
		var r models.PurchaseRecord
		if err := rows.Scan(&r.ItemType, &r.ItemID, &r.Price, &r.Currency, &r.PaymentID, &r.PurchasedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
