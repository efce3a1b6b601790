package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const subscriptionColumns = `id, user_uid::text, artist_id, status, valid_until, gateway,
	COALESCE(external_subscription_id, ''), created_at, updated_at`

func scanSubscription(row interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	if err := row.Scan(&sub.ID, &sub.UserUID, &sub.ArtistID, &sub.Status, &sub.ValidUntil,
		&sub.Gateway, &sub.ExternalSubscriptionID, &sub.CreatedAt, &sub.UpdatedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpsertSubscription создаёт подписку или продлевает существующую на месте.
// Новый valid_until равен max(valid_until, Now) + Period. Уникальный индекс (user_uid, artist_id)
// не допускает дубликатов при гонке двух оплат.
func (s *Storage) UpsertSubscription(ctx context.Context, g models.SubscriptionGrant) (*models.Subscription, error) {
	const op = "storage.UpsertSubscription"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `INSERT INTO subscriptions (user_uid, artist_id, status, valid_until, gateway,
			      external_subscription_id, created_at, updated_at)
			  VALUES ($1, $2, 'active',
			      $5::timestamptz + make_interval(secs => $6::double precision),
			      $3, NULLIF($4, ''), $5, $5)
			  ON CONFLICT (user_uid, artist_id) DO UPDATE SET
			      status = 'active',
			      valid_until = GREATEST(subscriptions.valid_until, $5::timestamptz)
			          + make_interval(secs => $6::double precision),
			      gateway = EXCLUDED.gateway,
			      external_subscription_id = COALESCE(EXCLUDED.external_subscription_id,
			          subscriptions.external_subscription_id),
			      updated_at = $5
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query,
		g.UserUID, g.ArtistID, g.Gateway, g.ExternalSubscriptionID, g.Now, g.Period.Seconds()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sub, nil
}

// HasActiveSubscription проверяет наличие активной и не истёкшей на момент now подписки.
func (s *Storage) HasActiveSubscription(ctx context.Context, userUID, artistID string, now time.Time) (bool, error) {
	return s.exists(ctx, "storage.HasActiveSubscription", `
		SELECT EXISTS (
			SELECT 1 FROM subscriptions
			WHERE user_uid::text = $1 AND artist_id = $2
			  AND status = 'active' AND valid_until > $3
		)`, userUID, artistID, now)
}

// CancelSubscription немедленно отменяет активную подписку: status = cancelled,
// valid_until = now. Если активной подписки нет, возвращает models.ErrNotFound.
func (s *Storage) CancelSubscription(ctx context.Context, userUID, artistID string, now time.Time) (*models.Subscription, error) {
	const op = "storage.CancelSubscription"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE subscriptions
			  SET status = 'cancelled', valid_until = $3, updated_at = $3
			  WHERE user_uid::text = $1 AND artist_id = $2
			    AND status = 'active' AND valid_until > $3
			  RETURNING ` + subscriptionColumns
	sub, err := scanSubscription(s.DB.QueryRowContext(ctx, query, userUID, artistID, now))
	if err != nil {
		return nil, notFound(op, err)
	}
	return sub, nil
}

// ListUserSubscriptions возвращает все подписки пользователя.
func (s *Storage) ListUserSubscriptions(ctx context.Context, userUID string) ([]models.Subscription, error) {
	const op = "storage.ListUserSubscriptions"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+subscriptionColumns+` FROM subscriptions
		 WHERE user_uid::text = $1
		 ORDER BY valid_until DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExpireSubscriptions помечает истёкшие активные подписки как expired и
// возвращает их количество.
func (s *Storage) ExpireSubscriptions(ctx context.Context, now time.Time) (int, error) {
	const op = "storage.ExpireSubscriptions"
	if err := ctxDone(ctx, op); err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, `
		UPDATE subscriptions SET status = 'expired', updated_at = $1
		WHERE status = 'active' AND valid_until <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(n), nil
}

// ClaimExpiringReminders возвращает активные подписки, истекающие в интервале (from, to],
// по которым ещё не было напоминания для текущего valid_until, и отмечает их.
// Продление меняет valid_until, и подписка снова становится кандидатом.
func (s *Storage) ClaimExpiringReminders(ctx context.Context, from, to time.Time) ([]models.ExpiringSubscription, error) {
	const op = "storage.ClaimExpiringReminders"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		UPDATE subscriptions s
		SET reminded_for = s.valid_until
		FROM users u, artists a
		WHERE u.uid = s.user_uid AND a.id = s.artist_id
		  AND s.status = 'active' AND s.valid_until > $1 AND s.valid_until <= $2
		  AND s.reminded_for IS DISTINCT FROM s.valid_until
		RETURNING u.email, u.username, a.name, s.valid_until`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ExpiringSubscription
	for rows.Next() {
		var e models.ExpiringSubscription
		if err := rows.Scan(&e.Email, &e.Username, &e.ArtistName, &e.ValidUntil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
