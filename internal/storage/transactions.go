package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const transactionColumns = `id::text, user_uid::text, item_type, item_id, artist_id, gateway, amount, currency,
	status, COALESCE(correlation_id, ''), COALESCE(payment_id, ''), created_at, paid_at`

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var t models.Transaction
	var paidAt sql.NullTime
	if err := row.Scan(&t.ID, &t.UserUID, &t.ItemType, &t.ItemID, &t.ArtistID, &t.Gateway,
		&t.Amount, &t.Currency, &t.Status, &t.CorrelationID, &t.PaymentID, &t.CreatedAt, &paidAt); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t.PaidAt = &paidAt.Time
	}
	return &t, nil
}

// CreateTransaction сохраняет транзакцию в статусе pending.
func (s *Storage) CreateTransaction(ctx context.Context, t models.Transaction) error {
	const op = "storage.CreateTransaction"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO transactions (id, user_uid, item_type, item_id, artist_id, gateway,
			      amount, currency, status, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'pending', $9)`
	_, err := s.DB.ExecContext(ctx, query,
		t.ID, t.UserUID, t.ItemType, t.ItemID, t.ArtistID, t.Gateway, t.Amount, t.Currency, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetTransactionCorrelation сохраняет идентификатор платежа на стороне провайдера.
func (s *Storage) SetTransactionCorrelation(ctx context.Context, id, correlationID string) error {
	const op = "storage.SetTransactionCorrelation"
	if err := ctxDone(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE transactions SET correlation_id = $2 WHERE id::text = $1`, id, correlationID)
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

// MarkTransactionPaid атомарно переводит транзакцию из pending в paid.
// Транзакция ищется по correlationID, а если не найдена, по transactionID
// из метаданных провайдера. Если подходящей pending-транзакции нет
// (её нет вовсе или она уже оплачена), возвращается models.ErrNotFound.
func (s *Storage) MarkTransactionPaid(ctx context.Context, gateway models.Gateway,
	correlationID, transactionID, paymentID string, paidAt time.Time) (*models.Transaction, error) {
	const op = "storage.MarkTransactionPaid"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	query := `UPDATE transactions
			  SET status = 'paid',
			      payment_id = NULLIF($4, ''),
			      paid_at = $5,
			      correlation_id = COALESCE(correlation_id, NULLIF($2, ''))
			  WHERE id = (
			      SELECT id FROM transactions
			      WHERE gateway = $1
			        AND status = 'pending'
			        AND ((NULLIF($2, '') IS NOT NULL AND correlation_id = $2)
			          OR (NULLIF($3, '') IS NOT NULL AND id::text = $3))
			      ORDER BY (correlation_id IS NOT DISTINCT FROM NULLIF($2, '')) DESC
			      LIMIT 1
			  )
			  AND status = 'pending'
			  RETURNING ` + transactionColumns
	t, err := scanTransaction(s.DB.QueryRowContext(ctx, query,
		gateway, correlationID, transactionID, paymentID, paidAt))
	if err != nil {
		return nil, notFound(op, err)
	}
	return t, nil
}

// GetTransaction возвращает транзакцию по ID.
func (s *Storage) GetTransaction(ctx context.Context, id string) (*models.Transaction, error) {
	const op = "storage.GetTransaction"
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	t, err := scanTransaction(s.DB.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id::text = $1`, id))
	if err != nil {
		return nil, notFound(op, err)
	}
	return t, nil
}

func (s *Storage) listTransactions(ctx context.Context, op, query string, args ...any) ([]models.Transaction, error) {
	if err := ctxDone(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUserTransactions возвращает транзакции пользователя, новые первыми.
func (s *Storage) ListUserTransactions(ctx context.Context, userUID string, limit, offset int) ([]models.Transaction, error) {
	return s.listTransactions(ctx, "storage.ListUserTransactions",
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE user_uid::text = $1
		 ORDER BY created_at DESC
		 LIMIT $2 OFFSET $3`, userUID, limit, offset)
}

// ListPendingTransactions возвращает pending-транзакции, созданные раньше createdBefore.
func (s *Storage) ListPendingTransactions(ctx context.Context, createdBefore time.Time, limit int) ([]models.Transaction, error) {
	return s.listTransactions(ctx, "storage.ListPendingTransactions",
		`SELECT `+transactionColumns+` FROM transactions
		 WHERE status = 'pending' AND created_at < $1
		 ORDER BY created_at
		 LIMIT $2`, createdBefore, limit)
}
