// Package subscription управляет подписками пользователей на артистов:
// отмена, просмотр, истечение по времени и поиск подписок для напоминаний.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/metrics"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	// CancelSubscription отменяет активную подписку, NotFound если её нет.
	CancelSubscription(ctx context.Context, userUID, artistID string, now time.Time) (*models.Subscription, error)
	ListUserSubscriptions(ctx context.Context, userUID string) ([]models.Subscription, error)
	// ExpireSubscriptions переводит просроченные активные подписки в expired.
	ExpireSubscriptions(ctx context.Context, now time.Time) (int, error)
	ClaimExpiringReminders(ctx context.Context, from, to time.Time) ([]models.ExpiringSubscription, error)
}

// Service реализует бизнес-логику работы с подписками.
type Service struct {
	repo    Repository
	metrics *metrics.Metrics
	log     *slog.Logger
	now     func() time.Time
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		metrics: m,
		log:     log,
		now:     time.Now,
	}
}

// Cancel немедленно отзывает подписку: status=cancelled, valid_until=now.
// Доступ к контенту артиста пропадает сразу, без льготного периода.
func (s *Service) Cancel(ctx context.Context, userUID, artistID string) (*models.Subscription, error) {
	const op = "subscription.Cancel"
	if artistID == "" {
		return nil, fmt.Errorf("%s: %w: artist id is required", op, models.ErrBadRequest)
	}

	sub, err := s.repo.CancelSubscription(ctx, userUID, artistID, s.now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("subscription cancelled",
		sl.Op(op),
		slog.String("user_uid", userUID),
		slog.String("artist_id", artistID),
	)
	return sub, nil
}

// ListForUser возвращает все подписки пользователя.
func (s *Service) ListForUser(ctx context.Context, userUID string) ([]models.Subscription, error) {
	const op = "subscription.ListForUser"
	res, err := s.repo.ListUserSubscriptions(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ExpireOverdue помечает истёкшие подписки и возвращает их количество.
func (s *Service) ExpireOverdue(ctx context.Context) (int, error) {
	const op = "subscription.ExpireOverdue"
	n, err := s.repo.ExpireSubscriptions(ctx, s.now())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.SubscriptionsExpired(n)
	if n > 0 {
		s.log.Info("subscriptions expired", sl.Op(op), slog.Int("count", n))
	}
	return n, nil
}

// ClaimExpiringWithin возвращает активные подписки, которые закончатся в ближайшие window
// и по которым напоминание ещё не отправлялось. Возвращённые подписки отмечаются.
func (s *Service) ClaimExpiringWithin(ctx context.Context, window time.Duration) ([]models.ExpiringSubscription, error) {
	const op = "subscription.ClaimExpiringWithin"
	if window <= 0 {
		return nil, fmt.Errorf("%s: %w: window must be positive", op, models.ErrBadRequest)
	}
	now := s.now()
	res, err := s.repo.ClaimExpiringReminders(ctx, now, now.Add(window))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
