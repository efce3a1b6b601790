// Package scheduler периодически переводит просроченные подписки в expired
// и рассылает напоминания об их скором окончании.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/music-streaming/internal/config"
	"github.com/magabrotheeeer/music-streaming/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Subscriptions операции над подписками, которые нужны планировщику.
type Subscriptions interface {
	ExpireOverdue(ctx context.Context) (int, error)
	ClaimExpiringWithin(ctx context.Context, window time.Duration) ([]models.ExpiringSubscription, error)
}

// Publisher отправляет уведомления в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service фоновые задачи по подпискам.
type Service struct {
	subs      Subscriptions
	publisher Publisher
	cfg       config.Scheduler
	log       *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, subs Subscriptions, publisher Publisher, cfg config.Scheduler) *Service {
	return &Service{
		subs:      subs,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
	}
}

// Run запускает обе задачи и блокируется до отмены ctx.
func (s *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.every(ctx, s.cfg.SweepInterval, s.RunSweep)
	}()
	go func() {
		defer wg.Done()
		s.every(ctx, s.cfg.ReminderInterval, s.RunReminders)
	}()
	wg.Wait()
	s.log.Info("scheduler stopped")
}

func (s *Service) every(ctx context.Context, interval time.Duration, job func(context.Context)) {
	if interval <= 0 {
		s.log.Warn("non-positive interval, job disabled", slog.Duration("interval", interval))
		return
	}
	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			job(ctx)
		}
	}
}

// RunSweep однократно помечает истёкшие подписки.
func (s *Service) RunSweep(ctx context.Context) {
	n, err := s.subs.ExpireOverdue(ctx)
	if err != nil {
		s.log.Error("failed to expire subscriptions", sl.Err(err))
		return
	}
	s.log.Debug("subscription sweep finished", slog.Int("expired", n))
}

// RunReminders однократно публикует напоминания о подписках, истекающих в ReminderWindow.
func (s *Service) RunReminders(ctx context.Context) {
	s.log.Info("starting search for expiring subscriptions")
	expiring, err := s.subs.ClaimExpiringWithin(ctx, s.cfg.ReminderWindow)
	if err != nil {
		s.log.Error("failed to find expiring subscriptions", sl.Err(err))
		return
	}
	if len(expiring) == 0 {
		s.log.Info("no expiring subscriptions found")
		return
	}
	s.log.Info("found expiring subscriptions", slog.Int("count", len(expiring)))
	for _, sub := range expiring {
		if err := s.publisher.Publish(ctx, rabbitmq.RoutingExpiring, sub); err != nil {
			s.log.Error("failed to publish message", slog.String("email", sub.Email), sl.Err(err))
		}
	}
}
