// Package sender собирает приложение отправки писем из очередей уведомлений.
package sender

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/music-streaming/internal/config"
	"github.com/magabrotheeeer/music-streaming/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/lib/smtp"
	senderservice "github.com/magabrotheeeer/music-streaming/internal/services/sender"
)

// App приложение notification-sender.
type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.Service
	logger        *slog.Logger
}

// New подключается к брокеру и готовит SMTP-транспорт.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	transport := smtp.NewTransport(cfg.SMTP, logger)
	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderservice.New(logger, transport),
		logger:        logger,
	}, nil
}

// handlerFor сопоставляет ключ маршрутизации обработчику сервиса.
func (a *App) handlerFor(routingKey string) func([]byte) error {
	switch routingKey {
	case rabbitmq.RoutingPurchase:
		return a.senderService.HandlePurchase
	case rabbitmq.RoutingExpiring:
		return a.senderService.HandleExpiring
	default:
		return nil
	}
}

// Run запускает потребителей всех очередей уведомлений и ждёт отмены ctx.
func (a *App) Run(ctx context.Context) error {
	for _, q := range rabbitmq.GetNotificationQueues() {
		handler := a.handlerFor(q.RoutingKey)
		if handler == nil {
			a.logger.Warn("no handler for queue", slog.String("queue", q.QueueName))
			continue
		}
		if err := rabbitmq.ConsumerMessage(ctx, a.logger, a.ch, q.QueueName, handler); err != nil {
			a.logger.Error("failed to start consumer", slog.String("queue", q.QueueName), sl.Err(err))
			return err
		}
		a.logger.Info("consumer started", slog.String("queue", q.QueueName))
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", sl.Err(err))
	}
	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", sl.Err(err))
	}
	return nil
}
