// Package api собирает HTTP-приложение стримингового сервиса: хранилище,
// кэш каталога, брокер уведомлений, платёжные провайдеры и маршруты.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/music-streaming/internal/cache"
	"github.com/magabrotheeeer/music-streaming/internal/config"
	"github.com/magabrotheeeer/music-streaming/internal/gateway"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/health"
	"github.com/magabrotheeeer/music-streaming/internal/lib/jwt"
	"github.com/magabrotheeeer/music-streaming/internal/lib/mediaurl"
	"github.com/magabrotheeeer/music-streaming/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/metrics"
	"github.com/magabrotheeeer/music-streaming/internal/migrations"
	authservice "github.com/magabrotheeeer/music-streaming/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/music-streaming/internal/services/catalog"
	"github.com/magabrotheeeer/music-streaming/internal/services/entitlement"
	paymentservice "github.com/magabrotheeeer/music-streaming/internal/services/payment"
	playlistservice "github.com/magabrotheeeer/music-streaming/internal/services/playlist"
	subservice "github.com/magabrotheeeer/music-streaming/internal/services/subscription"
	"github.com/magabrotheeeer/music-streaming/internal/storage"
)

// App HTTP-приложение.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает зависимости и собирает маршруты. Redis и RabbitMQ
// необязательны: без Redis каталог читается из базы, без брокера
// письма о покупках не отправляются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	app := &App{logger: logger, db: db}

	var catalogCache catalogservice.Cache
	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		logger.Warn("redis unavailable, catalog cache disabled", sl.Err(err))
	} else {
		app.cache = cacheRedis
		catalogCache = cacheRedis
	}

	var publisher paymentservice.Publisher
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, purchase notifications disabled", sl.Err(err))
	} else {
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
		if err != nil {
			_ = conn.Close()
			app.close()
			return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
		}
		app.conn, app.ch = conn, ch
		publisher = rabbitmq.NewPublisher(ch)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	providers := configuredGateways(logger, cfg.Payments)
	gateways := gateway.NewRegistry(providers...)

	catalogService := catalogservice.New(logger, db, catalogCache, cfg.CacheTTL)
	deps := Dependencies{
		Auth:         authservice.New(logger, db, jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)),
		Catalog:      catalogService,
		Entitlement:  entitlement.New(logger, catalogService, db, m),
		Payment:      paymentservice.New(logger, cfg.Payments, catalogService, db, gateways, publisher, m),
		Subscription: subservice.New(logger, db, m),
		Playlist:     playlistservice.New(logger, db, catalogService),
		Signer:       mediaurl.NewSigner(cfg.Media.BaseURL, cfg.Media.SigningKey, cfg.URLTTL),
		Gateways:     providers,
		HealthChecks: app.healthChecks(),
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, deps)

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

// configuredGateways возвращает провайдеров, у которых заданы и ключ API,
// и секрет вебхука. Остальные не регистрируются, их вебхуки не монтируются.
func configuredGateways(logger *slog.Logger, cfg config.Payments) []gateway.Gateway {
	var providers []gateway.Gateway
	if cfg.Stripe.SecretKey != "" && cfg.Stripe.WebhookSecret != "" {
		providers = append(providers, gateway.NewStripe(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret))
	} else {
		logger.Warn("stripe keys are not set, gateway disabled")
	}
	if cfg.Razorpay.KeyID != "" && cfg.Razorpay.KeySecret != "" && cfg.Razorpay.WebhookSecret != "" {
		providers = append(providers, gateway.NewRazorpay(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret))
	} else {
		logger.Warn("razorpay keys are not set, gateway disabled")
	}
	return providers
}

// healthChecks проверки зависимостей для /healthz.
func (a *App) healthChecks() map[string]health.Check {
	checks := map[string]health.Check{
		"postgres": a.db.Ping,
	}
	if a.cache != nil {
		checks["redis"] = a.cache.Ping
	}
	if a.conn != nil {
		conn := a.conn
		checks["rabbitmq"] = func(context.Context) error {
			if conn.IsClosed() {
				return errors.New("connection closed")
			}
			return nil
		}
	}
	return checks
}

// Run запускает HTTP-сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
