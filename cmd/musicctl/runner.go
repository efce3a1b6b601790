package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/magabrotheeeer/music-streaming/internal/cache"
	"github.com/magabrotheeeer/music-streaming/internal/config"
	"github.com/magabrotheeeer/music-streaming/internal/lib/catalogfile"
	"github.com/magabrotheeeer/music-streaming/internal/lib/jwt"
	"github.com/magabrotheeeer/music-streaming/internal/metrics"
	"github.com/magabrotheeeer/music-streaming/internal/migrations"
	authservice "github.com/magabrotheeeer/music-streaming/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/music-streaming/internal/services/catalog"
	subservice "github.com/magabrotheeeer/music-streaming/internal/services/subscription"
	"github.com/magabrotheeeer/music-streaming/internal/storage"
)

// Runner выполняет команды musicctl. Конфиг и соединение с базой
// открываются лениво, только командами, которым они нужны.
type Runner struct {
	logger *log.Logger
	out    io.Writer

	configPath string
	cfg        *config.Config
	db         *storage.Storage
}

// NewRunner создаёт Runner.
func NewRunner(logger *log.Logger, out io.Writer) *Runner {
	return &Runner{logger: logger, out: out}
}

// Before читает глобальные флаги.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	r.configPath = cmd.String("config")
	if cmd.Bool("debug") {
		r.logger.SetLevel(log.DebugLevel)
	}
	return ctx, nil
}

// After закрывает соединение с базой, если оно открывалось.
func (r *Runner) After(_ context.Context, _ *cli.Command) error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// slogger адаптер для сервисов, которые принимают *slog.Logger.
func (r *Runner) slogger() *slog.Logger {
	return slog.New(r.logger)
}

func (r *Runner) loadConfig() (*config.Config, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}
	if r.configPath == "" {
		return nil, errors.New("config path is required: use --config or CONFIG_PATH")
	}
	cfg, err := config.Load(r.configPath)
	if err != nil {
		return nil, err
	}
	r.cfg = cfg
	return cfg, nil
}

func (r *Runner) openStorage() (*storage.Storage, error) {
	if r.db != nil {
		return r.db, nil
	}
	cfg, err := r.loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	r.db = db
	return db, nil
}

func (r *Runner) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.out, format+"\n", args...)
}

// MigrateUp применяет миграции.
func (r *Runner) MigrateUp(_ context.Context, _ *cli.Command) error {
	db, err := r.openStorage()
	if err != nil {
		return err
	}
	if err := migrations.Run(db.DB, r.cfg.MigrationsPath); err != nil {
		return err
	}
	r.printf("migrations applied")
	return nil
}

// MigrateDown откатывает последние миграции.
func (r *Runner) MigrateDown(_ context.Context, cmd *cli.Command) error {
	db, err := r.openStorage()
	if err != nil {
		return err
	}
	steps := int(cmd.Int("steps"))
	if err := migrations.Down(db.DB, r.cfg.MigrationsPath, steps); err != nil {
		return err
	}
	r.printf("rolled back %d migration(s)", steps)
	return nil
}

// MigrateVersion печатает версию схемы.
func (r *Runner) MigrateVersion(_ context.Context, _ *cli.Command) error {
	db, err := r.openStorage()
	if err != nil {
		return err
	}
	v, dirty, err := migrations.Version(db.DB, r.cfg.MigrationsPath)
	if err != nil {
		return err
	}
	if dirty {
		r.printf("version %d (dirty)", v)
		return nil
	}
	r.printf("version %d", v)
	return nil
}

// CatalogImport загружает каталог из TOML-файла и сбрасывает кеш каталога,
// если Redis доступен. Без Redis закешированные записи истекут по TTL.
func (r *Runner) CatalogImport(ctx context.Context, cmd *cli.Command) error {
	c, err := catalogfile.Load(cmd.String("file"))
	if err != nil {
		return err
	}

	if cmd.Bool("dry-run") {
		if err := catalogservice.Validate(c); err != nil {
			return err
		}
		r.printf("catalog is valid: %d genres, %d artists, %d albums, %d songs",
			len(c.Genres), len(c.Artists), len(c.Albums), len(c.Songs))
		return nil
	}

	db, err := r.openStorage()
	if err != nil {
		return err
	}

	var catalogCache catalogservice.Cache
	redisCache, err := cache.InitServer(ctx, r.cfg.RedisConnection)
	if err != nil {
		r.logger.Warn("redis unavailable, catalog cache will expire by TTL", "err", err)
	} else {
		defer func() { _ = redisCache.Close() }()
		catalogCache = redisCache
	}

	catalog := catalogservice.New(r.slogger(), db, catalogCache, r.cfg.CacheTTL)
	if err := catalog.Import(ctx, c, r.cfg.Payments.Currency); err != nil {
		return err
	}
	r.printf("imported %d genres, %d artists, %d albums, %d songs",
		len(c.Genres), len(c.Artists), len(c.Albums), len(c.Songs))
	return nil
}

// SubscriptionsExpire переводит просроченные подписки в expired.
func (r *Runner) SubscriptionsExpire(ctx context.Context, _ *cli.Command) error {
	db, err := r.openStorage()
	if err != nil {
		return err
	}
	subs := subservice.New(r.slogger(), db, metrics.New(prometheus.NewRegistry()))
	n, err := subs.ExpireOverdue(ctx)
	if err != nil {
		return err
	}
	r.printf("expired %d subscription(s)", n)
	return nil
}

// UsersPromote выдаёт пользователю роль администратора.
func (r *Runner) UsersPromote(ctx context.Context, cmd *cli.Command) error {
	db, err := r.openStorage()
	if err != nil {
		return err
	}
	username := cmd.String("username")
	auth := authservice.New(r.slogger(), db, jwt.NewJWTMaker(r.cfg.JWTSecretKey, r.cfg.TokenTTL))
	if err := auth.PromoteToAdmin(ctx, username); err != nil {
		return err
	}
	r.printf("user %s is now admin", username)
	return nil
}
