package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/music-streaming/internal/gateway"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/health"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/payment/paymentlist"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/payment/paymentpending"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/payment/paymentwebhook"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/playlist/addsong"
	playlistcreate "github.com/magabrotheeeer/music-streaming/internal/http/handlers/playlist/create"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/playlist/like"
	playlistlist "github.com/magabrotheeeer/music-streaming/internal/http/handlers/playlist/list"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/stream/albumstream"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/stream/songstream"
	"github.com/magabrotheeeer/music-streaming/internal/http/handlers/subscription/cancel"
	sublist "github.com/magabrotheeeer/music-streaming/internal/http/handlers/subscription/list"
	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/lib/mediaurl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
	authservice "github.com/magabrotheeeer/music-streaming/internal/services/auth"
	catalogservice "github.com/magabrotheeeer/music-streaming/internal/services/catalog"
	"github.com/magabrotheeeer/music-streaming/internal/services/entitlement"
	paymentservice "github.com/magabrotheeeer/music-streaming/internal/services/payment"
	playlistservice "github.com/magabrotheeeer/music-streaming/internal/services/playlist"
	subservice "github.com/magabrotheeeer/music-streaming/internal/services/subscription"

	// Регистрация swagger-спецификации для /docs.
	_ "github.com/magabrotheeeer/music-streaming/docs"
)

// Dependencies сервисы, которые используют обработчики.
type Dependencies struct {
	Auth         *authservice.Service
	Catalog      *catalogservice.Service
	Entitlement  *entitlement.Service
	Payment      *paymentservice.Service
	Subscription *subservice.Service
	Playlist     *playlistservice.Service
	Signer       *mediaurl.Signer
	Gateways     []gateway.Gateway
	HealthChecks map[string]health.Check
	RateLimit    float64
	RateBurst    int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, d Dependencies) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, d.RateLimit, d.RateBurst))

		// Открытые конечные точки
		r.Post("/register", register.New(logger, d.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, d.Auth).ServeHTTP)

		// Бесплатный контент доступен без токена
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.OptionalJWTMiddleware(d.Auth, logger))
			r.Get("/songs/{id}/stream", songstream.New(logger, d.Entitlement, d.Catalog, d.Signer).ServeHTTP)
			r.Get("/albums/{id}/stream", albumstream.New(logger, d.Entitlement, d.Catalog, d.Signer).ServeHTTP)
		})

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(d.Auth, logger))
			r.Post("/payments", paymentcreate.New(logger, d.Payment).ServeHTTP)
			r.Get("/payments", paymentlist.New(logger, d.Payment).ServeHTTP)
			r.Get("/subscriptions", sublist.New(logger, d.Subscription).ServeHTTP)
			r.Delete("/subscriptions/{artistID}", cancel.New(logger, d.Subscription).ServeHTTP)
			r.Post("/playlists", playlistcreate.New(logger, d.Playlist).ServeHTTP)
			r.Get("/playlists", playlistlist.New(logger, d.Playlist).ServeHTTP)
			r.Post("/playlists/{id}/songs", addsong.New(logger, d.Playlist).ServeHTTP)
			r.Post("/songs/{id}/like", like.New(logger, d.Playlist).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(models.RoleAdmin, logger))
				r.Get("/admin/transactions/pending", paymentpending.New(logger, d.Payment).ServeHTTP)
			})
		})
	})

	// Вебхуки провайдеров (без аутентификации, проверяется подпись)
	for _, g := range d.Gateways {
		r.Post("/webhooks/"+string(g.Name()), paymentwebhook.New(logger, d.Payment, g.Name(), g.SignatureHeader()).ServeHTTP)
	}

	r.Get("/healthz", health.New(logger, d.HealthChecks).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
