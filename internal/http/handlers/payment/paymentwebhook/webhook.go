// Package paymentwebhook принимает вебхуки платёжных провайдеров.
// Тело читается целиком и передаётся сервису без изменений: подпись
// считается по сырым байтам.
package paymentwebhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// MaxBodySize ограничение размера тела вебхука.
const MaxBodySize = 1 << 20

// Service обработчик событий провайдера.
type Service interface {
	HandleWebhook(ctx context.Context, gateway models.Gateway, payload []byte, signature string) error
}

// Handler обрабатывает вебхуки одного провайдера.
type Handler struct {
	log             *slog.Logger
	paymentService  Service
	gateway         models.Gateway
	signatureHeader string
}

// New создает обработчик для провайдера gateway, подпись которого приходит в заголовке signatureHeader.
func New(log *slog.Logger, ps Service, gateway models.Gateway, signatureHeader string) *Handler {
	return &Handler{
		log:             log,
		paymentService:  ps,
		gateway:         gateway,
		signatureHeader: signatureHeader,
	}
}

// ack ответ, который ожидает провайдер при успешной приёмке.
func (h *Handler) ack() any {
	if h.gateway == models.GatewayStripe {
		return map[string]bool{"received": true}
	}
	return map[string]string{"status": "ok"}
}

// ServeHTTP godoc
// @Summary Вебхук платёжного провайдера
// @Description Проверяет подпись события и применяет результат оплаты. Повторная доставка безопасна.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Success 200 {object} map[string]any "Событие принято"
// @Failure 400 {object} response.ErrorResponse "Неверная подпись или тело"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /webhooks/stripe [post]
// @Router /webhooks/razorpay [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("gateway", string(h.gateway)),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(io.LimitReader(r.Body, MaxBodySize+1))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if len(payload) > MaxBodySize {
		log.Warn("webhook body too large")
		render.Status(r, http.StatusRequestEntityTooLarge)
		render.JSON(w, r, response.Error("request body too large"))
		return
	}

	err = h.paymentService.HandleWebhook(r.Context(), h.gateway, payload, r.Header.Get(h.signatureHeader))
	switch {
	case err == nil:
		render.JSON(w, r, h.ack())
	case errors.Is(err, models.ErrSignatureVerification), errors.Is(err, models.ErrBadRequest):
		log.Warn("webhook rejected", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error(response.ClientMessage(err)))
	default:
		// 5xx заставит провайдера повторить доставку
		response.WriteError(w, r, log, err)
	}
}
