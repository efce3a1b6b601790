// Package paymentcreate обрабатывает инициацию оплаты песни, альбома или подписки на артиста.
package paymentcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/music-streaming/internal/gateway"
	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
	"github.com/magabrotheeeer/music-streaming/internal/services/payment"
)

// Request представляет запрос на создание платежа.
type Request struct {
	ItemType string `json:"item_type" validate:"required,oneof=song album artist-subscription"`
	ItemID   string `json:"item_id" validate:"required"`
	Amount   int64  `json:"amount" validate:"min=0"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Gateway  string `json:"gateway" validate:"required,oneof=stripe razorpay"`
}

// Service определяет интерфейс для работы с платежами.
type Service interface {
	InitiatePayment(ctx context.Context, userUID string, in payment.PaymentInput) (*gateway.PaymentIntent, error)
}

// Handler обрабатывает запросы на создание платежей.
type Handler struct {
	log            *slog.Logger
	paymentService Service
	validate       *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	return &Handler{
		log:            log,
		paymentService: ps,
		validate:       validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать платеж
// @Description Создает pending-транзакцию и платеж у выбранного провайдера. Цена берётся из каталога.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные для создания платежа"
// @Success 201 {object} response.Response{data=gateway.PaymentIntent} "Платеж создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или цена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /payments [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UserUIDFrom(r.Context())
	if userUID == "" {
		log.Warn("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	intent, err := h.paymentService.InitiatePayment(r.Context(), userUID, payment.PaymentInput{
		ItemType: models.ItemType(req.ItemType),
		ItemID:   req.ItemID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Gateway:  models.Gateway(req.Gateway),
	})
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.OKWithData(intent))
}
