// Package paymentlist возвращает историю транзакций текущего пользователя.
package paymentlist

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Service определяет интерфейс чтения транзакций.
type Service interface {
	ListUserTransactions(ctx context.Context, userUID string, limit, offset int) ([]models.Transaction, error)
}

// Handler обрабатывает запросы на получение списка транзакций.
type Handler struct {
	log            *slog.Logger
	paymentService Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, ps Service) *Handler {
	return &Handler{
		log:            log,
		paymentService: ps,
	}
}

// ServeHTTP godoc
// @Summary Список транзакций
// @Description Возвращает транзакции текущего пользователя, новые первыми.
// @Tags Payments
// @Produce  json
// @Param limit query int false "Количество записей (по умолчанию 50, максимум 100)"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response{data=[]models.Transaction} "Список транзакций"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /payments [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
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

	limit, offset, ok := pagination(r)
	if !ok {
		log.Warn("invalid pagination params")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid limit or offset"))
		return
	}

	txs, err := h.paymentService.ListUserTransactions(r.Context(), userUID, limit, offset)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	render.JSON(w, r, response.OKWithData(txs))
}

// pagination читает limit и offset; отсутствующий параметр равен нулю.
func pagination(r *http.Request) (limit, offset int, ok bool) {
	q := r.URL.Query()
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, false
		}
		offset = n
	}
	return limit, offset, true
}
