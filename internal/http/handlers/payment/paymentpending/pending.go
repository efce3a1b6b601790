// Package paymentpending отдаёт администратору зависшие неоплаченные транзакции.
package paymentpending

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// DefaultOlderThan возраст транзакции по умолчанию, после которого она считается зависшей.
const DefaultOlderThan = time.Hour

// Service определяет интерфейс поиска pending-транзакций.
type Service interface {
	ListPending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error)
}

// Handler обрабатывает запросы на список зависших транзакций.
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
// @Summary Зависшие транзакции
// @Description Транзакции в статусе pending старше older_than. Доступно только администратору.
// @Tags Admin
// @Produce  json
// @Param older_than query string false "Минимальный возраст, например 30m или 2h (по умолчанию 1h)"
// @Success 200 {object} response.Response{data=[]models.Transaction} "Список транзакций"
// @Failure 400 {object} response.ErrorResponse "Некорректный older_than"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет прав"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/transactions/pending [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.pending"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	olderThan := DefaultOlderThan
	if v := r.URL.Query().Get("older_than"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Warn("invalid older_than", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid older_than"))
			return
		}
		olderThan = d
	}

	txs, err := h.paymentService.ListPending(r.Context(), olderThan)
	if err != nil {
		response.WriteError(w, r, log, err)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}

	log.Info("pending transactions listed", slog.Int("count", len(txs)))
	render.JSON(w, r, response.OKWithData(txs))
}
