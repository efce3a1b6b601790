// Package gateway описывает платёжного провайдера как небольшой интерфейс
// возможностей и содержит реализации для Stripe и Razorpay.
package gateway

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// Ключи метаданных, которые передаются провайдеру вместе с платежом
// и возвращаются в вебхуке.
const (
	MetaTransactionID = "transaction_id"
	MetaUserUID       = "user_uid"
	MetaItemType      = "item_type"
	MetaItemID        = "item_id"
)

// PaymentRequest параметры создания платежа у провайдера.
type PaymentRequest struct {
	TransactionID string
	UserUID       string
	ItemType      models.ItemType
	ItemID        string
	Amount        int64
	Currency      string
	Description   string
}

// PaymentIntent результат создания платежа. CorrelationID сохраняется
// в транзакции и по нему вебхук находит её.
type PaymentIntent struct {
	CorrelationID string         `json:"correlation_id"`
	ClientSecret  string         `json:"client_secret,omitempty"`
	Order         map[string]any `json:"order,omitempty"`
}

// Outcome разобранное и проверенное событие вебхука.
type Outcome struct {
	EventType     string
	Succeeded     bool
	CorrelationID string
	TransactionID string
	PaymentID     string
}

// Gateway возможности платёжного провайдера.
type Gateway interface {
	Name() models.Gateway
	// SignatureHeader имя HTTP-заголовка с подписью вебхука.
	SignatureHeader() string
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentIntent, error)
	// ParseWebhook проверяет подпись и извлекает исход события.
	// При неверной подписи возвращает ошибку, оборачивающую models.ErrSignatureVerification.
	ParseWebhook(payload []byte, signature string) (*Outcome, error)
}

// Registry выбирает провайдера по значению поля gateway.
type Registry struct {
	gateways map[models.Gateway]Gateway
}

// NewRegistry создаёт реестр из переданных провайдеров.
func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[models.Gateway]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Name()] = g
	}
	return r
}

// Get возвращает провайдера по имени.
func (r *Registry) Get(name models.Gateway) (Gateway, error) {
	g, ok := r.gateways[name]
	if !ok {
		return nil, fmt.Errorf("gateway.Get %q: %w", name, models.ErrUnknownGateway)
	}
	return g, nil
}
