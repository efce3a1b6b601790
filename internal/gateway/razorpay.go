package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const razorpayEventCaptured = "payment.captured"

type orderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Razorpay провайдер на Orders API.
type Razorpay struct {
	orders        orderCreator
	webhookSecret string
}

// NewRazorpay создаёт клиента Razorpay.
func NewRazorpay(keyID, keySecret, webhookSecret string) *Razorpay {
	c := razorpay.NewClient(keyID, keySecret)
	return &Razorpay{orders: c.Order, webhookSecret: webhookSecret}
}

// Name возвращает models.GatewayRazorpay.
func (r *Razorpay) Name() models.Gateway {
	return models.GatewayRazorpay
}

// SignatureHeader возвращает X-Razorpay-Signature.
func (r *Razorpay) SignatureHeader() string {
	return "X-Razorpay-Signature"
}

// CreatePayment создаёт заказ. SDK не принимает context, поэтому вызов
// выполняется в отдельной горутине и прерывается по ctx.
func (r *Razorpay) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentIntent, error) {
	const op = "gateway.Razorpay.CreatePayment"

	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": strings.ToUpper(req.Currency),
		"receipt":  req.TransactionID,
		"notes": map[string]interface{}{
			MetaTransactionID: req.TransactionID,
			MetaUserUID:       req.UserUID,
			MetaItemType:      string(req.ItemType),
			MetaItemID:        req.ItemID,
		},
	}

	type result struct {
		body map[string]interface{}
		err  error
	}
	done := make(chan result, 1)
	go func() {
		body, err := r.orders.Create(data, nil)
		done <- result{body: body, err: err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrGateway, ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrGateway, res.err)
	}
	orderID, _ := res.body["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("%s: %w: order id missing in response", op, models.ErrGateway)
	}
	return &PaymentIntent{CorrelationID: orderID, Order: res.body}, nil
}

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string          `json:"id"`
				OrderID string          `json:"order_id"`
				Status  string          `json:"status"`
				Notes   json.RawMessage `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// ParseWebhook проверяет HMAC-SHA256 подпись тела и разбирает событие.
func (r *Razorpay) ParseWebhook(payload []byte, signature string) (*Outcome, error) {
	const op = "gateway.Razorpay.ParseWebhook"

	if r.webhookSecret == "" {
		return nil, fmt.Errorf("%s: %w: webhook secret is not configured", op, models.ErrSignatureVerification)
	}
	if signature == "" || !utils.VerifyWebhookSignature(string(payload), signature, r.webhookSecret) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrSignatureVerification)
	}

	var evt razorpayWebhook
	if err := json.Unmarshal(payload, &evt); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrBadRequest, err)
	}

	out := &Outcome{EventType: evt.Event}
	if evt.Event != razorpayEventCaptured {
		return out, nil
	}
	entity := evt.Payload.Payment.Entity
	out.Succeeded = true
	out.CorrelationID = entity.OrderID
	out.PaymentID = entity.ID
	out.TransactionID = noteValue(entity.Notes, MetaTransactionID)
	return out, nil
}

// noteValue читает поле notes. Пустые notes Razorpay присылает как массив.
func noteValue(raw json.RawMessage, key string) string {
	var notes map[string]any
	if err := json.Unmarshal(raw, &notes); err != nil {
		return ""
	}
	v, _ := notes[key].(string)
	return v
}
