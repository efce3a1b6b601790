package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const stripeEventPaymentSucceeded = "payment_intent.succeeded"

type paymentIntentCreator interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// Stripe провайдер на PaymentIntents.
type Stripe struct {
	intents       paymentIntentCreator
	webhookSecret string
}

// NewStripe создаёт клиента Stripe.
func NewStripe(secretKey, webhookSecret string) *Stripe {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &Stripe{intents: sc.PaymentIntents, webhookSecret: webhookSecret}
}

// Name возвращает models.GatewayStripe.
func (s *Stripe) Name() models.Gateway {
	return models.GatewayStripe
}

// SignatureHeader возвращает Stripe-Signature.
func (s *Stripe) SignatureHeader() string {
	return "Stripe-Signature"
}

// CreatePayment создаёт PaymentIntent и возвращает его client secret.
func (s *Stripe) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentIntent, error) {
	const op = "gateway.Stripe.CreatePayment"

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if req.Description != "" {
		params.Description = stripe.String(req.Description)
	}
	params.Context = ctx
	params.AddMetadata(MetaTransactionID, req.TransactionID)
	params.AddMetadata(MetaUserUID, req.UserUID)
	params.AddMetadata(MetaItemType, string(req.ItemType))
	params.AddMetadata(MetaItemID, req.ItemID)

	pi, err := s.intents.New(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrGateway, err)
	}
	return &PaymentIntent{CorrelationID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// ParseWebhook проверяет заголовок Stripe-Signature и разбирает событие.
// Без секрета вебхука ни одно событие не принимается.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Outcome, error) {
	const op = "gateway.Stripe.ParseWebhook"

	if s.webhookSecret == "" {
		return nil, fmt.Errorf("%s: %w: webhook secret is not configured", op, models.ErrSignatureVerification)
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrSignatureVerification, err)
	}

	out := &Outcome{EventType: string(event.Type)}
	if out.EventType != stripeEventPaymentSucceeded || event.Data == nil {
		return out, nil
	}
	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrBadRequest, err)
	}
	out.Succeeded = true
	out.CorrelationID = pi.ID
	out.TransactionID = pi.Metadata[MetaTransactionID]
	out.PaymentID = pi.ID
	if pi.LatestCharge != nil && pi.LatestCharge.ID != "" {
		out.PaymentID = pi.LatestCharge.ID
	}
	return out, nil
}
