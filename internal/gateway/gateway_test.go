package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const testWebhookSecret = "whsec_test"

func hmacHex(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func stripeSignature(payload []byte, ts time.Time) string {
	unix := ts.Unix()
	return fmt.Sprintf("t=%d,v1=%s", unix, hmacHex(testWebhookSecret, fmt.Sprintf("%d.%s", unix, payload)))
}

type fakeIntents struct {
	params *stripe.PaymentIntentParams
	err    error
}

func (f *fakeIntents) New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &stripe.PaymentIntent{ID: "pi_123", ClientSecret: "pi_123_secret"}, nil
}

type fakeOrders struct {
	data  map[string]interface{}
	body  map[string]interface{}
	err   error
	delay time.Duration
}

func (f *fakeOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	f.data = data
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.body, f.err
}

func TestRegistry(t *testing.T) {
	r := NewRegistry(&Stripe{}, &Razorpay{})

	g, err := r.Get(models.GatewayStripe)
	require.NoError(t, err)
	assert.Equal(t, models.GatewayStripe, g.Name())

	g, err = r.Get(models.GatewayRazorpay)
	require.NoError(t, err)
	assert.Equal(t, "X-Razorpay-Signature", g.SignatureHeader())

	_, err = r.Get("paypal")
	assert.ErrorIs(t, err, models.ErrUnknownGateway)
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestStripe_CreatePayment(t *testing.T) {
	intents := &fakeIntents{}
	s := &Stripe{intents: intents}
	ctx := context.Background()

	pi, err := s.CreatePayment(ctx, PaymentRequest{
		TransactionID: "tx-1", UserUID: "u-1", ItemType: models.ItemSong, ItemID: "song-1",
		Amount: 199, Currency: "USD",
	})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", pi.CorrelationID)
	assert.Equal(t, "pi_123_secret", pi.ClientSecret)

	require.NotNil(t, intents.params)
	assert.Equal(t, int64(199), *intents.params.Amount)
	assert.Equal(t, "usd", *intents.params.Currency)
	assert.Equal(t, "tx-1", intents.params.Metadata[MetaTransactionID])
	assert.Equal(t, ctx, intents.params.Context)

	intents.err = errors.New("card_declined")
	_, err = s.CreatePayment(ctx, PaymentRequest{Amount: 1, Currency: "usd"})
	assert.ErrorIs(t, err, models.ErrGateway)
}

func TestStripe_ParseWebhook(t *testing.T) {
	s := &Stripe{webhookSecret: testWebhookSecret}

	succeeded := []byte(`{"id":"evt_1","object":"event","api_version":"2023-10-16","type":"payment_intent.succeeded",
"data":{"object":{"id":"pi_1","object":"payment_intent","latest_charge":"ch_1","metadata":{"transaction_id":"tx-1"}}}}`)
	other := []byte(`{"id":"evt_2","object":"event","api_version":"2023-10-16","type":"customer.created",
"data":{"object":{"id":"cus_1","object":"customer"}}}`)

	tests := []struct {
		name      string
		payload   []byte
		signature string
		wantErr   error
		want      Outcome
	}{
		{
			name:      "payment intent succeeded",
			payload:   succeeded,
			signature: stripeSignature(succeeded, time.Now()),
			want: Outcome{EventType: "payment_intent.succeeded", Succeeded: true,
				CorrelationID: "pi_1", TransactionID: "tx-1", PaymentID: "ch_1"},
		},
		{
			name:      "unrecognised event",
			payload:   other,
			signature: stripeSignature(other, time.Now()),
			want:      Outcome{EventType: "customer.created"},
		},
		{
			name:      "bad signature",
			payload:   succeeded,
			signature: "t=1,v1=deadbeef",
			wantErr:   models.ErrSignatureVerification,
		},
		{
			name:      "stale timestamp",
			payload:   succeeded,
			signature: stripeSignature(succeeded, time.Now().Add(-time.Hour)),
			wantErr:   models.ErrSignatureVerification,
		},
		{
			name:    "missing header",
			payload: succeeded,
			wantErr: models.ErrSignatureVerification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ParseWebhook(tt.payload, tt.signature)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestRazorpay_CreatePayment(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		orders := &fakeOrders{body: map[string]interface{}{"id": "order_1", "amount": float64(500)}}
		r := &Razorpay{orders: orders}

		pi, err := r.CreatePayment(context.Background(), PaymentRequest{
			TransactionID: "tx-1", ItemType: models.ItemArtistSubscription, ItemID: "artist-1",
			Amount: 500, Currency: "inr",
		})
		require.NoError(t, err)
		assert.Equal(t, "order_1", pi.CorrelationID)
		assert.Equal(t, "order_1", pi.Order["id"])
		assert.Equal(t, "INR", orders.data["currency"])
		assert.Equal(t, "tx-1", orders.data["receipt"])
	})

	t.Run("gateway error", func(t *testing.T) {
		r := &Razorpay{orders: &fakeOrders{err: errors.New("BAD_REQUEST_ERROR")}}
		_, err := r.CreatePayment(context.Background(), PaymentRequest{Amount: 1, Currency: "inr"})
		assert.ErrorIs(t, err, models.ErrGateway)
	})

	t.Run("missing order id", func(t *testing.T) {
		r := &Razorpay{orders: &fakeOrders{body: map[string]interface{}{}}}
		_, err := r.CreatePayment(context.Background(), PaymentRequest{Amount: 1, Currency: "inr"})
		assert.ErrorIs(t, err, models.ErrGateway)
	})

	t.Run("timeout", func(t *testing.T) {
		r := &Razorpay{orders: &fakeOrders{delay: 200 * time.Millisecond, body: map[string]interface{}{"id": "order_late"}}}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		_, err := r.CreatePayment(ctx, PaymentRequest{Amount: 1, Currency: "inr"})
		assert.ErrorIs(t, err, models.ErrGateway)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestRazorpay_ParseWebhook(t *testing.T) {
	r := &Razorpay{webhookSecret: testWebhookSecret}

	captured := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_1","status":"captured","notes":{"transaction_id":"tx-1"}}}}}`
	emptyNotes := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_2","order_id":"order_2","status":"captured","notes":[]}}}}`
	failed := `{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_3","order_id":"order_3","status":"failed"}}}}`

	tests := []struct {
		name      string
		payload   string
		signature string
		wantErr   error
		want      Outcome
	}{
		{
			name:      "payment captured",
			payload:   captured,
			signature: hmacHex(testWebhookSecret, captured),
			want: Outcome{EventType: "payment.captured", Succeeded: true,
				CorrelationID: "order_1", PaymentID: "pay_1", TransactionID: "tx-1"},
		},
		{
			name:      "empty notes array",
			payload:   emptyNotes,
			signature: hmacHex(testWebhookSecret, emptyNotes),
			want: Outcome{EventType: "payment.captured", Succeeded: true,
				CorrelationID: "order_2", PaymentID: "pay_2"},
		},
		{
			name:      "unrecognised event",
			payload:   failed,
			signature: hmacHex(testWebhookSecret, failed),
			want:      Outcome{EventType: "payment.failed"},
		},
		{
			name:      "wrong secret",
			payload:   captured,
			signature: hmacHex("other", captured),
			wantErr:   models.ErrSignatureVerification,
		},
		{
			name:    "missing signature",
			payload: captured,
			wantErr: models.ErrSignatureVerification,
		},
		{
			name:      "malformed json",
			payload:   "{not json",
			signature: hmacHex(testWebhookSecret, "{not json"),
			wantErr:   models.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ParseWebhook([]byte(tt.payload), tt.signature)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseWebhook_EmptySecretRejectsEvents(t *testing.T) {
	// подпись, посчитанная пустым ключом, не должна проходить проверку
	captured := `{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","order_id":"order_victim","status":"captured","notes":{"transaction_id":"tx-1"}}}}}`
	succeeded := []byte(`{"id":"evt_1","object":"event","api_version":"2023-10-16","type":"payment_intent.succeeded",
"data":{"object":{"id":"pi_victim","object":"payment_intent","metadata":{"transaction_id":"tx-1"}}}}`)
	unix := time.Now().Unix()
	stripeSig := fmt.Sprintf("t=%d,v1=%s", unix, hmacHex("", fmt.Sprintf("%d.%s", unix, succeeded)))

	tests := []struct {
		name      string
		gateway   Gateway
		payload   []byte
		signature string
	}{
		{
			name:      "razorpay",
			gateway:   NewRazorpay("", "", ""),
			payload:   []byte(captured),
			signature: hmacHex("", captured),
		},
		{
			name:      "stripe",
			gateway:   NewStripe("", ""),
			payload:   succeeded,
			signature: stripeSig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.gateway.ParseWebhook(tt.payload, tt.signature)
			assert.ErrorIs(t, err, models.ErrSignatureVerification)
			assert.Nil(t, got)
		})
	}
}
