package paymentcreate

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/music-streaming/internal/gateway"
	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/models"
	"github.com/magabrotheeeer/music-streaming/internal/services/payment"
)

type PaymentServiceMock struct {
	mock.Mock
}

func (m *PaymentServiceMock) InitiatePayment(ctx context.Context, userUID string, in payment.PaymentInput) (*gateway.PaymentIntent, error) {
	args := m.Called(ctx, userUID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentIntent), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		userUID        string
		body           string
		setupMocks     func(*PaymentServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name:    "stripe intent created",
			userUID: "uid-1",
			body:    `{"item_type":"song","item_id":"song-1","amount":199,"currency":"usd","gateway":"stripe"}`,
			setupMocks: func(m *PaymentServiceMock) {
				m.On("InitiatePayment", mock.Anything, "uid-1", payment.PaymentInput{
					ItemType: models.ItemSong, ItemID: "song-1", Amount: 199, Currency: "usd", Gateway: models.GatewayStripe,
				}).Return(&gateway.PaymentIntent{CorrelationID: "pi_1", ClientSecret: "pi_1_secret"}, nil).Once()
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "anonymous",
			body:           `{}`,
			setupMocks:     func(_ *PaymentServiceMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "unauthorized",
		},
		{
			name:           "unknown item type",
			userUID:        "uid-1",
			body:           `{"item_type":"podcast","item_id":"x","gateway":"stripe"}`,
			setupMocks:     func(_ *PaymentServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field ItemType must be one of",
		},
		{
			name:    "invalid price",
			userUID: "uid-1",
			body:    `{"item_type":"album","item_id":"album-1","gateway":"razorpay"}`,
			setupMocks: func(m *PaymentServiceMock) {
				m.On("InitiatePayment", mock.Anything, "uid-1", mock.Anything).Return(nil, models.ErrInvalidPrice).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Purchase-only items require a valid price",
		},
		{
			name:    "gateway down",
			userUID: "uid-1",
			body:    `{"item_type":"song","item_id":"song-1","gateway":"razorpay"}`,
			setupMocks: func(m *PaymentServiceMock) {
				m.On("InitiatePayment", mock.Anything, "uid-1", mock.Anything).Return(nil, models.ErrGateway).Once()
			},
			wantStatusCode: http.StatusBadGateway,
			wantError:      "payment gateway unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(PaymentServiceMock)
			tt.setupMocks(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/payments", bytes.NewBufferString(tt.body))
			if tt.userUID != "" {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{UUID: tt.userUID}))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				data := resp.Data.(map[string]any)
				assert.Equal(t, "pi_1_secret", data["client_secret"])
			}
			svc.AssertExpectations(t)
		})
	}
}
