package paymentlist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

type PaymentServiceMock struct {
	mock.Mock
}

func (m *PaymentServiceMock) ListUserTransactions(ctx context.Context, userUID string, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Transaction), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		userUID    string
		query      string
		setupMocks func(*PaymentServiceMock)
		wantStatus int
		wantCount  int
		wantError  string
	}{
		{
			name:    "with pagination",
			userUID: "uid-1",
			query:   "?limit=2&offset=4",
			setupMocks: func(m *PaymentServiceMock) {
				m.On("ListUserTransactions", mock.Anything, "uid-1", 2, 4).Return([]models.Transaction{
					{ID: "tx-1", Status: models.TransactionPaid},
					{ID: "tx-2", Status: models.TransactionPending},
				}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  2,
		},
		{
			name:    "empty history",
			userUID: "uid-1",
			setupMocks: func(m *PaymentServiceMock) {
				m.On("ListUserTransactions", mock.Anything, "uid-1", 0, 0).Return(nil, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantCount:  0,
		},
		{
			name:       "bad limit",
			userUID:    "uid-1",
			query:      "?limit=abc",
			setupMocks: func(_ *PaymentServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid limit or offset",
		},
		{
			name:       "anonymous",
			setupMocks: func(_ *PaymentServiceMock) {},
			wantStatus: http.StatusUnauthorized,
			wantError:  "unauthorized",
		},
		{
			name:    "storage failure",
			userUID: "uid-1",
			setupMocks: func(m *PaymentServiceMock) {
				m.On("ListUserTransactions", mock.Anything, "uid-1", 0, 0).Return(nil, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(PaymentServiceMock)
			tt.setupMocks(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodGet, "/payments"+tt.query, nil)
			if tt.userUID != "" {
				req = req.WithContext(middlewarectx.WithUser(req.Context(), &models.User{UUID: tt.userUID}))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			} else {
				assert.Len(t, resp.Data, tt.wantCount)
			}
			svc.AssertExpectations(t)
		})
	}
}
