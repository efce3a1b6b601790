package register

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

	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Register(ctx context.Context, email, username, password string) (string, error) {
	args := m.Called(ctx, email, username, password)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*AuthServiceMock)
		wantStatusCode int
		wantError      string
	}{
		{
			name: "registered",
			body: `{"email":"a@example.com","username":"alice","password":"secret123"}`,
			setupMocks: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, "a@example.com", "alice", "secret123").Return("uid-1", nil).Once()
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `not json`,
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "invalid email",
			body:           `{"email":"nope","username":"alice","password":"secret123"}`,
			setupMocks:     func(_ *AuthServiceMock) {},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email must be a valid email",
		},
		{
			name: "duplicate user",
			body: `{"email":"a@example.com","username":"alice","password":"secret123"}`,
			setupMocks: func(m *AuthServiceMock) {
				m.On("Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
					Return("", models.ErrUserExists).Once()
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "user already exists",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tt.setupMocks(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(tt.body))
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, response.StatusError, resp.Status)
				assert.Contains(t, resp.Error, tt.wantError)
			} else {
				assert.Equal(t, response.StatusOK, resp.Status)
				data := resp.Data.(map[string]any)
				assert.Equal(t, "uid-1", data["user_uid"])
			}
			svc.AssertExpectations(t)
		})
	}
}
