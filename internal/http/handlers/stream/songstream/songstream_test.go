package songstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/lib/mediaurl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

type EntitlementMock struct {
	mock.Mock
}

func (m *EntitlementMock) CanStreamSong(ctx context.Context, userUID, songID string) bool {
	return m.Called(ctx, userUID, songID).Bool(0)
}

type CatalogMock struct {
	mock.Mock
}

func (m *CatalogMock) GetSong(ctx context.Context, id string) (*models.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Song), args.Error(1)
}

type SignerMock struct {
	mock.Mock
}

func (m *SignerMock) Sign(mediaKey, userUID string) (*mediaurl.SignedURL, error) {
	args := m.Called(mediaKey, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*mediaurl.SignedURL), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newRequest(songID, userUID string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/songs/"+songID+"/stream", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", songID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	if userUID != "" {
		ctx = middlewarectx.WithUser(ctx, &models.User{UUID: userUID})
	}
	return req.WithContext(ctx)
}

func TestHandler_ServeHTTP(t *testing.T) {
	expires := time.Date(2026, 1, 1, 12, 15, 0, 0, time.UTC)
	song := &models.Song{ID: "song-1", MediaKey: "artists/a1/song-1.mp3", AccessType: models.AccessFree}

	tests := []struct {
		name       string
		userUID    string
		setup      func(*EntitlementMock, *CatalogMock, *SignerMock)
		wantStatus int
		wantURL    string
		wantError  string
	}{
		{
			name: "anonymous free song",
			setup: func(e *EntitlementMock, c *CatalogMock, s *SignerMock) {
				e.On("CanStreamSong", mock.Anything, "", "song-1").Return(true).Once()
				c.On("GetSong", mock.Anything, "song-1").Return(song, nil).Once()
				s.On("Sign", song.MediaKey, "").Return(&mediaurl.SignedURL{URL: "https://cdn/x?token=t", ExpiresAt: expires}, nil).Once()
			},
			wantStatus: http.StatusOK,
			wantURL:    "https://cdn/x?token=t",
		},
		{
			name:    "denied",
			userUID: "uid-1",
			setup: func(e *EntitlementMock, _ *CatalogMock, _ *SignerMock) {
				e.On("CanStreamSong", mock.Anything, "uid-1", "song-1").Return(false).Once()
			},
			wantStatus: http.StatusForbidden,
			wantError:  response.MsgNoAccess,
		},
		{
			name:    "signing failure",
			userUID: "uid-1",
			setup: func(e *EntitlementMock, c *CatalogMock, s *SignerMock) {
				e.On("CanStreamSong", mock.Anything, "uid-1", "song-1").Return(true).Once()
				c.On("GetSong", mock.Anything, "song-1").Return(song, nil).Once()
				s.On("Sign", song.MediaKey, "uid-1").Return(nil, errors.New("empty media key")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent, cat, signer := new(EntitlementMock), new(CatalogMock), new(SignerMock)
			tt.setup(ent, cat, signer)
			handler := New(newNoopLogger(), ent, cat, signer)

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, newRequest("song-1", tt.userUID))

			assert.Equal(t, tt.wantStatus, rr.Code)
			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, resp.Error)
			} else {
				data := resp.Data.(map[string]any)
				assert.Equal(t, tt.wantURL, data["url"])
				assert.Equal(t, "2026-01-01T12:15:00Z", data["expires_at"])
			}
			ent.AssertExpectations(t)
			cat.AssertExpectations(t)
			signer.AssertExpectations(t)
		})
	}
}
