package addsong

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/music-streaming/internal/http/middlewarectx"
	"github.com/magabrotheeeer/music-streaming/internal/http/response"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

type PlaylistServiceMock struct {
	mock.Mock
}

func (m *PlaylistServiceMock) AddSong(ctx context.Context, userUID string, playlistID int, songID string) error {
	return m.Called(ctx, userUID, playlistID, songID).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		playlistID string
		body       string
		setupMocks func(*PlaylistServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name:       "added",
			playlistID: "3",
			body:       `{"song_id":"song-1"}`,
			setupMocks: func(m *PlaylistServiceMock) {
				m.On("AddSong", mock.Anything, "uid-1", 3, "song-1").Return(nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "foreign playlist",
			playlistID: "4",
			body:       `{"song_id":"song-1"}`,
			setupMocks: func(m *PlaylistServiceMock) {
				m.On("AddSong", mock.Anything, "uid-1", 4, "song-1").
					Return(fmt.Errorf("playlist.AddSong: %w", models.ErrNotFound)).Once()
			},
			wantStatus: http.StatusNotFound,
			wantError:  "not found",
		},
		{
			name:       "non numeric id",
			playlistID: "abc",
			body:       `{"song_id":"song-1"}`,
			setupMocks: func(_ *PlaylistServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid playlist id",
		},
		{
			name:       "missing song",
			playlistID: "3",
			body:       `{}`,
			setupMocks: func(_ *PlaylistServiceMock) {},
			wantStatus: http.StatusUnprocessableEntity,
			wantError:  "field SongID is a required field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(PlaylistServiceMock)
			tt.setupMocks(svc)
			handler := New(newNoopLogger(), svc)

			req := httptest.NewRequest(http.MethodPost, "/playlists/"+tt.playlistID+"/songs", bytes.NewBufferString(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.playlistID)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = middlewarectx.WithUser(ctx, &models.User{UUID: "uid-1"})
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req.WithContext(ctx))

			assert.Equal(t, tt.wantStatus, rr.Code)
			var resp response.Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
			svc.AssertExpectations(t)
		})
	}
}
