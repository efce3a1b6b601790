package playlist

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePlaylist(ctx context.Context, p models.Playlist, maxPerUser int) (int, error) {
	args := m.Called(ctx, p, maxPerUser)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) GetPlaylistOwner(ctx context.Context, playlistID int) (string, error) {
	args := m.Called(ctx, playlistID)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) AddSongToPlaylist(ctx context.Context, playlistID int, songID string) (bool, error) {
	args := m.Called(ctx, playlistID, songID)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) ListPlaylists(ctx context.Context, userUID string) ([]models.Playlist, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Playlist), args.Error(1)
}

func (m *RepoMock) LikeSong(ctx context.Context, userUID, songID string) (bool, error) {
	args := m.Called(ctx, userUID, songID)
	return args.Bool(0), args.Error(1)
}

type SongsMock struct{ mock.Mock }

func (m *SongsMock) GetSong(ctx context.Context, id string) (*models.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Song), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_Create(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		setupMocks func(r *RepoMock)
		wantID     int
		wantErr    error
	}{
		{
			name:  "created",
			title: "  Road trip ",
			setupMocks: func(r *RepoMock) {
				r.On("CreatePlaylist", mock.Anything, models.Playlist{
					UserUID: "u1", Title: "Road trip", Description: "desc",
				}, models.MaxPlaylistsPerUser).Return(7, nil).Once()
			},
			wantID: 7,
		},
		{
			name:  "limit reached",
			title: "Eleventh",
			setupMocks: func(r *RepoMock) {
				r.On("CreatePlaylist", mock.Anything, mock.Anything, models.MaxPlaylistsPerUser).
					Return(0, models.ErrPlaylistLimit).Once()
			},
			wantErr: models.ErrPlaylistLimit,
		},
		{
			name:       "blank title",
			title:      "   ",
			setupMocks: func(_ *RepoMock) {},
			wantErr:    models.ErrBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			tt.setupMocks(repo)
			svc := New(newNoopLogger(), repo, new(SongsMock))

			id, err := svc.Create(context.Background(), "u1", tt.title, "desc")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestService_AddSong(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, s *SongsMock)
		wantErr    error
	}{
		{
			name: "added",
			setupMocks: func(r *RepoMock, s *SongsMock) {
				r.On("GetPlaylistOwner", mock.Anything, 3).Return("u1", nil).Once()
				s.On("GetSong", mock.Anything, "song-1").Return(&models.Song{ID: "song-1"}, nil).Once()
				r.On("AddSongToPlaylist", mock.Anything, 3, "song-1").Return(true, nil).Once()
			},
		},
		{
			name: "foreign playlist",
			setupMocks: func(r *RepoMock, _ *SongsMock) {
				r.On("GetPlaylistOwner", mock.Anything, 3).Return("someone-else", nil).Once()
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "missing playlist",
			setupMocks: func(r *RepoMock, _ *SongsMock) {
				r.On("GetPlaylistOwner", mock.Anything, 3).Return("", models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "unknown song",
			setupMocks: func(r *RepoMock, s *SongsMock) {
				r.On("GetPlaylistOwner", mock.Anything, 3).Return("u1", nil).Once()
				s.On("GetSong", mock.Anything, "song-1").Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "song already in playlist",
			setupMocks: func(r *RepoMock, s *SongsMock) {
				r.On("GetPlaylistOwner", mock.Anything, 3).Return("u1", nil).Once()
				s.On("GetSong", mock.Anything, "song-1").Return(&models.Song{ID: "song-1"}, nil).Once()
				r.On("AddSongToPlaylist", mock.Anything, 3, "song-1").Return(false, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, songs := new(RepoMock), new(SongsMock)
			tt.setupMocks(repo, songs)
			svc := New(newNoopLogger(), repo, songs)

			err := svc.AddSong(context.Background(), "u1", 3, "song-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				repo.AssertNotCalled(t, "AddSongToPlaylist", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
			}
			repo.AssertExpectations(t)
			songs.AssertExpectations(t)
		})
	}
}

func TestService_ListAndLike(t *testing.T) {
	repo, songs := new(RepoMock), new(SongsMock)
	repo.On("ListPlaylists", mock.Anything, "u1").
		Return([]models.Playlist{{ID: 1, SongIDs: []string{"song-1"}}}, nil).Once()
	songs.On("GetSong", mock.Anything, "song-1").Return(&models.Song{ID: "song-1"}, nil).Twice()
	repo.On("LikeSong", mock.Anything, "u1", "song-1").Return(true, nil).Once()
	repo.On("LikeSong", mock.Anything, "u1", "song-1").Return(false, nil).Once()
	songs.On("GetSong", mock.Anything, "nope").Return(nil, models.ErrNotFound).Once()
	svc := New(newNoopLogger(), repo, songs)
	ctx := context.Background()

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"song-1"}, list[0].SongIDs)

	require.NoError(t, svc.LikeSong(ctx, "u1", "song-1"))
	require.NoError(t, svc.LikeSong(ctx, "u1", "song-1"))
	assert.ErrorIs(t, svc.LikeSong(ctx, "u1", "nope"), models.ErrNotFound)
	repo.AssertExpectations(t)
	songs.AssertExpectations(t)
}
