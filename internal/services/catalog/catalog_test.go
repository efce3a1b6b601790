package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/music-streaming/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetSong(ctx context.Context, id string) (*models.Song, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Song), args.Error(1)
}

func (m *RepoMock) GetAlbum(ctx context.Context, id string) (*models.Album, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Album), args.Error(1)
}

func (m *RepoMock) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *RepoMock) ListAlbumSongs(ctx context.Context, albumID string) ([]models.Song, error) {
	args := m.Called(ctx, albumID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Song), args.Error(1)
}

func (m *RepoMock) ImportCatalog(ctx context.Context, c models.Catalog) error {
	return m.Called(ctx, c).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) InvalidatePrefix(ctx context.Context, prefix string) error {
	return m.Called(ctx, prefix).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_GetSong(t *testing.T) {
	stored := &models.Song{ID: "s-1", Title: "Song", AccessType: models.AccessFree}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		want       *models.Song
		wantErr    error
	}{
		{
			name: "cache hit",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "catalog:song:s-1", mock.Anything).
					Run(func(args mock.Arguments) {
						out := args.Get(2).(**models.Song)
						*out = stored
					}).Return(true, nil).Once()
			},
			want: stored,
		},
		{
			name: "cache miss reads repository and fills cache",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "catalog:song:s-1", mock.Anything).Return(false, nil).Once()
				r.On("GetSong", mock.Anything, "s-1").Return(stored, nil).Once()
				c.On("Set", mock.Anything, "catalog:song:s-1", stored, time.Hour).Return(nil).Once()
			},
			want: stored,
		},
		{
			name: "cache errors are not fatal",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "catalog:song:s-1", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("GetSong", mock.Anything, "s-1").Return(stored, nil).Once()
				c.On("Set", mock.Anything, "catalog:song:s-1", stored, time.Hour).Return(errors.New("redis down")).Once()
			},
			want: stored,
		},
		{
			name: "not found is not cached",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "catalog:song:s-1", mock.Anything).Return(false, nil).Once()
				r.On("GetSong", mock.Anything, "s-1").Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			tt.setupMocks(repo, cache)
			svc := New(newNoopLogger(), repo, cache, time.Hour)

			got, err := svc.GetSong(context.Background(), "s-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestService_WithoutCache(t *testing.T) {
	repo := new(RepoMock)
	repo.On("GetAlbum", mock.Anything, "al-1").Return(&models.Album{ID: "al-1"}, nil).Once()
	repo.On("ListAlbumSongs", mock.Anything, "al-1").Return([]models.Song{{ID: "s-1"}}, nil).Once()
	repo.On("GetArtist", mock.Anything, "a-1").Return(&models.Artist{ID: "a-1"}, nil).Once()
	svc := New(newNoopLogger(), repo, nil, time.Hour)
	ctx := context.Background()

	album, err := svc.GetAlbum(ctx, "al-1")
	require.NoError(t, err)
	assert.Equal(t, "al-1", album.ID)

	songs, err := svc.ListAlbumSongs(ctx, "al-1")
	require.NoError(t, err)
	assert.Len(t, songs, 1)

	artist, err := svc.GetArtist(ctx, "a-1")
	require.NoError(t, err)
	assert.Equal(t, "a-1", artist.ID)
	repo.AssertExpectations(t)
}

func TestService_Import(t *testing.T) {
	valid := models.Catalog{
		Artists: []models.Artist{{ID: "a-1", Name: "Artist", SubscriptionPrice: 300}},
		Songs: []models.Song{
			{ID: "s-1", ArtistID: "a-1", AccessType: models.AccessPurchaseOnly, Price: 100},
		},
	}

	tests := []struct {
		name       string
		catalog    models.Catalog
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name:    "success invalidates cache",
			catalog: valid,
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("ImportCatalog", mock.Anything, mock.MatchedBy(func(c models.Catalog) bool {
					return c.Songs[0].Currency == "usd" && c.Artists[0].Currency == "usd"
				})).Return(nil).Once()
				c.On("InvalidatePrefix", mock.Anything, KeyPrefix).Return(nil).Once()
			},
		},
		{
			name: "purchase-only without price",
			catalog: models.Catalog{Songs: []models.Song{
				{ID: "s-1", ArtistID: "a-1", AccessType: models.AccessPurchaseOnly},
			}},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    models.ErrInvalidPrice,
		},
		{
			name: "unknown access type",
			catalog: models.Catalog{Albums: []models.Album{
				{ID: "al-1", ArtistID: "a-1", AccessType: "vip"},
			}},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    models.ErrInvalidAccessType,
		},
		{
			name: "negative subscription price",
			catalog: models.Catalog{Artists: []models.Artist{
				{ID: "a-1", Name: "A", SubscriptionPrice: -1},
			}},
			setupMocks: func(_ *RepoMock, _ *CacheMock) {},
			wantErr:    models.ErrInvalidPrice,
		},
		{
			name:    "repository error",
			catalog: valid,
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("ImportCatalog", mock.Anything, mock.Anything).Return(errors.New("fk violation")).Once()
			},
			wantErr: errors.New("fk violation"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, cache := new(RepoMock), new(CacheMock)
			tt.setupMocks(repo, cache)
			svc := New(newNoopLogger(), repo, cache, time.Hour)

			err := svc.Import(context.Background(), tt.catalog, "usd")
			switch {
			case tt.wantErr == nil:
				require.NoError(t, err)
			case errors.Is(tt.wantErr, models.ErrBadRequest):
				assert.ErrorIs(t, err, tt.wantErr)
			default:
				assert.ErrorContains(t, err, tt.wantErr.Error())
			}
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}
