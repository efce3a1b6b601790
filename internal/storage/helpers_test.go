package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/music-streaming/internal/migrations"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя и возвращает его UID
func (f *TestDataFactory) CreateUser(t *testing.T, username, role string) string {
	t.Helper()
	uid, err := f.storage.RegisterUser(context.Background(), models.User{
		Email:        username + "@example.com",
		Username:     username,
		PasswordHash: "hashedpassword",
		Role:         role,
	})
	require.NoError(t, err)
	return uid
}

// CreateCatalog создает артиста, альбом и песни всех типов доступа
func (f *TestDataFactory) CreateCatalog(t *testing.T) {
	t.Helper()
	albumID := "album-paid"
	err := f.storage.ImportCatalog(context.Background(), models.Catalog{
		Genres:  []models.Genre{{ID: "rock", Name: "Rock"}},
		Artists: []models.Artist{{ID: "artist-1", Name: "The Band", SubscriptionPrice: 499, Currency: "usd"}},
		Albums: []models.Album{
			{ID: albumID, Title: "Paid", ArtistID: "artist-1", AccessType: models.AccessPurchaseOnly, Price: 999, Currency: "usd"},
		},
		Songs: []models.Song{
			{ID: "song-free", Title: "Free", ArtistID: "artist-1", AccessType: models.AccessFree, Currency: "usd"},
			{ID: "song-sub", Title: "Sub", ArtistID: "artist-1", AccessType: models.AccessSubscription, Currency: "usd"},
			{ID: "song-paid", Title: "Paid", ArtistID: "artist-1", AlbumID: &albumID, Genre: "rock",
				AccessType: models.AccessPurchaseOnly, Price: 199, Currency: "usd", MediaKey: "media/song-paid.mp3"},
		},
	})
	require.NoError(t, err)
}

// CreatePendingTransaction создает pending-транзакцию и возвращает её ID
func (f *TestDataFactory) CreatePendingTransaction(t *testing.T, userUID string, gateway models.Gateway,
	itemType models.ItemType, itemID, correlationID string) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	err := f.storage.CreateTransaction(ctx, models.Transaction{
		ID:        id,
		UserUID:   userUID,
		ItemType:  itemType,
		ItemID:    itemID,
		ArtistID:  "artist-1",
		Gateway:   gateway,
		Amount:    199,
		Currency:  "usd",
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	if correlationID != "" {
		require.NoError(t, f.storage.SetTransactionCorrelation(ctx, id, correlationID))
	}
	return id
}

// TestVerification содержит общие функции для проверки результатов тестов
type TestVerification struct {
	storage *Storage
}

// NewTestVerification создает новый объект для проверки результатов
func NewTestVerification(storage *Storage) *TestVerification {
	return &TestVerification{storage: storage}
}

// CountRows возвращает количество строк таблицы по условию
func (v *TestVerification) CountRows(t *testing.T, query string, args ...any) int {
	t.Helper()
	var count int
	require.NoError(t, v.storage.DB.QueryRow(query, args...).Scan(&count))
	return count
}

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(connStr)
	require.NoError(t, err, "failed to create storage")

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, migrationsPath), "failed to apply migrations")
	require.NoError(t, CheckDatabaseReady(storage))

	cleanup := func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return storage, cleanup
}
