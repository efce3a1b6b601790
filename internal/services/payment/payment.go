// Package payment ведёт жизненный цикл платёжных транзакций: создание платежа
// у провайдера, приём вебхуков и применение результатов оплаты.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/music-streaming/internal/config"
	"github.com/magabrotheeeer/music-streaming/internal/gateway"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/metrics"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
	pendingListLimit = 100
)

// Catalog источник цен и принадлежности объектов артистам.
type Catalog interface {
	GetSong(ctx context.Context, id string) (*models.Song, error)
	GetAlbum(ctx context.Context, id string) (*models.Album, error)
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
}

// Repository хранилище транзакций и выданных прав.
type Repository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	HasPurchasedSong(ctx context.Context, userUID, songID string) (bool, error)
	HasPurchasedAlbum(ctx context.Context, userUID, albumID string) (bool, error)

	CreateTransaction(ctx context.Context, t models.Transaction) error
	SetTransactionCorrelation(ctx context.Context, id, correlationID string) error
	MarkTransactionPaid(ctx context.Context, gateway models.Gateway,
		correlationID, transactionID, paymentID string, paidAt time.Time) (*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userUID string, limit, offset int) ([]models.Transaction, error)
	ListPendingTransactions(ctx context.Context, createdBefore time.Time, limit int) ([]models.Transaction, error)

	AddPurchasedSong(ctx context.Context, userUID, songID string) (bool, error)
	AddPurchasedAlbum(ctx context.Context, userUID, albumID string) (bool, error)
	UpsertSubscription(ctx context.Context, g models.SubscriptionGrant) (*models.Subscription, error)
	AddPurchaseHistory(ctx context.Context, userUID string, rec models.PurchaseRecord) (bool, error)
}

// Gateways выбирает провайдера по имени.
type Gateways interface {
	Get(name models.Gateway) (gateway.Gateway, error)
}

// Publisher отправляет уведомления в брокер.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// PaymentInput параметры инициации платежа. Amount и Currency необязательны:
// цена всегда берётся из каталога, а переданные значения только сверяются с ней.
type PaymentInput struct {
	ItemType models.ItemType
	ItemID   string
	Amount   int64
	Currency string
	Gateway  models.Gateway
}

// Service сервис платежей.
type Service struct {
	catalog   Catalog
	repo      Repository
	gateways  Gateways
	publisher Publisher
	metrics   *metrics.Metrics
	cfg       config.Payments
	log       *slog.Logger
	now       func() time.Time
	newID     func() string
}

// New создаёт сервис платежей. publisher может быть nil, тогда уведомления не отправляются.
func New(log *slog.Logger, cfg config.Payments, catalog Catalog, repo Repository,
	gateways Gateways, publisher Publisher, m *metrics.Metrics) *Service {
	return &Service{
		catalog:   catalog,
		repo:      repo,
		gateways:  gateways,
		publisher: publisher,
		metrics:   m,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

type priced struct {
	artistID    string
	amount      int64
	currency    string
	description string
}

// resolve находит объект покупки в каталоге и определяет его серверную цену.
func (s *Service) resolve(ctx context.Context, itemType models.ItemType, itemID string) (*priced, error) {
	switch itemType {
	case models.ItemSong:
		song, err := s.catalog.GetSong(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if err := purchasable(song.AccessType, song.Price); err != nil {
			return nil, err
		}
		return &priced{song.ArtistID, song.Price, song.Currency, "Song: " + song.Title}, nil
	case models.ItemAlbum:
		album, err := s.catalog.GetAlbum(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if err := purchasable(album.AccessType, album.Price); err != nil {
			return nil, err
		}
		return &priced{album.ArtistID, album.Price, album.Currency, "Album: " + album.Title}, nil
	case models.ItemArtistSubscription:
		artist, err := s.catalog.GetArtist(ctx, itemID)
		if err != nil {
			return nil, err
		}
		if artist.SubscriptionPrice <= 0 {
			return nil, models.ErrNotPurchasable
		}
		return &priced{artist.ID, artist.SubscriptionPrice, artist.Currency, "Subscription: " + artist.Name}, nil
	default:
		return nil, models.ErrInvalidItemType
	}
}

func purchasable(access models.AccessType, price int64) error {
	if access != models.AccessPurchaseOnly {
		return models.ErrNotPurchasable
	}
	return models.ValidatePricing(access, price)
}

func (s *Service) alreadyOwned(ctx context.Context, userUID string, itemType models.ItemType, itemID string) (bool, error) {
	switch itemType {
	case models.ItemSong:
		return s.repo.HasPurchasedSong(ctx, userUID, itemID)
	case models.ItemAlbum:
		return s.repo.HasPurchasedAlbum(ctx, userUID, itemID)
	}
	// подписку можно продлевать повторной оплатой
	return false, nil
}

// InitiatePayment создаёт pending-транзакцию и платёж у выбранного провайдера.
// Если провайдер недоступен, транзакция остаётся pending и возвращается models.ErrGateway.
func (s *Service) InitiatePayment(ctx context.Context, userUID string, in PaymentInput) (*gateway.PaymentIntent, error) {
	const op = "payment.InitiatePayment"
	log := s.log.With(sl.Op(op), slog.String("user_uid", userUID))

	if !in.ItemType.Valid() {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidItemType)
	}
	if in.ItemID == "" {
		return nil, fmt.Errorf("%s: %w: item id is required", op, models.ErrBadRequest)
	}
	gw, err := s.gateways.Get(in.Gateway)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	item, err := s.resolve(ctx, in.ItemType, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	currency := item.currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	if in.Amount != 0 && in.Amount != item.amount {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAmountMismatch)
	}
	if in.Currency != "" && !strings.EqualFold(in.Currency, currency) {
		return nil, fmt.Errorf("%s: %w: currency must be %s", op, models.ErrBadRequest, currency)
	}

	owned, err := s.alreadyOwned(ctx, userUID, in.ItemType, in.ItemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owned {
		return nil, fmt.Errorf("%s: %w", op, models.ErrAlreadyOwned)
	}

	t := models.Transaction{
		ID:        s.newID(),
		UserUID:   userUID,
		ItemType:  in.ItemType,
		ItemID:    in.ItemID,
		ArtistID:  item.artistID,
		Gateway:   gw.Name(),
		Amount:    item.amount,
		Currency:  strings.ToLower(currency),
		Status:    models.TransactionPending,
		CreatedAt: s.now(),
	}
	if err := s.repo.CreateTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.String("transaction_id", t.ID), slog.String("gateway", string(t.Gateway)))

	gwCtx := ctx
	if s.cfg.GatewayTimeout > 0 {
		var cancel context.CancelFunc
		gwCtx, cancel = context.WithTimeout(ctx, s.cfg.GatewayTimeout)
		defer cancel()
	}
	intent, err := gw.CreatePayment(gwCtx, gateway.PaymentRequest{
		TransactionID: t.ID,
		UserUID:       userUID,
		ItemType:      t.ItemType,
		ItemID:        t.ItemID,
		Amount:        t.Amount,
		Currency:      t.Currency,
		Description:   item.description,
	})
	if err != nil {
		log.Error("failed to create payment at gateway", sl.Err(err))
		if !errors.Is(err, models.ErrGateway) {
			err = fmt.Errorf("%w: %w", models.ErrGateway, err)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SetTransactionCorrelation(ctx, t.ID, intent.CorrelationID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.PaymentInitiated(string(t.Gateway), string(t.ItemType))
	log.Info("payment initiated", slog.String("correlation_id", intent.CorrelationID))
	return intent, nil
}

// HandleWebhook проверяет подпись события и, если это успешная оплата,
// переводит транзакцию в paid и применяет результат покупки.
// Повторная доставка того же события ничего не меняет.
func (s *Service) HandleWebhook(ctx context.Context, name models.Gateway, payload []byte, signature string) error {
	const op = "payment.HandleWebhook"
	log := s.log.With(sl.Op(op), slog.String("gateway", string(name)))

	gw, err := s.gateways.Get(name)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	outcome, err := gw.ParseWebhook(payload, signature)
	if err != nil {
		s.metrics.WebhookEvent(string(name), metrics.WebhookRejected)
		log.Warn("webhook rejected", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.String("event", outcome.EventType))
	if !outcome.Succeeded {
		s.metrics.WebhookEvent(string(name), metrics.WebhookIgnored)
		log.Debug("webhook event ignored")
		return nil
	}

	t, err := s.repo.MarkTransactionPaid(ctx, name,
		outcome.CorrelationID, outcome.TransactionID, outcome.PaymentID, s.now())
	if errors.Is(err, models.ErrNotFound) {
		s.metrics.WebhookEvent(string(name), metrics.WebhookDuplicate)
		log.Warn("no pending transaction for webhook event",
			slog.String("correlation_id", outcome.CorrelationID),
			slog.String("transaction_id", outcome.TransactionID),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("transaction paid",
		slog.String("transaction_id", t.ID),
		slog.String("item_type", string(t.ItemType)),
		slog.String("item_id", t.ItemID),
	)
	s.applyEffects(ctx, t)
	s.metrics.WebhookEvent(string(name), metrics.WebhookApplied)
	return nil
}

// ListUserTransactions возвращает транзакции пользователя, новые первыми.
func (s *Service) ListUserTransactions(ctx context.Context, userUID string, limit, offset int) ([]models.Transaction, error) {
	const op = "payment.ListUserTransactions"
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.ListUserTransactions(ctx, userUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListPending возвращает транзакции, которые висят в pending дольше olderThan.
func (s *Service) ListPending(ctx context.Context, olderThan time.Duration) ([]models.Transaction, error) {
	const op = "payment.ListPending"
	if olderThan < 0 {
		return nil, fmt.Errorf("%s: %w: negative age", op, models.ErrBadRequest)
	}
	res, err := s.repo.ListPendingTransactions(ctx, s.now().Add(-olderThan), pendingListLimit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}
