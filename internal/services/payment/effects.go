package payment

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/music-streaming/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// applyEffects выдаёт права по оплаченной транзакции. Ошибки только логируются:
// провайдер получает 200, а транзакция уже помечена paid.
func (s *Service) applyEffects(ctx context.Context, t *models.Transaction) {
	const op = "payment.applyEffects"
	log := s.log.With(
		sl.Op(op),
		slog.String("transaction_id", t.ID),
		slog.String("user_uid", t.UserUID),
	)

	paidAt := s.now()
	if t.PaidAt != nil {
		paidAt = *t.PaidAt
	}

	switch t.ItemType {
	case models.ItemSong:
		added, err := s.repo.AddPurchasedSong(ctx, t.UserUID, t.ItemID)
		if err != nil {
			log.Error("failed to grant song", sl.Err(err))
		} else if !added {
			log.Info("song already granted", slog.String("song_id", t.ItemID))
		}
	case models.ItemAlbum:
		added, err := s.repo.AddPurchasedAlbum(ctx, t.UserUID, t.ItemID)
		if err != nil {
			log.Error("failed to grant album", sl.Err(err))
		} else if !added {
			log.Info("album already granted", slog.String("album_id", t.ItemID))
		}
	case models.ItemArtistSubscription:
		artistID := t.ArtistID
		if artistID == "" {
			artistID = t.ItemID
		}
		sub, err := s.repo.UpsertSubscription(ctx, models.SubscriptionGrant{
			UserUID:                t.UserUID,
			ArtistID:               artistID,
			Gateway:                t.Gateway,
			ExternalSubscriptionID: t.CorrelationID,
			Now:                    paidAt,
			Period:                 s.cfg.SubscriptionPeriod,
		})
		if err != nil {
			log.Error("failed to upsert subscription", sl.Err(err))
		} else {
			log.Info("subscription active",
				slog.String("artist_id", artistID),
				slog.Time("valid_until", sub.ValidUntil),
			)
		}
	default:
		log.Warn("unknown item type in paid transaction", slog.String("item_type", string(t.ItemType)))
		return
	}

	paymentID := t.PaymentID
	if paymentID == "" {
		paymentID = t.ID
	}
	added, err := s.repo.AddPurchaseHistory(ctx, t.UserUID, models.PurchaseRecord{
		ItemType:    t.ItemType,
		ItemID:      t.ItemID,
		Price:       t.Amount,
		Currency:    t.Currency,
		PaymentID:   paymentID,
		PurchasedAt: paidAt,
	})
	if err != nil {
		log.Error("failed to add purchase history", sl.Err(err))
	} else if !added {
		log.Info("purchase history entry already exists")
	}

	s.notifyPurchase(ctx, log, t)
}

func (s *Service) notifyPurchase(ctx context.Context, log *slog.Logger, t *models.Transaction) {
	if s.publisher == nil {
		return
	}
	user, err := s.repo.GetUser(ctx, t.UserUID)
	if err != nil {
		log.Warn("failed to load user for purchase notification", sl.Err(err))
		return
	}
	msg := models.PurchaseCompleted{
		TransactionID: t.ID,
		UserUID:       t.UserUID,
		Email:         user.Email,
		Username:      user.Username,
		ItemType:      t.ItemType,
		ItemID:        t.ItemID,
		Amount:        t.Amount,
		Currency:      t.Currency,
	}
	if err := s.publisher.Publish(ctx, rabbitmq.RoutingPurchase, msg); err != nil {
		log.Warn("failed to publish purchase notification", sl.Err(err))
	}
}
