package models

import "time"

// SubscriptionStatus статус подписки на артиста.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription ограниченный по времени доступ пользователя к контенту
// артиста с политикой subscription. Пара (UserUID, ArtistID) уникальна.
type Subscription struct {
	ID                     int                `json:"id"`
	UserUID                string             `json:"user_uid"`
	ArtistID               string             `json:"artist_id"`
	Status                 SubscriptionStatus `json:"status"`
	ValidUntil             time.Time          `json:"valid_until"`
	Gateway                Gateway            `json:"gateway"`
	ExternalSubscriptionID string             `json:"external_subscription_id,omitempty"`
	CreatedAt              time.Time          `json:"created_at"`
	UpdatedAt              time.Time          `json:"updated_at"`
}

// IsActive возвращает true, если подписка активна и не истекла на момент now.
func (s *Subscription) IsActive(now time.Time) bool {
	return s != nil && s.Status == SubscriptionActive && s.ValidUntil.After(now)
}

// SubscriptionGrant параметры продления/создания подписки после оплаты.
// Каждая оплата продлевает доступ на фиксированный Period.
// ExternalSubscriptionID ссылка провайдера на последний оплативший платёж.
type SubscriptionGrant struct {
	UserUID                string
	ArtistID               string
	Gateway                Gateway
	ExternalSubscriptionID string
	Now                    time.Time
	Period                 time.Duration
}

// ExpiringSubscription данные для напоминания об окончании подписки.
type ExpiringSubscription struct {
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	ArtistName string    `json:"artist_name"`
	ValidUntil time.Time `json:"valid_until"`
}
