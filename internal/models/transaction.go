package models

import "time"

// ItemType тип покупаемого объекта.
type ItemType string

const (
	ItemSong               ItemType = "song"
	ItemAlbum              ItemType = "album"
	ItemArtistSubscription ItemType = "artist-subscription"
)

// Valid сообщает, поддерживается ли тип объекта.
func (t ItemType) Valid() bool {
	switch t {
	case ItemSong, ItemAlbum, ItemArtistSubscription:
		return true
	}
	return false
}

// Gateway платёжный провайдер.
type Gateway string

const (
	GatewayStripe   Gateway = "stripe"
	GatewayRazorpay Gateway = "razorpay"
)

// TransactionStatus статус транзакции. Переход только pending -> paid.
type TransactionStatus string

const (
	TransactionPending TransactionStatus = "pending"
	TransactionPaid    TransactionStatus = "paid"
)

// Transaction запись одной попытки оплаты через провайдера.
// CorrelationID это идентификатор на стороне провайдера (PaymentIntent в Stripe,
// Order в Razorpay); пара (Gateway, CorrelationID) уникальна.
type Transaction struct {
	ID            string            `json:"id"`
	UserUID       string            `json:"user_uid"`
	ItemType      ItemType          `json:"item_type"`
	ItemID        string            `json:"item_id"`
	ArtistID      string            `json:"artist_id"`
	Gateway       Gateway           `json:"gateway"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Status        TransactionStatus `json:"status"`
	CorrelationID string            `json:"correlation_id,omitempty"`
	PaymentID     string            `json:"payment_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	PaidAt        *time.Time        `json:"paid_at,omitempty"`
}

// PurchaseCompleted сообщение в очередь уведомлений после успешной оплаты.
type PurchaseCompleted struct {
	TransactionID string   `json:"transaction_id"`
	UserUID       string   `json:"user_uid"`
	Email         string   `json:"email"`
	Username      string   `json:"username"`
	ItemType      ItemType `json:"item_type"`
	ItemID        string   `json:"item_id"`
	Amount        int64    `json:"amount"`
	Currency      string   `json:"currency"`
}
