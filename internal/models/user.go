// Package models содержит доменную модель пользователя системы,
// каталога, платёжных транзакций и подписок на артистов.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import "time"

const (
	// RoleUser роль по умолчанию для зарегистрированного пользователя.
	RoleUser = "user"
	// RoleAdmin роль администратора, имеет доступ ко всему каталогу.
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    `json:"uid"`                // Уникальный идентификатор пользователя
	Email        string    `json:"email"`              // Электронная почта
	Username     string    `json:"username"`           // Имя пользователя (уникальное)
	PasswordHash string    `json:"-"`                  // Хэш пароля пользователя
	OAuthID      string    `json:"oauth_id,omitempty"` // Идентификатор внешнего провайдера, если есть
	Role         string    `json:"role"`               // Роль пользователя, admin или user
	CreatedAt    time.Time `json:"created_at"`
}

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// PurchaseRecord запись в истории покупок пользователя.
type PurchaseRecord struct {
	ItemType    ItemType  `json:"item_type"`
	ItemID      string    `json:"item_id"`
	Price       int64     `json:"price"`
	Currency    string    `json:"currency"`
	PaymentID   string    `json:"payment_id"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// MaxPlaylistsPerUser ограничение на количество плейлистов у пользователя.
const MaxPlaylistsPerUser = 10

// Playlist пользовательский плейлист.
type Playlist struct {
	ID          int       `json:"id"`
	UserUID     string    `json:"user_uid"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SongIDs     []string  `json:"songs"`
	CreatedAt   time.Time `json:"created_at"`
}
