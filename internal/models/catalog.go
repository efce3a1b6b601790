package models

// AccessType политика доступа к песне или альбому.
type AccessType string

const (
	AccessFree         AccessType = "free"
	AccessSubscription AccessType = "subscription"
	AccessPurchaseOnly AccessType = "purchase-only"
)

// Valid сообщает, является ли значение одной из известных политик.
func (a AccessType) Valid() bool {
	switch a {
	case AccessFree, AccessSubscription, AccessPurchaseOnly:
		return true
	}
	return false
}

// Artist исполнитель. SubscriptionPrice это цена подписки на каталог артиста
// в минимальных единицах валюты.
type Artist struct {
	ID                string `json:"id" toml:"id"`
	Name              string `json:"name" toml:"name"`
	SubscriptionPrice int64  `json:"subscription_price" toml:"subscription_price"`
	Currency          string `json:"currency" toml:"currency"`
}

// Album альбом исполнителя.
type Album struct {
	ID         string     `json:"id" toml:"id"`
	Title      string     `json:"title" toml:"title"`
	ArtistID   string     `json:"artist_id" toml:"artist_id"`
	AccessType AccessType `json:"access_type" toml:"access_type"`
	Price      int64      `json:"price" toml:"price"` // имеет смысл только для purchase-only
	Currency   string     `json:"currency" toml:"currency"`
}

// Song трек. AlbumID пустой, если трек вышел синглом.
type Song struct {
	ID         string     `json:"id" toml:"id"`
	Title      string     `json:"title" toml:"title"`
	ArtistID   string     `json:"artist_id" toml:"artist_id"`
	AlbumID    *string    `json:"album_id,omitempty" toml:"album_id"`
	Genre      string     `json:"genre,omitempty" toml:"genre"`
	MediaKey   string     `json:"-" toml:"media_key"` // ключ объекта в медиахранилище
	AccessType AccessType `json:"access_type" toml:"access_type"`
	Price      int64      `json:"price" toml:"price"`
	Currency   string     `json:"currency" toml:"currency"`
}

// Genre жанр каталога.
type Genre struct {
	ID   string `json:"id" toml:"id"`
	Name string `json:"name" toml:"name"`
}

// Catalog набор записей каталога для пакетного импорта.
type Catalog struct {
	Genres  []Genre  `toml:"genres"`
	Artists []Artist `toml:"artists"`
	Albums  []Album  `toml:"albums"`
	Songs   []Song   `toml:"songs"`
}

// ValidatePricing проверяет инварианты цены: purchase-only требует price > 0.
func ValidatePricing(access AccessType, price int64) error {
	if !access.Valid() {
		return ErrInvalidAccessType
	}
	if access == AccessPurchaseOnly && price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
