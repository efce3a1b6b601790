// Package mediaurl выдаёт ограниченные по времени ссылки на медиафайлы.
// Ссылка содержит JWT с ключом объекта и пользователем; медиасервер
// проверяет подпись тем же ключом через Verify.
package mediaurl

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken токен ссылки не прошёл проверку.
var ErrInvalidToken = errors.New("invalid media token")

// Claims данные внутри токена ссылки.
type Claims struct {
	MediaKey string `json:"key"`
	UserUID  string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}

// SignedURL результат подписи.
type SignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Signer подписывает ссылки на объекты медиахранилища.
type Signer struct {
	baseURL string
	key     []byte
	ttl     time.Duration
	now     func() time.Time
}

// NewSigner создаёт Signer.
func NewSigner(baseURL, signingKey string, ttl time.Duration) *Signer {
	return &Signer{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     []byte(signingKey),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Sign возвращает ссылку на mediaKey, действительную в течение ttl.
func (s *Signer) Sign(mediaKey, userUID string) (*SignedURL, error) {
	const op = "mediaurl.Sign"
	if mediaKey == "" {
		return nil, fmt.Errorf("%s: empty media key", op)
	}
	now := s.now()
	expires := now.Add(s.ttl)
	claims := Claims{
		MediaKey: mediaKey,
		UserUID:  userUID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	q := url.Values{}
	q.Set("token", token)
	return &SignedURL{
		URL:       s.baseURL + "/" + url.PathEscape(mediaKey) + "?" + q.Encode(),
		ExpiresAt: expires.UTC(),
	}, nil
}

// Verify проверяет токен ссылки и возвращает его claims.
func (s *Signer) Verify(token string) (*Claims, error) {
	const op = "mediaurl.Verify"
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.MediaKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	return claims, nil
}
