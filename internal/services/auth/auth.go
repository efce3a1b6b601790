// Package auth содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/music-streaming/internal/lib/jwt"
	"github.com/magabrotheeeer/music-streaming/internal/lib/password"
	"github.com/magabrotheeeer/music-streaming/internal/lib/sl"
	"github.com/magabrotheeeer/music-streaming/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// SetUserRole меняет роль пользователя.
	SetUserRole(ctx context.Context, username, role string) error
}

// Service отвечает за регистрацию, авторизацию и валидацию JWT.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, users UserRepository, jwtMaker jwt.Maker) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "user".
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "auth.Register"
	hashed, err := password.GetHash(rawPassword)
	if errors.Is(err, password.ErrEmpty) || errors.Is(err, password.ErrTooLong) {
		return "", fmt.Errorf("%s: %w: %w", op, models.ErrBadRequest, err)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	user := models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", sl.Op(op), slog.String("user_uid", uid))
	return uid, nil
}

// Login проверяет пароль пользователя и выдаёт JWT.
// Неизвестный пользователь и неверный пароль неразличимы для клиента.
func (s *Service) Login(ctx context.Context, username, rawPassword string) (token, role string, err error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		return "", "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	token, err = s.jwtMaker.GenerateToken(user.UUID, user.Username, user.Role)
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return token, user.Role, nil
}

// ValidateToken проверяет JWT и возвращает пользователя из его claims.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, error) {
	const op = "auth.ValidateToken"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrUnauthorized, err)
	}
	return &models.User{
		UUID:     claims.UserUID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// PromoteToAdmin выдаёт пользователю роль администратора.
func (s *Service) PromoteToAdmin(ctx context.Context, username string) error {
	const op = "auth.PromoteToAdmin"
	if err := s.users.SetUserRole(ctx, username, models.RoleAdmin); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user promoted to admin", sl.Op(op), slog.String("username", username))
	return nil
}
