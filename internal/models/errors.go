package models

import (
	"errors"
	"fmt"
)

// Базовые категории ошибок. HTTP-слой сопоставляет их со статусами ответа.
var (
	ErrNotFound              = errors.New("not found")
	ErrBadRequest            = errors.New("bad request")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrSignatureVerification = errors.New("signature verification failed")
	ErrGateway               = errors.New("payment gateway error")
)

var (
	ErrInvalidItemType    = fmt.Errorf("%w: invalid item type", ErrBadRequest)
	ErrInvalidAccessType  = fmt.Errorf("%w: invalid access type", ErrBadRequest)
	ErrInvalidPrice       = fmt.Errorf("%w: Purchase-only items require a valid price", ErrBadRequest)
	ErrNotPurchasable     = fmt.Errorf("%w: item is not available for purchase", ErrBadRequest)
	ErrAmountMismatch     = fmt.Errorf("%w: amount does not match item price", ErrBadRequest)
	ErrUnknownGateway     = fmt.Errorf("%w: invalid gateway", ErrBadRequest)
	ErrAlreadyOwned       = fmt.Errorf("%w: item already purchased", ErrBadRequest)
	ErrPlaylistLimit      = fmt.Errorf("%w: playlist limit reached", ErrBadRequest)
	ErrUserExists         = fmt.Errorf("%w: user already exists", ErrBadRequest)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)
