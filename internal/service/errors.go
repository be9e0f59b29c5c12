package service

import (
	"errors"

	"github.com/suteetoe/marketplace/internal/repository"
)

var (
	ErrInvalidQuantity      = errors.New("invalid quantity")
	ErrForbidden            = errors.New("access denied")
	ErrNotFound             = repository.ErrNotFound
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrUsernameTaken        = errors.New("username exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAdminExists          = errors.New("admin exists")
	ErrValidation           = errors.New("validation failed")
)

// ValidationError describes bad user input. It matches ErrValidation.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(msg string) error { return &ValidationError{Msg: msg} }
