package domain

import (
	"errors"
	"fmt"
)

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")

	// Transfer errors
	ErrInsufficientFunds       = errors.New("insufficient balance")
	ErrInvalidRecipient        = errors.New("invalid recipient account")
	ErrInvalidSenderOrReceiver = errors.New("invalid sender or receiver")
	ErrInvalidAmount           = errors.New("amount must be positive")
	ErrSameAccount             = errors.New("cannot transfer to same account")
	ErrTransferFailed          = errors.New("transfer failed")

	// Notification errors
	ErrNotificationNotFound = errors.New("notification not found")

	// Recurring transfer errors
	ErrRecurringNotFound       = errors.New("recurring transfer not found")
	ErrRecurringCompleted      = errors.New("recurring transfer already completed")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidFrequency        = errors.New("invalid frequency")

	// User errors
	ErrUserNotFound    = errors.New("user not found")
	ErrUserExists      = errors.New("user already exists")
	ErrTooManyAttempts = errors.New("too many login attempts")

	// ErrValidation is the parent of every field-level validation failure.
	ErrValidation = errors.New("validation failed")
)

// ValidationError reports which input field was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsBusinessError reports whether err is an expected rule violation rather
// than an infrastructure failure.
func IsBusinessError(err error) bool {
	switch {
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrInvalidRecipient),
		errors.Is(err, ErrInvalidSenderOrReceiver),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrSameAccount),
		errors.Is(err, ErrValidation):
		return true
	}
	return false
}
