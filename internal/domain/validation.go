package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxTransferAmount    = "1000000000" // 1 billion
	MaxAmountDecimals    = 2
	MinPasswordLength    = 8
	MaxPasswordLength    = 128
	MinPhoneLength       = 10
	MaxNameLength        = 50
	MaxDescriptionLength = 100
	MinRecurringAmount   = 1
	DefaultPageSize      = 10
	MaxPageSize          = 100
	MaxPage              = 1_000_000
	MaxUserSearchResults = 50
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	upperRegex = regexp.MustCompile(`[A-Z]`)
	lowerRegex = regexp.MustCompile(`[a-z]`)
	digitRegex = regexp.MustCompile(`[0-9]`)
)

// ValidateAmount validates a transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if !amount.Equal(amount.Truncate(MaxAmountDecimals)) {
		return fmt.Errorf("%w: at most %d decimal places", ErrInvalidAmount, MaxAmountDecimals)
	}

	maxAmount, _ := decimal.NewFromString(MaxTransferAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxTransferAmount)
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return NewValidationError("username", "must be a valid email address")
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	if len(password) > MaxPasswordLength {
		return NewValidationError("password", fmt.Sprintf("must not exceed %d characters", MaxPasswordLength))
	}

	if !upperRegex.MatchString(password) || !lowerRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return NewValidationError("password", "must contain uppercase, lowercase, and numbers")
	}

	return nil
}

// ValidateName validates a first or last name.
func ValidateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewValidationError(field, "is required")
	}
	if len(name) > MaxNameLength {
		return NewValidationError(field, fmt.Sprintf("must not exceed %d characters", MaxNameLength))
	}
	return nil
}

// ValidatePhone validates a phone number.
func ValidatePhone(phone string) error {
	if len(strings.TrimSpace(phone)) < MinPhoneLength {
		return NewValidationError("phone", fmt.Sprintf("must be at least %d characters", MinPhoneLength))
	}
	return nil
}

// ValidatePagination normalizes a 1-based page and a page size into
// limit and offset. Pages past MaxPage are read as MaxPage.
func ValidatePagination(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}

	if page > MaxPage {
		page = MaxPage
	}

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return limit, (page - 1) * limit
}
