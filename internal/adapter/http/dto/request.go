package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
)

// SignupRequest represents a request to create a user.
type SignupRequest struct {
	Username      string `json:"username"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Password      string `json:"password"`
	Phone         string `json:"phone"`
	AcceptedTerms bool   `json:"acceptedTerms"`
}

// ToUseCaseInput converts to use case input.
func (r *SignupRequest) ToUseCaseInput() usecase.SignupInput {
	return usecase.SignupInput{
		Username:      r.Username,
		Password:      r.Password,
		FirstName:     r.FirstName,
		LastName:      r.LastName,
		Phone:         r.Phone,
		AcceptedTerms: r.AcceptedTerms,
	}
}

// SigninRequest represents a sign-in attempt.
type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateUserRequest) ToUseCaseInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		UserID:    userID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Password:  r.Password,
	}
}

// TransferRequest moves amount from the caller to the user To.
type TransferRequest struct {
	To     string          `json:"to"`
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *TransferRequest) ToUseCaseInput(senderID string) usecase.ExecuteTransferInput {
	return usecase.ExecuteTransferInput{
		SenderID:   senderID,
		ReceiverID: r.To,
		Amount:     r.Amount,
		Origin:     domain.OriginInteractive,
	}
}

// CreateRecurringRequest represents a new recurring transfer definition.
// Dates accept RFC3339 or YYYY-MM-DD.
type CreateRecurringRequest struct {
	ReceiverID  string          `json:"receiverId"`
	Amount      decimal.Decimal `json:"amount"`
	Frequency   string          `json:"frequency"`
	StartDate   string          `json:"startDate"`
	EndDate     string          `json:"endDate,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateRecurringRequest) ToUseCaseInput(senderID string) (usecase.CreateRecurringInput, error) {
	input := usecase.CreateRecurringInput{
		SenderID:    senderID,
		ReceiverID:  r.ReceiverID,
		Amount:      r.Amount,
		Frequency:   domain.Frequency(strings.ToUpper(strings.TrimSpace(r.Frequency))),
		Description: r.Description,
	}

	if r.StartDate != "" {
		start, err := ParseDate(r.StartDate, false)
		if err != nil {
			return input, domain.NewValidationError("startDate", err.Error())
		}
		input.StartDate = start
	}

	if r.EndDate != "" {
		end, err := ParseDate(r.EndDate, false)
		if err != nil {
			return input, domain.NewValidationError("endDate", err.Error())
		}
		input.EndDate = &end
	}

	return input, nil
}

// UpdateRecurringStatusRequest asks for a status change.
type UpdateRecurringStatusRequest struct {
	Status string `json:"status"`
}

const dateOnly = "2006-01-02"

// ParseDate parses RFC3339 or YYYY-MM-DD in UTC. With endOfDay set, a bare
// calendar day resolves to its last nanosecond so range filters include it.
func ParseDate(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}

	t, err := time.Parse(dateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use RFC3339 or YYYY-MM-DD", value)
	}

	if endOfDay {
		return t.Add(24*time.Hour - time.Nanosecond), nil
	}
	return t, nil
}
