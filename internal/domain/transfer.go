package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferOrigin identifies what initiated a transfer.
type TransferOrigin string

const (
	OriginInteractive TransferOrigin = "interactive"
	OriginScheduled   TransferOrigin = "scheduled"
)

// IsValid reports whether o is a known origin.
func (o TransferOrigin) IsValid() bool {
	return o == OriginInteractive || o == OriginScheduled
}

// Transfer is a request to move Amount from SenderID to ReceiverID.
type Transfer struct {
	SenderID    string
	ReceiverID  string
	Amount      decimal.Decimal
	Origin      TransferOrigin
	RecurringID *string
}

// Validate checks the request before any account state is read.
func (t *Transfer) Validate() error {
	if t.SenderID == "" || t.ReceiverID == "" {
		return ErrInvalidSenderOrReceiver
	}

	if t.SenderID == t.ReceiverID {
		return ErrSameAccount
	}

	return ValidateAmount(t.Amount)
}

// Transaction is the immutable ledger record of an executed transfer.
type Transaction struct {
	ID          string
	SenderID    string
	ReceiverID  string
	Amount      decimal.Decimal
	Origin      TransferOrigin
	RecurringID *string
	Timestamp   time.Time
}

// Direction returns DEBIT when userID sent the money and CREDIT otherwise.
func (t *Transaction) Direction(userID string) NotificationKind {
	if t.SenderID == userID {
		return NotificationDebit
	}
	return NotificationCredit
}

// TransactionFilter narrows a user's transaction history.
type TransactionFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Limit     int
	Offset    int
}

// Validate rejects inverted ranges and negative bounds.
func (f *TransactionFilter) Validate() error {
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return NewValidationError("endDate", "must not be before startDate")
	}

	if f.MinAmount != nil && f.MinAmount.IsNegative() {
		return NewValidationError("minAmount", "must not be negative")
	}

	if f.MaxAmount != nil && f.MaxAmount.IsNegative() {
		return NewValidationError("maxAmount", "must not be negative")
	}

	if f.MinAmount != nil && f.MaxAmount != nil && f.MaxAmount.LessThan(*f.MinAmount) {
		return NewValidationError("maxAmount", "must not be less than minAmount")
	}

	return nil
}
