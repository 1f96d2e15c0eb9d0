package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NotificationKind tells the owner whether money left or arrived.
type NotificationKind string

const (
	NotificationDebit  NotificationKind = "DEBIT"
	NotificationCredit NotificationKind = "CREDIT"
)

// Notification is an inbox entry created for each side of a transfer.
type Notification struct {
	ID            string
	UserID        string
	Kind          NotificationKind
	Amount        decimal.Decimal
	Message       string
	TransactionID string
	Read          bool
	CreatedAt     time.Time
}

// TransferMessages builds the debit and credit messages for a transfer
// between sender and receiver.
func TransferMessages(origin TransferOrigin, amount decimal.Decimal, sender, receiver *User) (debit, credit string) {
	if origin == OriginScheduled {
		debit = fmt.Sprintf("Recurring transfer of ₹%s sent to %s", amount.String(), receiver.DisplayName())
		credit = fmt.Sprintf("Recurring transfer of ₹%s received from %s", amount.String(), sender.DisplayName())
		return debit, credit
	}

	debit = fmt.Sprintf("Sent ₹%s to %s", amount.String(), receiver.DisplayName())
	credit = fmt.Sprintf("Received ₹%s from %s", amount.String(), sender.DisplayName())
	return debit, credit
}
