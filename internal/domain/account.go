package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the single wallet balance owned by a user.
type Account struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateDebit checks that the account can be debited by amount without
// going negative.
func (a *Account) ValidateDebit(amount decimal.Decimal) error {
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ApplyDebit returns new balance after debit.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Sub(amount)
}

// ApplyCredit returns new balance after credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return a.Balance.Add(amount)
}

// Updated returns a copy of the account as UpdateBalance leaves it: the new
// balance under the next version.
func (a *Account) Updated(balance decimal.Decimal, at time.Time) *Account {
	next := *a
	next.Balance = balance
	next.Version++
	next.UpdatedAt = at
	return &next
}
