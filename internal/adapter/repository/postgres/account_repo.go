package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool Pool) *AccountRepository {
	return &AccountRepository{
		queries: generated.New(pool),
	}
}

// CreateTx creates the wallet of a new user.
func (r *AccountRepository) CreateTx(ctx context.Context, tx usecase.Transaction, account *domain.Account) error {
	return queriesFor(tx).CreateAccount(ctx, generated.CreateAccountParams{
		ID:        account.ID,
		UserID:    account.UserID,
		Balance:   decimalToNumeric(account.Balance),
		Version:   account.Version,
		CreatedAt: timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt: timeToPgTimestamptz(account.UpdatedAt),
	})
}

// GetByUserID retrieves the wallet of a user.
func (r *AccountRepository) GetByUserID(ctx context.Context, userID string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByUserIDsForUpdate locks the wallets of the given users in user id
// order with a single statement.
func (r *AccountRepository) GetByUserIDsForUpdate(ctx context.Context, tx usecase.Transaction, userIDs []string) ([]*domain.Account, error) {
	rows, err := queriesFor(tx).GetAccountsByUserIDsForUpdate(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}

	return accounts, nil
}

// UpdateBalance updates the balance of an account. The balance >= 0 check
// constraint surfaces as domain.ErrInsufficientFunds.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	n, err := queriesFor(tx).UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:        id,
		Balance:   decimalToNumeric(balance),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		if pgErrorCode(err) == pgErrCheckViolation {
			return domain.ErrInsufficientFunds
		}
		return err
	}

	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:        row.ID,
		UserID:    row.UserID,
		Balance:   numericToDecimal(row.Balance),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
