package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// AccountUseCase handles wallet reads.
type AccountUseCase struct {
	accountRepo     AccountRepository
	transactionRepo TransactionRepository
	cache           BalanceCache
	cacheTTL        time.Duration
}

// NewAccountUseCase creates a new AccountUseCase. cache may be nil.
func NewAccountUseCase(accountRepo AccountRepository, transactionRepo TransactionRepository, cache BalanceCache, cacheTTL time.Duration) *AccountUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultBalanceCacheTTL
	}

	return &AccountUseCase{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
	}
}

// GetBalance returns the caller's balance. Cache failures fall back to the
// database. A read that raced a transfer carries an older version and is
// not cached over the committed balance.
func (uc *AccountUseCase) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	if uc.cache != nil {
		balance, ok, err := uc.cache.Get(ctx, userID)
		if err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("balance cache read failed")
		} else if ok {
			return balance, nil
		}
	}

	account, err := uc.accountRepo.GetByUserID(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, userID, account.Balance, account.Version, uc.cacheTTL); err != nil {
			log.Warn().Err(err).Str("user_id", userID).Msg("balance cache write failed")
		}
	}

	return account.Balance, nil
}

// ListTransactionsInput represents input for listing transaction history.
type ListTransactionsInput struct {
	UserID    string
	Page      int
	Limit     int
	StartDate *time.Time
	EndDate   *time.Time
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// TransactionPage is one page of transaction history, newest first.
type TransactionPage struct {
	Transactions []*domain.Transaction
	Page         int
	Limit        int
	HasMore      bool
}

// ListTransactions lists transactions where the user is sender or receiver.
func (uc *AccountUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) (*TransactionPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	limit, offset := domain.ValidatePagination(page, input.Limit)

	filter := domain.TransactionFilter{
		UserID:    input.UserID,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		MinAmount: input.MinAmount,
		MaxAmount: input.MaxAmount,
		Limit:     limit + 1,
		Offset:    offset,
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	txns, err := uc.transactionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	hasMore := len(txns) > limit
	if hasMore {
		txns = txns[:limit]
	}

	return &TransactionPage{
		Transactions: txns,
		Page:         page,
		Limit:        limit,
		HasMore:      hasMore,
	}, nil
}
