package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mockgen"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

func TestAccountUseCase_GetBalance(t *testing.T) {
	tests := []struct {
		name        string
		setupCache  func(*mockgen.MockBalanceCache)
		wantBalance string
		wantErr     error
		userID      string
	}{
		{
			name: "cache hit skips database",
			setupCache: func(c *mockgen.MockBalanceCache) {
				c.EXPECT().Get(gomock.Any(), "alice").Return(decimal.NewFromInt(42), true, nil)
			},
			userID:      "alice",
			wantBalance: "42",
		},
		{
			name: "cache miss reads database and fills cache",
			setupCache: func(c *mockgen.MockBalanceCache) {
				c.EXPECT().Get(gomock.Any(), "alice").Return(decimal.Zero, false, nil)
				c.EXPECT().Set(gomock.Any(), "alice", decimal.NewFromInt(500), int64(3), time.Minute).Return(nil)
			},
			userID:      "alice",
			wantBalance: "500",
		},
		{
			name: "cache failure falls back to database",
			setupCache: func(c *mockgen.MockBalanceCache) {
				c.EXPECT().Get(gomock.Any(), "alice").Return(decimal.Zero, false, errors.New("circuit open"))
				c.EXPECT().Set(gomock.Any(), "alice", gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("circuit open"))
			},
			userID:      "alice",
			wantBalance: "500",
		},
		{
			name: "unknown user",
			setupCache: func(c *mockgen.MockBalanceCache) {
				c.EXPECT().Get(gomock.Any(), "nobody").Return(decimal.Zero, false, nil)
			},
			userID:  "nobody",
			wantErr: domain.ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := mockgen.NewMockBalanceCache(ctrl)
			tt.setupCache(cache)

			accounts := mocks.NewMockAccountRepository()
			accounts.Add(&domain.Account{ID: "acc-alice", UserID: "alice", Balance: decimal.NewFromInt(500), Version: 3})

			uc := usecase.NewAccountUseCase(accounts, mocks.NewMockTransactionRepository(), cache, time.Minute)
			balance, err := uc.GetBalance(context.Background(), tt.userID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance.String())
		})
	}
}

func TestAccountUseCase_GetBalance_StaleReadKeepsCommittedBalance(t *testing.T) {
	w := newWallet(t)
	w.addUser("alice", "Alice", "Smith", 500)
	w.addUser("bob", "Bob", "Jones", 0)
	uc := usecase.NewAccountUseCase(w.accounts, w.transactions, w.cache, time.Minute)
	ctx := context.Background()

	// The reader loads alice's wallet and misses the cache before the
	// transfer commits, then caches what it read afterwards.
	stale, err := w.accounts.GetByUserID(ctx, "alice")
	require.NoError(t, err)

	_, err = w.engine.Execute(ctx, usecase.ExecuteTransferInput{SenderID: "alice", ReceiverID: "bob", Amount: amount("200")})
	require.NoError(t, err)

	w.accounts.GetByUserIDFunc = func(context.Context, string) (*domain.Account, error) { return stale, nil }
	w.cache.GetFunc = func(context.Context, string) (decimal.Decimal, bool, error) { return decimal.Zero, false, nil }

	balance, err := uc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "500", balance.String())

	w.accounts.GetByUserIDFunc = nil
	w.cache.GetFunc = nil

	balance, err = uc.GetBalance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "300", balance.String())
}

func TestAccountUseCase_GetBalance_WithoutCache(t *testing.T) {
	accounts := mocks.NewMockAccountRepository()
	accounts.Add(&domain.Account{ID: "acc-alice", UserID: "alice", Balance: decimal.RequireFromString("12.34")})

	uc := usecase.NewAccountUseCase(accounts, mocks.NewMockTransactionRepository(), nil, 0)
	balance, err := uc.GetBalance(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "12.34", balance.String())
}

func TestAccountUseCase_ListTransactions(t *testing.T) {
	txns := mocks.NewMockTransactionRepository()
	ctx := context.Background()
	for i := 1; i <= 12; i++ {
		receiver := "bob"
		if i%3 == 0 {
			receiver = "carol"
		}
		require.NoError(t, txns.Create(ctx, nil, &domain.Transaction{
			ID:         fmt.Sprintf("txn-%02d", i),
			SenderID:   "alice",
			ReceiverID: receiver,
			Amount:     decimal.NewFromInt(int64(i * 10)),
			Timestamp:  fixedNow.Add(time.Duration(i) * time.Minute),
		}))
	}

	uc := usecase.NewAccountUseCase(mocks.NewMockAccountRepository(), txns, nil, 0)

	t.Run("first page is newest first", func(t *testing.T) {
		page, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{UserID: "alice"})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Page)
		assert.Equal(t, domain.DefaultPageSize, page.Limit)
		assert.True(t, page.HasMore)
		require.Len(t, page.Transactions, 10)
		assert.Equal(t, "txn-12", page.Transactions[0].ID)
	})

	t.Run("last page has no more", func(t *testing.T) {
		page, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{UserID: "alice", Page: 2})
		require.NoError(t, err)
		assert.False(t, page.HasMore)
		assert.Len(t, page.Transactions, 2)
	})

	t.Run("receiver sees only own transactions", func(t *testing.T) {
		page, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{UserID: "carol", Limit: 50})
		require.NoError(t, err)
		assert.Len(t, page.Transactions, 4)
		assert.False(t, page.HasMore)
	})

	t.Run("amount range", func(t *testing.T) {
		lo, hi := decimal.NewFromInt(30), decimal.NewFromInt(50)
		page, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{UserID: "alice", MinAmount: &lo, MaxAmount: &hi})
		require.NoError(t, err)
		assert.Len(t, page.Transactions, 3)
	})

	t.Run("inverted date range is rejected", func(t *testing.T) {
		start, end := fixedNow, fixedNow.Add(-time.Hour)
		_, err := uc.ListTransactions(ctx, usecase.ListTransactionsInput{UserID: "alice", StartDate: &start, EndDate: &end})
		require.ErrorIs(t, err, domain.ErrValidation)
	})
}
