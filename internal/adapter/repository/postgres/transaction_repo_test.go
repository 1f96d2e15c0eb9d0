package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/gowallet/internal/domain"
)

func TestTransactionRepositoryListAppliesFilters(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	start := now.Add(-24 * time.Hour)
	minAmount := decimal.NewFromInt(10)
	recurringID := "rt-1"

	mockPool.ExpectQuery(`created_at >= \$2 AND amount >= \$3`).
		WithArgs("alice", start, minAmount, 20, 40).
		WillReturnRows(pgxmock.NewRows([]string{"id", "sender_id", "receiver_id", "amount", "origin", "recurring_id", "created_at"}).
			AddRow("tx-2", "alice", "bob", decimal.NewFromInt(15), "scheduled", &recurringID, now).
			AddRow("tx-1", "bob", "alice", decimal.NewFromInt(30), "interactive", (*string)(nil), now.Add(-time.Hour)))

	repo := NewTransactionRepository(mockPool)
	txns, err := repo.List(context.Background(), domain.TransactionFilter{
		UserID:    "alice",
		StartDate: &start,
		MinAmount: &minAmount,
		Limit:     20,
		Offset:    40,
	})
	require.NoError(t, err)
	require.Len(t, txns, 2)

	assert.Equal(t, domain.OriginScheduled, txns[0].Origin)
	require.NotNil(t, txns[0].RecurringID)
	assert.Equal(t, "rt-1", *txns[0].RecurringID)
	assert.Nil(t, txns[1].RecurringID)
	assert.Equal(t, domain.OriginInteractive, txns[1].Origin)
	assertExpectations(t, mockPool)
}

func TestTransactionRepositoryCreate(t *testing.T) {
	mockPool := newMockPool(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	mockPool.ExpectBegin()
	mockPool.ExpectExec("INSERT INTO transactions").
		WithArgs("tx-1", "alice", "bob", pgxmock.AnyArg(), "interactive", (*string)(nil), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockPool.ExpectCommit()

	tx, err := newTxManagerWithPool(mockPool).Begin(context.Background())
	require.NoError(t, err)

	repo := NewTransactionRepository(mockPool)
	err = repo.Create(context.Background(), tx, &domain.Transaction{
		ID:         "tx-1",
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     decimal.NewFromInt(5),
		Origin:     domain.OriginInteractive,
		Timestamp:  now,
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(context.Background()))
	assertExpectations(t, mockPool)
}
