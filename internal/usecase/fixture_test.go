package usecase_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/usecase"
	"github.com/iho/gowallet/internal/usecase/mocks"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type wallet struct {
	txManager     *mocks.MockTransactionManager
	accounts      *mocks.MockAccountRepository
	users         *mocks.MockUserRepository
	transactions  *mocks.MockTransactionRepository
	notifications *mocks.MockNotificationRepository
	recurring     *mocks.MockRecurringTransferRepository
	outbox        *mocks.MockOutboxRepository
	idGen         *mocks.MockIDGenerator
	cache         *mocks.MockBalanceCache
	observer      *mocks.RecordingObserver
	engine        *usecase.TransferEngine
}

func newWallet(t *testing.T) *wallet {
	t.Helper()

	w := &wallet{
		txManager:     mocks.NewMockTransactionManager(),
		accounts:      mocks.NewMockAccountRepository(),
		users:         mocks.NewMockUserRepository(),
		transactions:  mocks.NewMockTransactionRepository(),
		notifications: mocks.NewMockNotificationRepository(),
		recurring:     mocks.NewMockRecurringTransferRepository(),
		outbox:        mocks.NewMockOutboxRepository(),
		idGen:         mocks.NewMockIDGenerator(),
		cache:         mocks.NewMockBalanceCache(),
		observer:      &mocks.RecordingObserver{},
	}

	w.engine = usecase.NewTransferEngine(usecase.TransferEngineConfig{
		TxManager:        w.txManager,
		AccountRepo:      w.accounts,
		UserRepo:         w.users,
		TransactionRepo:  w.transactions,
		NotificationRepo: w.notifications,
		OutboxRepo:       w.outbox,
		IDGen:            w.idGen,
		Cache:            w.cache,
		Observer:         w.observer,
		Clock:            func() time.Time { return fixedNow },
	})

	return w
}

// addUser creates a user named first/last with a wallet holding balance.
func (w *wallet) addUser(id, first, last string, balance int64) {
	w.users.Add(&domain.User{
		ID:        id,
		Username:  id + "@example.com",
		FirstName: first,
		LastName:  last,
	})
	w.accounts.Add(&domain.Account{
		ID:      "acc-" + id,
		UserID:  id,
		Balance: decimal.NewFromInt(balance),
	})
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
