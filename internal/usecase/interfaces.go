package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	CreateTx(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByUserID(ctx context.Context, userID string) (*domain.Account, error)
	// GetByUserIDsForUpdate locks the accounts of the given users in id order.
	// Missing users are simply absent from the result.
	GetByUserIDsForUpdate(ctx context.Context, tx Transaction, userIDs []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
}

// UserRepository defines data access for users.
type UserRepository interface {
	CreateTx(ctx context.Context, tx Transaction, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDsTx(ctx context.Context, tx Transaction, ids []string) ([]*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Search(ctx context.Context, filter, excludeID string, limit int) ([]*domain.User, error)
}

// TransactionRepository defines data access for the transfer ledger.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	List(ctx context.Context, filter domain.TransactionFilter) ([]*domain.Transaction, error)
}

// NotificationRepository defines data access for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, tx Transaction, notification *domain.Notification) error
	ListByUser(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// RecurringTransferRepository defines data access for recurring transfers.
type RecurringTransferRepository interface {
	Create(ctx context.Context, rt *domain.RecurringTransfer) error
	GetByID(ctx context.Context, id string) (*domain.RecurringTransfer, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.RecurringTransfer, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error)
	// ListCandidates returns ACTIVE definitions whose start date has passed and
	// whose interval has elapsed (or that never ran).
	ListCandidates(ctx context.Context, now time.Time, limit int) ([]*domain.RecurringTransfer, error)
	Update(ctx context.Context, tx Transaction, rt *domain.RecurringTransfer) error
	// UpdateStatus persists rt's status only if the stored status still equals
	// expected, returning domain.ErrInvalidStatusTransition otherwise.
	UpdateStatus(ctx context.Context, rt *domain.RecurringTransfer, expected domain.RecurringStatus) error
	// MarkFailed moves an ACTIVE definition to FAILED.
	MarkFailed(ctx context.Context, id, reason string, at time.Time) error
	// Delete removes a definition owned by senderID unless it is COMPLETED.
	Delete(ctx context.Context, id, senderID string) error
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient database errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// BalanceCache keeps recently read balances keyed by user. Set is fenced by
// the account version: an entry is never replaced by an older version.
type BalanceCache interface {
	Get(ctx context.Context, userID string) (decimal.Decimal, bool, error)
	Set(ctx context.Context, userID string, balance decimal.Decimal, version int64, ttl time.Duration) error
	Invalidate(ctx context.Context, userIDs ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// SchedulerLock guards a scheduler tick across processes.
type SchedulerLock interface {
	// Acquire returns ok=false when another holder owns the lock.
	Acquire(ctx context.Context, ttl time.Duration) (release func(context.Context) error, ok bool, err error)
}

// LoginLimiter counts sign-in attempts per key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hashedPassword, password string) error
}

// TransferObserver receives transfer outcomes, typically for metrics.
type TransferObserver interface {
	TransferSucceeded(origin domain.TransferOrigin, amount decimal.Decimal)
	TransferFailed(origin domain.TransferOrigin, reason string)
}

// SchedulerObserver receives scheduler outcomes, typically for metrics.
type SchedulerObserver interface {
	TickCompleted(result string, duration time.Duration)
	RecurringExecuted(outcome string)
}
