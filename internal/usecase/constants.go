package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// IdempotencyPending is stored under a key while its first request runs.
	IdempotencyPending = "processing"

	// DefaultBalanceCacheTTL is how long a read balance is served from cache.
	DefaultBalanceCacheTTL = 30 * time.Second

	// DefaultSchedulerBatchSize caps how many definitions one tick loads.
	DefaultSchedulerBatchSize = 500

	// DefaultSchedulerLockTTL bounds how long a crashed holder blocks other ticks.
	DefaultSchedulerLockTTL = 10 * time.Minute
)

// Failure reasons reported to observers.
const (
	ReasonInsufficientFunds = "insufficient_funds"
	ReasonInvalidRecipient  = "invalid_recipient"
	ReasonInvalidParty      = "invalid_party"
	ReasonValidation        = "validation"
	ReasonTimeout           = "timeout"
	ReasonPersistence       = "persistence"
)
