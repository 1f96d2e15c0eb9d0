package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// TransferEngineConfig wires the transfer engine.
type TransferEngineConfig struct {
	TxManager        TransactionManager
	AccountRepo      AccountRepository
	UserRepo         UserRepository
	TransactionRepo  TransactionRepository
	NotificationRepo NotificationRepository
	OutboxRepo       OutboxRepository
	IDGen            IDGenerator

	// Optional.
	Retrier  Retrier
	Cache    BalanceCache
	CacheTTL time.Duration
	Observer TransferObserver
	Timeout  time.Duration
	Clock    func() time.Time
}

// TransferEngine moves money between two wallets. Both the HTTP path and the
// recurring scheduler go through it.
type TransferEngine struct {
	txManager        TransactionManager
	accountRepo      AccountRepository
	userRepo         UserRepository
	transactionRepo  TransactionRepository
	notificationRepo NotificationRepository
	outboxRepo       OutboxRepository
	idGen            IDGenerator
	retrier          Retrier
	cache            BalanceCache
	cacheTTL         time.Duration
	observer         TransferObserver
	timeout          time.Duration
	clock            func() time.Time
}

// NewTransferEngine creates a new TransferEngine.
func NewTransferEngine(cfg TransferEngineConfig) *TransferEngine {
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultBalanceCacheTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTransactionTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &TransferEngine{
		txManager:        cfg.TxManager,
		accountRepo:      cfg.AccountRepo,
		userRepo:         cfg.UserRepo,
		transactionRepo:  cfg.TransactionRepo,
		notificationRepo: cfg.NotificationRepo,
		outboxRepo:       cfg.OutboxRepo,
		idGen:            cfg.IDGen,
		retrier:          cfg.Retrier,
		cache:            cfg.Cache,
		cacheTTL:         cfg.CacheTTL,
		observer:         cfg.Observer,
		timeout:          cfg.Timeout,
		clock:            cfg.Clock,
	}
}

// ExecuteTransferInput represents input for executing a transfer.
type ExecuteTransferInput struct {
	SenderID    string
	ReceiverID  string
	Amount      decimal.Decimal
	Origin      domain.TransferOrigin
	RecurringID *string
}

func (in ExecuteTransferInput) toDomain() *domain.Transfer {
	origin := in.Origin
	if origin == "" {
		origin = domain.OriginInteractive
	}

	return &domain.Transfer{
		SenderID:    in.SenderID,
		ReceiverID:  in.ReceiverID,
		Amount:      in.Amount,
		Origin:      origin,
		RecurringID: in.RecurringID,
	}
}

// TransferResult is everything a successful transfer wrote.
type TransferResult struct {
	Transaction          *domain.Transaction
	SenderNotification   *domain.Notification
	ReceiverNotification *domain.Notification

	// Accounts holds both wallets as they are after the transfer.
	Accounts []*domain.Account
}

// Execute runs one transfer in its own database transaction. Business rule
// violations are returned as-is; any other failure is reported as
// domain.ErrTransferFailed. Nothing is persisted unless everything is.
func (e *TransferEngine) Execute(ctx context.Context, input ExecuteTransferInput) (*TransferResult, error) {
	transfer := input.toDomain()
	if err := transfer.Validate(); err != nil {
		e.observer.TransferFailed(transfer.Origin, failureReason(err))
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var result *TransferResult
	err := e.retrier.Retry(ctx, func() error {
		tx, err := e.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		r, err := e.apply(ctx, tx, transfer)
		if err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		result = r
		return nil
	})
	if err != nil {
		err = classify(err)
		e.observer.TransferFailed(transfer.Origin, failureReason(err))
		return nil, err
	}

	e.Committed(ctx, result)
	return result, nil
}

// ExecuteInTx runs the transfer inside a transaction owned by the caller.
// The caller commits or rolls back and must call Committed after a
// successful commit.
func (e *TransferEngine) ExecuteInTx(ctx context.Context, tx Transaction, input ExecuteTransferInput) (*TransferResult, error) {
	transfer := input.toDomain()
	if err := transfer.Validate(); err != nil {
		return nil, err
	}

	result, err := e.apply(ctx, tx, transfer)
	if err != nil {
		return nil, classify(err)
	}

	return result, nil
}

// Committed runs post-commit side effects for a transfer.
func (e *TransferEngine) Committed(ctx context.Context, result *TransferResult) {
	if result == nil || result.Transaction == nil {
		return
	}

	txn := result.Transaction
	e.observer.TransferSucceeded(txn.Origin, txn.Amount)

	if e.cache == nil {
		return
	}

	for _, acc := range result.Accounts {
		err := e.cache.Set(ctx, acc.UserID, acc.Balance, acc.Version, e.cacheTTL)
		if err == nil {
			continue
		}
		log.Warn().Err(err).Str("transaction_id", txn.ID).Str("user_id", acc.UserID).Msg("failed to cache balance, invalidating")
		if err := e.cache.Invalidate(ctx, acc.UserID); err != nil {
			log.Warn().Err(err).Str("transaction_id", txn.ID).Str("user_id", acc.UserID).Msg("failed to invalidate balance cache")
		}
	}
}

// Failed reports a transfer that ran through ExecuteInTx but was never
// committed.
func (e *TransferEngine) Failed(origin domain.TransferOrigin, err error) {
	e.observer.TransferFailed(origin, failureReason(err))
}

func (e *TransferEngine) apply(ctx context.Context, tx Transaction, transfer *domain.Transfer) (*TransferResult, error) {
	// Lock both wallets in a fixed order so opposite transfers cannot deadlock.
	userIDs := []string{transfer.SenderID, transfer.ReceiverID}
	sort.Strings(userIDs)

	accounts, err := e.accountRepo.GetByUserIDsForUpdate(ctx, tx, userIDs)
	if err != nil {
		return nil, err
	}

	byUser := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byUser[a.UserID] = a
	}

	sender := byUser[transfer.SenderID]
	if sender == nil {
		return nil, domain.ErrInsufficientFunds
	}

	if err := sender.ValidateDebit(transfer.Amount); err != nil {
		return nil, err
	}

	receiver := byUser[transfer.ReceiverID]
	if receiver == nil {
		return nil, domain.ErrInvalidRecipient
	}

	users, err := e.userRepo.GetByIDsTx(ctx, tx, userIDs)
	if err != nil {
		return nil, err
	}

	var senderUser, receiverUser *domain.User
	for _, u := range users {
		switch u.ID {
		case transfer.SenderID:
			senderUser = u
		case transfer.ReceiverID:
			receiverUser = u
		}
	}

	if senderUser == nil || receiverUser == nil {
		return nil, domain.ErrInvalidSenderOrReceiver
	}

	now := e.clock()

	senderAfter := sender.Updated(sender.ApplyDebit(transfer.Amount), now)
	if err := e.accountRepo.UpdateBalance(ctx, tx, sender.ID, senderAfter.Balance, now); err != nil {
		return nil, err
	}

	receiverAfter := receiver.Updated(receiver.ApplyCredit(transfer.Amount), now)
	if err := e.accountRepo.UpdateBalance(ctx, tx, receiver.ID, receiverAfter.Balance, now); err != nil {
		return nil, err
	}

	txn := &domain.Transaction{
		ID:          e.idGen.Generate(),
		SenderID:    transfer.SenderID,
		ReceiverID:  transfer.ReceiverID,
		Amount:      transfer.Amount,
		Origin:      transfer.Origin,
		RecurringID: transfer.RecurringID,
		Timestamp:   now,
	}

	if err := e.transactionRepo.Create(ctx, tx, txn); err != nil {
		return nil, err
	}

	debitMsg, creditMsg := domain.TransferMessages(transfer.Origin, transfer.Amount, senderUser, receiverUser)

	debit := &domain.Notification{
		ID:            e.idGen.Generate(),
		UserID:        transfer.SenderID,
		Kind:          domain.NotificationDebit,
		Amount:        transfer.Amount,
		Message:       debitMsg,
		TransactionID: txn.ID,
		CreatedAt:     now,
	}

	credit := &domain.Notification{
		ID:            e.idGen.Generate(),
		UserID:        transfer.ReceiverID,
		Kind:          domain.NotificationCredit,
		Amount:        transfer.Amount,
		Message:       creditMsg,
		TransactionID: txn.ID,
		CreatedAt:     now,
	}

	if err := e.notificationRepo.Create(ctx, tx, debit); err != nil {
		return nil, err
	}

	if err := e.notificationRepo.Create(ctx, tx, credit); err != nil {
		return nil, err
	}

	if e.outboxRepo != nil {
		event := domain.NewTransferExecutedEvent(e.idGen.Generate(), txn, debitMsg, creditMsg)
		if err := e.outboxRepo.Create(ctx, tx, event); err != nil {
			return nil, err
		}
	}

	return &TransferResult{
		Transaction:          txn,
		SenderNotification:   debit,
		ReceiverNotification: credit,
		Accounts:             []*domain.Account{senderAfter, receiverAfter},
	}, nil
}

// classify keeps business errors and folds everything else into
// domain.ErrTransferFailed while preserving the cause.
func classify(err error) error {
	if domain.IsBusinessError(err) || errors.Is(err, domain.ErrTransferFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransferFailed, err)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return ReasonInsufficientFunds
	case errors.Is(err, domain.ErrInvalidRecipient):
		return ReasonInvalidRecipient
	case errors.Is(err, domain.ErrInvalidSenderOrReceiver):
		return ReasonInvalidParty
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrValidation):
		return ReasonValidation
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	default:
		return ReasonPersistence
	}
}

type noRetry struct{}

func (noRetry) Retry(_ context.Context, operation func() error) error {
	return operation()
}

type nopObserver struct{}

func (nopObserver) TransferSucceeded(domain.TransferOrigin, decimal.Decimal) {}
func (nopObserver) TransferFailed(domain.TransferOrigin, string) {}
func (nopObserver) TickCompleted(string, time.Duration) {}
func (nopObserver) RecurringExecuted(string) {}
