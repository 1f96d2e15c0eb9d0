package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/gowallet/internal/domain"
)

// ErrTickInProgress is returned when another tick holds the scheduler.
var ErrTickInProgress = errors.New("scheduler tick already in progress")

// Per-definition outcomes of a tick.
const (
	OutcomeExecuted  = "executed"
	OutcomeCompleted = "completed"
	OutcomeExpired   = "expired"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
	OutcomeAborted   = "aborted"
)

const maxFailureReasonLength = 255

// TransferExecutor runs a transfer inside a caller-owned transaction.
type TransferExecutor interface {
	ExecuteInTx(ctx context.Context, tx Transaction, input ExecuteTransferInput) (*TransferResult, error)
	Committed(ctx context.Context, result *TransferResult)
	Failed(origin domain.TransferOrigin, err error)
}

// RecurringSchedulerConfig wires the recurring scheduler.
type RecurringSchedulerConfig struct {
	TxManager     TransactionManager
	RecurringRepo RecurringTransferRepository
	Executor      TransferExecutor

	// Optional.
	Lock      SchedulerLock
	Retrier   Retrier
	Observer  SchedulerObserver
	Logger    *zerolog.Logger
	BatchSize int
	LockTTL   time.Duration
	Timeout   time.Duration
	Clock     func() time.Time
}

// RecurringScheduler executes due recurring transfers. Each definition is
// handled in its own database transaction so one failure never affects the
// others.
type RecurringScheduler struct {
	txManager     TransactionManager
	recurringRepo RecurringTransferRepository
	executor      TransferExecutor
	lock          SchedulerLock
	retrier       Retrier
	observer      SchedulerObserver
	logger        zerolog.Logger
	batchSize     int
	lockTTL       time.Duration
	timeout       time.Duration
	clock         func() time.Time

	running sync.Mutex
}

// NewRecurringScheduler creates a new RecurringScheduler.
func NewRecurringScheduler(cfg RecurringSchedulerConfig) *RecurringScheduler {
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}
	if cfg.Observer == nil {
		cfg.Observer = nopObserver{}
	}
	if cfg.Logger == nil {
		cfg.Logger = &log.Logger
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultSchedulerBatchSize
	}
	if cfg.LockTTL == 0 {
		cfg.LockTTL = DefaultSchedulerLockTTL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTransactionTimeout
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &RecurringScheduler{
		txManager:     cfg.TxManager,
		recurringRepo: cfg.RecurringRepo,
		executor:      cfg.Executor,
		lock:          cfg.Lock,
		retrier:       cfg.Retrier,
		observer:      cfg.Observer,
		logger:        cfg.Logger.With().Str("component", "recurring_scheduler").Logger(),
		batchSize:     cfg.BatchSize,
		lockTTL:       cfg.LockTTL,
		timeout:       cfg.Timeout,
		clock:         cfg.Clock,
	}
}

// TickSummary counts what one tick did.
type TickSummary struct {
	Candidates int
	Executed   int
	Completed  int
	Expired    int
	Failed     int
	Skipped    int
	Aborted    int
}

func (s *TickSummary) record(outcome string) {
	switch outcome {
	case OutcomeExecuted:
		s.Executed++
	case OutcomeCompleted:
		s.Completed++
	case OutcomeExpired:
		s.Expired++
	case OutcomeFailed:
		s.Failed++
	case OutcomeAborted:
		s.Aborted++
	default:
		s.Skipped++
	}
}

// Name identifies the job in logs.
func (s *RecurringScheduler) Name() string {
	return "recurring-transfers"
}

// Run is RunOnce without the summary, for periodic runners.
func (s *RecurringScheduler) Run(ctx context.Context) error {
	_, err := s.RunOnce(ctx)
	if errors.Is(err, ErrTickInProgress) {
		return nil
	}
	return err
}

// RunOnce performs a single tick. Overlapping ticks, in this process or in
// another one sharing the lock, return ErrTickInProgress without touching
// any definition.
func (s *RecurringScheduler) RunOnce(ctx context.Context) (TickSummary, error) {
	var summary TickSummary
	start := time.Now()

	if !s.running.TryLock() {
		s.logger.Warn().Msg("previous tick still running, skipping")
		s.observer.TickCompleted("overlap", time.Since(start))
		return summary, ErrTickInProgress
	}
	defer s.running.Unlock()

	if s.lock != nil {
		release, ok, err := s.lock.Acquire(ctx, s.lockTTL)
		if err != nil {
			s.observer.TickCompleted("error", time.Since(start))
			return summary, fmt.Errorf("acquire scheduler lock: %w", err)
		}
		if !ok {
			s.logger.Info().Msg("scheduler lock held elsewhere, skipping tick")
			s.observer.TickCompleted("locked", time.Since(start))
			return summary, ErrTickInProgress
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn().Err(err).Msg("failed to release scheduler lock")
			}
		}()
	}

	now := s.clock()

	candidates, err := s.recurringRepo.ListCandidates(ctx, now, s.batchSize)
	if err != nil {
		s.observer.TickCompleted("error", time.Since(start))
		return summary, fmt.Errorf("list due recurring transfers: %w", err)
	}

	summary.Candidates = len(candidates)

	for i, candidate := range candidates {
		if ctx.Err() != nil {
			summary.Aborted += len(candidates) - i
			break
		}

		outcome := s.process(ctx, candidate.ID, now)
		summary.record(outcome)
		s.observer.RecurringExecuted(outcome)
	}

	s.observer.TickCompleted("ok", time.Since(start))
	s.logger.Info().
		Int("candidates", summary.Candidates).
		Int("executed", summary.Executed).
		Int("completed", summary.Completed).
		Int("expired", summary.Expired).
		Int("failed", summary.Failed).
		Dur("duration", time.Since(start)).
		Msg("recurring tick finished")

	return summary, nil
}

// process handles one definition: lock it, re-check it is still due, run
// the transfer and persist the new state, all in one transaction.
func (s *RecurringScheduler) process(parent context.Context, id string, now time.Time) string {
	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	var (
		outcome   string
		def       *domain.RecurringTransfer
		result    *TransferResult
		attempted bool
	)

	err := s.retrier.Retry(ctx, func() error {
		outcome, def, result, attempted = OutcomeSkipped, nil, nil, false

		tx, err := s.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		def, err = s.recurringRepo.GetByIDForUpdate(ctx, tx, id)
		if errors.Is(err, domain.ErrRecurringNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		switch def.Evaluate(now) {
		case domain.DecisionSkip:
			return nil
		case domain.DecisionExpire:
			def.Expire(now)
			outcome = OutcomeExpired
		case domain.DecisionExecute:
			attempted = true
			recurringID := def.ID
			result, err = s.executor.ExecuteInTx(ctx, tx, ExecuteTransferInput{
				SenderID:    def.SenderID,
				ReceiverID:  def.ReceiverID,
				Amount:      def.Amount,
				Origin:      domain.OriginScheduled,
				RecurringID: &recurringID,
			})
			if err != nil {
				return err
			}

			def.RecordExecution(now)
			outcome = OutcomeExecuted
			if def.Status == domain.RecurringCompleted {
				outcome = OutcomeCompleted
			}
		}

		if err := s.recurringRepo.Update(ctx, tx, def); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
	if err == nil {
		if result != nil {
			s.executor.Committed(parent, result)
		}
		return outcome
	}

	if attempted {
		s.executor.Failed(domain.OriginScheduled, err)
	}

	if parent.Err() != nil {
		s.logger.Warn().Err(err).Str("definition_id", id).Msg("tick cancelled before definition finished")
		return OutcomeAborted
	}

	logEvent := s.logger.Error().Err(err).Str("definition_id", id)
	if def != nil {
		logEvent = logEvent.
			Str("sender_id", def.SenderID).
			Str("receiver_id", def.ReceiverID).
			Str("amount", def.Amount.String())
	}
	logEvent.Msg("recurring transfer failed")

	reason := err.Error()
	if len(reason) > maxFailureReasonLength {
		reason = reason[:maxFailureReasonLength]
	}

	if err := s.recurringRepo.MarkFailed(parent, id, reason, now); err != nil {
		s.logger.Error().Err(err).Str("definition_id", id).Msg("failed to mark recurring transfer as failed")
	}

	return OutcomeFailed
}
