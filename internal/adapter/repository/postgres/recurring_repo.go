package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/postgres/generated"
	"github.com/iho/gowallet/internal/usecase"
)

// RecurringTransferRepository implements usecase.RecurringTransferRepository.
type RecurringTransferRepository struct {
	queries *generated.Queries
}

// NewRecurringTransferRepository creates a new RecurringTransferRepository.
func NewRecurringTransferRepository(pool Pool) *RecurringTransferRepository {
	return &RecurringTransferRepository{
		queries: generated.New(pool),
	}
}

// Create stores a new definition.
func (r *RecurringTransferRepository) Create(ctx context.Context, rt *domain.RecurringTransfer) error {
	return r.queries.CreateRecurringTransfer(ctx, generated.CreateRecurringTransferParams{
		ID:             rt.ID,
		SenderID:       rt.SenderID,
		ReceiverID:     rt.ReceiverID,
		Amount:         decimalToNumeric(rt.Amount),
		Frequency:      string(rt.Frequency),
		StartDate:      timeToPgTimestamptz(rt.StartDate),
		EndDate:        optionalTimestamptz(rt.EndDate),
		LastExecutedAt: optionalTimestamptz(rt.LastExecutedAt),
		Description:    rt.Description,
		Status:         string(rt.Status),
		FailureReason:  rt.FailureReason,
		CreatedAt:      timeToPgTimestamptz(rt.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(rt.UpdatedAt),
	})
}

// GetByID retrieves a definition.
func (r *RecurringTransferRepository) GetByID(ctx context.Context, id string) (*domain.RecurringTransfer, error) {
	row, err := r.queries.GetRecurringTransfer(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}

	return rowToRecurring(row), nil
}

// GetByIDForUpdate locks a definition for the rest of tx.
func (r *RecurringTransferRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.RecurringTransfer, error) {
	row, err := queriesFor(tx).GetRecurringTransferForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecurringNotFound
		}
		return nil, err
	}

	return rowToRecurring(row), nil
}

// ListByUser returns definitions the user sends or receives, newest first.
func (r *RecurringTransferRepository) ListByUser(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error) {
	rows, err := r.queries.ListRecurringTransfersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return rowsToRecurring(rows), nil
}

// ListCandidates returns ACTIVE definitions that have started and whose
// interval has elapsed or that never ran.
func (r *RecurringTransferRepository) ListCandidates(ctx context.Context, now time.Time, limit int) ([]*domain.RecurringTransfer, error) {
	rows, err := r.queries.ListDueRecurringTransfers(ctx, generated.ListDueRecurringTransfersParams{
		Now:   timeToPgTimestamptz(now),
		Limit: int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToRecurring(rows), nil
}

// Update stores the outcome of an execution inside tx.
func (r *RecurringTransferRepository) Update(ctx context.Context, tx usecase.Transaction, rt *domain.RecurringTransfer) error {
	n, err := queriesFor(tx).UpdateRecurringTransferExecution(ctx, generated.UpdateRecurringTransferExecutionParams{
		ID:             rt.ID,
		LastExecutedAt: optionalTimestamptz(rt.LastExecutedAt),
		Status:         string(rt.Status),
		FailureReason:  rt.FailureReason,
		UpdatedAt:      timeToPgTimestamptz(rt.UpdatedAt),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrRecurringNotFound
	}

	return nil
}

// UpdateStatus stores an owner status change if nobody changed the status
// since it was read.
func (r *RecurringTransferRepository) UpdateStatus(ctx context.Context, rt *domain.RecurringTransfer, expected domain.RecurringStatus) error {
	n, err := r.queries.UpdateRecurringTransferStatus(ctx, generated.UpdateRecurringTransferStatusParams{
		ID:             rt.ID,
		Status:         string(rt.Status),
		FailureReason:  rt.FailureReason,
		UpdatedAt:      timeToPgTimestamptz(rt.UpdatedAt),
		ExpectedStatus: string(expected),
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return fmt.Errorf("%w: status is no longer %s", domain.ErrInvalidStatusTransition, expected)
	}

	return nil
}

// MarkFailed moves an ACTIVE definition to FAILED.
func (r *RecurringTransferRepository) MarkFailed(ctx context.Context, id, reason string, at time.Time) error {
	return r.queries.MarkRecurringTransferFailed(ctx, generated.MarkRecurringTransferFailedParams{
		ID:            id,
		FailureReason: reason,
		UpdatedAt:     timeToPgTimestamptz(at),
	})
}

// Delete removes a definition owned by senderID unless it is COMPLETED.
func (r *RecurringTransferRepository) Delete(ctx context.Context, id, senderID string) error {
	n, err := r.queries.DeleteRecurringTransfer(ctx, generated.DeleteRecurringTransferParams{
		ID:       id,
		SenderID: senderID,
	})
	if err != nil {
		return err
	}

	if n == 0 {
		return domain.ErrRecurringNotFound
	}

	return nil
}

func rowsToRecurring(rows []generated.RecurringTransfer) []*domain.RecurringTransfer {
	result := make([]*domain.RecurringTransfer, 0, len(rows))
	for _, row := range rows {
		result = append(result, rowToRecurring(row))
	}
	return result
}

func rowToRecurring(row generated.RecurringTransfer) *domain.RecurringTransfer {
	return &domain.RecurringTransfer{
		ID:             row.ID,
		SenderID:       row.SenderID,
		ReceiverID:     row.ReceiverID,
		Amount:         numericToDecimal(row.Amount),
		Frequency:      domain.Frequency(row.Frequency),
		StartDate:      row.StartDate.Time.UTC(),
		EndDate:        timestamptzPtr(row.EndDate),
		LastExecutedAt: timestamptzPtr(row.LastExecutedAt),
		Description:    row.Description,
		Status:         domain.RecurringStatus(row.Status),
		FailureReason:  row.FailureReason,
		CreatedAt:      row.CreatedAt.Time,
		UpdatedAt:      row.UpdatedAt.Time,
	}
}
