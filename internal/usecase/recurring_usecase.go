package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gowallet/internal/domain"
)

// RecurringUseCase manages recurring transfer definitions on behalf of
// their owner (the sender).
type RecurringUseCase struct {
	recurringRepo RecurringTransferRepository
	userRepo      UserRepository
	idGen         IDGenerator
	clock         func() time.Time
}

// NewRecurringUseCase creates a new RecurringUseCase.
func NewRecurringUseCase(recurringRepo RecurringTransferRepository, userRepo UserRepository, idGen IDGenerator) *RecurringUseCase {
	return &RecurringUseCase{
		recurringRepo: recurringRepo,
		userRepo:      userRepo,
		idGen:         idGen,
		clock:         func() time.Time { return time.Now().UTC() },
	}
}

// CreateRecurringInput represents input for creating a recurring transfer.
type CreateRecurringInput struct {
	SenderID    string
	ReceiverID  string
	Amount      decimal.Decimal
	Frequency   domain.Frequency
	StartDate   time.Time
	EndDate     *time.Time
	Description string
}

// Create stores a new ACTIVE definition. Nothing is executed here; the
// first run happens on the first scheduler tick after StartDate.
func (uc *RecurringUseCase) Create(ctx context.Context, input CreateRecurringInput) (*domain.RecurringTransfer, error) {
	now := uc.clock()

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = now
	}

	rt := &domain.RecurringTransfer{
		ID:          uc.idGen.Generate(),
		SenderID:    input.SenderID,
		ReceiverID:  input.ReceiverID,
		Amount:      input.Amount,
		Frequency:   domain.Frequency(strings.ToUpper(string(input.Frequency))),
		StartDate:   startDate.UTC(),
		EndDate:     input.EndDate,
		Description: strings.TrimSpace(input.Description),
		Status:      domain.RecurringActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := rt.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, input.ReceiverID); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidRecipient
		}
		return nil, err
	}

	if err := uc.recurringRepo.Create(ctx, rt); err != nil {
		return nil, err
	}

	return rt, nil
}

// List returns the definitions the user sends or receives, newest first.
func (uc *RecurringUseCase) List(ctx context.Context, userID string) ([]*domain.RecurringTransfer, error) {
	return uc.recurringRepo.ListByUser(ctx, userID)
}

// UpdateStatusInput represents an owner-requested status change.
type UpdateStatusInput struct {
	ID     string
	UserID string
	Status domain.RecurringStatus
}

// UpdateStatus pauses, resumes or completes a definition owned by the user.
func (uc *RecurringUseCase) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*domain.RecurringTransfer, error) {
	rt, err := uc.recurringRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if rt.SenderID != input.UserID {
		return nil, domain.ErrRecurringNotFound
	}

	previous := rt.Status
	if err := rt.TransitionTo(domain.RecurringStatus(strings.ToUpper(string(input.Status))), uc.clock()); err != nil {
		return nil, err
	}

	if rt.Status == previous {
		return rt, nil
	}

	if err := uc.recurringRepo.UpdateStatus(ctx, rt, previous); err != nil {
		return nil, err
	}

	return rt, nil
}

// Delete removes a definition owned by the user. COMPLETED definitions are
// kept as history and cannot be deleted; both cases read as not found. The
// repository re-checks ownership and status in the DELETE itself.
func (uc *RecurringUseCase) Delete(ctx context.Context, id, userID string) error {
	rt, err := uc.recurringRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if rt.SenderID != userID || !rt.CanDelete() {
		return domain.ErrRecurringNotFound
	}

	return uc.recurringRepo.Delete(ctx, id, userID)
}
