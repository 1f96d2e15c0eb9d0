package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a recurring transfer repeats.
type Frequency string

const (
	FrequencyDaily   Frequency = "DAILY"
	FrequencyWeekly  Frequency = "WEEKLY"
	FrequencyMonthly Frequency = "MONTHLY"
)

// IsValid checks if the frequency is known.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Interval returns the fixed duration between executions. Months are
// always 30 days; there is no calendar or DST adjustment.
func (f Frequency) Interval() time.Duration {
	switch f {
	case FrequencyDaily:
		return 24 * time.Hour
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	}
	return 0
}

// RecurringStatus is the lifecycle state of a recurring transfer.
type RecurringStatus string

const (
	RecurringActive    RecurringStatus = "ACTIVE"
	RecurringPaused    RecurringStatus = "PAUSED"
	RecurringCompleted RecurringStatus = "COMPLETED"
	RecurringFailed    RecurringStatus = "FAILED"
)

// IsValid checks if the status is known.
func (s RecurringStatus) IsValid() bool {
	switch s {
	case RecurringActive, RecurringPaused, RecurringCompleted, RecurringFailed:
		return true
	}
	return false
}

// owner-driven transitions; FAILED and COMPLETED from ACTIVE are set by the scheduler.
var ownerTransitions = map[RecurringStatus][]RecurringStatus{
	RecurringActive: {RecurringPaused, RecurringCompleted},
	RecurringPaused: {RecurringActive, RecurringCompleted},
	RecurringFailed: {RecurringActive},
}

// RecurringTransfer is a standing instruction to repeat a transfer.
type RecurringTransfer struct {
	ID             string
	SenderID       string
	ReceiverID     string
	Amount         decimal.Decimal
	Frequency      Frequency
	StartDate      time.Time
	EndDate        *time.Time
	LastExecutedAt *time.Time
	Description    string
	Status         RecurringStatus
	FailureReason  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks a new definition.
func (r *RecurringTransfer) Validate() error {
	if r.SenderID == "" || r.ReceiverID == "" {
		return ErrInvalidSenderOrReceiver
	}

	if r.SenderID == r.ReceiverID {
		return ErrSameAccount
	}

	if r.Amount.LessThan(decimal.NewFromInt(MinRecurringAmount)) {
		return NewValidationError("amount", fmt.Sprintf("must be at least %d", MinRecurringAmount))
	}

	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}

	if !r.Frequency.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFrequency, r.Frequency)
	}

	if r.StartDate.IsZero() {
		return NewValidationError("startDate", "is required")
	}

	if r.EndDate != nil && !r.EndDate.After(r.StartDate) {
		return NewValidationError("endDate", "must be after startDate")
	}

	if len(strings.TrimSpace(r.Description)) > MaxDescriptionLength {
		return NewValidationError("description", fmt.Sprintf("must not exceed %d characters", MaxDescriptionLength))
	}

	return nil
}

// Decision is what a scheduler tick should do with a definition.
type Decision int

const (
	// DecisionSkip leaves the definition untouched.
	DecisionSkip Decision = iota
	// DecisionExecute runs the transfer.
	DecisionExecute
	// DecisionExpire completes the definition without running it.
	DecisionExpire
)

// Evaluate decides what a tick at now does with r.
//
// A definition that never ran is due once its start date has passed. One
// that already ran is due when a full interval has elapsed since the last
// run and its end date lies in the future; once the interval has elapsed
// past the end date it expires instead.
func (r *RecurringTransfer) Evaluate(now time.Time) Decision {
	if r.Status != RecurringActive || now.Before(r.StartDate) {
		return DecisionSkip
	}

	if r.LastExecutedAt == nil {
		return DecisionExecute
	}

	if now.Sub(*r.LastExecutedAt) < r.Frequency.Interval() {
		return DecisionSkip
	}

	if r.EndDate != nil && !r.EndDate.After(now) {
		return DecisionExpire
	}

	return DecisionExecute
}

// RecordExecution stores a successful run at now and completes the
// definition when its end date has been reached.
func (r *RecurringTransfer) RecordExecution(now time.Time) {
	executed := now
	r.LastExecutedAt = &executed
	r.FailureReason = ""
	r.UpdatedAt = now

	if r.EndDate != nil && !r.EndDate.After(now) {
		r.Status = RecurringCompleted
	}
}

// Expire completes a definition whose end date has passed.
func (r *RecurringTransfer) Expire(now time.Time) {
	r.Status = RecurringCompleted
	r.UpdatedAt = now
}

// MarkFailed disables the definition after an execution error.
func (r *RecurringTransfer) MarkFailed(reason string, now time.Time) {
	r.Status = RecurringFailed
	r.FailureReason = reason
	r.UpdatedAt = now
}

// TransitionTo applies an owner-requested status change.
func (r *RecurringTransfer) TransitionTo(next RecurringStatus, now time.Time) error {
	if !next.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidStatusTransition, next)
	}

	if next == r.Status {
		return nil
	}

	for _, allowed := range ownerTransitions[r.Status] {
		if allowed == next {
			r.Status = next
			if next == RecurringActive {
				r.FailureReason = ""
			}
			r.UpdatedAt = now
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, r.Status, next)
}

// CanDelete reports whether the owner may remove the definition.
func (r *RecurringTransfer) CanDelete() bool {
	return r.Status != RecurringCompleted
}
