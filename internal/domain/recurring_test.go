package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func ptrTime(t time.Time) *time.Time {
	return &t
}

func newDefinition(now time.Time) *RecurringTransfer {
	return &RecurringTransfer{
		ID:         "rt-1",
		SenderID:   "alice",
		ReceiverID: "bob",
		Amount:     decimal.NewFromInt(50),
		Frequency:  FrequencyDaily,
		StartDate:  now.Add(-72 * time.Hour),
		Status:     RecurringActive,
	}
}

func TestFrequency_Interval(t *testing.T) {
	if FrequencyDaily.Interval() != 24*time.Hour {
		t.Errorf("daily interval should be 24h")
	}
	if FrequencyWeekly.Interval() != 7*24*time.Hour {
		t.Errorf("weekly interval should be 7 days")
	}
	if FrequencyMonthly.Interval() != 30*24*time.Hour {
		t.Errorf("monthly interval should be 30 days")
	}
	if Frequency("YEARLY").IsValid() {
		t.Errorf("unknown frequency should be invalid")
	}
}

func TestRecurringTransfer_Evaluate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(r *RecurringTransfer)
		want   Decision
	}{
		{
			name:   "never executed is due",
			mutate: func(r *RecurringTransfer) {},
			want:   DecisionExecute,
		},
		{
			name:   "daily executed 23h ago is not due",
			mutate: func(r *RecurringTransfer) { r.LastExecutedAt = ptrTime(now.Add(-23 * time.Hour)) },
			want:   DecisionSkip,
		},
		{
			name:   "daily executed 25h ago is due",
			mutate: func(r *RecurringTransfer) { r.LastExecutedAt = ptrTime(now.Add(-25 * time.Hour)) },
			want:   DecisionExecute,
		},
		{
			name:   "daily executed exactly 24h ago is due",
			mutate: func(r *RecurringTransfer) { r.LastExecutedAt = ptrTime(now.Add(-24 * time.Hour)) },
			want:   DecisionExecute,
		},
		{
			name: "weekly executed 6 days ago is not due",
			mutate: func(r *RecurringTransfer) {
				r.Frequency = FrequencyWeekly
				r.LastExecutedAt = ptrTime(now.Add(-6 * 24 * time.Hour))
			},
			want: DecisionSkip,
		},
		{
			name: "monthly uses thirty days",
			mutate: func(r *RecurringTransfer) {
				r.Frequency = FrequencyMonthly
				r.LastExecutedAt = ptrTime(now.Add(-30 * 24 * time.Hour))
			},
			want: DecisionExecute,
		},
		{
			name:   "paused is skipped",
			mutate: func(r *RecurringTransfer) { r.Status = RecurringPaused },
			want:   DecisionSkip,
		},
		{
			name:   "failed is skipped",
			mutate: func(r *RecurringTransfer) { r.Status = RecurringFailed },
			want:   DecisionSkip,
		},
		{
			name:   "not started yet",
			mutate: func(r *RecurringTransfer) { r.StartDate = now.Add(time.Hour) },
			want:   DecisionSkip,
		},
		{
			name: "elapsed past end date expires",
			mutate: func(r *RecurringTransfer) {
				r.LastExecutedAt = ptrTime(now.Add(-48 * time.Hour))
				r.EndDate = ptrTime(now.Add(-time.Hour))
			},
			want: DecisionExpire,
		},
		{
			name: "end date in the future keeps executing",
			mutate: func(r *RecurringTransfer) {
				r.LastExecutedAt = ptrTime(now.Add(-48 * time.Hour))
				r.EndDate = ptrTime(now.Add(time.Hour))
			},
			want: DecisionExecute,
		},
		{
			name:   "never executed with past end date still runs once",
			mutate: func(r *RecurringTransfer) { r.EndDate = ptrTime(now.Add(-time.Hour)) },
			want:   DecisionExecute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newDefinition(now)
			tt.mutate(r)

			if got := r.Evaluate(now); got != tt.want {
				t.Fatalf("expected decision %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRecurringTransfer_RecordExecution(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("stays active before end date", func(t *testing.T) {
		r := newDefinition(now)
		r.EndDate = ptrTime(now.Add(48 * time.Hour))

		r.RecordExecution(now)

		if r.Status != RecurringActive {
			t.Fatalf("expected ACTIVE, got %s", r.Status)
		}
		if r.LastExecutedAt == nil || !r.LastExecutedAt.Equal(now) {
			t.Fatalf("expected lastExecutedAt to be set to now")
		}
	})

	t.Run("completes when end date reached", func(t *testing.T) {
		r := newDefinition(now)
		r.EndDate = ptrTime(now)

		if r.Status != RecurringActive {
			t.Fatalf("must not complete before execution")
		}

		r.RecordExecution(now)

		if r.Status != RecurringCompleted {
			t.Fatalf("expected COMPLETED, got %s", r.Status)
		}
	})
}

func TestRecurringTransfer_MarkFailed(t *testing.T) {
	now := time.Now()
	r := newDefinition(now)

	r.MarkFailed(ErrInsufficientFunds.Error(), now)

	if r.Status != RecurringFailed || r.FailureReason == "" {
		t.Fatalf("expected FAILED with reason, got %s %q", r.Status, r.FailureReason)
	}
	if r.Evaluate(now.Add(48*time.Hour)) != DecisionSkip {
		t.Fatalf("failed definitions must never be picked up again")
	}
}

func TestRecurringTransfer_TransitionTo(t *testing.T) {
	now := time.Now()

	tests := []struct {
		from    RecurringStatus
		to      RecurringStatus
		wantErr bool
	}{
		{from: RecurringActive, to: RecurringPaused},
		{from: RecurringPaused, to: RecurringActive},
		{from: RecurringActive, to: RecurringCompleted},
		{from: RecurringPaused, to: RecurringCompleted},
		{from: RecurringFailed, to: RecurringActive},
		{from: RecurringActive, to: RecurringActive},
		{from: RecurringCompleted, to: RecurringActive, wantErr: true},
		{from: RecurringActive, to: RecurringFailed, wantErr: true},
		{from: RecurringPaused, to: RecurringStatus("ARCHIVED"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			r := newDefinition(now)
			r.Status = tt.from

			err := r.TransitionTo(tt.to, now)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidStatusTransition) {
					t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
				}
				if r.Status != tt.from {
					t.Fatalf("status must not change on rejected transition")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Status != tt.to {
				t.Fatalf("expected %s, got %s", tt.to, r.Status)
			}
		})
	}
}

func TestRecurringTransfer_CanDelete(t *testing.T) {
	for _, status := range []RecurringStatus{RecurringActive, RecurringPaused, RecurringFailed} {
		r := &RecurringTransfer{Status: status}
		if !r.CanDelete() {
			t.Errorf("%s should be deletable", status)
		}
	}

	if (&RecurringTransfer{Status: RecurringCompleted}).CanDelete() {
		t.Errorf("COMPLETED must not be deletable")
	}
}

func TestRecurringTransfer_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		mutate  func(r *RecurringTransfer)
		wantErr error
	}{
		{name: "valid", mutate: func(r *RecurringTransfer) {}},
		{name: "amount below one", mutate: func(r *RecurringTransfer) { r.Amount = decimal.RequireFromString("0.5") }, wantErr: ErrValidation},
		{name: "bad frequency", mutate: func(r *RecurringTransfer) { r.Frequency = "HOURLY" }, wantErr: ErrInvalidFrequency},
		{name: "self transfer", mutate: func(r *RecurringTransfer) { r.ReceiverID = r.SenderID }, wantErr: ErrSameAccount},
		{name: "end before start", mutate: func(r *RecurringTransfer) { r.EndDate = ptrTime(r.StartDate.Add(-time.Hour)) }, wantErr: ErrValidation},
		{name: "long description", mutate: func(r *RecurringTransfer) { r.Description = strings.Repeat("x", MaxDescriptionLength+1) }, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newDefinition(now)
			tt.mutate(r)

			err := r.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
