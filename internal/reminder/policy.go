package reminder

import (
	"fmt"
	"time"

	"faktura/internal/domain"
)

// ValidatePolicy rejects negative day counts and fees. It runs when a company's
// policy is saved; Evaluate does not repeat these checks.
func ValidatePolicy(p domain.ReminderPolicy) error {
	if p.DaysAfterDue < 0 {
		return domain.NewConfigurationError("reminder_policy.days_after_due", "must not be negative")
	}
	if p.DaysBetweenStages < 0 {
		return domain.NewConfigurationError("reminder_policy.days_between_stages", "must not be negative")
	}
	for stage := 1; stage <= domain.MaxReminderStage; stage++ {
		if p.Fee(stage).IsNegative() {
			return domain.NewConfigurationError(fmt.Sprintf("reminder_policy.fee_stage_%d", stage), "must not be negative")
		}
	}
	return nil
}

// Advance returns the state after a reminder of stage has been sent at now.
// The highest stage reached never moves backwards.
func Advance(state domain.ReminderState, stage int, now time.Time) (domain.ReminderState, error) {
	if stage < 1 || stage > domain.MaxReminderStage {
		return state, domain.NewValidationError("stage", "must be between 1 and %d", domain.MaxReminderStage)
	}
	sentAt := now
	state.LastReminderSentAt = &sentAt
	state.Status = domain.RemindedStatus(stage)
	state.MaxReminderStageReached = max(state.MaxReminderStageReached, stage)
	return state, nil
}

// MarkPaid returns the state after payment. The reminder history is kept.
func MarkPaid(state domain.ReminderState) domain.ReminderState {
	state.Status = domain.InvoiceStatusPaid
	return state
}
