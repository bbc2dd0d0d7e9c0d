// Package reminder decides when a payment reminder may be issued for an overdue
// invoice and at which dunning stage. Everything here is pure: callers persist the
// resulting state themselves.
package reminder

import (
	"time"

	"faktura/internal/domain"
)

// Evaluate returns the next reminder stage for state and whether it may be issued on
// today. The policy is assumed to have passed ValidatePolicy.
func Evaluate(state domain.ReminderState, policy domain.ReminderPolicy, today time.Time) domain.ReminderEligibility {
	nextStage := min(state.MaxReminderStageReached+1, domain.MaxReminderStage)
	res := domain.ReminderEligibility{
		InvoiceID:    state.InvoiceID,
		NextStage:    nextStage,
		DaysSinceDue: DaysBetween(state.DueDate, today),
		Fee:          policy.Fee(nextStage),
	}
	if state.LastReminderSentAt != nil {
		d := DaysBetween(*state.LastReminderSentAt, today)
		res.DaysSinceLastReminder = &d
	}

	switch {
	case !policy.Enabled:
		res.Reason = domain.EligibilityReasonPolicyDisabled
		return res
	case !Remindable(state.Status):
		res.Reason = domain.EligibilityReasonStatus
		return res
	case state.MaxReminderStageReached >= domain.MaxReminderStage:
		res.Reason = domain.EligibilityReasonFinalStageReached
		return res
	}

	var nextEligible time.Time
	var met bool
	if state.LastReminderSentAt != nil {
		nextEligible = civilDate(*state.LastReminderSentAt).AddDate(0, 0, policy.DaysBetweenStages)
		met = *res.DaysSinceLastReminder >= policy.DaysBetweenStages
	} else {
		nextEligible = civilDate(state.DueDate).AddDate(0, 0, policy.DaysAfterDue)
		met = res.DaysSinceDue >= policy.DaysAfterDue
	}

	if res.DaysSinceDue < 0 {
		res.Reason = domain.EligibilityReasonNotDue
		res.NextEligibleDate = &nextEligible
		return res
	}
	if !met {
		res.Reason = domain.EligibilityReasonTooEarly
		res.NextEligibleDate = &nextEligible
		return res
	}

	res.IsEligible = true
	res.Reason = domain.EligibilityReasonEligible
	return res
}

// Remindable reports whether an invoice in status may receive reminders at all.
func Remindable(status domain.InvoiceStatus) bool {
	return status.IsOpen()
}

// DaysBetween returns the number of calendar days from from to to, ignoring the time of day.
// Both instants are counted on the UTC calendar, whatever location they carry.
func DaysBetween(from, to time.Time) int {
	return int(civilDate(to).Sub(civilDate(from)).Hours() / 24)
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
