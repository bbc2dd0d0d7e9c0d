package noop

import (
	"context"

	"go.uber.org/zap"

	"faktura/internal/email"
	"faktura/internal/port"
)

type noopSender struct {
	logger *zap.Logger
}

// NewNoopSender creates a ReminderNotifier that only logs the reminders it would send.
func NewNoopSender(logger *zap.Logger) port.ReminderNotifier {
	return &noopSender{logger: logger}
}

func (s *noopSender) SendPaymentReminder(_ context.Context, notice port.PaymentReminderNotice) error {
	msg := email.BuildReminder(notice)
	s.logger.Info("[NOOP EMAIL] payment reminder",
		zap.String("to", notice.ToEmail),
		zap.String("subject", msg.Subject),
		zap.Int("stage", notice.Stage),
		zap.String("amount_due", email.FormatEUR(notice.AmountDue)))
	return nil
}
