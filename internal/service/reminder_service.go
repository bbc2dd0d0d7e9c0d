package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/reminder"
)

// ReminderService defines the dunning contract.
type ReminderService interface {
	Eligibility(ctx context.Context, invoiceID uuid.UUID, today time.Time) (*domain.ReminderEligibility, error)
	ListDue(ctx context.Context, companyID uuid.UUID, today time.Time) ([]domain.DueReminder, error)
	Send(ctx context.Context, invoiceID uuid.UUID, now time.Time) (*domain.Reminder, error)
	History(ctx context.Context, invoiceID uuid.UUID) ([]domain.Reminder, error)
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
}

type reminderService struct {
	invoiceRepo port.InvoiceRepository
	companyRepo port.CompanyRepository
	notifier    port.ReminderNotifier
	logger      *zap.Logger
}

// NewReminderService creates a new ReminderService implementation.
func NewReminderService(
	invoiceRepo port.InvoiceRepository,
	companyRepo port.CompanyRepository,
	notifier port.ReminderNotifier,
	logger *zap.Logger,
) ReminderService {
	return &reminderService{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *reminderService) Eligibility(ctx context.Context, invoiceID uuid.UUID, today time.Time) (*domain.ReminderEligibility, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return nil, err
	}
	res := reminder.Evaluate(inv.ReminderState(), company.ReminderPolicy, today)
	return &res, nil
}

func (s *reminderService) ListDue(ctx context.Context, companyID uuid.UUID, today time.Time) ([]domain.DueReminder, error) {
	company, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if !company.ReminderPolicy.Enabled {
		return []domain.DueReminder{}, nil
	}

	invoices, err := s.invoiceRepo.ListOpenByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("listing open invoices: %w", err)
	}

	due := lo.FilterMap(invoices, func(inv domain.Invoice, _ int) (domain.DueReminder, bool) {
		res := reminder.Evaluate(inv.ReminderState(), company.ReminderPolicy, today)
		if !res.IsEligible {
			return domain.DueReminder{}, false
		}
		return domain.DueReminder{
			ReminderEligibility: res,
			InvoiceNumber:       inv.Number,
			CustomerName:        inv.CustomerName,
			CustomerEmail:       inv.CustomerEmail,
			DueDate:             inv.DueDate,
			Total:               inv.Total,
		}, true
	})
	return due, nil
}

// MarkOverdue moves sent invoices whose due date lies before today to overdue
// and returns how many changed.
func (s *reminderService) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	n, err := s.invoiceRepo.MarkOverdue(ctx, today.UTC())
	if err != nil {
		return 0, fmt.Errorf("marking overdue invoices: %w", err)
	}
	if n > 0 {
		s.logger.Info("invoices marked overdue", zap.Int("count", n))
	}
	return n, nil
}

// Send issues the next reminder for the invoice when it is eligible at now.
// The reminder is recorded before the notice goes out; a failed notice is
// logged and does not undo the recorded stage. The amount due in the notice
// carries the fees of all earlier stages.
func (s *reminderService) Send(ctx context.Context, invoiceID uuid.UUID, now time.Time) (*domain.Reminder, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	company, err := s.companyRepo.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return nil, err
	}

	res := reminder.Evaluate(inv.ReminderState(), company.ReminderPolicy, now)
	if !res.IsEligible {
		return nil, fmt.Errorf("%w: %s", domain.ErrReminderNotEligible, res.Reason)
	}

	history, err := s.invoiceRepo.ListReminders(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("listing reminders: %w", err)
	}
	priorFees := lo.Reduce(history, func(sum decimal.Decimal, r domain.Reminder, _ int) decimal.Decimal {
		return sum.Add(r.Fee)
	}, decimal.Zero)

	sentAt := now.UTC()
	next, err := reminder.Advance(inv.ReminderState(), res.NextStage, sentAt)
	if err != nil {
		return nil, err
	}
	inv.ApplyReminderState(next)

	rem := &domain.Reminder{
		ID:        uuid.New(),
		InvoiceID: inv.ID,
		CompanyID: inv.CompanyID,
		Stage:     res.NextStage,
		Fee:       res.Fee,
		SentAt:    sentAt,
	}
	if err := s.invoiceRepo.RecordReminder(ctx, inv, rem); err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			return nil, err
		}
		return nil, fmt.Errorf("recording reminder: %w", err)
	}

	notice := port.PaymentReminderNotice{
		CompanyName:   company.Name,
		ReplyTo:       company.Email,
		ToEmail:       inv.CustomerEmail,
		ToName:        inv.CustomerName,
		InvoiceNumber: inv.Number,
		Stage:         rem.Stage,
		Fee:           rem.Fee,
		AmountDue:     inv.Total.Add(priorFees).Add(rem.Fee),
		DueDate:       inv.DueDate,
	}
	if inv.CustomerEmail == "" {
		s.logger.Warn("reminder recorded without notice, customer has no email",
			zap.String("invoice_id", inv.ID.String()), zap.Int("stage", rem.Stage))
	} else if err := s.notifier.SendPaymentReminder(ctx, notice); err != nil {
		s.logger.Error("sending payment reminder failed",
			zap.String("invoice_id", inv.ID.String()),
			zap.Int("stage", rem.Stage),
			zap.Error(err))
	}

	s.logger.Info("payment reminder issued",
		zap.String("invoice_id", inv.ID.String()),
		zap.Int("stage", rem.Stage),
		zap.String("fee", rem.Fee.StringFixed(2)))
	return rem, nil
}

func (s *reminderService) History(ctx context.Context, invoiceID uuid.UUID) ([]domain.Reminder, error) {
	if _, err := s.invoiceRepo.GetByID(ctx, invoiceID); err != nil {
		return nil, err
	}
	return s.invoiceRepo.ListReminders(ctx, invoiceID)
}
