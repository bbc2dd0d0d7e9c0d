package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/port"
)

// ReminderWorkerConfig holds settings for the reminder worker.
type ReminderWorkerConfig struct {
	PollInterval time.Duration
	Concurrency  int
}

// ReminderWorker periodically issues every due reminder of every company that
// has reminders enabled.
type ReminderWorker struct {
	companyRepo port.CompanyRepository
	reminderSvc ReminderService
	cfg         ReminderWorkerConfig
	logger      *zap.Logger
	now         func() time.Time
}

// NewReminderWorker creates a new ReminderWorker.
func NewReminderWorker(companyRepo port.CompanyRepository, reminderSvc ReminderService, cfg ReminderWorkerConfig, logger *zap.Logger) *ReminderWorker {
	return &ReminderWorker{
		companyRepo: companyRepo,
		reminderSvc: reminderSvc,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
	}
}

// Start runs the polling loop until ctx is canceled. A run that is in flight
// when ctx is canceled finishes its pending sends before Start returns.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started",
		zap.Duration("poll_interval", w.cfg.PollInterval),
		zap.Int("concurrency", w.cfg.Concurrency))

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce moves past-due sent invoices to overdue, then sends all reminders that
// are due now and returns how many were issued.
func (w *ReminderWorker) RunOnce(ctx context.Context) int {
	now := w.now().UTC()
	if _, err := w.reminderSvc.MarkOverdue(ctx, now); err != nil && ctx.Err() == nil {
		w.logger.Error("marking overdue invoices failed", zap.Error(err))
	}

	companies, err := w.companyRepo.ListReminderEnabled(ctx)
	if err != nil {
		if ctx.Err() == nil {
			w.logger.Error("listing reminder-enabled companies failed", zap.Error(err))
		}
		return 0
	}

	var sent atomic.Int64
	p := pool.New().WithMaxGoroutines(w.cfg.Concurrency)

	for i := range companies {
		company := companies[i]
		due, err := w.reminderSvc.ListDue(ctx, company.ID, now)
		if err != nil {
			w.logger.Error("listing due reminders failed",
				zap.String("company_id", company.ID.String()), zap.Error(err))
			continue
		}

		for j := range due {
			invoiceID := due[j].InvoiceID
			p.Go(func() {
				// Detached from the poll context so a send is not cut off halfway on shutdown.
				sendCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
				defer cancel()

				_, err := w.reminderSvc.Send(sendCtx, invoiceID, now)
				switch {
				case err == nil:
					sent.Add(1)
				case errors.Is(err, domain.ErrConcurrentUpdate), errors.Is(err, domain.ErrReminderNotEligible):
					w.logger.Debug("reminder skipped",
						zap.String("invoice_id", invoiceID.String()), zap.Error(err))
				default:
					w.logger.Error("sending reminder failed",
						zap.String("invoice_id", invoiceID.String()), zap.Error(err))
				}
			})
		}
	}
	p.Wait()

	n := int(sent.Load())
	if n > 0 {
		w.logger.Info("reminder run complete", zap.Int("sent", n), zap.Int("companies", len(companies)))
	}
	return n
}
