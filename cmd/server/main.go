package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"faktura/internal/calc"
	"faktura/internal/config"
	"faktura/internal/email/noop"
	"faktura/internal/email/ses"
	"faktura/internal/handler"
	"faktura/internal/logger"
	"faktura/internal/port"
	"faktura/internal/repository/postgres"
	"faktura/internal/router"
	"faktura/internal/service"
)

// @title        Faktura API
// @version      1.0
// @description  Invoice totals and payment reminders for German small businesses.
// @BasePath     /api/v1
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	taxPolicy, err := calc.ParseTaxRatePolicy(cfg.Tax.DefaultRate, cfg.Tax.AllowedRates)
	if err != nil {
		return fmt.Errorf("invalid tax configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	companyRepo := postgres.NewCompanyRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)

	notifier, err := newNotifier(ctx, &cfg.Email, lg)
	if err != nil {
		return err
	}

	// Initialize services
	calculator := calc.NewCalculator(taxPolicy)
	companySvc := service.NewCompanyService(companyRepo, lg)
	invoiceSvc := service.NewInvoiceService(invoiceRepo, companyRepo, calculator, lg)
	reminderSvc := service.NewReminderService(invoiceRepo, companyRepo, notifier, lg)

	// Setup router
	r := router.Setup(cfg, router.Handlers{
		Company:  handler.NewCompanyHandler(companySvc, lg),
		Invoice:  handler.NewInvoiceHandler(invoiceSvc, lg),
		Reminder: handler.NewReminderHandler(reminderSvc, companySvc, lg),
		Health:   handler.NewHealthHandler(db),
	}, lg)

	workerDone := make(chan struct{})
	if cfg.Reminder.WorkerEnabled {
		worker := service.NewReminderWorker(companyRepo, reminderSvc, service.ReminderWorkerConfig{
			PollInterval: time.Duration(cfg.Reminder.PollIntervalSecs) * time.Second,
			Concurrency:  cfg.Reminder.Concurrency,
		}, lg)
		go func() {
			worker.Start(ctx)
			close(workerDone)
		}()
	} else {
		close(workerDone)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("tax_rates", taxPolicy.String()),
			zap.Bool("reminder_worker", cfg.Reminder.WorkerEnabled))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	lg.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	stop()
	<-workerDone
	return nil
}

func newNotifier(ctx context.Context, cfg *config.EmailConfig, lg *zap.Logger) (port.ReminderNotifier, error) {
	switch cfg.Provider {
	case "ses":
		n, err := ses.NewSESSender(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return n, nil
	case "noop", "":
		return noop.NewNoopSender(lg), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}
