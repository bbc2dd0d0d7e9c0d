package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"faktura/internal/domain"
)

// CompanyRepository defines the contract for company persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error)
	List(ctx context.Context, offset, limit int) ([]domain.Company, int, error)
	Update(ctx context.Context, company *domain.Company) error
	ListReminderEnabled(ctx context.Context) ([]domain.Company, error)
}

// InvoiceRepository defines the contract for invoice persistence.
// Update, UpdateStatus and RecordReminder are compare-and-set operations on
// Invoice.Version and return domain.ErrConcurrentUpdate when the stored version
// no longer matches.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	ListOpenByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.Invoice, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	UpdateStatus(ctx context.Context, inv *domain.Invoice) error
	// MarkOverdue flips every sent invoice whose due day lies before today's
	// UTC day to overdue and returns the number of rows changed.
	MarkOverdue(ctx context.Context, today time.Time) (int, error)
	RecordReminder(ctx context.Context, inv *domain.Invoice, reminder *domain.Reminder) error
	ListReminders(ctx context.Context, invoiceID uuid.UUID) ([]domain.Reminder, error)
}
