package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"faktura/internal/domain"
	"faktura/internal/port"
)

const (
	invoiceNumberConstraint = "invoices_company_id_number_key"
	reminderStageConstraint = "reminders_invoice_id_stage_key"
)

type invoiceRow struct {
	ID                  uuid.UUID            `db:"id"`
	CompanyID           uuid.UUID            `db:"company_id"`
	Number              string               `db:"number"`
	CustomerName        string               `db:"customer_name"`
	CustomerEmail       string               `db:"customer_email"`
	Status              domain.InvoiceStatus `db:"status"`
	IssueDate           *time.Time           `db:"issue_date"`
	DueDate             time.Time            `db:"due_date"`
	GlobalDiscountKind  domain.DiscountKind  `db:"global_discount_kind"`
	GlobalDiscountValue decimal.Decimal      `db:"global_discount_value"`
	Subtotal            decimal.Decimal      `db:"subtotal"`
	TaxAmount           decimal.Decimal      `db:"tax_amount"`
	Total               decimal.Decimal      `db:"total"`
	MaxReminderStage    int                  `db:"max_reminder_stage"`
	LastReminderSentAt  *time.Time           `db:"last_reminder_sent_at"`
	PaidAt              *time.Time           `db:"paid_at"`
	Version             int                  `db:"version"`
	CreatedAt           time.Time            `db:"created_at"`
	UpdatedAt           time.Time            `db:"updated_at"`
}

func (r invoiceRow) toDomain() domain.Invoice {
	return domain.Invoice{
		ID:                 r.ID,
		CompanyID:          r.CompanyID,
		Number:             r.Number,
		CustomerName:       r.CustomerName,
		CustomerEmail:      r.CustomerEmail,
		Status:             r.Status,
		IssueDate:          r.IssueDate,
		DueDate:            r.DueDate,
		GlobalDiscount:     domain.Discount{Kind: r.GlobalDiscountKind, Value: r.GlobalDiscountValue},
		Subtotal:           r.Subtotal,
		TaxAmount:          r.TaxAmount,
		Total:              r.Total,
		MaxReminderStage:   r.MaxReminderStage,
		LastReminderSentAt: r.LastReminderSentAt,
		PaidAt:             r.PaidAt,
		Version:            r.Version,
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}
}

type lineItemRow struct {
	ID             uuid.UUID           `db:"id"`
	InvoiceID      uuid.UUID           `db:"invoice_id"`
	Position       int                 `db:"position"`
	Description    string              `db:"description"`
	Quantity       decimal.Decimal     `db:"quantity"`
	UnitPrice      decimal.Decimal     `db:"unit_price"`
	TaxRatePercent decimal.Decimal     `db:"tax_rate_percent"`
	DiscountKind   domain.DiscountKind `db:"discount_kind"`
	DiscountValue  decimal.Decimal     `db:"discount_value"`
}

func (r lineItemRow) toDomain() domain.LineItem {
	return domain.LineItem{
		ID:             r.ID,
		Description:    r.Description,
		Quantity:       r.Quantity,
		UnitPrice:      r.UnitPrice,
		TaxRatePercent: r.TaxRatePercent,
		Discount:       domain.Discount{Kind: r.DiscountKind, Value: r.DiscountValue},
		Order:          r.Position,
	}
}

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	inv.Version = 1

	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO invoices (
			id, company_id, number, customer_name, customer_email, status,
			issue_date, due_date, global_discount_kind, global_discount_value,
			subtotal, tax_amount, total,
			max_reminder_stage, last_reminder_sent_at, paid_at, version,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13,
			$14, $15, $16, $17,
			$18, $19
		)`,
			inv.ID, inv.CompanyID, inv.Number, inv.CustomerName, inv.CustomerEmail, inv.Status,
			inv.IssueDate, inv.DueDate, inv.GlobalDiscount.Kind, inv.GlobalDiscount.Value,
			inv.Subtotal, inv.TaxAmount, inv.Total,
			inv.MaxReminderStage, inv.LastReminderSentAt, inv.PaidAt, inv.Version,
			inv.CreatedAt, inv.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, invoiceNumberConstraint) {
				return domain.ErrDuplicateInvoiceNo
			}
			return fmt.Errorf("invoiceRepo.Create: %w", err)
		}
		return insertItems(ctx, tx, inv.ID, inv.Items)
	})
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var row invoiceRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}

	var items []lineItemRow
	err = r.db.SelectContext(ctx, &items,
		"SELECT * FROM invoice_items WHERE invoice_id = $1 ORDER BY position ASC", id)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.GetByID items: %w", err)
	}

	inv := row.toDomain()
	inv.Items = lo.Map(items, func(it lineItemRow, _ int) domain.LineItem { return it.toDomain() })
	return &inv, nil
}

func (r *invoiceRepo) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM invoices WHERE company_id = $1", companyID)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByCompany count: %w", err)
	}

	var rows []invoiceRow
	err = r.db.SelectContext(ctx, &rows,
		`SELECT * FROM invoices WHERE company_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByCompany: %w", err)
	}
	return lo.Map(rows, func(row invoiceRow, _ int) domain.Invoice { return row.toDomain() }), total, nil
}

func (r *invoiceRepo) ListOpenByCompany(ctx context.Context, companyID uuid.UUID) ([]domain.Invoice, error) {
	var rows []invoiceRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM invoices
		 WHERE company_id = $1 AND status NOT IN ($2, $3)
		 ORDER BY due_date ASC, number ASC`,
		companyID, domain.InvoiceStatusDraft, domain.InvoiceStatusPaid)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListOpenByCompany: %w", err)
	}
	return lo.Map(rows, func(row invoiceRow, _ int) domain.Invoice { return row.toDomain() }), nil
}

func (r *invoiceRepo) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	y, m, d := today.UTC().Date()
	startOfDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, version = version + 1, updated_at = $2
		 WHERE status = $3 AND due_date < $4`,
		domain.InvoiceStatusOverdue, time.Now().UTC(), domain.InvoiceStatusSent, startOfDay)
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.MarkOverdue: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("invoiceRepo.MarkOverdue: %w", err)
	}
	return int(rows), nil
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	updatedAt := time.Now().UTC()

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE invoices SET
				number = $1, customer_name = $2, customer_email = $3, due_date = $4,
				global_discount_kind = $5, global_discount_value = $6,
				subtotal = $7, tax_amount = $8, total = $9,
				version = version + 1, updated_at = $10
			 WHERE id = $11 AND version = $12`,
			inv.Number, inv.CustomerName, inv.CustomerEmail, inv.DueDate,
			inv.GlobalDiscount.Kind, inv.GlobalDiscount.Value,
			inv.Subtotal, inv.TaxAmount, inv.Total,
			updatedAt, inv.ID, inv.Version)
		if err != nil {
			if isUniqueViolation(err, invoiceNumberConstraint) {
				return domain.ErrDuplicateInvoiceNo
			}
			return fmt.Errorf("invoiceRepo.Update: %w", err)
		}
		if err := r.checkSwapped(ctx, tx, result, inv.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM invoice_items WHERE invoice_id = $1", inv.ID); err != nil {
			return fmt.Errorf("invoiceRepo.Update delete items: %w", err)
		}
		return insertItems(ctx, tx, inv.ID, inv.Items)
	})
	if err != nil {
		return err
	}

	inv.Version++
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, inv *domain.Invoice) error {
	updatedAt := time.Now().UTC()

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE invoices SET
				status = $1, issue_date = $2, paid_at = $3,
				version = version + 1, updated_at = $4
			 WHERE id = $5 AND version = $6`,
			inv.Status, inv.IssueDate, inv.PaidAt, updatedAt, inv.ID, inv.Version)
		if err != nil {
			return fmt.Errorf("invoiceRepo.UpdateStatus: %w", err)
		}
		return r.checkSwapped(ctx, tx, result, inv.ID)
	})
	if err != nil {
		return err
	}

	inv.Version++
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *invoiceRepo) RecordReminder(ctx context.Context, inv *domain.Invoice, rem *domain.Reminder) error {
	updatedAt := time.Now().UTC()
	rem.CreatedAt = updatedAt

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx,
			`UPDATE invoices SET
				status = $1, max_reminder_stage = GREATEST(max_reminder_stage, $2),
				last_reminder_sent_at = $3, version = version + 1, updated_at = $4
			 WHERE id = $5 AND version = $6`,
			inv.Status, inv.MaxReminderStage, inv.LastReminderSentAt, updatedAt, inv.ID, inv.Version)
		if err != nil {
			return fmt.Errorf("invoiceRepo.RecordReminder: %w", err)
		}
		if err := r.checkSwapped(ctx, tx, result, inv.ID); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO reminders (id, invoice_id, company_id, stage, fee, sent_at, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			rem.ID, rem.InvoiceID, rem.CompanyID, rem.Stage, rem.Fee, rem.SentAt, rem.CreatedAt)
		if err != nil {
			if isUniqueViolation(err, reminderStageConstraint) {
				return domain.ErrConcurrentUpdate
			}
			return fmt.Errorf("invoiceRepo.RecordReminder insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	inv.Version++
	inv.UpdatedAt = updatedAt
	return nil
}

func (r *invoiceRepo) ListReminders(ctx context.Context, invoiceID uuid.UUID) ([]domain.Reminder, error) {
	var reminders []domain.Reminder
	err := r.db.SelectContext(ctx, &reminders,
		"SELECT * FROM reminders WHERE invoice_id = $1 ORDER BY stage ASC", invoiceID)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListReminders: %w", err)
	}
	return reminders, nil
}

// checkSwapped turns a zero-row compare-and-set update into ErrConcurrentUpdate,
// or ErrInvoiceNotFound when the invoice does not exist at all.
func (r *invoiceRepo) checkSwapped(ctx context.Context, tx *sqlx.Tx, result sql.Result, id uuid.UUID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("invoiceRepo.checkSwapped: %w", err)
	}
	if rows > 0 {
		return nil
	}
	var exists bool
	if err := tx.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM invoices WHERE id = $1)", id); err != nil {
		return fmt.Errorf("invoiceRepo.checkSwapped: %w", err)
	}
	if !exists {
		return domain.ErrInvoiceNotFound
	}
	return domain.ErrConcurrentUpdate
}

func insertItems(ctx context.Context, tx *sqlx.Tx, invoiceID uuid.UUID, items []domain.LineItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := lo.Map(items, func(it domain.LineItem, _ int) lineItemRow {
		return lineItemRow{
			ID:             it.ID,
			InvoiceID:      invoiceID,
			Position:       it.Order,
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TaxRatePercent: it.TaxRatePercent,
			DiscountKind:   it.Discount.Kind,
			DiscountValue:  it.Discount.Value,
		}
	})
	_, err := tx.NamedExecContext(ctx,
		`INSERT INTO invoice_items (
			id, invoice_id, position, description, quantity, unit_price,
			tax_rate_percent, discount_kind, discount_value
		) VALUES (
			:id, :invoice_id, :position, :description, :quantity, :unit_price,
			:tax_rate_percent, :discount_kind, :discount_value
		)`, rows)
	if err != nil {
		return fmt.Errorf("insert invoice items: %w", err)
	}
	return nil
}
