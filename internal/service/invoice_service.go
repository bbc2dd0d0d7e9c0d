package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"faktura/internal/calc"
	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/reminder"
)

// LineItemInput describes one line item of a create or update request.
// A nil ID creates a new item; a nil TaxRatePercent takes the default rate.
type LineItemInput struct {
	ID             *uuid.UUID
	Description    string
	Quantity       decimal.Decimal
	UnitPrice      decimal.Decimal
	TaxRatePercent *decimal.Decimal
	Discount       domain.Discount
}

// CreateInvoiceInput is the DTO for creating a draft invoice.
type CreateInvoiceInput struct {
	CompanyID      uuid.UUID
	Number         string
	CustomerName   string
	CustomerEmail  string
	DueDate        time.Time
	Items          []LineItemInput
	GlobalDiscount domain.Discount
}

// UpdateItemsInput replaces the line items and global discount of a draft.
// A non-zero Version must match the stored version.
type UpdateItemsInput struct {
	InvoiceID      uuid.UUID
	Version        int
	Items          []LineItemInput
	GlobalDiscount domain.Discount
}

// SnapshotCheck compares the stored totals of an invoice with a fresh computation.
type SnapshotCheck struct {
	InvoiceID       uuid.UUID             `json:"invoice_id"`
	Matches         bool                  `json:"matches"`
	StoredSubtotal  decimal.Decimal       `json:"stored_subtotal"`
	StoredTaxAmount decimal.Decimal       `json:"stored_tax_amount"`
	StoredTotal     decimal.Decimal       `json:"stored_total"`
	Computed        *domain.InvoiceTotals `json:"computed"`
	ZeroTaxClause   domain.ZeroTaxClause  `json:"zero_tax_clause"`
}

// InvoiceService defines the invoice management contract.
type InvoiceService interface {
	Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error)
	UpdateItems(ctx context.Context, input *UpdateItemsInput) (*domain.Invoice, error)
	ReorderItems(ctx context.Context, invoiceID uuid.UUID, itemIDs []uuid.UUID) (*domain.Invoice, error)
	MoveItem(ctx context.Context, invoiceID, itemID uuid.UUID, direction domain.MoveDirection) (*domain.Invoice, error)
	RecomputeTotals(ctx context.Context, invoiceID uuid.UUID) (*domain.InvoiceTotals, error)
	VerifySnapshot(ctx context.Context, invoiceID uuid.UUID) (*SnapshotCheck, error)
	MarkSent(ctx context.Context, invoiceID uuid.UUID, issueDate time.Time) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, invoiceID uuid.UUID, paidAt time.Time) (*domain.Invoice, error)
}

type invoiceService struct {
	invoiceRepo port.InvoiceRepository
	companyRepo port.CompanyRepository
	calculator  *calc.Calculator
	logger      *zap.Logger
}

// NewInvoiceService creates a new InvoiceService implementation.
func NewInvoiceService(
	invoiceRepo port.InvoiceRepository,
	companyRepo port.CompanyRepository,
	calculator *calc.Calculator,
	logger *zap.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		calculator:  calculator,
		logger:      logger,
	}
}

func (s *invoiceService) Create(ctx context.Context, input *CreateInvoiceInput) (*domain.Invoice, error) {
	number := strings.TrimSpace(input.Number)
	if number == "" {
		return nil, domain.NewValidationError("number", "is required")
	}
	if strings.TrimSpace(input.CustomerName) == "" {
		return nil, domain.NewValidationError("customer_name", "is required")
	}
	if input.DueDate.IsZero() {
		return nil, domain.NewValidationError("due_date", "is required")
	}

	company, err := s.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	inv := &domain.Invoice{
		ID:             uuid.New(),
		CompanyID:      company.ID,
		Number:         number,
		CustomerName:   strings.TrimSpace(input.CustomerName),
		CustomerEmail:  strings.TrimSpace(input.CustomerEmail),
		Status:         domain.InvoiceStatusDraft,
		DueDate:        input.DueDate.UTC(),
		Items:          s.buildItems(nil, input.Items),
		GlobalDiscount: input.GlobalDiscount,
	}
	if err := s.applySnapshot(company, inv); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("invoice created",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("company_id", company.ID.String()),
		zap.String("number", inv.Number),
		zap.String("total", inv.Total.StringFixed(2)))
	return inv, nil
}

func (s *invoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	inv, company, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	totals, err := s.totalsFor(company, inv.Items, inv.GlobalDiscount)
	if err != nil {
		// Stored data no longer passes validation, e.g. after the allowed
		// tax rates changed. The invoice is still returned with its snapshot.
		s.logger.Warn("invoice totals not computable",
			zap.String("invoice_id", inv.ID.String()), zap.Error(err))
		return inv, nil
	}
	inv.Totals = totals
	return inv, nil
}

func (s *invoiceService) List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	if _, err := s.companyRepo.GetByID(ctx, companyID); err != nil {
		return nil, 0, err
	}
	return s.invoiceRepo.ListByCompany(ctx, companyID, offset, limit)
}

func (s *invoiceService) UpdateItems(ctx context.Context, input *UpdateItemsInput) (*domain.Invoice, error) {
	inv, company, err := s.loadDraft(ctx, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	if input.Version != 0 && input.Version != inv.Version {
		return nil, domain.ErrConcurrentUpdate
	}

	inv.Items = s.buildItems(inv.Items, input.Items)
	inv.GlobalDiscount = input.GlobalDiscount
	return s.save(ctx, company, inv)
}

func (s *invoiceService) ReorderItems(ctx context.Context, invoiceID uuid.UUID, itemIDs []uuid.UUID) (*domain.Invoice, error) {
	inv, company, err := s.loadDraft(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := calc.Reorder(inv.Items, itemIDs)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return s.save(ctx, company, inv)
}

func (s *invoiceService) MoveItem(ctx context.Context, invoiceID, itemID uuid.UUID, direction domain.MoveDirection) (*domain.Invoice, error) {
	inv, company, err := s.loadDraft(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	items, err := calc.MoveByID(inv.Items, itemID, direction)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return s.save(ctx, company, inv)
}

func (s *invoiceService) RecomputeTotals(ctx context.Context, invoiceID uuid.UUID) (*domain.InvoiceTotals, error) {
	inv, company, err := s.loadDraft(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, company, inv)
	if err != nil {
		return nil, err
	}
	return saved.Totals, nil
}

func (s *invoiceService) VerifySnapshot(ctx context.Context, invoiceID uuid.UUID) (*SnapshotCheck, error) {
	inv, company, err := s.load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	totals, err := s.totalsFor(company, inv.Items, inv.GlobalDiscount)
	if err != nil {
		return nil, err
	}

	check := &SnapshotCheck{
		InvoiceID:       inv.ID,
		Matches:         calc.SnapshotMatches(inv, totals),
		StoredSubtotal:  inv.Subtotal,
		StoredTaxAmount: inv.TaxAmount,
		StoredTotal:     inv.Total,
		Computed:        totals,
		ZeroTaxClause:   calc.ZeroTaxClause(totals),
	}
	if !check.Matches {
		s.logger.Warn("invoice snapshot differs from computed totals",
			zap.String("invoice_id", inv.ID.String()),
			zap.String("stored_total", inv.Total.StringFixed(2)),
			zap.String("computed_total", totals.Total.StringFixed(2)))
	}
	return check, nil
}

func (s *invoiceService) MarkSent(ctx context.Context, invoiceID uuid.UUID, issueDate time.Time) (*domain.Invoice, error) {
	inv, company, err := s.load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != domain.InvoiceStatusDraft {
		return nil, fmt.Errorf("%w: cannot send invoice in status %s", domain.ErrInvalidStatusChange, inv.Status)
	}
	if len(inv.Items) == 0 {
		return nil, domain.NewValidationError("items", "invoice has no line items")
	}
	totals, err := s.totalsFor(company, inv.Items, inv.GlobalDiscount)
	if err != nil {
		return nil, err
	}
	if !calc.SnapshotMatches(inv, totals) {
		return nil, fmt.Errorf("%w: stored totals are stale, recompute before sending", domain.ErrInvalidStatusChange)
	}

	issued := issueDate.UTC()
	inv.IssueDate = &issued
	inv.Status = domain.InvoiceStatusSent
	if err := s.invoiceRepo.UpdateStatus(ctx, inv); err != nil {
		return nil, err
	}
	inv.Totals = totals
	s.logger.Info("invoice sent", zap.String("invoice_id", inv.ID.String()))
	return inv, nil
}

func (s *invoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID, paidAt time.Time) (*domain.Invoice, error) {
	inv, _, err := s.load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if !inv.Status.IsOpen() {
		return nil, fmt.Errorf("%w: cannot mark invoice in status %s as paid", domain.ErrInvalidStatusChange, inv.Status)
	}

	inv.ApplyReminderState(reminder.MarkPaid(inv.ReminderState()))
	paid := paidAt.UTC()
	inv.PaidAt = &paid
	if err := s.invoiceRepo.UpdateStatus(ctx, inv); err != nil {
		return nil, err
	}
	s.logger.Info("invoice paid", zap.String("invoice_id", inv.ID.String()))
	return inv, nil
}

func (s *invoiceService) load(ctx context.Context, id uuid.UUID) (*domain.Invoice, *domain.Company, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	company, err := s.companyRepo.GetByID(ctx, inv.CompanyID)
	if err != nil {
		return nil, nil, err
	}
	return inv, company, nil
}

func (s *invoiceService) loadDraft(ctx context.Context, id uuid.UUID) (*domain.Invoice, *domain.Company, error) {
	inv, company, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if inv.Status != domain.InvoiceStatusDraft {
		return nil, nil, domain.ErrInvoiceNotEditable
	}
	return inv, company, nil
}

// save recomputes the snapshot and persists the invoice with its items.
func (s *invoiceService) save(ctx context.Context, company *domain.Company, inv *domain.Invoice) (*domain.Invoice, error) {
	if err := s.applySnapshot(company, inv); err != nil {
		return nil, err
	}
	if err := s.invoiceRepo.Update(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *invoiceService) applySnapshot(company *domain.Company, inv *domain.Invoice) error {
	inv.Items = calc.Normalize(inv.Items)
	totals, err := s.totalsFor(company, inv.Items, inv.GlobalDiscount)
	if err != nil {
		return err
	}
	inv.Subtotal = totals.Subtotal
	inv.TaxAmount = totals.TaxAmount
	inv.Total = totals.Total
	inv.Totals = totals
	return nil
}

// totalsFor applies the company flags before computing: small businesses never
// charge VAT, and discounts are ignored when the company has them disabled.
// Ignored discounts are still validated since they stay stored on the invoice.
func (s *invoiceService) totalsFor(company *domain.Company, items []domain.LineItem, global domain.Discount) (*domain.InvoiceTotals, error) {
	if !company.DiscountsEnabled {
		if err := s.calculator.Validate(items, global); err != nil {
			return nil, err
		}
		items = lo.Map(items, func(it domain.LineItem, _ int) domain.LineItem {
			it.Discount = domain.NoDiscount()
			return it
		})
		global = domain.NoDiscount()
	}
	return s.calculator.ComputeTotals(items, global, company.IsSmallBusiness)
}

// buildItems turns request items into line items in request order. Existing
// items keep their ID when referenced; unknown or missing IDs get a new one.
func (s *invoiceService) buildItems(existing []domain.LineItem, inputs []LineItemInput) []domain.LineItem {
	known := lo.SliceToMap(existing, func(it domain.LineItem) (uuid.UUID, struct{}) {
		return it.ID, struct{}{}
	})
	defaultRate := s.calculator.Policy().DefaultRate

	items := make([]domain.LineItem, 0, len(inputs))
	for _, in := range inputs {
		id := uuid.New()
		if in.ID != nil {
			if _, ok := known[*in.ID]; ok {
				id = *in.ID
			}
		}
		rate := defaultRate
		if in.TaxRatePercent != nil {
			rate = *in.TaxRatePercent
		}
		items = append(items, domain.LineItem{
			ID:             id,
			Description:    strings.TrimSpace(in.Description),
			Quantity:       in.Quantity,
			UnitPrice:      in.UnitPrice,
			TaxRatePercent: rate,
			Discount:       in.Discount,
		})
	}
	return calc.Normalize(items)
}
