package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
	"faktura/internal/service"
)

// MockInvoiceService is a mock implementation of service.InvoiceService.
type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) invoiceResult(args mock.Arguments) (*domain.Invoice, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Create(ctx context.Context, input *service.CreateInvoiceInput) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, input))
}

func (m *MockInvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, id))
}

func (m *MockInvoiceService) List(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceService) UpdateItems(ctx context.Context, input *service.UpdateItemsInput) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, input))
}

func (m *MockInvoiceService) ReorderItems(ctx context.Context, invoiceID uuid.UUID, itemIDs []uuid.UUID) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, itemIDs))
}

func (m *MockInvoiceService) MoveItem(ctx context.Context, invoiceID, itemID uuid.UUID, direction domain.MoveDirection) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, itemID, direction))
}

func (m *MockInvoiceService) RecomputeTotals(ctx context.Context, invoiceID uuid.UUID) (*domain.InvoiceTotals, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.InvoiceTotals), args.Error(1)
}

func (m *MockInvoiceService) VerifySnapshot(ctx context.Context, invoiceID uuid.UUID) (*service.SnapshotCheck, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SnapshotCheck), args.Error(1)
}

func (m *MockInvoiceService) MarkSent(ctx context.Context, invoiceID uuid.UUID, issueDate time.Time) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, issueDate))
}

func (m *MockInvoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID, paidAt time.Time) (*domain.Invoice, error) {
	return m.invoiceResult(m.Called(ctx, invoiceID, paidAt))
}
