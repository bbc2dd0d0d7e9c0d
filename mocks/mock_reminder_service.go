package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"faktura/internal/domain"
)

// MockReminderService is a mock implementation of service.ReminderService.
type MockReminderService struct {
	mock.Mock
}

func (m *MockReminderService) Eligibility(ctx context.Context, invoiceID uuid.UUID, today time.Time) (*domain.ReminderEligibility, error) {
	args := m.Called(ctx, invoiceID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReminderEligibility), args.Error(1)
}

func (m *MockReminderService) ListDue(ctx context.Context, companyID uuid.UUID, today time.Time) ([]domain.DueReminder, error) {
	args := m.Called(ctx, companyID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DueReminder), args.Error(1)
}

func (m *MockReminderService) Send(ctx context.Context, invoiceID uuid.UUID, now time.Time) (*domain.Reminder, error) {
	args := m.Called(ctx, invoiceID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reminder), args.Error(1)
}

func (m *MockReminderService) History(ctx context.Context, invoiceID uuid.UUID) ([]domain.Reminder, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reminder), args.Error(1)
}

func (m *MockReminderService) MarkOverdue(ctx context.Context, today time.Time) (int, error) {
	args := m.Called(ctx, today)
	return args.Int(0), args.Error(1)
}
