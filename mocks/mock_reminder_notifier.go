package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"faktura/internal/port"
)

// MockReminderNotifier is a mock implementation of port.ReminderNotifier.
type MockReminderNotifier struct {
	mock.Mock
}

func (m *MockReminderNotifier) SendPaymentReminder(ctx context.Context, notice port.PaymentReminderNotice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}
