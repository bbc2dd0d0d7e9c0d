package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentReminderNotice carries what a reminder letter tells the customer.
type PaymentReminderNotice struct {
	CompanyName   string
	ReplyTo       string
	ToEmail       string
	ToName        string
	InvoiceNumber string
	Stage         int
	Fee           decimal.Decimal
	AmountDue     decimal.Decimal
	DueDate       time.Time
}

// ReminderNotifier defines the contract for delivering payment reminders.
type ReminderNotifier interface {
	SendPaymentReminder(ctx context.Context, notice PaymentReminderNotice) error
}
