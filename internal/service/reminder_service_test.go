package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/port"
	"faktura/internal/service"
	"faktura/mocks"
)

var reminderToday = time.Date(2025, 3, 20, 10, 0, 0, 0, time.UTC)

func setupReminderService() (service.ReminderService, *mocks.MockInvoiceRepo, *mocks.MockCompanyRepo, *mocks.MockReminderNotifier) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	companyRepo := new(mocks.MockCompanyRepo)
	notifier := new(mocks.MockReminderNotifier)
	svc := service.NewReminderService(invoiceRepo, companyRepo, notifier, zap.NewNop())
	return svc, invoiceRepo, companyRepo, notifier
}

func sentInvoice(company *domain.Company, overdueDays int) *domain.Invoice {
	return &domain.Invoice{
		ID:            uuid.New(),
		CompanyID:     company.ID,
		Number:        "RE-2025-010",
		CustomerName:  "Erika Mustermann",
		CustomerEmail: "erika@example.de",
		Status:        domain.InvoiceStatusSent,
		DueDate:       reminderToday.AddDate(0, 0, -overdueDays),
		Total:         dec("119.00"),
		Version:       2,
	}
}

func TestReminderService_Eligibility(t *testing.T) {
	svc, invoiceRepo, companyRepo, _ := setupReminderService()
	company := testCompany()
	inv := sentInvoice(company, 10)

	invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)

	res, err := svc.Eligibility(context.Background(), inv.ID, reminderToday)
	require.NoError(t, err)
	assert.True(t, res.IsEligible)
	assert.Equal(t, 1, res.NextStage)
	assert.Equal(t, 10, res.DaysSinceDue)
}

func TestReminderService_ListDue_FiltersEligible(t *testing.T) {
	svc, invoiceRepo, companyRepo, _ := setupReminderService()
	company := testCompany()
	due := sentInvoice(company, 10)
	early := sentInvoice(company, 3)
	early.Number = "RE-2025-011"

	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)
	invoiceRepo.On("ListOpenByCompany", mock.Anything, company.ID).Return([]domain.Invoice{*due, *early}, nil)

	list, err := svc.ListDue(context.Background(), company.ID, reminderToday)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, due.ID, list[0].InvoiceID)
	assert.Equal(t, "RE-2025-010", list[0].InvoiceNumber)
	assert.Equal(t, "119.00", list[0].Total.StringFixed(2))
}

func TestReminderService_ListDue_PolicyDisabled(t *testing.T) {
	svc, invoiceRepo, companyRepo, _ := setupReminderService()
	company := testCompany()
	company.ReminderPolicy.Enabled = false
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)

	list, err := svc.ListDue(context.Background(), company.ID, reminderToday)
	require.NoError(t, err)
	assert.Empty(t, list)
	invoiceRepo.AssertNotCalled(t, "ListOpenByCompany", mock.Anything, mock.Anything)
}

func TestReminderService_Send_RecordsThenNotifies(t *testing.T) {
	svc, invoiceRepo, companyRepo, notifier := setupReminderService()
	company := testCompany()
	inv := sentInvoice(company, 30)
	inv.Status = domain.InvoiceStatusReminded1
	inv.MaxReminderStage = 1
	last := reminderToday.AddDate(0, 0, -15)
	inv.LastReminderSentAt = &last

	invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)
	invoiceRepo.On("ListReminders", mock.Anything, inv.ID).Return([]domain.Reminder{{Stage: 1, Fee: dec("2.50")}}, nil)
	invoiceRepo.On("RecordReminder", mock.Anything, inv, mock.MatchedBy(func(r *domain.Reminder) bool {
		return r.Stage == 2 && r.Fee.Equal(dec("5"))
	})).Return(nil)
	notifier.On("SendPaymentReminder", mock.Anything, mock.MatchedBy(func(n port.PaymentReminderNotice) bool {
		return n.Stage == 2 && n.Fee.Equal(dec("5")) && n.AmountDue.Equal(dec("126.50")) && n.ToEmail == "erika@example.de"
	})).Return(nil)

	rem, err := svc.Send(context.Background(), inv.ID, reminderToday)
	require.NoError(t, err)
	assert.Equal(t, 2, rem.Stage)
	assert.Equal(t, domain.InvoiceStatusReminded2, inv.Status)
	assert.Equal(t, 2, inv.MaxReminderStage)
	require.NotNil(t, inv.LastReminderSentAt)
	assert.True(t, inv.LastReminderSentAt.Equal(reminderToday))

	invoiceRepo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestReminderService_Send_NotEligible(t *testing.T) {
	svc, invoiceRepo, companyRepo, notifier := setupReminderService()
	company := testCompany()
	inv := sentInvoice(company, 2)

	invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)

	_, err := svc.Send(context.Background(), inv.ID, reminderToday)
	require.ErrorIs(t, err, domain.ErrReminderNotEligible)
	assert.Contains(t, err.Error(), string(domain.EligibilityReasonTooEarly))
	invoiceRepo.AssertNotCalled(t, "RecordReminder", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendPaymentReminder", mock.Anything, mock.Anything)
}

func TestReminderService_Send_ConcurrentUpdateSkipsNotice(t *testing.T) {
	svc, invoiceRepo, companyRepo, notifier := setupReminderService()
	company := testCompany()
	inv := sentInvoice(company, 10)

	invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)
	invoiceRepo.On("ListReminders", mock.Anything, inv.ID).Return([]domain.Reminder{}, nil)
	invoiceRepo.On("RecordReminder", mock.Anything, inv, mock.Anything).Return(domain.ErrConcurrentUpdate)

	_, err := svc.Send(context.Background(), inv.ID, reminderToday)
	assert.ErrorIs(t, err, domain.ErrConcurrentUpdate)
	notifier.AssertNotCalled(t, "SendPaymentReminder", mock.Anything, mock.Anything)
}

func TestReminderService_Send_NoticeFailureKeepsReminder(t *testing.T) {
	svc, invoiceRepo, companyRepo, notifier := setupReminderService()
	company := testCompany()
	inv := sentInvoice(company, 10)

	invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)
	invoiceRepo.On("ListReminders", mock.Anything, inv.ID).Return([]domain.Reminder{}, nil)
	invoiceRepo.On("RecordReminder", mock.Anything, inv, mock.Anything).Return(nil)
	notifier.On("SendPaymentReminder", mock.Anything, mock.Anything).Return(errors.New("ses throttled"))

	rem, err := svc.Send(context.Background(), inv.ID, reminderToday)
	require.NoError(t, err)
	assert.Equal(t, 1, rem.Stage)
}

func TestReminderService_Send_NoEmailSkipsNotice(t *testing.T) {
	svc, invoiceRepo, companyRepo, notifier := setupReminderService()
	company := testCompany()
	inv := sentInvoice(company, 10)
	inv.CustomerEmail = ""

	invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)
	invoiceRepo.On("ListReminders", mock.Anything, inv.ID).Return([]domain.Reminder{}, nil)
	invoiceRepo.On("RecordReminder", mock.Anything, inv, mock.Anything).Return(nil)

	_, err := svc.Send(context.Background(), inv.ID, reminderToday)
	require.NoError(t, err)
	notifier.AssertNotCalled(t, "SendPaymentReminder", mock.Anything, mock.Anything)
}

func TestReminderService_Send_HistoryErrorRecordsNothing(t *testing.T) {
	svc, invoiceRepo, companyRepo, notifier := setupReminderService()
	company := testCompany()
	inv := sentInvoice(company, 10)

	invoiceRepo.On("GetByID", mock.Anything, inv.ID).Return(inv, nil)
	companyRepo.On("GetByID", mock.Anything, company.ID).Return(company, nil)
	invoiceRepo.On("ListReminders", mock.Anything, inv.ID).Return(nil, errors.New("db timeout"))

	_, err := svc.Send(context.Background(), inv.ID, reminderToday)
	require.Error(t, err)
	assert.Equal(t, domain.InvoiceStatusSent, inv.Status)
	invoiceRepo.AssertNotCalled(t, "RecordReminder", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendPaymentReminder", mock.Anything, mock.Anything)
}

func TestReminderService_MarkOverdue(t *testing.T) {
	svc, invoiceRepo, _, _ := setupReminderService()
	berlin := time.FixedZone("CET", 3600)
	local := time.Date(2025, 3, 21, 0, 30, 0, 0, berlin)

	invoiceRepo.On("MarkOverdue", mock.Anything, mock.MatchedBy(func(today time.Time) bool {
		return today.Location() == time.UTC && today.Equal(local)
	})).Return(2, nil).Once()

	n, err := svc.MarkOverdue(context.Background(), local)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	invoiceRepo.On("MarkOverdue", mock.Anything, mock.Anything).Return(0, errors.New("db down"))
	_, err = svc.MarkOverdue(context.Background(), local)
	assert.Error(t, err)
}

func TestReminderService_History(t *testing.T) {
	svc, invoiceRepo, _, _ := setupReminderService()
	id := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, id).Return(&domain.Invoice{ID: id}, nil)
	invoiceRepo.On("ListReminders", mock.Anything, id).Return([]domain.Reminder{{Stage: 1}, {Stage: 2}}, nil)

	list, err := svc.History(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestReminderService_History_UnknownInvoice(t *testing.T) {
	svc, invoiceRepo, _, _ := setupReminderService()
	id := uuid.New()
	invoiceRepo.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	_, err := svc.History(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
}
