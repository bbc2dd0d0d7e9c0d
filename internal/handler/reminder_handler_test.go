package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/handler"
	"faktura/mocks"
)

var exportDay = time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)

func setupReminderHandler() (*handler.ReminderHandler, *mocks.MockReminderService, *mocks.MockCompanyService) {
	reminderSvc := new(mocks.MockReminderService)
	companySvc := new(mocks.MockCompanyService)
	return handler.NewReminderHandler(reminderSvc, companySvc, zap.NewNop()), reminderSvc, companySvc
}

func sampleDue() []domain.DueReminder {
	return []domain.DueReminder{{
		ReminderEligibility: domain.ReminderEligibility{
			InvoiceID:    uuid.New(),
			NextStage:    1,
			IsEligible:   true,
			DaysSinceDue: 12,
			Fee:          decimal.Zero,
			Reason:       domain.EligibilityReasonEligible,
		},
		InvoiceNumber: "RE-2025-001",
		CustomerName:  "Erika Mustermann",
		DueDate:       exportDay.AddDate(0, 0, -12),
		Total:         decimal.RequireFromString("1234.50"),
	}}
}

func TestReminderHandler_Eligibility_UsesDateQuery(t *testing.T) {
	h, reminderSvc, _ := setupReminderHandler()
	id := uuid.New()

	reminderSvc.On("Eligibility", mock.Anything, id, exportDay).
		Return(&domain.ReminderEligibility{InvoiceID: id, NextStage: 1}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?date=2025-03-20", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Eligibility(c)

	assert.Equal(t, http.StatusOK, w.Code)
	reminderSvc.AssertExpectations(t)
}

func TestReminderHandler_Eligibility_BadDate(t *testing.T) {
	h, reminderSvc, _ := setupReminderHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?date=20.03.2025", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.Eligibility(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	reminderSvc.AssertNotCalled(t, "Eligibility", mock.Anything, mock.Anything, mock.Anything)
}

func TestReminderHandler_Send_NotEligible(t *testing.T) {
	h, reminderSvc, _ := setupReminderHandler()
	id := uuid.New()

	reminderSvc.On("Send", mock.Anything, id, mock.Anything).Return(nil, domain.ErrReminderNotEligible)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Send(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "REMINDER_NOT_ELIGIBLE", decodeResponse(t, w).Error.Code)
}

func TestReminderHandler_Send_Created(t *testing.T) {
	h, reminderSvc, _ := setupReminderHandler()
	id := uuid.New()

	reminderSvc.On("Send", mock.Anything, id, mock.Anything).Return(&domain.Reminder{InvoiceID: id, Stage: 1}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Send(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReminderHandler_ListDue(t *testing.T) {
	h, reminderSvc, _ := setupReminderHandler()
	companyID := uuid.New()

	reminderSvc.On("ListDue", mock.Anything, companyID, exportDay).Return(sampleDue(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?date=2025-03-20", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: companyID.String()}}

	h.ListDue(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := decodeResponse(t, w).Data.([]interface{})
	assert.True(t, ok)
	assert.Len(t, data, 1)
}

func TestReminderHandler_ExportDue(t *testing.T) {
	tests := []struct {
		format      string
		contentType string
		filename    string
	}{
		{"csv", "text/csv; charset=utf-8", "mahnungen_Muster_GmbH_2025-03-20.csv"},
		{"xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "mahnungen_Muster_GmbH_2025-03-20.xlsx"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			h, reminderSvc, companySvc := setupReminderHandler()
			companyID := uuid.New()

			companySvc.On("GetByID", mock.Anything, companyID).Return(&domain.Company{ID: companyID, Name: "Muster GmbH"}, nil)
			reminderSvc.On("ListDue", mock.Anything, companyID, exportDay).Return(sampleDue(), nil)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request, _ = http.NewRequest(http.MethodGet, "/?date=2025-03-20&format="+tt.format, http.NoBody)
			c.Params = gin.Params{{Key: "id", Value: companyID.String()}}

			h.ExportDue(c)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.contentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Header().Get("Content-Disposition"), tt.filename)
			assert.NotZero(t, w.Body.Len())
		})
	}
}

func TestReminderHandler_ExportDue_CSVContent(t *testing.T) {
	h, reminderSvc, companySvc := setupReminderHandler()
	companyID := uuid.New()

	companySvc.On("GetByID", mock.Anything, companyID).Return(&domain.Company{ID: companyID, Name: "Muster GmbH"}, nil)
	reminderSvc.On("ListDue", mock.Anything, companyID, exportDay).Return(sampleDue(), nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?date=2025-03-20", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: companyID.String()}}

	h.ExportDue(c)

	body := w.Body.String()
	assert.Contains(t, body, "RE-2025-001")
	assert.Contains(t, body, "1234,50")
}

func TestReminderHandler_ExportDue_UnknownFormat(t *testing.T) {
	h, _, companySvc := setupReminderHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/?format=pdf", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

	h.ExportDue(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	companySvc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestReminderHandler_History_NotFound(t *testing.T) {
	h, reminderSvc, _ := setupReminderHandler()
	id := uuid.New()
	reminderSvc.On("History", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.History(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
