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
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/handler"
	"faktura/internal/service"
	"faktura/mocks"
)

func TestInvoiceHandler_Create_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())
	companyID := uuid.New()

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateInvoiceInput) bool {
		return in.CompanyID == companyID &&
			in.DueDate.Format("2006-01-02") == "2025-03-31" &&
			len(in.Items) == 1 &&
			in.Items[0].Discount.Kind == domain.DiscountPercentage &&
			in.GlobalDiscount.Kind == domain.DiscountNone
	})).Return(&domain.Invoice{ID: uuid.New(), CompanyID: companyID}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"company_id":    companyID.String(),
		"number":        "RE-2025-001",
		"customer_name": "Erika Mustermann",
		"due_date":      "2025-03-31",
		"items": []map[string]interface{}{{
			"description": "Beratung",
			"quantity":    "2",
			"unit_price":  "50.00",
			"discount":    map[string]string{"kind": "percentage", "value": "10"},
		}},
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Create_BadDueDate(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"company_id":    uuid.New().String(),
		"number":        "RE-2025-001",
		"customer_name": "Erika Mustermann",
		"due_date":      "31.03.2025",
	})

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Create_ValidationError(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())

	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("items[0].quantity", "must not be negative"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/invoices", map[string]interface{}{
		"company_id":    uuid.New().String(),
		"number":        "RE-2025-001",
		"customer_name": "Erika Mustermann",
		"due_date":      "2025-03-31",
		"items":         []map[string]string{{"description": "x", "quantity": "-1", "unit_price": "1"}},
	})

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Equal(t, "items[0].quantity", resp.Error.Field)
}

func TestInvoiceHandler_List_RequiresCompany(t *testing.T) {
	h := handler.NewInvoiceHandler(new(mocks.MockInvoiceService), zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_UpdateItems_Conflict(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())
	id := uuid.New()

	mockSvc.On("UpdateItems", mock.Anything, mock.MatchedBy(func(in *service.UpdateItemsInput) bool {
		return in.InvoiceID == id && in.Version == 3
	})).Return(nil, domain.ErrConcurrentUpdate)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPut, "/api/v1/invoices/"+id.String()+"/items", map[string]interface{}{
		"version": 3,
		"items":   []map[string]string{},
	})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.UpdateItems(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONCURRENT_UPDATE", decodeResponse(t, w).Error.Code)
}

func TestInvoiceHandler_MoveItem(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())
	id, itemID := uuid.New(), uuid.New()

	mockSvc.On("MoveItem", mock.Anything, id, itemID, domain.MoveUp).Return(&domain.Invoice{ID: id}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/", map[string]string{"direction": "up"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}, {Key: "itemId", Value: itemID.String()}}

	h.MoveItem(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_MoveItem_InvalidItemID(t *testing.T) {
	h := handler.NewInvoiceHandler(new(mocks.MockInvoiceService), zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/", map[string]string{"direction": "up"})
	c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}, {Key: "itemId", Value: "nope"}}

	h.MoveItem(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_RecomputeTotals_NotEditable(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())
	id := uuid.New()

	mockSvc.On("RecomputeTotals", mock.Anything, id).Return(nil, domain.ErrInvoiceNotEditable)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.RecomputeTotals(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVOICE_NOT_EDITABLE", decodeResponse(t, w).Error.Code)
}

func TestInvoiceHandler_VerifyTotals(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())
	id := uuid.New()

	mockSvc.On("VerifySnapshot", mock.Anything, id).Return(&service.SnapshotCheck{
		InvoiceID:   id,
		Matches:     false,
		StoredTotal: decimal.RequireFromString("100.00"),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.VerifyTotals(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data, ok := decodeResponse(t, w).Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, false, data["matches"])
}

func TestInvoiceHandler_Send_ExplicitIssueDate(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())
	id := uuid.New()

	mockSvc.On("MarkSent", mock.Anything, id, mock.MatchedBy(func(d time.Time) bool {
		return d.Format("2006-01-02") == "2025-03-01"
	})).Return(&domain.Invoice{ID: id, Status: domain.InvoiceStatusSent}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/", map[string]string{"issue_date": "2025-03-01"})
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Send(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Pay_InvalidTransition(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc, zap.NewNop())
	id := uuid.New()

	mockSvc.On("MarkPaid", mock.Anything, id, mock.Anything).Return(nil, domain.ErrInvalidStatusChange)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Pay(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_STATUS_CHANGE", decodeResponse(t, w).Error.Code)
}
