package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/handler"
	"faktura/internal/service"
	"faktura/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCompanyHandler_Create_Success(t *testing.T) {
	mockSvc := new(mocks.MockCompanyService)
	h := handler.NewCompanyHandler(mockSvc, zap.NewNop())

	mockSvc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateCompanyInput) bool {
		return in.Name == "Muster GmbH" && in.ReminderPolicy.Enabled && in.ReminderPolicy.FeeStage2.String() == "5"
	})).Return(&domain.Company{ID: uuid.New(), Name: "Muster GmbH"}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/companies", map[string]interface{}{
		"name": "Muster GmbH",
		"reminder_policy": map[string]interface{}{
			"enabled":             true,
			"days_after_due":      7,
			"days_between_stages": 14,
			"fee_stage_2":         "5",
		},
	})

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
	mockSvc.AssertExpectations(t)
}

func TestCompanyHandler_Create_MissingName(t *testing.T) {
	mockSvc := new(mocks.MockCompanyService)
	h := handler.NewCompanyHandler(mockSvc, zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/companies", map[string]string{"email": "x@example.de"})

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCompanyHandler_Create_InvalidPolicy(t *testing.T) {
	mockSvc := new(mocks.MockCompanyService)
	h := handler.NewCompanyHandler(mockSvc, zap.NewNop())

	mockSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.NewConfigurationError("reminder_policy.days_after_due", "must not be negative"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(http.MethodPost, "/api/v1/companies", map[string]interface{}{
		"name":            "Muster GmbH",
		"reminder_policy": map[string]interface{}{"days_after_due": -1},
	})

	h.Create(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_CONFIGURATION", resp.Error.Code)
	assert.Equal(t, "reminder_policy.days_after_due", resp.Error.Field)
}

func TestCompanyHandler_GetByID_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockCompanyService)
	h := handler.NewCompanyHandler(mockSvc, zap.NewNop())

	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrCompanyNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/companies/"+id.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "COMPANY_NOT_FOUND", decodeResponse(t, w).Error.Code)
}

func TestCompanyHandler_GetByID_InvalidID(t *testing.T) {
	h := handler.NewCompanyHandler(new(mocks.MockCompanyService), zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/companies/abc", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decodeResponse(t, w).Error.Code)
}

func TestCompanyHandler_List_Pagination(t *testing.T) {
	mockSvc := new(mocks.MockCompanyService)
	h := handler.NewCompanyHandler(mockSvc, zap.NewNop())

	mockSvc.On("List", mock.Anything, 10, 20).Return([]domain.Company{{Name: "A"}}, 11, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/companies?offset=10&limit=500", http.NoBody)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 11, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}
