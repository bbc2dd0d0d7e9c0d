package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"faktura/internal/config"
	"faktura/internal/domain"
	"faktura/internal/handler"
	"faktura/internal/router"
	"faktura/mocks"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func setupRouter() (*gin.Engine, *mocks.MockInvoiceService) {
	gin.SetMode(gin.TestMode)
	invoiceSvc := new(mocks.MockInvoiceService)
	companySvc := new(mocks.MockCompanyService)
	reminderSvc := new(mocks.MockReminderService)
	logger := zap.NewNop()

	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}
	r := router.Setup(cfg, router.Handlers{
		Company:  handler.NewCompanyHandler(companySvc, logger),
		Invoice:  handler.NewInvoiceHandler(invoiceSvc, logger),
		Reminder: handler.NewReminderHandler(reminderSvc, companySvc, logger),
		Health:   handler.NewHealthHandler(okPinger{}),
	}, logger)
	return r, invoiceSvc
}

func TestSetup_RegistersRoutes(t *testing.T) {
	r, _ := setupRouter()

	registered := map[string]bool{}
	for _, ri := range r.Routes() {
		registered[ri.Method+" "+ri.Path] = true
	}

	for _, route := range []string{
		"GET /healthz",
		"GET /readyz",
		"POST /api/v1/companies",
		"PUT /api/v1/companies/:id",
		"GET /api/v1/companies/:id/reminders/due/export",
		"PUT /api/v1/invoices/:id/items",
		"POST /api/v1/invoices/:id/items/:itemId/move",
		"GET /api/v1/invoices/:id/totals/verify",
		"POST /api/v1/invoices/:id/pay",
		"GET /api/v1/invoices/:id/reminder-eligibility",
		"POST /api/v1/invoices/:id/reminders",
	} {
		assert.True(t, registered[route], route)
	}
}

func TestSetup_RequestIDHeader(t *testing.T) {
	r, invoiceSvc := setupRouter()
	id := uuid.New()
	invoiceSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String(), http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}
