package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faktura/internal/export"
	"faktura/internal/service"
)

// ReminderHandler handles dunning endpoints.
type ReminderHandler struct {
	errorHandler
	reminderService service.ReminderService
	companyService  service.CompanyService
	now             func() time.Time
}

// NewReminderHandler creates a new ReminderHandler.
func NewReminderHandler(reminderService service.ReminderService, companyService service.CompanyService, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		errorHandler:    errorHandler{logger: logger},
		reminderService: reminderService,
		companyService:  companyService,
		now:             time.Now,
	}
}

// today reads the optional ?date=YYYY-MM-DD evaluation date.
func (h *ReminderHandler) today(c *gin.Context) (time.Time, bool) {
	day, err := parseDate(c.Query("date"), h.now())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

// Eligibility handles GET /api/v1/invoices/:id/reminder-eligibility
// @Summary      Evaluate reminder eligibility
// @Description  Reports whether the next reminder stage may be sent at the given date
// @Tags         reminders
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        date query string false "Evaluation date (YYYY-MM-DD), default today"
// @Success      200 {object} APIResponse{data=domain.ReminderEligibility}
// @Failure      404 {object} APIResponse
// @Router       /invoices/{id}/reminder-eligibility [get]
func (h *ReminderHandler) Eligibility(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}
	day, ok := h.today(c)
	if !ok {
		return
	}

	res, err := h.reminderService.Eligibility(c.Request.Context(), invoiceID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// Send handles POST /api/v1/invoices/:id/reminders
// @Summary      Send next reminder
// @Tags         reminders
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      201 {object} APIResponse{data=domain.Reminder}
// @Failure      409 {object} APIResponse
// @Failure      422 {object} APIResponse
// @Router       /invoices/{id}/reminders [post]
func (h *ReminderHandler) Send(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	rem, err := h.reminderService.Send(c.Request.Context(), invoiceID, h.now().UTC())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondCreated(c, rem)
}

// History handles GET /api/v1/invoices/:id/reminders
// @Summary      List reminders sent for an invoice
// @Tags         reminders
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse{data=[]domain.Reminder}
// @Failure      404 {object} APIResponse
// @Router       /invoices/{id}/reminders [get]
func (h *ReminderHandler) History(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	reminders, err := h.reminderService.History(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, reminders)
}

// ListDue handles GET /api/v1/companies/:id/reminders/due
// @Summary      List invoices due for a reminder
// @Tags         reminders
// @Produce      json
// @Param        id path string true "Company ID"
// @Param        date query string false "Evaluation date (YYYY-MM-DD), default today"
// @Success      200 {object} APIResponse{data=[]domain.DueReminder}
// @Failure      404 {object} APIResponse
// @Router       /companies/{id}/reminders/due [get]
func (h *ReminderHandler) ListDue(c *gin.Context) {
	companyID, ok := parseUUIDParam(c, "id", "company")
	if !ok {
		return
	}
	day, ok := h.today(c)
	if !ok {
		return
	}

	due, err := h.reminderService.ListDue(c.Request.Context(), companyID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, due)
}

// ExportDue handles GET /api/v1/companies/:id/reminders/due/export
// @Summary      Export due reminders
// @Tags         reminders
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        id path string true "Company ID"
// @Param        format query string false "csv or xlsx" default(csv)
// @Param        date query string false "Evaluation date (YYYY-MM-DD), default today"
// @Success      200 {file} file
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /companies/{id}/reminders/due/export [get]
func (h *ReminderHandler) ExportDue(c *gin.Context) {
	companyID, ok := parseUUIDParam(c, "id", "company")
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	day, ok := h.today(c)
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	due, err := h.reminderService.ListDue(c.Request.Context(), companyID, day)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if format == export.FormatXLSX {
		err = export.WriteXLSX(&buf, due)
	} else {
		err = export.WriteCSV(&buf, due)
	}
	if err != nil {
		h.HandleError(c, fmt.Errorf("writing %s export: %w", format, err))
		return
	}

	filename := export.BuildFilename(company.Name, day, format)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}
