package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"faktura/internal/service"
)

// InvoiceHandler handles invoice and line item endpoints.
type InvoiceHandler struct {
	errorHandler
	invoiceService service.InvoiceService
	now            func() time.Time
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		errorHandler:   errorHandler{logger: logger},
		invoiceService: invoiceService,
		now:            time.Now,
	}
}

// Create handles POST /api/v1/invoices
// @Summary      Create draft invoice
// @Description  Creates a draft invoice; items are numbered in request order and totals are computed
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body body CreateInvoiceRequest true "Invoice"
// @Success      201 {object} APIResponse{data=domain.Invoice}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "company_id, number, customer_name and due_date are required")
		return
	}
	dueDate, err := parseDate(req.DueDate, time.Time{})
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "due_date must be YYYY-MM-DD")
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), &service.CreateInvoiceInput{
		CompanyID:      req.CompanyID,
		Number:         req.Number,
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		DueDate:        dueDate,
		Items:          toLineItemInputs(req.Items),
		GlobalDiscount: req.GlobalDiscount.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// List handles GET /api/v1/invoices?company_id=
// @Summary      List invoices of a company
// @Tags         invoices
// @Produce      json
// @Param        company_id query string true "Company ID"
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} APIResponse{data=[]domain.Invoice,meta=PagMeta}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	companyID, err := uuid.Parse(c.Query("company_id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "company_id query parameter is required")
		return
	}
	offset, limit := parsePagination(c)

	invoices, total, err := h.invoiceService.List(c.Request.Context(), companyID, offset, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary      Get invoice
// @Description  Returns the invoice with its items and freshly computed totals
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      404 {object} APIResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// UpdateItems handles PUT /api/v1/invoices/:id/items
// @Summary      Replace line items
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        body body UpdateItemsRequest true "Items"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      400 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /invoices/{id}/items [put]
func (h *InvoiceHandler) UpdateItems(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid item list")
		return
	}

	inv, err := h.invoiceService.UpdateItems(c.Request.Context(), &service.UpdateItemsInput{
		InvoiceID:      invoiceID,
		Version:        req.Version,
		Items:          toLineItemInputs(req.Items),
		GlobalDiscount: req.GlobalDiscount.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// ReorderItems handles POST /api/v1/invoices/:id/items/reorder
// @Summary      Reorder line items
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        body body ReorderItemsRequest true "New order"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      400 {object} APIResponse
// @Failure      409 {object} APIResponse
// @Router       /invoices/{id}/items/reorder [post]
func (h *InvoiceHandler) ReorderItems(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req ReorderItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "item_ids is required")
		return
	}

	inv, err := h.invoiceService.ReorderItems(c.Request.Context(), invoiceID, req.ItemIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// MoveItem handles POST /api/v1/invoices/:id/items/:itemId/move
// @Summary      Move a line item up or down
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        itemId path string true "Line item ID"
// @Param        body body MoveItemRequest true "Direction"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Router       /invoices/{id}/items/{itemId}/move [post]
func (h *InvoiceHandler) MoveItem(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}
	itemID, ok := parseUUIDParam(c, "itemId", "line item")
	if !ok {
		return
	}

	var req MoveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "direction is required")
		return
	}

	inv, err := h.invoiceService.MoveItem(c.Request.Context(), invoiceID, itemID, req.Direction)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// RecomputeTotals handles POST /api/v1/invoices/:id/totals/recompute
// @Summary      Recompute and store totals
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse{data=domain.InvoiceTotals}
// @Failure      409 {object} APIResponse
// @Router       /invoices/{id}/totals/recompute [post]
func (h *InvoiceHandler) RecomputeTotals(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	totals, err := h.invoiceService.RecomputeTotals(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, totals)
}

// VerifyTotals handles GET /api/v1/invoices/:id/totals/verify
// @Summary      Compare stored totals with a fresh computation
// @Tags         invoices
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Success      200 {object} APIResponse{data=service.SnapshotCheck}
// @Failure      404 {object} APIResponse
// @Router       /invoices/{id}/totals/verify [get]
func (h *InvoiceHandler) VerifyTotals(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	check, err := h.invoiceService.VerifySnapshot(c.Request.Context(), invoiceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, check)
}

// Send handles POST /api/v1/invoices/:id/send
// @Summary      Mark draft invoice as sent
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        body body SendInvoiceRequest false "Issue date"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      409 {object} APIResponse
// @Router       /invoices/{id}/send [post]
func (h *InvoiceHandler) Send(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req SendInvoiceRequest
	_ = c.ShouldBindJSON(&req)
	issueDate, err := parseDate(req.IssueDate, h.now())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "issue_date must be YYYY-MM-DD")
		return
	}

	inv, err := h.invoiceService.MarkSent(c.Request.Context(), invoiceID, issueDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Pay handles POST /api/v1/invoices/:id/pay
// @Summary      Mark invoice as paid
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        id path string true "Invoice ID"
// @Param        body body PayInvoiceRequest false "Payment date"
// @Success      200 {object} APIResponse{data=domain.Invoice}
// @Failure      409 {object} APIResponse
// @Router       /invoices/{id}/pay [post]
func (h *InvoiceHandler) Pay(c *gin.Context) {
	invoiceID, ok := parseUUIDParam(c, "id", "invoice")
	if !ok {
		return
	}

	var req PayInvoiceRequest
	_ = c.ShouldBindJSON(&req)
	paidAt, err := parseDate(req.PaidAt, h.now())
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "paid_at must be YYYY-MM-DD")
		return
	}

	inv, err := h.invoiceService.MarkPaid(c.Request.Context(), invoiceID, paidAt)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}
