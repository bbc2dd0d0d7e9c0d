package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faktura/internal/service"
)

// CompanyHandler handles company management endpoints.
type CompanyHandler struct {
	errorHandler
	companyService service.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService service.CompanyService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{errorHandler: errorHandler{logger: logger}, companyService: companyService}
}

// Create handles POST /api/v1/companies
// @Summary      Create company
// @Description  Creates a company with its discount, small-business and reminder settings
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body body CompanyRequest true "Company"
// @Success      201 {object} APIResponse{data=domain.Company}
// @Failure      400 {object} APIResponse
// @Failure      422 {object} APIResponse
// @Router       /companies [post]
func (h *CompanyHandler) Create(c *gin.Context) {
	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	company, err := h.companyService.Create(c.Request.Context(), &service.CreateCompanyInput{
		Name:             req.Name,
		Email:            req.Email,
		DiscountsEnabled: req.DiscountsEnabled,
		IsSmallBusiness:  req.IsSmallBusiness,
		ReminderPolicy:   req.ReminderPolicy.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondCreated(c, company)
}

// List handles GET /api/v1/companies
// @Summary      List companies
// @Tags         companies
// @Produce      json
// @Param        offset query int false "Pagination offset" default(0)
// @Param        limit query int false "Pagination limit" default(20)
// @Success      200 {object} APIResponse{data=[]domain.Company,meta=PagMeta}
// @Router       /companies [get]
func (h *CompanyHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	companies, total, err := h.companyService.List(c.Request.Context(), offset, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondPaginated(c, companies, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/companies/:id
// @Summary      Get company
// @Tags         companies
// @Produce      json
// @Param        id path string true "Company ID"
// @Success      200 {object} APIResponse{data=domain.Company}
// @Failure      404 {object} APIResponse
// @Router       /companies/{id} [get]
func (h *CompanyHandler) GetByID(c *gin.Context) {
	companyID, ok := parseUUIDParam(c, "id", "company")
	if !ok {
		return
	}

	company, err := h.companyService.GetByID(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, company)
}

// Update handles PUT /api/v1/companies/:id
// @Summary      Update company
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        id path string true "Company ID"
// @Param        body body CompanyRequest true "Company"
// @Success      200 {object} APIResponse{data=domain.Company}
// @Failure      400 {object} APIResponse
// @Failure      404 {object} APIResponse
// @Failure      422 {object} APIResponse
// @Router       /companies/{id} [put]
func (h *CompanyHandler) Update(c *gin.Context) {
	companyID, ok := parseUUIDParam(c, "id", "company")
	if !ok {
		return
	}

	var req CompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return
	}

	company, err := h.companyService.Update(c.Request.Context(), &service.UpdateCompanyInput{
		CompanyID:        companyID,
		Name:             req.Name,
		Email:            req.Email,
		DiscountsEnabled: req.DiscountsEnabled,
		IsSmallBusiness:  req.IsSmallBusiness,
		ReminderPolicy:   req.ReminderPolicy.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	RespondOK(c, company)
}
