package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"faktura/internal/domain"
	"faktura/internal/middleware"
)

const dateLayout = "2006-01-02"

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	var vErr *domain.ValidationError
	var cErr *domain.ConfigurationError

	switch {
	case errors.As(err, &vErr):
		return http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error()
	case errors.As(err, &cErr):
		return http.StatusUnprocessableEntity, "INVALID_CONFIGURATION", cErr.Error()
	case errors.Is(err, domain.ErrCompanyNotFound):
		return http.StatusNotFound, "COMPANY_NOT_FOUND", "company not found"
	case errors.Is(err, domain.ErrInvoiceNotFound):
		return http.StatusNotFound, "INVOICE_NOT_FOUND", "invoice not found"
	case errors.Is(err, domain.ErrLineItemNotFound):
		return http.StatusNotFound, "LINE_ITEM_NOT_FOUND", "line item not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrDuplicateInvoiceNo):
		return http.StatusConflict, "DUPLICATE_INVOICE_NUMBER", "invoice number already exists for this company"
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return http.StatusConflict, "CONCURRENT_UPDATE", "invoice was modified concurrently; reload and retry"
	case errors.Is(err, domain.ErrInvoiceNotEditable):
		return http.StatusConflict, "INVOICE_NOT_EDITABLE", "only draft invoices can be edited"
	case errors.Is(err, domain.ErrInvalidStatusChange):
		return http.StatusConflict, "INVALID_STATUS_CHANGE", err.Error()
	case errors.Is(err, domain.ErrReminderNotEligible):
		return http.StatusUnprocessableEntity, "REMINDER_NOT_ELIGIBLE", err.Error()
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// errorHandler sends domain errors and logs the ones that map to a 5xx.
type errorHandler struct {
	logger *zap.Logger
}

// HandleError maps a domain error and sends the appropriate error response.
func (h errorHandler) HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		h.logger.Error("internal error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}

	apiErr := &APIError{Code: code, Message: msg}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		apiErr.Field = vErr.Field
	}
	var cErr *domain.ConfigurationError
	if errors.As(err, &cErr) {
		apiErr.Field = cErr.Field
	}
	c.JSON(status, APIResponse{Success: false, Error: apiErr})
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// parseUUIDParam reads a path parameter as UUID. It writes the error response
// and returns false when the value is malformed.
func parseUUIDParam(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// parseDate parses a YYYY-MM-DD value as a UTC date; empty values yield fallback.
func parseDate(value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseInLocation(dateLayout, value, time.UTC)
}
