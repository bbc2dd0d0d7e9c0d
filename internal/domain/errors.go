package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrCompanyNotFound      = errors.New("company not found")
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrLineItemNotFound     = errors.New("line item not found")
	ErrDuplicateInvoiceNo   = errors.New("invoice number already exists for this company")
	ErrInvoiceNotEditable   = errors.New("only draft invoices can be edited")
	ErrInvalidStatusChange  = errors.New("invalid invoice status transition")
	ErrConcurrentUpdate     = errors.New("invoice was modified concurrently")
	ErrReminderNotEligible  = errors.New("invoice is not eligible for a reminder")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// ValidationError reports invalid input data such as a negative quantity.
// It is returned before any computation takes place.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// ConfigurationError reports an invalid company configuration, e.g. a reminder policy
// with negative day counts. It is raised when the configuration is saved.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

// NewConfigurationError creates a ConfigurationError for the given field.
func NewConfigurationError(field, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
