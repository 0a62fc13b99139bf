package shared

import "fmt"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// WithDetail attaches a diagnostic field to the error and returns it
func (e *DomainError) WithDetail(key string, value any) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound           = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists      = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput       = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrStorageUnavailable = NewDomainError("STORAGE_UNAVAILABLE", "Storage backend is unavailable")
)

// NewNotFoundError creates a NOT_FOUND error for a specific entity kind
func NewNotFoundError(kind string, id int64) *DomainError {
	return NewDomainError("NOT_FOUND", fmt.Sprintf("%s %d not found", kind, id)).
		WithDetail("kind", kind).
		WithDetail("id", id)
}

// NewAlreadyExistsError creates an ALREADY_EXISTS error for a unique field collision
func NewAlreadyExistsError(kind, field, value string) *DomainError {
	return NewDomainError("ALREADY_EXISTS", fmt.Sprintf("%s with this %s already exists", kind, field)).
		WithDetail("kind", kind).
		WithDetail("field", field).
		WithDetail("value", value)
}

// NewTotalMismatchError creates a TOTAL_MISMATCH error carrying both totals
func NewTotalMismatchError(declared, calculated float64) *DomainError {
	return NewDomainError("TOTAL_MISMATCH", "Transaction total does not match items").
		WithDetail("declared_total", declared).
		WithDetail("calculated_total", calculated)
}

// NewInsufficientStockError creates an INSUFFICIENT_STOCK error carrying
// the product, the requested quantity, and what is actually available
func NewInsufficientStockError(productID int64, requested, available int) *DomainError {
	return NewDomainError("INSUFFICIENT_STOCK", fmt.Sprintf("Insufficient stock for product %d", productID)).
		WithDetail("product_id", productID).
		WithDetail("requested", requested).
		WithDetail("available", available)
}

// NewStorageUnavailableError wraps a backend failure as STORAGE_UNAVAILABLE
func NewStorageUnavailableError(cause error) *DomainError {
	e := NewDomainError("STORAGE_UNAVAILABLE", "Storage backend is unavailable")
	if cause != nil {
		e = e.WithDetail("cause", cause.Error())
	}
	return e
}
