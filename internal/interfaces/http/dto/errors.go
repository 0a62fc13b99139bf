package dto

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/pharma/backend/internal/domain/shared"
)

// Error codes surfaced by the API. Domain errors carry the same codes, so
// no translation layer sits between the services and the wire.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeTotalMismatch      = "TOTAL_MISMATCH"
	ErrCodeInsufficientStock  = "INSUFFICIENT_STOCK"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeCheckoutInProgress = "CHECKOUT_IN_PROGRESS"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes.
// Business-rule rejections of well-formed requests map to 422.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeAlreadyExists:      http.StatusConflict,
	ErrCodeInvalidInput:       http.StatusBadRequest,
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeTotalMismatch:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:  http.StatusUnprocessableEntity,
	ErrCodeInvalidCredentials: http.StatusUnauthorized,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeCheckoutInProgress: http.StatusConflict,
	ErrCodeStorageUnavailable: http.StatusServiceUnavailable,
	ErrCodeInternal:           http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status for an error code, defaulting to
// 500 for codes with no mapping
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// FromError converts any error into an error response. Domain errors keep
// their code, message, and details; everything else becomes INTERNAL_ERROR
// without leaking internals.
func FromError(err error) (int, Response) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		resp := NewErrorResponse(domainErr.Code, domainErr.Message).WithDetails(domainErr.Details)
		return GetHTTPStatus(domainErr.Code), resp
	}
	return http.StatusInternalServerError, NewErrorResponse(ErrCodeInternal, "An unexpected error occurred")
}

// FromValidationError converts gin binding failures into a VALIDATION_ERROR
// response listing the offending fields
func FromValidationError(err error) (int, Response) {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return http.StatusBadRequest, NewErrorResponse(ErrCodeInvalidInput, "Invalid request body")
	}

	fields := make(map[string]any, len(validationErrs))
	for _, fieldErr := range validationErrs {
		fields[lowerFirst(fieldErr.Field())] = validationMessage(fieldErr)
	}
	resp := NewErrorResponse(ErrCodeValidation, "Request validation failed").
		WithDetails(map[string]any{"fields": fields})
	return http.StatusBadRequest, resp
}

func validationMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fieldErr.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fieldErr.Param())
	case "gte":
		return fmt.Sprintf("must be %s or greater", fieldErr.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fieldErr.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fieldErr.Param())
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s validation", fieldErr.Tag())
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
