package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"stock-service/internal/domain"
)

// StandardError represents a standardized error response
type StandardError struct {
	Code    string `json:"error"`   // Error code/type (e.g., "InvalidRequest", "NotFound")
	Message string `json:"message"` // Human-readable error message
	Details string `json:"details"` // Additional details (field name, validation info, etc.)
}

// Error implements the error interface
func (e *StandardError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case "InvalidRequest", "ValidationError", "InvalidArgument":
		return http.StatusBadRequest
	case "NotFound":
		return http.StatusNotFound
	case "Conflict":
		return http.StatusConflict
	case "BrokerConnectionError", "ServiceUnavailable":
		return http.StatusServiceUnavailable
	case "DatabaseError", "InternalError":
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewStandardError creates a new StandardError
func NewStandardError(errorCode, message, details string) *StandardError {
	return &StandardError{
		Code:    errorCode,
		Message: message,
		Details: details,
	}
}

// Common error constructors
func NewInvalidRequest(message, details string) *StandardError {
	return NewStandardError("InvalidRequest", message, details)
}

func NewValidationError(message, field string) *StandardError {
	return NewStandardError("ValidationError", message, fmt.Sprintf("Field: %s", field))
}

func NewInvalidID(resource, raw string) *StandardError {
	return NewStandardError("InvalidRequest", fmt.Sprintf("invalid %s id", resource), fmt.Sprintf("ID: %s", raw))
}

func NewDatabaseError(operation string, err error) *StandardError {
	return NewStandardError("DatabaseError", fmt.Sprintf("database operation failed: %s", operation), err.Error())
}

func NewInternalError(message string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return NewStandardError("InternalError", message, details)
}

// FromError converts any error returned by the service layer into a StandardError.
// Domain errors keep their kind as code; everything else becomes an InternalError.
func FromError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}

	var domainErr *domain.Error
	if stderrors.As(err, &domainErr) {
		return NewStandardError(string(domainErr.Kind), domainErr.Message, "")
	}

	return NewInternalError("internal server error", err)
}
