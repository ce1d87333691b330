// Package errors defines errors that are safe to show to API clients.
package errors

import (
	"fmt"
	"net/http"
)

// Machine-readable error codes.
const (
	CodeMissingToken = "missing_token"
	CodeInvalidToken = "invalid_token"
	CodeForbidden    = "forbidden"
	CodeValidation   = "validation_failed"
	CodeNotFound     = "not_found"
	CodeInternal     = "internal_error"
)

// APIError is an error with the HTTP status and message returned to the client.
type APIError struct {
	HTTPCode int
	Code     string
	Message  string
}

func (e *APIError) Error() string {
	return e.Message
}

func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeMissingToken,
		Message:  "Not authorized to access this route",
	}
}

// NewErrInvalidAuthorizationToken never says which validator rejected the token.
func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{
		HTTPCode: http.StatusUnauthorized,
		Code:     CodeInvalidToken,
		Message:  "Not authorized to access this route",
	}
}

func NewErrAdminOnly() *APIError {
	return &APIError{
		HTTPCode: http.StatusForbidden,
		Code:     CodeForbidden,
		Message:  "Access denied. Admin only.",
	}
}

func NewErrForbidden() *APIError {
	return &APIError{
		HTTPCode: http.StatusForbidden,
		Code:     CodeForbidden,
		Message:  "Not authorized to access this resource",
	}
}

func NewErrValidation(msg string) *APIError {
	return &APIError{
		HTTPCode: http.StatusBadRequest,
		Code:     CodeValidation,
		Message:  msg,
	}
}

func NewErrProductNotFound(id string) *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("product %s not found", id),
	}
}

func NewErrOrderNotFound(id string) *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("order %s not found", id),
	}
}

func NewErrImageNotFound(id string) *APIError {
	return &APIError{
		HTTPCode: http.StatusNotFound,
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("image for product %s not found", id),
	}
}

func NewErrInternal() *APIError {
	return &APIError{
		HTTPCode: http.StatusInternalServerError,
		Code:     CodeInternal,
		Message:  "internal server error",
	}
}
