package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sharek-engine/internal/domain"
	"github.com/spec-kit/sharek-engine/internal/persistence"
)

// CodeContentFlagged marks submissions held back by moderation.
const CodeContentFlagged = "CONTENT_FLAGGED"

// DomainError standardizes errors rendered to the UI layer.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts sentinel and transport errors to a DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return NewDomainError("VALIDATION_FAILED", validationErr.Message, http.StatusBadRequest,
			map[string]any{"field": validationErr.Field})
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return NewDomainError(codeForStatus(fiberErr.Code), fiberErr.Message, fiberErr.Code, nil)
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return NewDomainError("NOT_FOUND", "resource not found", http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrAlreadyExists):
		return NewDomainError("CONFLICT", "resource already exists", http.StatusConflict, nil)
	case errors.Is(err, domain.ErrFlagged):
		return NewDomainError(CodeContentFlagged, "content was rejected by moderation", http.StatusUnprocessableEntity, nil)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return NewDomainError("UNAUTHORIZED", "invalid credentials", http.StatusUnauthorized, nil)
	case errors.Is(err, domain.ErrValidation):
		return NewDomainError("VALIDATION_FAILED", err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, persistence.ErrStorage):
		return &DomainError{
			Code:       "STORAGE_UNAVAILABLE",
			Message:    "storage failure",
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        err,
		}
	}

	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return nil
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "VALIDATION_FAILED"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusRequestTimeout:
		return "TIMEOUT"
	default:
		if status >= 500 {
			return "INTERNAL_ERROR"
		}
		return "REQUEST_FAILED"
	}
}
