package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/timesheet-service/internal/domain"
)

// DomainError standardizes application errors.
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

// NewInvalidRange flags a malformed time span on entry creation.
func NewInvalidRange(message string) error {
	return NewDomainError("INVALID_RANGE", message, http.StatusUnprocessableEntity, nil)
}

// NewInvalidSelection flags an aggregation request over missing, foreign
// or already claimed entries. The whole batch is rejected.
func NewInvalidSelection(details map[string]any) error {
	return NewDomainError("INVALID_SELECTION",
		"some entries are invalid or already billed", http.StatusUnprocessableEntity, details)
}

// NewInconsistentDepartment flags a mixed-department aggregation request.
func NewInconsistentDepartment(details map[string]any) error {
	return NewDomainError("INCONSISTENT_DEPARTMENT",
		"selected entries must share one department", http.StatusUnprocessableEntity, details)
}

// NewAggregationFailed wraps a storage-level failure during the atomic
// aggregation unit of work, with the cause attached for diagnostics.
func NewAggregationFailed(err error) error {
	return &DomainError{
		Code:       "AGGREGATION_FAILED",
		Message:    "failed to create billing run",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
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

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError("CONFLICT", message, http.StatusConflict, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError, mapping the core's
// sentinel errors onto response codes.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		return NewInvalidRange(err.Error()).(*DomainError)
	case errors.Is(err, domain.ErrInvalidSelection):
		return NewInvalidSelection(nil).(*DomainError)
	case errors.Is(err, domain.ErrInconsistentDepartment):
		return NewInconsistentDepartment(nil).(*DomainError)
	case errors.Is(err, domain.ErrInvalidTransition):
		return NewConflict(err.Error(), nil).(*DomainError)
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, pgx.ErrNoRows):
		return NewNotFound("resource", nil).(*DomainError)
	}
	return NewInternalError(err).(*DomainError)
}

func MapError(err error) error {
	return ToDomainError(err)
}
