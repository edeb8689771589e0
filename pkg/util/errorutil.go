package util

import (
	"errors"
	"fmt"
	"net/http"
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

// NewRateLimited reports a rejected action and how long the actor must wait
// before the per-action cooldown clears.
func NewRateLimited(waitSeconds int64) error {
	return NewDomainError("RATE_LIMITED", "action is on cooldown", http.StatusTooManyRequests, map[string]any{
		"wait_seconds": waitSeconds,
	})
}

// NewWindowExceeded reports that the sliding-window cap was hit. Unlike the
// cooldown there is no single wait estimate; the window drains gradually.
func NewWindowExceeded() error {
	return NewDomainError("WINDOW_EXCEEDED", "too many actions in a short period", http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if de, ok := NewInternalError(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// RateLimitWait extracts the wait estimate from a RATE_LIMITED error, or 0.
func RateLimitWait(err error) int64 {
	de := ToDomainError(err)
	if de == nil || de.Code != "RATE_LIMITED" {
		return 0
	}
	if wait, ok := de.Details["wait_seconds"].(int64); ok {
		return wait
	}
	return 0
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
