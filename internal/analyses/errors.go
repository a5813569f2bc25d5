package analyses

import (
	"errors"
	"net/http"
)

// Domain errors for analysis operations.
var (
	ErrValidation   = errors.New("validation failed")
	ErrPersistence  = errors.New("persistence failure")
	ErrNotFound     = errors.New("analysis not found")
	ErrDuplicate    = errors.New("analysis already exists")
	ErrBodyTooLarge = errors.New("request body too large")
)

// Validation reasons reported to clients.
const (
	ReasonMissing       = "missing"
	ReasonEmpty         = "empty"
	ReasonTooLong       = "too_long"
	ReasonEmptyBatch    = "empty_batch"
	ReasonBatchTooLarge = "batch_too_large"
	ReasonMalformed     = "malformed"
)

// ValidationError is a client-caused rejection. errors.Is(err, ErrValidation)
// holds for every ValidationError.
type ValidationError struct {
	Reason  string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ReasonCode returns the machine-readable rejection reason.
func (e *ValidationError) ReasonCode() string { return e.Reason }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(reason, message string) *ValidationError {
	return &ValidationError{Reason: reason, Message: message}
}

// MapHTTPStatus maps analysis domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrValidation) {
		return http.StatusBadRequest
	}
	if errors.Is(err, ErrBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
