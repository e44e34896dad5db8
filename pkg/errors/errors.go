package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a typed domain error carrying a stable code and the HTTP status
// it should surface as. Unassessed COs are deliberately not represented
// here; NA is data, not failure.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an Error with the given code, status and message.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches a typed code and message to an underlying error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Sentinels used across the engine and its HTTP surface.
var (
	ErrNotFound           = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict           = New("CONFLICT", http.StatusConflict, "conflict")
	ErrPreconditionFailed = New("PRECONDITION_FAILED", http.StatusPreconditionFailed, "precondition failed")
	ErrValidation         = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrInternal           = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrInvalidThresholds  = New("INVALID_THRESHOLDS", http.StatusBadRequest, "invalid attainment thresholds")
	ErrEmptyImport        = New("EMPTY_IMPORT", http.StatusBadRequest, "import payload contains no data rows")
	ErrCacheMiss          = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// FromError normalises any error into an *Error. Untyped errors become
// internal server errors with the original cause preserved for logs.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone copies a sentinel so its message can be specialised without
// mutating the shared value. Matching via errors.Is still works through
// the shared code.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}

// Is reports whether target shares the same code, letting cloned sentinels
// match their originals.
func (e *Error) Is(target error) bool {
	var typed *Error
	if !errors.As(target, &typed) {
		return false
	}
	return e != nil && typed != nil && e.Code == typed.Code
}
