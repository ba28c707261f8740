package apperrors

import (
	"errors"
	"fmt"
)

// Stable error kind tags surfaced to API callers. Handlers map these to HTTP
// status codes; the tags themselves never change once published.
const (
	KindValidation            = "validation_error"
	KindNotFound              = "not_found"
	KindInvalidState          = "invalid_state"
	KindInsufficientInventory = "insufficient_inventory"
	KindOverRelease           = "over_release"
	KindExpired               = "expired"
	KindAttemptsExhausted     = "attempts_exhausted"
	KindConflict              = "transaction_conflict"
)

// Error is the single error shape the core returns for expected failures.
// Remaining is only meaningful for insufficient-inventory errors, where the
// caller needs the actual remaining count to retry with a corrected quantity.
type Error struct {
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func InvalidState(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// InsufficientInventory reports a release request that exceeds remaining
// capacity, carrying the remaining count.
func InsufficientInventory(remaining, requested int) *Error {
	return &Error{
		Kind:      KindInsufficientInventory,
		Message:   fmt.Sprintf("requested %d pots but only %d remaining", requested, remaining),
		Remaining: remaining,
	}
}

func OverRelease(remaining, requested int) *Error {
	return &Error{
		Kind:      KindOverRelease,
		Message:   fmt.Sprintf("release of %d pots would exceed the %d remaining", requested, remaining),
		Remaining: remaining,
	}
}

func Expired(format string, args ...interface{}) *Error {
	return &Error{Kind: KindExpired, Message: fmt.Sprintf(format, args...)}
}

func AttemptsExhausted(format string, args ...interface{}) *Error {
	return &Error{Kind: KindAttemptsExhausted, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind tag of err, or "" when err is not an *Error.
func KindOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind tag.
func IsKind(err error, kind string) bool {
	return KindOf(err) == kind
}
