// Package apperr defines the typed error taxonomy shared by every service in
// the transaction core. Business-rule violations are returned as *Error values
// and recovered at the handler boundary — nothing in the core panics or throws
// for control flow. The package also owns the canonical JSON error envelope so
// that internal details (stack traces, SQL errors) never leak to clients.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP mapping and client retry semantics.
type Kind int

const (
	// KindInternal is the fallback for unexpected infrastructure failures.
	KindInternal Kind = iota
	// KindValidation — malformed input. Never retried automatically.
	KindValidation
	// KindNotFound — missing session, order, item or menu reference.
	KindNotFound
	// KindForbidden — discount-tier or role violation.
	KindForbidden
	// KindConflict — optimistic-version mismatch or idempotency replay race.
	KindConflict
	// KindInvalidAmount — payment/refund amount fails the > 0 bound.
	KindInvalidAmount
	// KindAmountExceedsBalance — payment over remaining balance, or refund
	// over total paid.
	KindAmountExceedsBalance
	// KindStateTransition — illegal order-status move.
	KindStateTransition
	// KindEmptyCart — checkout attempted on an empty cart.
	KindEmptyCart
	// KindUnavailable — referenced menu item is hidden or gone. Recoverable:
	// the cart is left untouched.
	KindUnavailable
)

// Error carries a kind plus a client-safe message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return newf(KindValidation, format, args...)
}

func NotFound(format string, args ...interface{}) *Error {
	return newf(KindNotFound, format, args...)
}

func Forbidden(format string, args ...interface{}) *Error {
	return newf(KindForbidden, format, args...)
}

func Conflict(format string, args ...interface{}) *Error {
	return newf(KindConflict, format, args...)
}

func InvalidAmount(format string, args ...interface{}) *Error {
	return newf(KindInvalidAmount, format, args...)
}

func AmountExceedsBalance(format string, args ...interface{}) *Error {
	return newf(KindAmountExceedsBalance, format, args...)
}

func StateTransition(format string, args ...interface{}) *Error {
	return newf(KindStateTransition, format, args...)
}

func EmptyCart() *Error {
	return &Error{Kind: KindEmptyCart, Msg: "cart is empty"}
}

func Unavailable(format string, args ...interface{}) *Error {
	return newf(KindUnavailable, format, args...)
}

// KindOf extracts the Kind from any error chain. Unknown errors map to
// KindInternal so callers can treat them as retryable infrastructure faults.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool { return KindOf(err) == kind }

// HTTPStatus maps an error kind to its HTTP status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindEmptyCart, KindInvalidAmount:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindAmountExceedsBalance, KindStateTransition, KindUnavailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation failed", Fields: fields}
}
