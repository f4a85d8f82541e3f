package apperrors

import (
	"errors"
	"net/http"
)

// Kind classifies an application error so the HTTP layer can map it to a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindInsufficientPayment
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindDataIntegrity
	KindTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindInsufficientPayment:
		return "INSUFFICIENT_PAYMENT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindUnauthorized:
		return "UNAUTHORIZED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindDataIntegrity:
		return "DATA_INTEGRITY_ERROR"
	case KindTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return "INTERNAL_ERROR"
	}
}

// StatusCode returns the HTTP status for the kind.
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation, KindInsufficientPayment:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// IsValidation reports whether the kind is a validation failure.
// Insufficient payment counts as one.
func (k Kind) IsValidation() bool {
	return k == KindValidation || k == KindInsufficientPayment
}

// Exposed reports whether the message may be shown to API clients.
func (k Kind) Exposed() bool {
	return k != KindInternal && k != KindDataIntegrity
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *Error {
	return New(KindValidation, message)
}

func InsufficientPayment(message string) *Error {
	return New(KindInsufficientPayment, message)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

func Conflict(message string) *Error {
	return New(KindConflict, message)
}

func Unauthorized(message string) *Error {
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

func DataIntegrity(message string, err error) *Error {
	return Wrap(KindDataIntegrity, message, err)
}

func Internal(message string, err error) *Error {
	return Wrap(KindInternal, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func StatusCode(err error) int {
	return KindOf(err).StatusCode()
}

// PublicMessage returns the message safe to send to a client.
func PublicMessage(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Kind.Exposed() {
		return appErr.Message
	}
	return "internal server error"
}

func TooManyRequests(message string) *Error {
	return New(KindTooManyRequests, message)
}
