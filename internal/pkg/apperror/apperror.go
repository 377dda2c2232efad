package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an application error for transport mapping and logging.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConflict
	KindInsufficientBalance
	KindConcurrencyConflict
	KindInternalInvariant
	KindExternalGateway
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindInternalInvariant:
		return "internal_invariant"
	case KindExternalGateway:
		return "external_gateway"
	default:
		return "unknown"
	}
}

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Validation(message string) *AppError {
	return New(KindValidation, message)
}

func Validationf(format string, args ...interface{}) *AppError {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Conflict(message string) *AppError {
	return New(KindConflict, message)
}

func InsufficientBalance(message string) *AppError {
	return New(KindInsufficientBalance, message)
}

func ConcurrencyConflict(message string) *AppError {
	return New(KindConcurrencyConflict, message)
}

func InternalInvariant(message string) *AppError {
	return New(KindInternalInvariant, message)
}

func ExternalGateway(message string, err error) *AppError {
	return Wrap(KindExternalGateway, message, err)
}

// KindOf extracts the Kind from any error in the chain, or KindUnknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given Kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// UserMessage returns the message safe to surface to a caller. Internal
// invariant violations and gateway failures must not leak internals.
func UserMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "something went wrong, please try again or contact support"
	}
	switch appErr.Kind {
	case KindValidation, KindConflict, KindInsufficientBalance, KindConcurrencyConflict, KindExternalGateway:
		return appErr.Message
	default:
		return "something went wrong, please try again or contact support"
	}
}
