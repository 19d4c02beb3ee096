package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeThrottled    ErrorCode = "THROTTLED"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Gateway error taxonomy. Malformed, unsigned, and expired tokens all
// collapse into ErrInvalidToken so that clients cannot tell which check
// failed.
var (
	ErrInvalidToken = NewError(ErrCodeUnauthorized, "invalid token")
	ErrNoToken      = NewError(ErrCodeUnauthorized, "no credential supplied")
	ErrRoleDenied   = NewError(ErrCodeForbidden, "insufficient role")
	ErrRateExceeded = NewError(ErrCodeThrottled, "too many requests")
)

// Account-flow errors.
var (
	ErrUserNotFound       = NewError(ErrCodeNotFound, "user not found")
	ErrEmailTaken         = NewError(ErrCodeConflict, "user with this email already exists")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid email or password")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
