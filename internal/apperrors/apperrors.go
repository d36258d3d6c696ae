package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors describing the failure classes of the storefront.
// Wrap them with the constructors below and match with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateIdentity  = errors.New("identity already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPersistence        = errors.New("persistence failure")
	ErrConfiguration      = errors.New("configuration error")
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
)

// DomainError standardizes application errors returned to HTTP callers.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]string
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

// Validation reports missing or malformed input. details maps field names to guidance.
func Validation(message string, details map[string]string) error {
	return &DomainError{
		Code:       "VALIDATION_FAILED",
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
		Err:        ErrValidation,
	}
}

// DuplicateIdentity reports a registration conflict.
func DuplicateIdentity() error {
	return &DomainError{
		Code:       "DUPLICATE_IDENTITY",
		Message:    "User already exists with this email address.",
		HTTPStatus: http.StatusBadRequest,
		Err:        ErrDuplicateIdentity,
	}
}

// InvalidCredentials is the single login failure, whatever the cause.
func InvalidCredentials() error {
	return &DomainError{
		Code:       "INVALID_CREDENTIALS",
		Message:    "Invalid email or password.",
		HTTPStatus: http.StatusBadRequest,
		Err:        ErrInvalidCredentials,
	}
}

// Unauthorized reports a missing, forged or expired bearer token.
func Unauthorized(message string) error {
	return &DomainError{
		Code:       "UNAUTHORIZED",
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
		Err:        ErrUnauthorized,
	}
}

// NotFound reports an absent resource.
func NotFound(resource string) error {
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Err:        ErrNotFound,
	}
}

// Persistence wraps a storage failure. The cause is kept for logs only.
func Persistence(op string, cause error) error {
	return &DomainError{
		Code:       "PERSISTENCE_FAILURE",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        fmt.Errorf("%s: %w: %w", op, ErrPersistence, cause),
	}
}

// Configuration reports invalid process configuration. It is fatal at startup.
func Configuration(message string) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, message)
}

// From converts any error into a DomainError. Unknown errors become a generic 500.
func From(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
