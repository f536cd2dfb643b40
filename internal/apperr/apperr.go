package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error. The HTTP boundary maps each kind
// to a status exactly once; lower layers never translate between kinds.
type Kind int

const (
	KindValidation Kind = iota
	KindExternalService
	KindTimeout
	KindAuthentication
	KindAuthorization
	KindRateLimit
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindExternalService:
		return "external_service"
	case KindTimeout:
		return "timeout"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "unknown"
	}
}

// Error is the single error type crossing package boundaries. StatusCode
// is the HTTP status the boundary layer should answer with; Service names
// the upstream that produced an external failure.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Code       string
	Service    string
	Err        error
}

func (e *Error) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidation(message string) *Error {
	return &Error{
		Kind:       KindValidation,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Code:       "validation_error",
	}
}

func NewExternalService(service, message string, err error) *Error {
	return &Error{
		Kind:       KindExternalService,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Code:       "external_service_error",
		Service:    service,
		Err:        err,
	}
}

func NewTimeout(service, message string, err error) *Error {
	return &Error{
		Kind:       KindTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Code:       "request_timeout",
		Service:    service,
		Err:        err,
	}
}

func NewAuthentication(message string) *Error {
	return &Error{
		Kind:       KindAuthentication,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
		Code:       "authentication_error",
	}
}

func NewAuthorization(message string) *Error {
	return &Error{
		Kind:       KindAuthorization,
		Message:    message,
		StatusCode: http.StatusForbidden,
		Code:       "authorization_error",
	}
}

func NewRateLimit(message string) *Error {
	return &Error{
		Kind:       KindRateLimit,
		Message:    message,
		StatusCode: http.StatusTooManyRequests,
		Code:       "rate_limit_exceeded",
	}
}

// From extracts an *Error from err, or wraps err as an ExternalService
// failure when it carries no classification.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewExternalService("", err.Error(), err)
}

func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	return appErr.Kind == kind
}
