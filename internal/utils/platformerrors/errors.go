package platformerrors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type Layer string

const (
	LayerDomain         Layer = "domain"
	LayerRepository     Layer = "repository"
	LayerHandler        Layer = "handler"
	LayerInfrastructure Layer = "infrastructure"
)

type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeInternal   ErrorType = "internal"
	ErrorTypeExternal   ErrorType = "external"
)

// RequestIDKey is the context key the HTTP layer stores the request id under.
type RequestIDKey struct{}

// PlatformError is the error shape shared by every layer. UUID is a stable
// identifier of the call site so a log line can be traced back to code.
type PlatformError struct {
	Layer     Layer
	Type      ErrorType
	Message   string
	Cause     error
	UUID      string
	RequestID string
}

func (e *PlatformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *PlatformError) Unwrap() error {
	return e.Cause
}

// NewError creates a typed error. cause may be nil.
func NewError(ctx context.Context, layer Layer, errType ErrorType, message string, cause error, uuid string) *PlatformError {
	return &PlatformError{
		Layer:     layer,
		Type:      errType,
		Message:   message,
		Cause:     cause,
		UUID:      uuid,
		RequestID: requestIDFrom(ctx),
	}
}

// AsError wraps err with a message. An existing PlatformError keeps its type
// and uuid; anything else becomes an internal error.
func AsError(ctx context.Context, layer Layer, err error, message string) error {
	if err == nil {
		return nil
	}
	var pe *PlatformError
	if errors.As(err, &pe) {
		return &PlatformError{
			Layer:     layer,
			Type:      pe.Type,
			Message:   message,
			Cause:     err,
			UUID:      pe.UUID,
			RequestID: firstNonEmpty(pe.RequestID, requestIDFrom(ctx)),
		}
	}
	return &PlatformError{
		Layer:     layer,
		Type:      ErrorTypeInternal,
		Message:   message,
		Cause:     err,
		RequestID: requestIDFrom(ctx),
	}
}

// IsErrorType reports whether any PlatformError in err's chain has errType.
func IsErrorType(err error, errType ErrorType) bool {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Type == errType
	}
	return false
}

// TypeOf returns the outermost platform error type, or internal.
func TypeOf(err error) ErrorType {
	var pe *PlatformError
	if errors.As(err, &pe) {
		return pe.Type
	}
	return ErrorTypeInternal
}

// HTTPStatus maps an error type to the status code returned to clients.
func HTTPStatus(errType ErrorType) int {
	switch errType {
	case ErrorTypeValidation:
		return http.StatusBadRequest
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requestIDFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
