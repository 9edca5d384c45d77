package types

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode categorizes client errors
type ErrorCode string

const (
	ErrCodeUnknown                ErrorCode = "unknown"
	ErrCodeAuthenticationRequired ErrorCode = "authentication_required"
	ErrCodeTransport              ErrorCode = "transport"
	ErrCodeNoStreamBody           ErrorCode = "no_stream_body"
	ErrCodeUnexpectedContentType  ErrorCode = "unexpected_content_type"
	ErrCodeFrameParse             ErrorCode = "frame_parse"
	ErrCodeStream                 ErrorCode = "stream"
	ErrCodeTimeout                ErrorCode = "timeout"
	ErrCodeFallback               ErrorCode = "fallback"
	ErrCodeConfig                 ErrorCode = "config"
)

// ClientError represents a standardized error from the streaming client
type ClientError struct {
	Code        ErrorCode // Categorized error code
	Message     string    // Human-readable message
	StatusCode  int       // HTTP status code (0 if not applicable)
	Operation   string    // What operation failed (e.g., "conversation-stream")
	RequestID   string    // The X-Request-ID sent with the failing call
	OriginalErr error     // Wrapped original error
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d, code=%s)", e.Message, e.StatusCode, e.Code)
	}
	return fmt.Sprintf("%s (code=%s)", e.Message, e.Code)
}

// Unwrap returns the original error for errors.Is/As
func (e *ClientError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns true if the failure may succeed on a retry. Server
// reported stream errors are never retryable: the server already executed
// the request, so a silent replay risks duplicate side effects.
func (e *ClientError) IsRetryable() bool {
	switch e.Code {
	case ErrCodeTransport, ErrCodeTimeout, ErrCodeNoStreamBody:
		return true
	}
	return false
}

// WithStatusCode sets the status code field and returns the error for chaining
func (e *ClientError) WithStatusCode(statusCode int) *ClientError {
	e.StatusCode = statusCode
	return e
}

// WithOperation sets the operation field and returns the error for chaining
func (e *ClientError) WithOperation(operation string) *ClientError {
	e.Operation = operation
	return e
}

// WithRequestID sets the request ID field and returns the error for chaining
func (e *ClientError) WithRequestID(requestID string) *ClientError {
	e.RequestID = requestID
	return e
}

// WithOriginalErr sets the original error field and returns the error for chaining
func (e *ClientError) WithOriginalErr(err error) *ClientError {
	e.OriginalErr = err
	return e
}

// NewClientError creates a new ClientError
func NewClientError(code ErrorCode, message string) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
	}
}

// NewAuthRequiredError creates an error for calls made without a usable token
func NewAuthRequiredError() *ClientError {
	return &ClientError{
		Code:    ErrCodeAuthenticationRequired,
		Message: "no usable authentication token",
	}
}

// NewTransportError creates an error for a non-2xx HTTP response
func NewTransportError(statusCode int) *ClientError {
	return &ClientError{
		Code:       ErrCodeTransport,
		Message:    fmt.Sprintf("unexpected HTTP status %d", statusCode),
		StatusCode: statusCode,
	}
}

// NewNoStreamBodyError creates an error for a response with no readable body
func NewNoStreamBodyError() *ClientError {
	return &ClientError{
		Code:    ErrCodeNoStreamBody,
		Message: "response has no readable body",
	}
}

// NewUnexpectedContentTypeError creates an error for a non-streaming content type
func NewUnexpectedContentTypeError(contentType string) *ClientError {
	return &ClientError{
		Code:    ErrCodeUnexpectedContentType,
		Message: fmt.Sprintf("server responded with content type %q instead of a stream", contentType),
	}
}

// NewStreamError creates an error for an explicit error event from the server
func NewStreamError(message string) *ClientError {
	return &ClientError{
		Code:    ErrCodeStream,
		Message: message,
	}
}

// NewTimeoutError creates an error for an elapsed call timeout
func NewTimeoutError(message string) *ClientError {
	return &ClientError{
		Code:    ErrCodeTimeout,
		Message: message,
	}
}

// NewFallbackError creates an error for a failed fallback attempt
func NewFallbackError(err error) *ClientError {
	return &ClientError{
		Code:        ErrCodeFallback,
		Message:     fmt.Sprintf("fallback request failed: %v", err),
		OriginalErr: err,
	}
}

// NewConfigError creates an error for invalid configuration or routing input
func NewConfigError(message string) *ClientError {
	return &ClientError{
		Code:    ErrCodeConfig,
		Message: message,
	}
}

// AsClientError extracts a ClientError from an error chain
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// ClassifyHTTPStatus determines the error code for an HTTP status
func ClassifyHTTPStatus(statusCode int) ErrorCode {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrCodeAuthenticationRequired
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeTransport
	}
}
