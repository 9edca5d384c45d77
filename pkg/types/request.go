package types

import (
	"strings"
	"time"
)

// StreamRequest is the outbound envelope for streaming and fallback calls.
type StreamRequest struct {
	UserResponse     string   `json:"userResponse"`
	MessageTimestamp string   `json:"messageTimestamp"`
	ImageS3Keys      []string `json:"imageS3Keys,omitempty"`
}

// NewStreamRequest builds a request stamped with the current time.
func NewStreamRequest(userResponse string) StreamRequest {
	return StreamRequest{
		UserResponse:     userResponse,
		MessageTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// WithImages attaches uploaded image keys to the request.
func (r StreamRequest) WithImages(keys []string) StreamRequest {
	r.ImageS3Keys = keys
	return r
}

// Validate checks the request invariants. It runs before any network
// activity so invalid requests never reach the transport.
func (r StreamRequest) Validate() error {
	if strings.TrimSpace(r.UserResponse) == "" {
		return ErrEmptyUserResponse
	}
	if r.ImageS3Keys != nil && len(r.ImageS3Keys) == 0 {
		return ErrEmptyImageKeys
	}
	for _, key := range r.ImageS3Keys {
		if strings.TrimSpace(key) == "" {
			return ErrBlankImageKey
		}
	}
	if r.MessageTimestamp != "" {
		if _, err := time.Parse(time.RFC3339, r.MessageTimestamp); err != nil {
			return ErrBadTimestamp
		}
	}
	return nil
}

// Common validation errors
var (
	ErrEmptyUserResponse = NewValidationError("userResponse must not be empty")
	ErrEmptyImageKeys    = NewValidationError("imageS3Keys must not be an empty array")
	ErrBlankImageKey     = NewValidationError("imageS3Keys must not contain blank keys")
	ErrBadTimestamp      = NewValidationError("messageTimestamp must be RFC3339")
)

// ValidationError represents a validation error
type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}
