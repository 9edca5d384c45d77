package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientError_Error(t *testing.T) {
	err := NewTransportError(502)
	assert.Equal(t, "unexpected HTTP status 502 (status=502, code=transport)", err.Error())

	err = NewStreamError("model unavailable")
	assert.Equal(t, "model unavailable (code=stream)", err.Error())
}

func TestClientError_Chaining(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewClientError(ErrCodeTransport, "request failed").
		WithStatusCode(500).
		WithOperation("conversation-stream").
		WithRequestID("req-1").
		WithOriginalErr(cause)

	assert.Equal(t, ErrCodeTransport, err.Code)
	assert.Equal(t, 500, err.StatusCode)
	assert.Equal(t, "conversation-stream", err.Operation)
	assert.Equal(t, "req-1", err.RequestID)
	assert.True(t, errors.Is(err, cause))
}

func TestClientError_IsRetryable(t *testing.T) {
	assert.True(t, NewTransportError(500).IsRetryable())
	assert.True(t, NewTimeoutError("timed out").IsRetryable())
	assert.True(t, NewNoStreamBodyError().IsRetryable())

	assert.False(t, NewAuthRequiredError().IsRetryable())
	assert.False(t, NewStreamError("server reported failure").IsRetryable())
	assert.False(t, NewConfigError("bad url").IsRetryable())
	assert.False(t, NewFallbackError(errors.New("x")).IsRetryable())
}

func TestAsClientError(t *testing.T) {
	ce, ok := AsClientError(NewStreamError("boom"))
	require.True(t, ok)
	assert.Equal(t, ErrCodeStream, ce.Code)

	wrapped := fmt.Errorf("outer: %w", NewTimeoutError("slow"))
	ce, ok = AsClientError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeTimeout, ce.Code)

	_, ok = AsClientError(errors.New("plain"))
	assert.False(t, ok)

	_, ok = AsClientError(nil)
	assert.False(t, ok)
}

func TestClassifyHTTPStatus(t *testing.T) {
	assert.Equal(t, ErrCodeAuthenticationRequired, ClassifyHTTPStatus(http.StatusUnauthorized))
	assert.Equal(t, ErrCodeAuthenticationRequired, ClassifyHTTPStatus(http.StatusForbidden))
	assert.Equal(t, ErrCodeTimeout, ClassifyHTTPStatus(http.StatusRequestTimeout))
	assert.Equal(t, ErrCodeTimeout, ClassifyHTTPStatus(http.StatusGatewayTimeout))
	assert.Equal(t, ErrCodeTransport, ClassifyHTTPStatus(http.StatusInternalServerError))
	assert.Equal(t, ErrCodeTransport, ClassifyHTTPStatus(http.StatusNotFound))
}
