package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/forgefit/coach-stream-kit/pkg/endpoints"
	"github.com/forgefit/coach-stream-kit/pkg/streaming"
	"github.com/forgefit/coach-stream-kit/pkg/types"
)

// session is one in-flight streaming call. It owns the decoder, the
// response body, and the call's cancel func exclusively; nothing is shared
// across concurrent calls beyond the read-only client.
type session struct {
	client    *Client
	endpoint  endpoints.EndpointType
	params    endpoints.Params
	request   types.StreamRequest
	parent    context.Context
	ctx       context.Context
	cancel    context.CancelFunc
	requestID string
	started   time.Time

	decoder      *streaming.LineDecoder
	pending      *types.StreamEvent // staged terminal event (fallback or error)
	fallbackUsed bool
	done         bool
	closed       bool
}

// openTransport issues the streaming request and verifies status and body.
// It does not retry; recovery belongs to the fallback controller.
func (s *session) openTransport(token, url, method string) (*http.Response, error) {
	body, err := json.Marshal(s.request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(s.ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", s.client.config.UserAgent)
	req.Header.Set("X-Request-ID", s.requestID)

	resp, err := s.client.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, types.NewTimeoutError("streaming request timed out").
				WithOperation(string(s.endpoint)).
				WithRequestID(s.requestID).
				WithOriginalErr(err)
		}
		return nil, types.NewClientError(types.ErrCodeTransport, err.Error()).
			WithOperation(string(s.endpoint)).
			WithRequestID(s.requestID).
			WithOriginalErr(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, types.NewTransportError(resp.StatusCode).
			WithOperation(string(s.endpoint)).
			WithRequestID(s.requestID)
	}
	if resp.Body == nil {
		return nil, types.NewNoStreamBodyError().
			WithOperation(string(s.endpoint)).
			WithRequestID(s.requestID)
	}

	return resp, nil
}

// absorbNonStreamingResponse handles a 2xx response with a non-streaming
// content type: the server chose not to stream this call, so its single
// JSON body becomes the terminal fallback event. No line decoding happens.
func (s *session) absorbNonStreamingResponse(resp *http.Response) {
	contentType := resp.Header.Get("Content-Type")
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()

	if err != nil || !json.Valid(body) {
		// The body is unusable, so this becomes a real fallback attempt.
		cause := types.NewUnexpectedContentTypeError(contentType).
			WithOperation(string(s.endpoint)).
			WithRequestID(s.requestID)
		if err != nil {
			cause.WithOriginalErr(err)
		}
		s.enterFallback(cause)
		return
	}

	// Expected server behavior, logged softly rather than as an error.
	s.client.logger.Printf("coach-stream: %s responded with %s, using body as fallback result", s.endpoint, contentType)
	ev := types.NewFallbackEvent(json.RawMessage(body))
	s.pending = &ev
}

// enterFallback runs the registered non-streaming function and stages the
// resulting terminal event. It runs at most once per session; a failed
// fallback stages a terminal error event and is never retried.
func (s *session) enterFallback(cause error) {
	s.fallbackUsed = true

	fn := s.client.fallbacks[s.endpoint]
	if fn == nil {
		msg := "streaming failed and no fallback is registered"
		if cause != nil {
			msg = fmt.Sprintf("%s: %v", msg, cause)
		}
		ev := types.NewErrorEvent(msg)
		s.pending = &ev
		return
	}

	// The call context may already be past its deadline (that is often why
	// we are here), so the fallback gets a fresh budget from the caller's
	// original context.
	fctx, cancel := context.WithTimeout(s.parent, s.client.config.Timeout)
	defer cancel()

	data, err := fn(fctx, s.params, s.request)
	if err != nil {
		s.client.logger.Printf("coach-stream: fallback request for %s failed: %v", s.endpoint, err)
		s.client.collector.FallbackFailed()
		ev := types.NewErrorEvent(types.NewFallbackError(err).Error())
		s.pending = &ev
		return
	}

	ev := types.NewFallbackEvent(data)
	s.pending = &ev
}

// Next returns the next event. Every session delivers exactly one terminal
// event, then io.EOF. Expected failure modes arrive as events, never as
// errors from Next.
func (s *session) Next() (types.StreamEvent, error) {
	if s.done {
		return types.StreamEvent{}, io.EOF
	}

	if s.pending != nil {
		ev := *s.pending
		s.pending = nil
		s.finish(ev)
		return ev, nil
	}

	ev, err := s.decoder.Next()
	if err == nil {
		switch ev.Type {
		case types.EventTypeChunk:
			s.client.collector.ChunkReceived()
		case types.EventTypeContextual:
			s.client.collector.ContextualReceived()
		case types.EventTypeComplete:
			s.finish(ev)
		}
		return ev, nil
	}

	if err == io.EOF {
		// The server closed the stream without a terminal event.
		err = types.NewClientError(types.ErrCodeTransport, "stream ended before a terminal event").
			WithOperation(string(s.endpoint)).
			WithRequestID(s.requestID)
	}

	// A server-reported error is terminal and never falls back: the server
	// already executed the request, so a silent replay risks duplicate side
	// effects.
	if ce, ok := types.AsClientError(err); ok && ce.Code == types.ErrCodeStream {
		ev := types.NewErrorEvent(ce.Message)
		s.finish(ev)
		return ev, nil
	}

	if s.fallbackUsed {
		// Single-attempt guarantee: never loop back into a second fallback.
		ev := types.NewErrorEvent(err.Error())
		s.finish(ev)
		return ev, nil
	}

	// Release the stream before the fallback call.
	_ = s.decoder.Close()
	s.client.logger.Printf("coach-stream: %s stream failed mid-decode, falling back: %v", s.endpoint, err)
	s.enterFallback(err)

	ev = *s.pending
	s.pending = nil
	s.finish(ev)
	return ev, nil
}

// finish marks the terminal event delivered, records the outcome, and
// releases every per-call resource.
func (s *session) finish(ev types.StreamEvent) {
	s.done = true
	switch ev.Type {
	case types.EventTypeComplete:
		s.client.collector.Completed(time.Since(s.started))
	case types.EventTypeFallback:
		s.client.collector.FallbackTaken()
	case types.EventTypeError:
		s.client.collector.ErrorOccurred()
	}
	if s.decoder != nil {
		_ = s.decoder.Close()
	}
	s.cancel()
}

// Close releases the session's resources. It is safe to call multiple
// times, after the stream has ended, and from consumers abandoning the
// stream early.
func (s *session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.done = true

	var err error
	if s.decoder != nil {
		err = s.decoder.Close()
	}
	s.cancel()
	return err
}
