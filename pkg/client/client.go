// Package client implements the streaming client for the coaching backend.
// It opens authenticated streaming requests, decodes line-framed events,
// and guarantees a terminal outcome for every call via a one-shot
// non-streaming fallback.
package client

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/forgefit/coach-stream-kit/pkg/api"
	"github.com/forgefit/coach-stream-kit/pkg/auth"
	"github.com/forgefit/coach-stream-kit/pkg/config"
	"github.com/forgefit/coach-stream-kit/pkg/endpoints"
	"github.com/forgefit/coach-stream-kit/pkg/metrics"
	"github.com/forgefit/coach-stream-kit/pkg/streaming"
	"github.com/forgefit/coach-stream-kit/pkg/types"
)

// FallbackFunc is the non-streaming equivalent of a streaming operation. It
// receives the same logical arguments and returns the full response body.
type FallbackFunc func(ctx context.Context, p endpoints.Params, req types.StreamRequest) (json.RawMessage, error)

// Client streams coaching responses with transparent fallback. It is safe
// for concurrent use; each call owns its own decode state.
type Client struct {
	config    config.Config
	router    *endpoints.Router
	tokens    auth.TokenProvider
	http      *http.Client
	limiter   *rate.Limiter
	collector *metrics.Collector
	logger    *log.Logger
	fallbacks map[endpoints.EndpointType]FallbackFunc
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client. The provided client
// should not set its own Timeout; the per-call context already bounds the
// whole stream, body reads included.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for soft failures and skipped lines.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCollector attaches a metrics collector.
func WithCollector(collector *metrics.Collector) Option {
	return func(c *Client) { c.collector = collector }
}

// WithFallback registers the non-streaming function for a streaming
// endpoint, replacing the default from pkg/api.
func WithFallback(t endpoints.EndpointType, fn FallbackFunc) Option {
	return func(c *Client) { c.fallbacks[t] = fn }
}

// New builds a Client. Unless overridden via WithFallback, the
// non-streaming operations from pkg/api serve as the fallback functions.
func New(cfg config.Config, tokens auth.TokenProvider, opts ...Option) (*Client, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, types.NewConfigError(err.Error()).WithOriginalErr(err)
	}

	c := &Client{
		config:    cfg,
		router:    endpoints.NewRouter(cfg.BaseURLs),
		tokens:    tokens,
		logger:    log.Default(),
		fallbacks: make(map[endpoints.EndpointType]FallbackFunc),
	}
	if cfg.RateLimitRPS > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		c.http = &http.Client{}
	}
	c.registerDefaultFallbacks()

	return c, nil
}

// registerDefaultFallbacks wires the pkg/api operations for any streaming
// endpoint without an explicit fallback.
func (c *Client) registerDefaultFallbacks() {
	backend := api.New(c.config, c.tokens, c.logger)

	if c.fallbacks[endpoints.EndpointConversationStream] == nil {
		c.fallbacks[endpoints.EndpointConversationStream] = func(ctx context.Context, p endpoints.Params, req types.StreamRequest) (json.RawMessage, error) {
			return backend.SendConversationMessage(ctx, p.UserID, p.CoachID, p.ConversationID, req)
		}
	}
	if c.fallbacks[endpoints.EndpointCreatorSessionStream] == nil {
		c.fallbacks[endpoints.EndpointCreatorSessionStream] = func(ctx context.Context, p endpoints.Params, req types.StreamRequest) (json.RawMessage, error) {
			return backend.UpdateCreatorSession(ctx, p.UserID, p.SessionID, req)
		}
	}
	if c.fallbacks[endpoints.EndpointProgramDesignerSessionStream] == nil {
		c.fallbacks[endpoints.EndpointProgramDesignerSessionStream] = func(ctx context.Context, p endpoints.Params, req types.StreamRequest) (json.RawMessage, error) {
			return backend.SendProgramDesignerMessage(ctx, p.UserID, p.SessionID, req)
		}
	}
}

// StreamConversation streams one reply in a coach conversation.
func (c *Client) StreamConversation(ctx context.Context, userID, coachID, conversationID string, req types.StreamRequest) (streaming.EventStream, error) {
	return c.open(ctx, endpoints.EndpointConversationStream, endpoints.Params{
		UserID:         userID,
		CoachID:        coachID,
		ConversationID: conversationID,
	}, req)
}

// StreamCreatorSession streams the next turn of a coach-creator session.
func (c *Client) StreamCreatorSession(ctx context.Context, userID, sessionID string, req types.StreamRequest) (streaming.EventStream, error) {
	return c.open(ctx, endpoints.EndpointCreatorSessionStream, endpoints.Params{
		UserID:    userID,
		SessionID: sessionID,
	}, req)
}

// StreamProgramDesignerSession streams the next turn of a program-designer
// session.
func (c *Client) StreamProgramDesignerSession(ctx context.Context, userID, sessionID string, req types.StreamRequest) (streaming.EventStream, error) {
	return c.open(ctx, endpoints.EndpointProgramDesignerSessionStream, endpoints.Params{
		UserID:    userID,
		SessionID: sessionID,
	}, req)
}

// Metrics returns a snapshot of the attached collector.
func (c *Client) Metrics() metrics.Snapshot {
	return c.collector.Snapshot()
}

// open validates the call, fails fast on missing auth, and returns a
// session that delivers exactly one terminal event. Transport failures
// after this point surface as fallback or error events on the session, not
// as errors from open.
func (c *Client) open(ctx context.Context, t endpoints.EndpointType, p endpoints.Params, req types.StreamRequest) (streaming.EventStream, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	url, method, err := c.router.Resolve(t, p)
	if err != nil {
		return nil, err
	}

	// Missing auth is not a transport failure: the fallback call needs the
	// same token, so there is nothing to fall back to. Fail before any
	// network attempt.
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, types.NewAuthRequiredError().WithOperation(string(t)).WithOriginalErr(err)
	}
	if strings.TrimSpace(token) == "" {
		return nil, types.NewAuthRequiredError().WithOperation(string(t))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	s := &session{
		client:    c,
		endpoint:  t,
		params:    p,
		request:   req,
		parent:    ctx,
		ctx:       callCtx,
		cancel:    cancel,
		requestID: uuid.New().String(),
		started:   time.Now(),
	}
	c.collector.StreamStarted()

	if !c.config.Streaming() {
		s.enterFallback(nil)
		return s, nil
	}

	resp, err := s.openTransport(token, url, method)
	if err != nil {
		c.logger.Printf("coach-stream: streaming transport unavailable for %s, falling back: %v", t, err)
		s.enterFallback(err)
		return s, nil
	}

	if !isEventStream(resp.Header.Get("Content-Type")) {
		s.absorbNonStreamingResponse(resp)
		return s, nil
	}

	s.decoder = streaming.NewLineDecoder(callCtx, resp.Body, c.logger)
	return s, nil
}

// isEventStream reports whether the response content type is the streaming
// one. Anything else means the server chose not to stream this call.
func isEventStream(contentType string) bool {
	mediaType := contentType
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return strings.EqualFold(strings.TrimSpace(mediaType), "text/event-stream")
}
