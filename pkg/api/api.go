// Package api implements the non-streaming operations of the coaching
// backend. The streaming client registers these as its fallback functions;
// they are also usable directly when a caller never wants streaming.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/forgefit/coach-stream-kit/pkg/auth"
	"github.com/forgefit/coach-stream-kit/pkg/config"
	"github.com/forgefit/coach-stream-kit/pkg/endpoints"
	"github.com/forgefit/coach-stream-kit/pkg/types"
)

// API issues plain request/response calls against the backend.
type API struct {
	router    *endpoints.Router
	tokens    auth.TokenProvider
	client    *http.Client
	logger    *log.Logger
	userAgent string

	requestCount int64
	errorCount   int64
}

// New creates an API client. A nil logger falls back to log.Default().
func New(cfg config.Config, tokens auth.TokenProvider, logger *log.Logger) *API {
	cfg = cfg.WithDefaults()
	if logger == nil {
		logger = log.Default()
	}
	return &API{
		router:    endpoints.NewRouter(cfg.BaseURLs),
		tokens:    tokens,
		client:    &http.Client{Timeout: cfg.Timeout},
		logger:    logger,
		userAgent: cfg.UserAgent,
	}
}

// SendConversationMessage posts one message to a coach conversation and
// returns the full response body.
func (a *API) SendConversationMessage(ctx context.Context, userID, coachID, conversationID string, req types.StreamRequest) (json.RawMessage, error) {
	return a.do(ctx, endpoints.EndpointConversation, endpoints.Params{
		UserID:         userID,
		CoachID:        coachID,
		ConversationID: conversationID,
	}, req)
}

// UpdateCreatorSession submits the next answer of a coach-creator session.
func (a *API) UpdateCreatorSession(ctx context.Context, userID, sessionID string, req types.StreamRequest) (json.RawMessage, error) {
	return a.do(ctx, endpoints.EndpointCreatorSession, endpoints.Params{
		UserID:    userID,
		SessionID: sessionID,
	}, req)
}

// SendProgramDesignerMessage posts one message to a program-designer session.
func (a *API) SendProgramDesignerMessage(ctx context.Context, userID, sessionID string, req types.StreamRequest) (json.RawMessage, error) {
	return a.do(ctx, endpoints.EndpointProgramDesignerSession, endpoints.Params{
		UserID:    userID,
		SessionID: sessionID,
	}, req)
}

func (a *API) do(ctx context.Context, t endpoints.EndpointType, p endpoints.Params, req types.StreamRequest) (json.RawMessage, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	url, method, err := a.router.Resolve(t, p)
	if err != nil {
		return nil, err
	}

	token, err := a.tokens.Token(ctx)
	if err != nil {
		return nil, types.NewAuthRequiredError().WithOperation(string(t)).WithOriginalErr(err)
	}

	httpReq, err := NewJSONRequest(ctx, method, url, req)
	if err != nil {
		return nil, err
	}
	requestID := uuid.New().String()
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("User-Agent", a.userAgent)
	httpReq.Header.Set("X-Request-ID", requestID)

	atomic.AddInt64(&a.requestCount, 1)
	resp, err := a.client.Do(httpReq)
	if err != nil {
		atomic.AddInt64(&a.errorCount, 1)
		return nil, types.NewClientError(types.ErrCodeTransport, err.Error()).
			WithOperation(string(t)).
			WithRequestID(requestID).
			WithOriginalErr(err)
	}

	body, err := ProcessResponse(resp)
	if err != nil {
		atomic.AddInt64(&a.errorCount, 1)
		a.logger.Printf("coach-api: %s request failed: %v", t, err)
		return nil, err
	}

	return json.RawMessage(body), nil
}

// RequestCounts returns the total and failed request counts.
func (a *API) RequestCounts() (total, failed int64) {
	return atomic.LoadInt64(&a.requestCount), atomic.LoadInt64(&a.errorCount)
}
