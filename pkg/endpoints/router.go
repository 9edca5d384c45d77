// Package endpoints maps logical endpoint names to concrete URLs and HTTP
// methods. Resolution is a pure lookup over static routing data and injected
// base URLs; it performs no network or state effects.
package endpoints

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/forgefit/coach-stream-kit/pkg/types"
)

// EndpointType identifies a logical backend endpoint.
type EndpointType string

const (
	// Streaming endpoints.
	EndpointConversationStream           EndpointType = "conversation-stream"
	EndpointCreatorSessionStream         EndpointType = "creator-session-stream"
	EndpointProgramDesignerSessionStream EndpointType = "program-designer-session-stream"

	// Non-streaming equivalents, used by the fallback path and pkg/api.
	EndpointConversation           EndpointType = "conversation"
	EndpointCreatorSession         EndpointType = "creator-session"
	EndpointProgramDesignerSession EndpointType = "program-designer-session"
)

// StreamToPlain maps each streaming endpoint to its non-streaming equivalent.
var StreamToPlain = map[EndpointType]EndpointType{
	EndpointConversationStream:           EndpointConversation,
	EndpointCreatorSessionStream:         EndpointCreatorSession,
	EndpointProgramDesignerSessionStream: EndpointProgramDesignerSession,
}

// Descriptor is the static routing data for one endpoint type.
type Descriptor struct {
	Type   EndpointType
	Path   string // template with {userId}, {coachId}, {conversationId}, {sessionId}
	Method string
}

// descriptors is the fixed routing table. Creator sessions are updated with
// PUT while the other surfaces use POST; that asymmetry comes from the
// backend's resource semantics and must be preserved.
var descriptors = map[EndpointType]Descriptor{
	EndpointConversationStream: {
		Type:   EndpointConversationStream,
		Path:   "/users/{userId}/coaches/{coachId}/conversations/{conversationId}/stream",
		Method: http.MethodPost,
	},
	EndpointCreatorSessionStream: {
		Type:   EndpointCreatorSessionStream,
		Path:   "/users/{userId}/coach-creator-sessions/{sessionId}/stream",
		Method: http.MethodPut,
	},
	EndpointProgramDesignerSessionStream: {
		Type:   EndpointProgramDesignerSessionStream,
		Path:   "/users/{userId}/program-designer-sessions/{sessionId}/stream",
		Method: http.MethodPost,
	},
	EndpointConversation: {
		Type:   EndpointConversation,
		Path:   "/users/{userId}/coaches/{coachId}/conversations/{conversationId}/messages",
		Method: http.MethodPost,
	},
	EndpointCreatorSession: {
		Type:   EndpointCreatorSession,
		Path:   "/users/{userId}/coach-creator-sessions/{sessionId}",
		Method: http.MethodPut,
	},
	EndpointProgramDesignerSession: {
		Type:   EndpointProgramDesignerSession,
		Path:   "/users/{userId}/program-designer-sessions/{sessionId}/messages",
		Method: http.MethodPost,
	},
}

// Lookup returns the routing entry for an endpoint type.
func Lookup(t EndpointType) (Descriptor, bool) {
	desc, ok := descriptors[t]
	return desc, ok
}

// Params carries the path parameters an endpoint template may require.
// Only the parameters the template names are consulted.
type Params struct {
	UserID         string
	CoachID        string
	ConversationID string
	SessionID      string
}

// Router resolves endpoint types against per-type base URLs supplied by
// configuration. It is immutable after construction and safe for
// concurrent use.
type Router struct {
	baseURLs map[EndpointType]string
}

// NewRouter creates a router over a copy of the supplied base URL table.
// A streaming endpoint with no base URL of its own falls back to the base
// URL of its non-streaming equivalent, and vice versa.
func NewRouter(baseURLs map[EndpointType]string) *Router {
	urls := make(map[EndpointType]string, len(baseURLs))
	for endpointType, base := range baseURLs {
		urls[endpointType] = base
	}
	for streamType, plainType := range StreamToPlain {
		if urls[streamType] == "" {
			urls[streamType] = urls[plainType]
		}
		if urls[plainType] == "" {
			urls[plainType] = urls[streamType]
		}
	}
	return &Router{baseURLs: urls}
}

// Resolve returns the absolute URL and HTTP method for an endpoint type.
// Unknown types and missing path parameters fail before any network attempt.
func (r *Router) Resolve(t EndpointType, p Params) (string, string, error) {
	desc, ok := descriptors[t]
	if !ok {
		return "", "", types.NewConfigError(fmt.Sprintf("unknown endpoint type %q", t)).WithOperation(string(t))
	}

	base := r.baseURLs[t]
	if base == "" {
		return "", "", types.NewConfigError(fmt.Sprintf("no base URL configured for endpoint type %q", t)).WithOperation(string(t))
	}

	path, err := interpolate(desc.Path, p)
	if err != nil {
		if ce, ok := types.AsClientError(err); ok {
			ce.WithOperation(string(t))
		}
		return "", "", err
	}

	resolved := strings.TrimSuffix(base, "/") + path
	if _, err := url.Parse(resolved); err != nil {
		return "", "", types.NewConfigError(fmt.Sprintf("invalid resolved URL %q: %v", resolved, err)).WithOperation(string(t))
	}

	return resolved, desc.Method, nil
}

// interpolate substitutes path parameters into a template, escaping each
// value as a path segment. Every placeholder the template names must have a
// non-blank value.
func interpolate(template string, p Params) (string, error) {
	replacements := map[string]string{
		"{userId}":         p.UserID,
		"{coachId}":        p.CoachID,
		"{conversationId}": p.ConversationID,
		"{sessionId}":      p.SessionID,
	}

	out := template
	for placeholder, value := range replacements {
		if !strings.Contains(out, placeholder) {
			continue
		}
		if strings.TrimSpace(value) == "" {
			return "", types.NewConfigError(fmt.Sprintf("missing path parameter %s", placeholder))
		}
		out = strings.ReplaceAll(out, placeholder, url.PathEscape(value))
	}

	if i := strings.IndexByte(out, '{'); i >= 0 {
		return "", types.NewConfigError(fmt.Sprintf("unresolved path parameter in %q", out))
	}

	return out, nil
}
