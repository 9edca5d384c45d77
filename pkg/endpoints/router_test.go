package endpoints

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgefit/coach-stream-kit/pkg/types"
)

func TestRouter_Resolve(t *testing.T) {
	r := NewRouter(map[EndpointType]string{
		EndpointConversationStream:           "https://conv.example.com",
		EndpointCreatorSessionStream:         "https://creator.example.com/",
		EndpointProgramDesignerSessionStream: "https://designer.example.com",
	})

	tests := []struct {
		name       string
		endpoint   EndpointType
		params     Params
		wantURL    string
		wantMethod string
	}{
		{
			name:       "conversation stream",
			endpoint:   EndpointConversationStream,
			params:     Params{UserID: "u1", CoachID: "c1", ConversationID: "conv1"},
			wantURL:    "https://conv.example.com/users/u1/coaches/c1/conversations/conv1/stream",
			wantMethod: http.MethodPost,
		},
		{
			name:       "creator session stream uses PUT and trims trailing slash",
			endpoint:   EndpointCreatorSessionStream,
			params:     Params{UserID: "u1", SessionID: "s1"},
			wantURL:    "https://creator.example.com/users/u1/coach-creator-sessions/s1/stream",
			wantMethod: http.MethodPut,
		},
		{
			name:       "program designer stream",
			endpoint:   EndpointProgramDesignerSessionStream,
			params:     Params{UserID: "u1", SessionID: "s1"},
			wantURL:    "https://designer.example.com/users/u1/program-designer-sessions/s1/stream",
			wantMethod: http.MethodPost,
		},
		{
			name:       "plain conversation shares the stream base URL",
			endpoint:   EndpointConversation,
			params:     Params{UserID: "u1", CoachID: "c1", ConversationID: "conv1"},
			wantURL:    "https://conv.example.com/users/u1/coaches/c1/conversations/conv1/messages",
			wantMethod: http.MethodPost,
		},
		{
			name:       "plain creator session uses PUT without /stream",
			endpoint:   EndpointCreatorSession,
			params:     Params{UserID: "u1", SessionID: "s1"},
			wantURL:    "https://creator.example.com/users/u1/coach-creator-sessions/s1",
			wantMethod: http.MethodPut,
		},
		{
			name:       "plain program designer",
			endpoint:   EndpointProgramDesignerSession,
			params:     Params{UserID: "u1", SessionID: "s1"},
			wantURL:    "https://designer.example.com/users/u1/program-designer-sessions/s1/messages",
			wantMethod: http.MethodPost,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url, method, err := r.Resolve(tt.endpoint, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, url)
			assert.Equal(t, tt.wantMethod, method)
		})
	}
}

func TestRouter_ResolveEscapesParams(t *testing.T) {
	r := NewRouter(map[EndpointType]string{
		EndpointConversationStream: "https://api.example.com",
	})

	url, _, err := r.Resolve(EndpointConversationStream, Params{
		UserID:         "user id",
		CoachID:        "coach/1",
		ConversationID: "conv1",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/users/user%20id/coaches/coach%2F1/conversations/conv1/stream", url)
}

func TestRouter_ResolveUnknownType(t *testing.T) {
	r := NewRouter(map[EndpointType]string{EndpointConversationStream: "https://api.example.com"})

	_, _, err := r.Resolve(EndpointType("bogus"), Params{})
	require.Error(t, err)
	ce, ok := types.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeConfig, ce.Code)
}

func TestRouter_ResolveMissingBaseURL(t *testing.T) {
	r := NewRouter(map[EndpointType]string{EndpointConversationStream: "https://api.example.com"})

	_, _, err := r.Resolve(EndpointCreatorSessionStream, Params{UserID: "u1", SessionID: "s1"})
	require.Error(t, err)
	ce, ok := types.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeConfig, ce.Code)
}

func TestRouter_ResolveMissingParam(t *testing.T) {
	r := NewRouter(map[EndpointType]string{EndpointConversationStream: "https://api.example.com"})

	_, _, err := r.Resolve(EndpointConversationStream, Params{UserID: "u1", ConversationID: "conv1"})
	require.Error(t, err)
	ce, ok := types.AsClientError(err)
	require.True(t, ok)
	assert.Equal(t, types.ErrCodeConfig, ce.Code)
	assert.Contains(t, ce.Message, "coachId")
}

func TestRouter_BaseURLSharing(t *testing.T) {
	// A plain endpoint with no URL of its own inherits the stream URL, and
	// vice versa.
	r := NewRouter(map[EndpointType]string{
		EndpointConversationStream: "https://stream.example.com",
		EndpointCreatorSession:     "https://plain.example.com",
	})

	url, _, err := r.Resolve(EndpointConversation, Params{UserID: "u", CoachID: "c", ConversationID: "v"})
	require.NoError(t, err)
	assert.Contains(t, url, "https://stream.example.com/")

	url, _, err = r.Resolve(EndpointCreatorSessionStream, Params{UserID: "u", SessionID: "s"})
	require.NoError(t, err)
	assert.Contains(t, url, "https://plain.example.com/")
}

func TestLookup(t *testing.T) {
	desc, ok := Lookup(EndpointConversationStream)
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, desc.Method)

	_, ok = Lookup(EndpointType("bogus"))
	assert.False(t, ok)
}

func TestStreamToPlain(t *testing.T) {
	for stream, plain := range StreamToPlain {
		_, ok := Lookup(stream)
		assert.True(t, ok, "stream endpoint %s must have a descriptor", stream)
		_, ok = Lookup(plain)
		assert.True(t, ok, "plain endpoint %s must have a descriptor", plain)
	}
}
