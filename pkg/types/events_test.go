package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_IsTerminal(t *testing.T) {
	assert.False(t, EventTypeChunk.IsTerminal())
	assert.False(t, EventTypeContextual.IsTerminal())
	assert.True(t, EventTypeComplete.IsTerminal())
	assert.True(t, EventTypeFallback.IsTerminal())
	assert.True(t, EventTypeError.IsTerminal())
	assert.False(t, EventType("mystery").IsTerminal())
}

func TestStreamEvent_Unmarshal(t *testing.T) {
	var ev StreamEvent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"chunk","content":"Hel"}`), &ev))
	assert.Equal(t, EventTypeChunk, ev.Type)
	assert.Equal(t, "Hel", ev.Content)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"contextual","content":"reviewing history","stage":"analysis"}`), &ev))
	assert.Equal(t, EventTypeContextual, ev.Type)
	assert.Equal(t, "analysis", ev.Stage)

	ev = StreamEvent{}
	require.NoError(t, json.Unmarshal([]byte(`{"type":"complete","aiResponse":"done","nextQuestion":"How often?","isComplete":true,"sessionData":{"step":3}}`), &ev))
	assert.Equal(t, EventTypeComplete, ev.Type)
	assert.Equal(t, "done", ev.AIResponse)
	assert.Equal(t, "How often?", ev.NextQuestion)
	assert.True(t, ev.IsComplete)
	assert.JSONEq(t, `{"step":3}`, string(ev.SessionData))
}

func TestStreamEvent_UnknownFieldsIgnored(t *testing.T) {
	var ev StreamEvent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"chunk","content":"x","futureField":42}`), &ev))
	assert.Equal(t, EventTypeChunk, ev.Type)
	assert.Equal(t, "x", ev.Content)
}

func TestStreamEvent_ErrorText(t *testing.T) {
	assert.Equal(t, "from message", StreamEvent{Message: "from message", ErrMessage: "from error"}.ErrorText())
	assert.Equal(t, "from error", StreamEvent{ErrMessage: "from error"}.ErrorText())
	assert.Equal(t, "unknown stream error", StreamEvent{}.ErrorText())
}

func TestNewFallbackEvent(t *testing.T) {
	ev := NewFallbackEvent(json.RawMessage(`{"aiResponse":"ok"}`))
	assert.Equal(t, EventTypeFallback, ev.Type)
	assert.JSONEq(t, `{"aiResponse":"ok"}`, string(ev.Data))
}

func TestNewErrorEvent(t *testing.T) {
	ev := NewErrorEvent("boom")
	assert.Equal(t, EventTypeError, ev.Type)
	assert.Equal(t, "boom", ev.ErrorText())
}
