package client

import (
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgefit/coach-stream-kit/pkg/types"
)

// scriptedStream replays a fixed event sequence.
type scriptedStream struct {
	events []types.StreamEvent
	pos    int
	closed bool
}

func (s *scriptedStream) Next() (types.StreamEvent, error) {
	if s.pos >= len(s.events) {
		return types.StreamEvent{}, io.EOF
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

func TestConsume_DispatchOrder(t *testing.T) {
	stream := &scriptedStream{events: []types.StreamEvent{
		{Type: types.EventTypeChunk, Content: "a"},
		{Type: types.EventTypeContextual, Content: "working", Stage: "analysis"},
		{Type: types.EventTypeChunk, Content: "b"},
		{Type: types.EventTypeComplete, AIResponse: "ab"},
	}}

	var order []string
	terminal, err := Consume(stream, Handlers{
		OnChunk:      func(content string) { order = append(order, "chunk:"+content) },
		OnContextual: func(content, stage string) { order = append(order, "contextual:"+stage) },
		OnComplete:   func(ev types.StreamEvent) { order = append(order, "complete:"+ev.AIResponse) },
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"chunk:a", "contextual:analysis", "chunk:b", "complete:ab"}, order)
	assert.Equal(t, types.EventTypeComplete, terminal.Type)
	assert.True(t, stream.closed, "Consume must close the stream")
}

func TestConsume_NilHandlersSkipped(t *testing.T) {
	stream := &scriptedStream{events: []types.StreamEvent{
		{Type: types.EventTypeChunk, Content: "a"},
		{Type: types.EventTypeComplete, AIResponse: "a"},
	}}

	terminal, err := Consume(stream, Handlers{})
	require.NoError(t, err)
	assert.Equal(t, types.EventTypeComplete, terminal.Type)
	assert.True(t, stream.closed)
}

func TestConsume_FallbackTerminal(t *testing.T) {
	stream := &scriptedStream{events: []types.StreamEvent{
		types.NewFallbackEvent(json.RawMessage(`{"aiResponse":"ok"}`)),
	}}

	var got json.RawMessage
	terminal, err := Consume(stream, Handlers{
		OnFallback: func(data json.RawMessage) { got = data },
	})
	require.NoError(t, err)
	assert.Equal(t, types.EventTypeFallback, terminal.Type)
	assert.JSONEq(t, `{"aiResponse":"ok"}`, string(got))
}

func TestConsume_ErrorTerminal(t *testing.T) {
	stream := &scriptedStream{events: []types.StreamEvent{
		{Type: types.EventTypeChunk, Content: "partial"},
		types.NewErrorEvent("boom"),
	}}

	var message string
	terminal, err := Consume(stream, Handlers{
		OnError: func(m string) { message = m },
	})
	require.NoError(t, err)
	assert.Equal(t, types.EventTypeError, terminal.Type)
	assert.Equal(t, "boom", message)
}

func TestConsume_StreamEndsWithoutTerminal(t *testing.T) {
	stream := &scriptedStream{events: []types.StreamEvent{
		{Type: types.EventTypeChunk, Content: "a"},
	}}

	_, err := Consume(stream, Handlers{})
	require.Error(t, err)
	assert.True(t, stream.closed)
}
