package types

import "encoding/json"

// EventType discriminates streaming events.
type EventType string

const (
	// EventTypeChunk carries an incremental fragment of the final response.
	EventTypeChunk EventType = "chunk"
	// EventTypeContextual carries ephemeral status text, not part of the result.
	EventTypeContextual EventType = "contextual"
	// EventTypeComplete is the terminal event of a successful stream.
	EventTypeComplete EventType = "complete"
	// EventTypeFallback is the terminal event of the non-streaming path.
	EventTypeFallback EventType = "fallback"
	// EventTypeError is the terminal event of a failed stream.
	EventTypeError EventType = "error"
)

// IsTerminal reports whether this event type ends a stream. Every event
// sequence contains exactly one terminal event, and it is always last.
func (t EventType) IsTerminal() bool {
	switch t {
	case EventTypeComplete, EventTypeFallback, EventTypeError:
		return true
	}
	return false
}

// StreamEvent is one event in a streaming response. The Type field selects
// which of the remaining fields are meaningful; payload fields beyond the
// named ones are treated as opaque.
type StreamEvent struct {
	Type EventType `json:"type"`

	// Content is set for chunk and contextual events.
	Content string `json:"content,omitempty"`

	// Stage is set for contextual events.
	Stage string `json:"stage,omitempty"`

	// Fields of the complete event.
	AIResponse      string          `json:"aiResponse,omitempty"`
	NextQuestion    string          `json:"nextQuestion,omitempty"`
	IsComplete      bool            `json:"isComplete,omitempty"`
	ProgressDetails json.RawMessage `json:"progressDetails,omitempty"`
	SessionData     json.RawMessage `json:"sessionData,omitempty"`

	// Data wraps the full non-streaming response body of a fallback event.
	Data json.RawMessage `json:"data,omitempty"`

	// Fields of the error event. Servers populate one or both.
	Message    string `json:"message,omitempty"`
	ErrMessage string `json:"error,omitempty"`
}

// ErrorText returns the error description of an error event, preferring the
// message field over the error field.
func (e StreamEvent) ErrorText() string {
	if e.Message != "" {
		return e.Message
	}
	if e.ErrMessage != "" {
		return e.ErrMessage
	}
	return "unknown stream error"
}

// NewFallbackEvent wraps a non-streaming response body as the terminal
// fallback event.
func NewFallbackEvent(data json.RawMessage) StreamEvent {
	return StreamEvent{
		Type: EventTypeFallback,
		Data: data,
	}
}

// NewErrorEvent builds a terminal error event with the given description.
func NewErrorEvent(message string) StreamEvent {
	return StreamEvent{
		Type:       EventTypeError,
		ErrMessage: message,
	}
}
