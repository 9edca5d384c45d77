package client

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/forgefit/coach-stream-kit/pkg/streaming"
	"github.com/forgefit/coach-stream-kit/pkg/types"
)

// Handlers routes decoded events to caller-supplied callbacks. Nil entries
// are skipped; a terminal event with no matching handler is still consumed
// and returned from Consume.
type Handlers struct {
	// OnChunk receives each incremental content fragment, in order.
	OnChunk func(content string)

	// OnContextual receives ephemeral status text. Purely advisory: losing
	// a contextual event is never a failure.
	OnContextual func(content, stage string)

	// OnComplete receives the terminal complete event.
	OnComplete func(event types.StreamEvent)

	// OnFallback receives the full non-streaming response body when the
	// call resolved via the fallback path.
	OnFallback func(data json.RawMessage)

	// OnError receives the description of a terminal error event.
	OnError func(message string)
}

// Consume drains the stream, dispatching each event in decode order with no
// batching or reordering. It closes the stream on every exit path and
// returns the terminal event; callers inspect its Type to distinguish
// complete, fallback, and error outcomes.
func Consume(stream streaming.EventStream, handlers Handlers) (types.StreamEvent, error) {
	defer func() { _ = stream.Close() }()

	for {
		ev, err := stream.Next()
		if err == io.EOF {
			return types.StreamEvent{}, fmt.Errorf("stream ended without a terminal event")
		}
		if err != nil {
			return types.StreamEvent{}, err
		}

		switch ev.Type {
		case types.EventTypeChunk:
			if handlers.OnChunk != nil {
				handlers.OnChunk(ev.Content)
			}
		case types.EventTypeContextual:
			if handlers.OnContextual != nil {
				handlers.OnContextual(ev.Content, ev.Stage)
			}
		case types.EventTypeComplete:
			if handlers.OnComplete != nil {
				handlers.OnComplete(ev)
			}
			return ev, nil
		case types.EventTypeFallback:
			if handlers.OnFallback != nil {
				handlers.OnFallback(ev.Data)
			}
			return ev, nil
		case types.EventTypeError:
			if handlers.OnError != nil {
				handlers.OnError(ev.ErrorText())
			}
			return ev, nil
		}
	}
}
