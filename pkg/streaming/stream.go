// Package streaming decodes the backend's line-framed streaming responses
// into typed events.
package streaming

import (
	"github.com/forgefit/coach-stream-kit/pkg/types"
)

// EventStream is a lazily consumed sequence of stream events. Next returns
// io.EOF once the terminal event has been delivered. Close releases the
// underlying resources and is safe to call multiple times; consumers that
// abandon a stream early must still call it.
type EventStream interface {
	Next() (types.StreamEvent, error)
	Close() error
}
