package streaming

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/forgefit/coach-stream-kit/pkg/types"
)

const dataPrefix = "data: "

// LineDecoder reads `data: <json>` lines from a streaming response body and
// yields decoded events.
//
// The backend frames on single newlines and only ever emits data lines, so
// the decoder does not implement the SSE double-newline event boundary or
// the event:/id:/retry: fields. A partial trailing line is buffered until
// the next read completes it, which also keeps multi-byte characters split
// across reads intact.
//
// Malformed lines are logged and skipped; one bad line never aborts the
// stream. A server error event is raised as an error rather than yielded,
// so higher layers can decide how to surface it.
type LineDecoder struct {
	ctx    context.Context
	reader *bufio.Reader
	body   io.Closer
	logger *log.Logger
	done   bool
	closed bool
}

// NewLineDecoder wraps a response body. The context bounds every read; the
// decoder owns the body until Close.
func NewLineDecoder(ctx context.Context, body io.ReadCloser, logger *log.Logger) *LineDecoder {
	if logger == nil {
		logger = log.Default()
	}
	return &LineDecoder{
		ctx:    ctx,
		reader: bufio.NewReader(body),
		body:   body,
		logger: logger,
	}
}

// Next returns the next decoded event. It returns io.EOF once the stream
// has delivered its terminal complete event or the body is exhausted. After
// any error the decoder is not restartable.
func (d *LineDecoder) Next() (types.StreamEvent, error) {
	if d.done {
		return types.StreamEvent{}, io.EOF
	}

	for {
		select {
		case <-d.ctx.Done():
			d.done = true
			return types.StreamEvent{}, d.ctx.Err()
		default:
		}

		line, err := d.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			d.done = true
			return types.StreamEvent{}, fmt.Errorf("failed to read stream: %w", err)
		}
		atEOF := err == io.EOF

		event, ok, decodeErr := d.decodeLine(line)
		if decodeErr != nil {
			d.done = true
			return types.StreamEvent{}, decodeErr
		}
		if ok {
			if event.Type == types.EventTypeComplete {
				// Stop pulling from the reader at the terminal event.
				d.done = true
			}
			return event, nil
		}
		if atEOF {
			d.done = true
			return types.StreamEvent{}, io.EOF
		}
	}
}

// decodeLine extracts and parses one data payload. The bool result reports
// whether a usable event was produced.
func (d *LineDecoder) decodeLine(line string) (types.StreamEvent, bool, error) {
	line = strings.TrimRight(line, "\r\n")
	if line == "" || !strings.HasPrefix(line, dataPrefix) {
		return types.StreamEvent{}, false, nil
	}

	payload := strings.TrimSpace(strings.TrimPrefix(line, dataPrefix))
	if payload == "" {
		return types.StreamEvent{}, false, nil
	}

	var event types.StreamEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		d.logger.Printf("coach-stream: skipping malformed stream line: %v", err)
		return types.StreamEvent{}, false, nil
	}

	if event.Type == types.EventTypeError {
		return types.StreamEvent{}, false, types.NewStreamError(event.ErrorText())
	}

	return event, true, nil
}

// Close releases the underlying body. It is safe to call multiple times and
// runs on every exit path, including early consumer abandonment.
func (d *LineDecoder) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	d.done = true
	return d.body.Close()
}
