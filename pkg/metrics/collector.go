// Package metrics tracks client-side stream outcomes: how many calls
// streamed cleanly, how many took the fallback path, and how many failed.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector accumulates stream counters. All methods are safe for
// concurrent use, and a nil *Collector is a no-op so callers never have to
// guard recording sites.
type Collector struct {
	streamsStarted   int64
	chunks           int64
	contextual       int64
	completions      int64
	fallbacksTaken   int64
	fallbackFailures int64
	errors           int64

	mu           sync.Mutex
	totalLatency time.Duration
	finished     int64
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// StreamStarted records a new streaming call.
func (c *Collector) StreamStarted() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.streamsStarted, 1)
}

// ChunkReceived records one incremental content chunk.
func (c *Collector) ChunkReceived() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.chunks, 1)
}

// ContextualReceived records one ephemeral status event.
func (c *Collector) ContextualReceived() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.contextual, 1)
}

// Completed records a stream that reached its complete event.
func (c *Collector) Completed(latency time.Duration) {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.completions, 1)
	c.mu.Lock()
	c.totalLatency += latency
	c.finished++
	c.mu.Unlock()
}

// FallbackTaken records a call resolved via the non-streaming path.
func (c *Collector) FallbackTaken() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.fallbacksTaken, 1)
}

// FallbackFailed records a fallback attempt that itself failed.
func (c *Collector) FallbackFailed() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.fallbackFailures, 1)
}

// ErrorOccurred records a call that ended in a terminal error event.
func (c *Collector) ErrorOccurred() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.errors, 1)
}

// Snapshot is a point-in-time copy of the counters.
type Snapshot struct {
	StreamsStarted   int64         `json:"streams_started"`
	Chunks           int64         `json:"chunks"`
	Contextual       int64         `json:"contextual"`
	Completions      int64         `json:"completions"`
	FallbacksTaken   int64         `json:"fallbacks_taken"`
	FallbackFailures int64         `json:"fallback_failures"`
	Errors           int64         `json:"errors"`
	AvgStreamLatency time.Duration `json:"avg_stream_latency"`
}

// Snapshot returns the current counter values.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}

	snap := Snapshot{
		StreamsStarted:   atomic.LoadInt64(&c.streamsStarted),
		Chunks:           atomic.LoadInt64(&c.chunks),
		Contextual:       atomic.LoadInt64(&c.contextual),
		Completions:      atomic.LoadInt64(&c.completions),
		FallbacksTaken:   atomic.LoadInt64(&c.fallbacksTaken),
		FallbackFailures: atomic.LoadInt64(&c.fallbackFailures),
		Errors:           atomic.LoadInt64(&c.errors),
	}

	c.mu.Lock()
	if c.finished > 0 {
		snap.AvgStreamLatency = c.totalLatency / time.Duration(c.finished)
	}
	c.mu.Unlock()

	return snap
}
