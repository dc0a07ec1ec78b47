// internal/scenario/sink.go
package scenario

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/ShaiKKO/EnviroSense-sub003/internal/data"
)

// Sink consumes labeled samples emitted by the runner.
type Sink interface {
	Write(sample data.Sample) error
	Close() error
}

// MultiSink fans every sample out to several sinks in order. The first
// write error aborts the fan-out for that sample.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink combines sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Write(sample data.Sample) error {
	for _, s := range m.sinks {
		if err := s.Write(sample); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, returning the first error.
func (m *MultiSink) Close() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

const defaultMemoryCapacity = 1000

// MemorySink keeps the most recent samples in a bounded in-memory buffer,
// mainly for tests and interactive inspection.
type MemorySink struct {
	mu       sync.RWMutex
	buffer   []data.Sample
	capacity int
}

// NewMemorySink creates a sink bounded at capacity samples; capacity <= 0
// uses the default.
func NewMemorySink(capacity int) *MemorySink {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	return &MemorySink{
		buffer:   make([]data.Sample, 0, capacity),
		capacity: capacity,
	}
}

func (s *MemorySink) Write(sample data.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.buffer) >= s.capacity {
		// Drop the oldest sample.
		s.buffer = s.buffer[1:]
	}
	s.buffer = append(s.buffer, sample)
	return nil
}

func (s *MemorySink) Close() error { return nil }

// Len returns the number of buffered samples.
func (s *MemorySink) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buffer)
}

// Recent returns a copy of the last count samples, oldest first. A count
// outside (0, len] returns everything buffered.
func (s *MemorySink) Recent(count int) []data.Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if count <= 0 || count > len(s.buffer) {
		count = len(s.buffer)
	}
	out := make([]data.Sample, count)
	copy(out, s.buffer[len(s.buffer)-count:])
	return out
}

// All returns a copy of every buffered sample.
func (s *MemorySink) All() []data.Sample {
	return s.Recent(0)
}

// WriterSink encodes samples as JSON lines to an io.Writer.
type WriterSink struct {
	enc    *json.Encoder
	closer io.Closer
}

// NewWriterSink wraps w. If w is also an io.Closer it is closed by Close.
func NewWriterSink(w io.Writer) *WriterSink {
	sink := &WriterSink{enc: json.NewEncoder(w)}
	if c, ok := w.(io.Closer); ok {
		sink.closer = c
	}
	return sink
}

func (s *WriterSink) Write(sample data.Sample) error {
	return s.enc.Encode(sample)
}

func (s *WriterSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
