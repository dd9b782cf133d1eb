// Package nullsink provides a stream sink that discards everything.
package nullsink

import "github.com/user/yuvenc/pkg/ports"

// Sink is a no-op implementation of ports.StreamSink.
// It counts and discards the stream.
type Sink struct {
	written int64
}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// Path returns an empty path.
func (s *Sink) Path() string {
	return ""
}

// Write discards p.
func (s *Sink) Write(p []byte) (int, error) {
	s.written += int64(len(p))
	return len(p), nil
}

// Written returns the number of bytes discarded.
func (s *Sink) Written() int64 {
	return s.written
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

// Ensure Sink implements ports.StreamSink
var _ ports.StreamSink = (*Sink)(nil)
