package ports

import "io"

// StreamSink receives the encoded elementary stream in output order.
type StreamSink interface {
	io.WriteCloser

	// Enabled returns false when bytes are discarded.
	Enabled() bool

	// Path returns where the stream is stored, or "" when discarded.
	Path() string
}
