package mocks

import (
	"bytes"
	"sync"

	"github.com/user/yuvenc/pkg/ports"
)

// StreamSink is a mock implementation of ports.StreamSink backed by memory.
type StreamSink struct {
	mu sync.Mutex

	WriteFunc func(p []byte) (int, error)
	CloseFunc func() error

	// Recorded calls for verification
	Writes     [][]byte
	CloseCalls int

	buf     bytes.Buffer
	enabled bool
}

// NewStreamSink creates a new mock StreamSink.
func NewStreamSink() *StreamSink {
	return &StreamSink{enabled: true}
}

func (m *StreamSink) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes = append(m.Writes, append([]byte(nil), p...))
	if m.WriteFunc != nil {
		return m.WriteFunc(p)
	}
	return m.buf.Write(p)
}

func (m *StreamSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

func (m *StreamSink) Enabled() bool {
	return m.enabled
}

func (m *StreamSink) Path() string {
	return "memory"
}

// Bytes returns everything written so far.
func (m *StreamSink) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.buf.Bytes()...)
}

var _ ports.StreamSink = (*StreamSink)(nil)

// FrameSource is a mock implementation of ports.FrameSource.
type FrameSource struct {
	mu sync.Mutex

	ReadFrameFunc func(index int, frame []byte)

	// Recorded calls for verification
	ReadCalls []int
}

// ReadFrame records the index and, without ReadFrameFunc, fills every luma byte with the
// low byte of the index and the chroma pairs with V=0x10, U=0x20.
func (m *FrameSource) ReadFrame(index int, frame []byte) {
	m.mu.Lock()
	m.ReadCalls = append(m.ReadCalls, index)
	m.mu.Unlock()
	if m.ReadFrameFunc != nil {
		m.ReadFrameFunc(index, frame)
		return
	}
	luma := len(frame) * 2 / 3
	for i := 0; i < luma; i++ {
		frame[i] = byte(index)
	}
	for i := luma; i+1 < len(frame); i += 2 {
		frame[i] = 0x10
		frame[i+1] = 0x20
	}
}

var _ ports.FrameSource = (*FrameSource)(nil)
