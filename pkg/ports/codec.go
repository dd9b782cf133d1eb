// Package ports defines interfaces for the encoder, frame sources, sinks and other external dependencies.
package ports

import (
	"errors"
	"fmt"
	"time"
)

// Routine statuses returned by Codec dequeue calls. None of them is a failure.
var (
	// ErrTryAgainLater means no buffer became available within the timeout.
	ErrTryAgainLater = errors.New("codec: try again later")

	// ErrOutputFormatChanged means OutputFormat() has a new value; no buffer was dequeued.
	ErrOutputFormatChanged = errors.New("codec: output format changed")

	// ErrOutputBuffersChanged means OutputBuffers() must be fetched again; no buffer was dequeued.
	ErrOutputBuffersChanged = errors.New("codec: output buffers changed")
)

// MimeAVC is the H.264 codec family identifier.
const MimeAVC = "video/avc"

// MimeRaw identifies uncompressed NV12 passthrough output.
const MimeRaw = "video/raw"

// ColorFormatYUV420SemiPlanar is the only input pixel format supported (NV12).
const ColorFormatYUV420SemiPlanar = 21

// BufferFlag marks input and output buffers.
type BufferFlag uint32

const (
	// FlagKeyFrame marks an output unit that is independently decodable.
	FlagKeyFrame BufferFlag = 1 << iota
	// FlagCodecConfig marks codec setup data (SPS/PPS) rather than a frame.
	FlagCodecConfig
	// FlagEndOfStream marks the last buffer in that direction.
	FlagEndOfStream
)

// Has reports whether all bits of f are set.
func (b BufferFlag) Has(f BufferFlag) bool {
	return b&f == f
}

// String returns a compact representation like "key|eos".
func (b BufferFlag) String() string {
	if b == 0 {
		return "none"
	}
	s := ""
	add := func(name string) {
		if s != "" {
			s += "|"
		}
		s += name
	}
	if b.Has(FlagKeyFrame) {
		add("key")
	}
	if b.Has(FlagCodecConfig) {
		add("config")
	}
	if b.Has(FlagEndOfStream) {
		add("eos")
	}
	return s
}

// BufferInfo describes the valid region of a dequeued output buffer.
type BufferInfo struct {
	Offset             int
	Size               int
	PresentationTimeUs int64
	Flags              BufferFlag
}

// SessionConfig holds the fixed parameters of one encode session.
type SessionConfig struct {
	Mime           string // Codec family, e.g. "video/avc"
	Width          int
	Height         int
	FrameRate      int // Frames per second
	IFrameInterval int // Seconds between key frames
	BitRate        int // Bits per second; 0 derives 2*Width*Height*FrameRate
	FrameCount     int // Total frames in the session
	ColorFormat    int // Input color format selector
}

// EffectiveBitRate returns BitRate, or the derived default when it is unset.
func (c SessionConfig) EffectiveBitRate() int {
	if c.BitRate > 0 {
		return c.BitRate
	}
	return 2 * c.Width * c.Height * c.FrameRate
}

// MediaFormat describes the output stream as reported by the codec.
type MediaFormat struct {
	Mime   string
	Width  int
	Height int
	// CodecSpecificData holds setup units (SPS, PPS) in Annex B form when known.
	CodecSpecificData [][]byte
}

func (f MediaFormat) String() string {
	return fmt.Sprintf("{mime=%s, width=%d, height=%d, csd=%d}", f.Mime, f.Width, f.Height, len(f.CodecSpecificData))
}

// Codec abstracts an encoder driven through index-based input and output buffer pools.
//
// Input slots are obtained with DequeueInputBuffer, filled through InputBuffers()[index]
// and handed back with QueueInputBuffer. Output slots are obtained with DequeueOutputBuffer
// and must be returned exactly once with ReleaseOutputBuffer after their bytes are copied.
type Codec interface {
	// Name returns the implementation name.
	Name() string

	// Configure applies the session configuration. Must precede Start.
	Configure(cfg SessionConfig) error

	// Start transitions the codec to running.
	Start() error

	// DequeueInputBuffer returns a free input slot index or ErrTryAgainLater.
	DequeueInputBuffer(timeout time.Duration) (int, error)

	// InputBuffers returns the input pool, indexed by slot.
	InputBuffers() [][]byte

	// QueueInputBuffer submits size bytes at offset of the slot. Ownership moves to the codec.
	QueueInputBuffer(index, offset, size int, presentationTimeUs int64, flags BufferFlag) error

	// DequeueOutputBuffer fills info and returns a slot index, or one of the routine
	// statuses ErrTryAgainLater, ErrOutputFormatChanged, ErrOutputBuffersChanged.
	// Any other error is a codec failure.
	DequeueOutputBuffer(info *BufferInfo, timeout time.Duration) (int, error)

	// OutputBuffers returns the output pool, indexed by slot.
	OutputBuffers() [][]byte

	// OutputFormat returns the most recently announced output format.
	OutputFormat() MediaFormat

	// ReleaseOutputBuffer returns an output slot to the codec.
	ReleaseOutputBuffer(index int) error

	// Stop halts processing. The codec cannot be restarted.
	Stop() error

	// Release frees all resources held by the codec.
	Release()
}

// CodecInfo describes an available codec implementation.
type CodecInfo struct {
	Name           string
	IsEncoder      bool
	SupportedTypes []string
	Description    string
}

// CodecList enumerates codec implementations and instantiates them by name.
type CodecList interface {
	// Codecs returns all known implementations in preference order.
	Codecs() []CodecInfo

	// CreateByName instantiates the named implementation.
	CreateByName(name string) (Codec, error)
}
