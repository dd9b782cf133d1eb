// Package encode drives a codec through its buffer-exchange protocol to turn a sequence of
// NV21 frames into an elementary stream.
package encode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/user/yuvenc/pkg/pixfmt"
	"github.com/user/yuvenc/pkg/ports"
)

// Result summarizes one driver run.
type Result struct {
	FramesSubmitted int   // Real frames queued to the codec
	EOSSubmitted    bool  // Whether the zero-length end-of-stream input was queued
	FirstPTSUs      int64 // Timestamp of the first real frame
	LastPTSUs       int64 // Timestamp of the last real frame

	OutputUnits  int   // Output buffers dequeued, including config and EOS units
	ConfigUnits  int   // Units flagged as codec config
	KeyFrames    int   // Units flagged as key frames
	BytesWritten int64 // Bytes appended to the sink
	EOSReceived  bool  // Whether an end-of-stream output was observed

	Iterations     int // Loop iterations
	InputNotReady  int // Input polls that timed out
	OutputNotReady int // Output polls that timed out
	FormatChanges  int
	BufferChanges  int

	OutputFormat ports.MediaFormat // Last announced output format
}

// Driver feeds frames from a FrameSource into a started Codec and writes every output unit
// to a sink until the codec signals end of stream.
type Driver struct {
	codec   ports.Codec
	source  ports.FrameSource
	sink    io.Writer
	config  ports.SessionConfig
	timeout time.Duration
	logger  ports.Logger
}

// Option configures a Driver.
type Option func(*Driver)

// WithTimeout sets the bound of every dequeue call.
func WithTimeout(timeout time.Duration) Option {
	return func(d *Driver) {
		d.timeout = timeout
	}
}

// NewDriver creates a driver for an already started codec.
func NewDriver(codec ports.Codec, source ports.FrameSource, sink io.Writer, config ports.SessionConfig, logger ports.Logger, opts ...Option) *Driver {
	d := &Driver{
		codec:   codec,
		source:  source,
		sink:    sink,
		config:  config,
		timeout: DefaultTimeout,
		logger:  logger.WithComponent("driver"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// run holds the mutable state of one pass: Running(inputDone, outputDone).
type run struct {
	*Driver

	frameSize   int
	sourceFrame []byte
	frame       []byte

	inputs  [][]byte
	outputs [][]byte
	info    ports.BufferInfo

	frameIndex int
	inputDone  bool
	outputDone bool

	result Result
}

// Run executes the encode loop. It returns once an end-of-stream output unit has been
// written and released, or on the first fatal error. The codec is not stopped or released.
func (d *Driver) Run(ctx context.Context) (Result, error) {
	if err := Validate(d.config); err != nil {
		return Result{}, err
	}

	frameSize := pixfmt.FrameSize(d.config.Width, d.config.Height)
	r := &run{
		Driver:      d,
		frameSize:   frameSize,
		sourceFrame: make([]byte, frameSize),
		frame:       make([]byte, frameSize),
		inputs:      d.codec.InputBuffers(),
		outputs:     d.codec.OutputBuffers(),
	}

	for !r.outputDone {
		select {
		case <-ctx.Done():
			return r.result, ctx.Err()
		default:
		}

		r.result.Iterations++
		d.logger.Debug("Start looping")

		if !r.inputDone {
			if err := r.feedInput(); err != nil {
				return r.result, err
			}
		}

		if err := r.drainOutput(); err != nil {
			return r.result, err
		}
	}

	return r.result, nil
}

// feedInput submits the next frame, or the end-of-stream marker once all frames are in.
func (r *run) feedInput() error {
	idx, err := r.codec.DequeueInputBuffer(r.timeout)
	if errors.Is(err, ports.ErrTryAgainLater) {
		r.result.InputNotReady++
		r.logger.Debug("input buffer not available")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: dequeue input buffer: %w", ErrUnexpectedCodecStatus, err)
	}
	if idx < 0 {
		return fmt.Errorf("%w: dequeue input buffer returned %d", ErrUnexpectedCodecStatus, idx)
	}
	r.logger.Debug("inputBufIndex=%d", idx)

	ptsUs := PresentationTimeUs(r.frameIndex, r.config.FrameRate)

	if r.frameIndex == r.config.FrameCount {
		// The end-of-stream marker carries no data; a frame sent with it would be dropped.
		if err := r.codec.QueueInputBuffer(idx, 0, 0, ptsUs, ports.FlagEndOfStream); err != nil {
			return fmt.Errorf("%w: queue end of stream: %w", ErrUnexpectedCodecStatus, err)
		}
		r.inputDone = true
		r.result.EOSSubmitted = true
		r.logger.Debug("sent input EOS (with zero-length frame)")
	} else {
		if err := r.submitFrame(idx, ptsUs); err != nil {
			return err
		}
	}

	r.frameIndex++
	return nil
}

func (r *run) submitFrame(idx int, ptsUs int64) error {
	clear(r.sourceFrame)
	r.source.ReadFrame(r.frameIndex, r.sourceFrame)
	pixfmt.NV21ToNV12(r.sourceFrame, r.frame, r.config.Width, r.config.Height)

	if idx >= len(r.inputs) {
		r.inputs = r.codec.InputBuffers()
		if idx >= len(r.inputs) {
			return fmt.Errorf("%w: input buffer %d does not exist", ErrUnexpectedCodecStatus, idx)
		}
	}
	buf := r.inputs[idx]
	if len(buf) < r.frameSize {
		return fmt.Errorf("%w: slot %d holds %d bytes, frame needs %d", ErrBufferCapacity, idx, len(buf), r.frameSize)
	}

	copy(buf, r.frame)
	if err := r.codec.QueueInputBuffer(idx, 0, r.frameSize, ptsUs, 0); err != nil {
		return fmt.Errorf("%w: queue frame %d: %w", ErrUnexpectedCodecStatus, r.frameIndex, err)
	}

	if r.result.FramesSubmitted == 0 {
		r.result.FirstPTSUs = ptsUs
	}
	r.result.LastPTSUs = ptsUs
	r.result.FramesSubmitted++
	r.logger.Debug("submitted frame %d to enc", r.frameIndex)
	return nil
}

// drainOutput handles one output dequeue.
func (r *run) drainOutput() error {
	idx, err := r.codec.DequeueOutputBuffer(&r.info, r.timeout)
	switch {
	case errors.Is(err, ports.ErrTryAgainLater):
		r.result.OutputNotReady++
		r.logger.Debug("no output from encoder available")
		return nil
	case errors.Is(err, ports.ErrOutputBuffersChanged):
		r.outputs = r.codec.OutputBuffers()
		r.result.BufferChanges++
		r.logger.Debug("encoder output buffers changed")
		return nil
	case errors.Is(err, ports.ErrOutputFormatChanged):
		format := r.codec.OutputFormat()
		r.result.OutputFormat = format
		r.result.FormatChanges++
		r.logger.Debug("encoder output format changed: %s", format)
		return nil
	case err != nil:
		return fmt.Errorf("%w: dequeue output buffer: %w", ErrUnexpectedCodecStatus, err)
	case idx < 0:
		return fmt.Errorf("%w: dequeue output buffer returned %d", ErrUnexpectedCodecStatus, idx)
	}

	writeErr := r.writeUnit(idx)

	// The slot goes back even when the copy failed.
	releaseErr := r.codec.ReleaseOutputBuffer(idx)

	if writeErr != nil {
		return writeErr
	}
	if releaseErr != nil {
		return fmt.Errorf("%w: release output buffer %d: %w", ErrUnexpectedCodecStatus, idx, releaseErr)
	}

	if r.info.Flags.Has(ports.FlagEndOfStream) {
		r.outputDone = true
		r.result.EOSReceived = true
		r.logger.Debug("output EOS")
	}
	return nil
}

// writeUnit appends the valid region of output slot idx to the sink.
func (r *run) writeUnit(idx int) error {
	if idx >= len(r.outputs) {
		r.outputs = r.codec.OutputBuffers()
	}
	if idx >= len(r.outputs) || r.outputs[idx] == nil {
		return fmt.Errorf("%w: encoderOutputBuffer %d was null", ErrUnexpectedCodecStatus, idx)
	}

	buf := r.outputs[idx]
	info := r.info
	if info.Offset < 0 || info.Size < 0 || info.Offset+info.Size > len(buf) {
		return fmt.Errorf("%w: unit [%d, %d) outside output buffer %d of %d bytes",
			ErrUnexpectedCodecStatus, info.Offset, info.Offset+info.Size, idx, len(buf))
	}

	if info.Size > 0 {
		n, err := r.sink.Write(buf[info.Offset : info.Offset+info.Size])
		if err == nil && n < info.Size {
			err = io.ErrShortWrite
		}
		if err != nil {
			r.logger.Warn("failed writing debug data to file")
			return fmt.Errorf("%w: %w", ErrSinkIO, err)
		}
	}

	r.result.OutputUnits++
	r.result.BytesWritten += int64(info.Size)
	if info.Flags.Has(ports.FlagCodecConfig) {
		r.result.ConfigUnits++
	}
	if info.Flags.Has(ports.FlagKeyFrame) {
		r.result.KeyFrames++
	}
	r.logger.Debug("wrote %d bytes pts=%d flags=%s", info.Size, info.PresentationTimeUs, info.Flags)
	return nil
}

// Validate checks that c describes frames the driver can reorder and time.
func Validate(c ports.SessionConfig) error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidConfig, c.Width, c.Height)
	case (c.Width*c.Height)%4 != 0:
		return fmt.Errorf("%w: %dx%d has no whole chroma pairs", ErrInvalidConfig, c.Width, c.Height)
	case c.FrameRate <= 0 || c.FrameRate > 1_000_000:
		return fmt.Errorf("%w: frame rate %d", ErrInvalidConfig, c.FrameRate)
	case c.FrameCount < 0:
		return fmt.Errorf("%w: frame count %d", ErrInvalidConfig, c.FrameCount)
	}
	return nil
}
