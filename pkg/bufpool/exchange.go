package bufpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

// ErrInputClosed is returned when input is queued after the end-of-stream buffer.
var ErrInputClosed = errors.New("bufpool: input already ended")

// Input is a queued input buffer as seen by a codec backend.
type Input struct {
	Index              int
	Data               []byte
	PresentationTimeUs int64
	Flags              ports.BufferFlag
}

// EndOfStream reports whether this input ends the stream.
func (in Input) EndOfStream() bool {
	return in.Flags.Has(ports.FlagEndOfStream)
}

type eventKind int

const (
	eventBuffer eventKind = iota
	eventFormat
	eventBuffersChanged
	eventError
)

type event struct {
	kind   eventKind
	index  int
	info   ports.BufferInfo
	format ports.MediaFormat
	err    error
}

// Exchange implements the client half of ports.Codec (dequeue, queue, release) over an
// input and an output Pool, and gives codec backends a producer half to consume inputs
// and emit outputs in order.
type Exchange struct {
	in  *Pool
	out *Pool

	queued chan Input
	events chan event

	mu       sync.Mutex
	format   ports.MediaFormat
	inputEOS bool
	failure  error

	done      chan struct{}
	closeOnce sync.Once
}

// NewExchange creates an exchange with inCount input slots of inSize bytes and outCount
// output slots of outSize bytes.
func NewExchange(inCount, inSize, outCount, outSize int) *Exchange {
	return &Exchange{
		in:     NewPool(inCount, inSize),
		out:    NewPool(outCount, outSize),
		queued: make(chan Input, inCount),
		events: make(chan event, 2*outCount+4),
		done:   make(chan struct{}),
	}
}

// --- client half ---

// DequeueInputBuffer returns a free input slot, or ports.ErrTryAgainLater.
func (x *Exchange) DequeueInputBuffer(timeout time.Duration) (int, error) {
	idx, err := x.in.Acquire(timeout)
	if errors.Is(err, ErrTimeout) {
		return -1, ports.ErrTryAgainLater
	}
	return idx, err
}

// InputBuffers returns the input pool.
func (x *Exchange) InputBuffers() [][]byte {
	return x.in.Buffers()
}

// QueueInputBuffer hands an acquired input slot to the backend.
func (x *Exchange) QueueInputBuffer(index, offset, size int, presentationTimeUs int64, flags ports.BufferFlag) error {
	buf, err := x.in.Buffer(index)
	if err != nil {
		return err
	}
	if offset < 0 || size < 0 || offset+size > len(buf) {
		return fmt.Errorf("bufpool: range [%d, %d) outside input slot %d of %d bytes", offset, offset+size, index, len(buf))
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.inputEOS {
		return ErrInputClosed
	}
	if err := x.in.Hand(index); err != nil {
		return err
	}
	if flags.Has(ports.FlagEndOfStream) {
		x.inputEOS = true
	}

	// Each slot is queued at most once, so the channel never fills.
	x.queued <- Input{
		Index:              index,
		Data:               buf[offset : offset+size],
		PresentationTimeUs: presentationTimeUs,
		Flags:              flags,
	}
	return nil
}

// DequeueOutputBuffer returns the next output slot or a routine status.
func (x *Exchange) DequeueOutputBuffer(info *ports.BufferInfo, timeout time.Duration) (int, error) {
	if err := x.failed(); err != nil {
		return -1, err
	}

	var ev event
	switch {
	case timeout == 0:
		select {
		case ev = <-x.events:
		default:
			return -1, ports.ErrTryAgainLater
		}
	case timeout < 0:
		select {
		case ev = <-x.events:
		case <-x.done:
			return -1, ErrClosed
		}
	default:
		t := time.NewTimer(timeout)
		defer t.Stop()
		select {
		case ev = <-x.events:
		case <-t.C:
			return -1, ports.ErrTryAgainLater
		case <-x.done:
			return -1, ErrClosed
		}
	}

	switch ev.kind {
	case eventFormat:
		x.mu.Lock()
		x.format = ev.format
		x.mu.Unlock()
		return -1, ports.ErrOutputFormatChanged
	case eventBuffersChanged:
		return -1, ports.ErrOutputBuffersChanged
	case eventError:
		x.mu.Lock()
		x.failure = ev.err
		x.mu.Unlock()
		return -1, ev.err
	default:
		if err := x.out.Take(ev.index); err != nil {
			return -1, err
		}
		*info = ev.info
		return ev.index, nil
	}
}

// OutputBuffers returns the output pool.
func (x *Exchange) OutputBuffers() [][]byte {
	return x.out.Buffers()
}

// OutputFormat returns the last format delivered through DequeueOutputBuffer.
func (x *Exchange) OutputFormat() ports.MediaFormat {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.format
}

// ReleaseOutputBuffer returns an output slot obtained from DequeueOutputBuffer. Slots still
// waiting in the event queue are rejected with ErrNotOwned.
func (x *Exchange) ReleaseOutputBuffer(index int) error {
	return x.out.ReleaseTaken(index)
}

// --- backend half ---

// NextInput waits for the next queued input in submission order.
func (x *Exchange) NextInput(ctx context.Context) (Input, error) {
	select {
	case in := <-x.queued:
		if err := x.in.Take(in.Index); err != nil {
			return Input{}, err
		}
		return in, nil
	case <-ctx.Done():
		return Input{}, ctx.Err()
	case <-x.done:
		return Input{}, ErrClosed
	}
}

// RecycleInput returns an input slot obtained from NextInput to the client's free pool.
func (x *Exchange) RecycleInput(index int) error {
	return x.in.ReleaseTaken(index)
}

// EmitFormat announces a new output format.
func (x *Exchange) EmitFormat(ctx context.Context, format ports.MediaFormat) error {
	return x.push(ctx, event{kind: eventFormat, format: format})
}

// EmitOutput copies data into a free output slot and queues it for the client. If the slot
// is too small it is regrown and the client is told to refresh its buffers first.
func (x *Exchange) EmitOutput(ctx context.Context, data []byte, presentationTimeUs int64, flags ports.BufferFlag) error {
	idx, err := x.out.AcquireContext(ctx)
	if err != nil {
		return err
	}

	grown, err := x.out.Grow(idx, len(data))
	if err != nil {
		x.out.Release(idx)
		return err
	}
	if grown {
		if err := x.push(ctx, event{kind: eventBuffersChanged}); err != nil {
			x.out.Release(idx)
			return err
		}
	}

	buf, err := x.out.Buffer(idx)
	if err != nil {
		x.out.Release(idx)
		return err
	}
	n := copy(buf, data)

	if err := x.out.Hand(idx); err != nil {
		x.out.Release(idx)
		return err
	}
	return x.push(ctx, event{
		kind:  eventBuffer,
		index: idx,
		info: ports.BufferInfo{
			Offset:             0,
			Size:               n,
			PresentationTimeUs: presentationTimeUs,
			Flags:              flags,
		},
	})
}

// Fail reports a backend failure. The client sees err from DequeueOutputBuffer after the
// outputs already queued, or immediately when the event queue is full.
func (x *Exchange) Fail(err error) {
	select {
	case x.events <- event{kind: eventError, err: err}:
	default:
		x.mu.Lock()
		if x.failure == nil {
			x.failure = err
		}
		x.mu.Unlock()
	}
}

// Close unblocks every waiter on both sides.
func (x *Exchange) Close() {
	x.closeOnce.Do(func() {
		close(x.done)
		x.in.Close()
		x.out.Close()
	})
}

func (x *Exchange) push(ctx context.Context, ev event) error {
	select {
	case x.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-x.done:
		return ErrClosed
	}
}

func (x *Exchange) failed() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.failure
}
