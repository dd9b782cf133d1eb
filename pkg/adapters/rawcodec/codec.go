// Package rawcodec provides an in-process passthrough encoder that emits every NV12 input
// frame unchanged as one output unit.
package rawcodec

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/user/yuvenc/pkg/bufpool"
	"github.com/user/yuvenc/pkg/pixfmt"
	"github.com/user/yuvenc/pkg/ports"
)

// Name is the registered name of this codec.
const Name = "go.raw.encoder"

var (
	// ErrNotConfigured is returned when Start is called before Configure.
	ErrNotConfigured = errors.New("rawcodec: codec not configured")

	// ErrAlreadyConfigured is returned when Configure is called a second time.
	ErrAlreadyConfigured = errors.New("rawcodec: codec already configured")

	// ErrReleased is returned by Configure and Start after Release.
	ErrReleased = errors.New("rawcodec: codec released")

	// ErrUnsupportedFormat is returned for a mime type or color format other than raw NV12.
	ErrUnsupportedFormat = errors.New("rawcodec: unsupported format")
)

// Options sizes the buffer pools.
type Options struct {
	InputSlots  int
	OutputSlots int
}

// DefaultOptions returns the pool sizes used by New.
func DefaultOptions() Options {
	return Options{InputSlots: 4, OutputSlots: 4}
}

// Codec is a passthrough ports.Codec. Buffer methods are valid between Configure and Release.
type Codec struct {
	*bufpool.Exchange

	opts   Options
	logger ports.Logger

	mu       sync.Mutex
	config   ports.SessionConfig
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	started  bool
	stopped  bool
	released bool
}

// New creates an unconfigured raw codec with default options.
func New(logger ports.Logger) *Codec {
	return NewWithOptions(DefaultOptions(), logger)
}

// NewWithOptions creates an unconfigured raw codec.
func NewWithOptions(opts Options, logger ports.Logger) *Codec {
	if opts.InputSlots <= 0 {
		opts.InputSlots = DefaultOptions().InputSlots
	}
	if opts.OutputSlots <= 0 {
		opts.OutputSlots = DefaultOptions().OutputSlots
	}
	return &Codec{opts: opts, logger: logger.WithComponent("raw")}
}

func (c *Codec) Name() string {
	return Name
}

func (c *Codec) Configure(cfg ports.SessionConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrReleased
	}
	if c.Exchange != nil {
		return ErrAlreadyConfigured
	}

	if cfg.Mime != ports.MimeRaw {
		return fmt.Errorf("%w: mime %q", ErrUnsupportedFormat, cfg.Mime)
	}
	if cfg.ColorFormat != 0 && cfg.ColorFormat != ports.ColorFormatYUV420SemiPlanar {
		return fmt.Errorf("%w: color format %d", ErrUnsupportedFormat, cfg.ColorFormat)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}

	size := pixfmt.FrameSize(cfg.Width, cfg.Height)
	c.config = cfg
	c.Exchange = bufpool.NewExchange(c.opts.InputSlots, size, c.opts.OutputSlots, size)
	return nil
}

func (c *Codec) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrReleased
	}
	if c.Exchange == nil {
		return ErrNotConfigured
	}
	if c.started {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.started = true
	c.wg.Add(1)
	go c.run(ctx)
	return nil
}

// run copies each queued input to an output unit until end of stream.
func (c *Codec) run(ctx context.Context) {
	defer c.wg.Done()

	format := ports.MediaFormat{Mime: ports.MimeRaw, Width: c.config.Width, Height: c.config.Height}
	if err := c.EmitFormat(ctx, format); err != nil {
		return
	}

	for {
		in, err := c.NextInput(ctx)
		if err != nil {
			return
		}

		if in.EndOfStream() {
			c.RecycleInput(in.Index)
			if err := c.EmitOutput(ctx, nil, in.PresentationTimeUs, ports.FlagEndOfStream); err == nil {
				c.logger.Debug("Output EOS")
			}
			return
		}

		err = c.EmitOutput(ctx, in.Data, in.PresentationTimeUs, ports.FlagKeyFrame)
		c.RecycleInput(in.Index)
		if err != nil {
			return
		}
	}
}

func (c *Codec) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
	return nil
}

func (c *Codec) stopLocked() {
	if c.stopped || !c.started {
		c.stopped = true
		return
	}
	c.stopped = true
	c.cancel()
	c.Exchange.Close()
	c.wg.Wait()
}

func (c *Codec) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.released {
		return
	}
	c.released = true
	c.stopLocked()
	if c.Exchange != nil {
		c.Exchange.Close()
	}
}

var _ ports.Codec = (*Codec)(nil)
