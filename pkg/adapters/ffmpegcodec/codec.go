// Package ffmpegcodec provides an H.264 encoder driven through the buffer-exchange protocol,
// backed by an external ffmpeg process.
package ffmpegcodec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/Eyevinn/mp4ff/avc"
	"github.com/user/yuvenc/pkg/bufpool"
	"github.com/user/yuvenc/pkg/pixfmt"
	"github.com/user/yuvenc/pkg/ports"
)

// Name is the registered name of this codec.
const Name = "ffmpeg.avc.encoder"

const (
	inputSlots  = 4
	outputSlots = 8
	readChunk   = 64 * 1024
)

// Codec encodes NV12 frames to an H.264 elementary stream with ffmpeg and libx264.
// Buffer methods are valid between Configure and Release.
type Codec struct {
	*bufpool.Exchange

	logger ports.Logger

	mu         sync.Mutex
	config     ports.SessionConfig
	frameSize  int
	ffmpegPath string
	cmd        *exec.Cmd
	stderr     bytes.Buffer
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	stopped    bool
	released   bool

	ptsMu   sync.Mutex
	ptsFIFO []int64
	lastPTS int64
}

// New creates an unconfigured ffmpeg codec.
func New(logger ports.Logger) *Codec {
	return &Codec{logger: logger.WithComponent("ffmpeg")}
}

// Name returns the codec name.
func (c *Codec) Name() string {
	return Name
}

// Configure validates cfg, locates ffmpeg and allocates the buffer pools. A codec is
// configured once.
func (c *Codec) Configure(cfg ports.SessionConfig) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrReleased
	}
	if c.Exchange != nil {
		return ErrAlreadyConfigured
	}

	if cfg.Mime != ports.MimeAVC {
		return fmt.Errorf("%w: mime %q", ErrUnsupportedFormat, cfg.Mime)
	}
	if cfg.ColorFormat != 0 && cfg.ColorFormat != ports.ColorFormatYUV420SemiPlanar {
		return fmt.Errorf("%w: color format %d", ErrUnsupportedFormat, cfg.ColorFormat)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width%2 != 0 || cfg.Height%2 != 0 {
		return fmt.Errorf("%w: libx264 needs even dimensions, got %dx%d", ErrUnsupportedFormat, cfg.Width, cfg.Height)
	}
	if cfg.FrameRate <= 0 {
		return fmt.Errorf("%w: frame rate %d", ErrUnsupportedFormat, cfg.FrameRate)
	}

	path, err := FindFFmpeg()
	if err != nil {
		return err
	}

	c.ffmpegPath = path
	c.config = cfg
	c.frameSize = pixfmt.FrameSize(cfg.Width, cfg.Height)
	c.Exchange = bufpool.NewExchange(inputSlots, c.frameSize, outputSlots, c.frameSize/4)
	c.logger.Debug("Using ffmpeg at %s", path)
	return nil
}

// Start launches ffmpeg and the goroutines that feed and drain it. Starting a running
// codec does nothing.
func (c *Codec) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.released {
		return ErrReleased
	}
	if c.Exchange == nil {
		return ErrNotConfigured
	}
	if c.cmd != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cmd := exec.CommandContext(ctx, c.ffmpegPath, c.args()...)
	cmd.Stderr = &c.stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to get stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return fmt.Errorf("failed to get stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		cancel()
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	c.cmd = cmd
	c.cancel = cancel
	c.wg.Add(2)
	go c.feed(ctx, stdin)
	go c.drain(ctx, stdout)

	c.logger.Debug("Started ffmpeg: %dx%d @ %d fps, %d bps", c.config.Width, c.config.Height, c.config.FrameRate, c.config.EffectiveBitRate())
	return nil
}

// args builds the ffmpeg command line. AUDs mark access unit boundaries in the output.
func (c *Codec) args() []string {
	cfg := c.config
	gop := cfg.FrameRate * cfg.IFrameInterval
	if gop <= 0 {
		gop = cfg.FrameRate
	}
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pix_fmt", "nv12",
		"-s", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"-r", strconv.Itoa(cfg.FrameRate),
		"-i", "pipe:0",
		"-c:v", "libx264",
		"-preset", "fast",
		"-tune", "zerolatency",
		"-x264-params", "aud=1",
		"-bf", "0",
		"-g", strconv.Itoa(gop),
		"-b:v", strconv.Itoa(cfg.EffectiveBitRate()),
		"-pix_fmt", "yuv420p",
		"-f", "h264",
		"pipe:1",
	}
}

// feed writes queued input frames to ffmpeg's stdin in order.
func (c *Codec) feed(ctx context.Context, stdin io.WriteCloser) {
	defer c.wg.Done()
	defer stdin.Close()

	for {
		in, err := c.NextInput(ctx)
		if err != nil {
			return
		}

		if in.EndOfStream() {
			c.RecycleInput(in.Index)
			c.logger.Debug("Input ended, closing ffmpeg stdin")
			return
		}

		if len(in.Data) != c.frameSize {
			c.RecycleInput(in.Index)
			c.Fail(fmt.Errorf("%w: input of %d bytes, frame is %d", ErrUnsupportedFormat, len(in.Data), c.frameSize))
			return
		}

		c.pushPTS(in.PresentationTimeUs)
		_, err = stdin.Write(in.Data)
		c.RecycleInput(in.Index)
		if err != nil {
			if ctx.Err() == nil {
				c.Fail(fmt.Errorf("%w: write frame: %w", ErrEncoderFailed, err))
			}
			return
		}
	}
}

// drain splits ffmpeg's stdout into access units and emits them as output buffers.
func (c *Codec) drain(ctx context.Context, stdout io.Reader) {
	defer c.wg.Done()

	var (
		splitter   auSplitter
		formatSent bool
		configSent bool
	)

	emit := func(data []byte) error {
		au := parseAccessUnit(data)

		if !configSent && len(au.sps) > 0 {
			format := c.formatFromSPS(au.sps, au.pps)
			if err := c.EmitFormat(ctx, format); err != nil {
				return err
			}
			formatSent = true
			if err := c.EmitOutput(ctx, annexB(au.sps, au.pps), 0, ports.FlagCodecConfig); err != nil {
				return err
			}
			configSent = true
		} else if len(au.sps) > 0 || len(au.pps) > 0 {
			au.nalus = append(append(au.sps, au.pps...), au.nalus...)
		}

		if !au.hasVCL {
			return nil
		}
		if !formatSent {
			if err := c.EmitFormat(ctx, c.defaultFormat()); err != nil {
				return err
			}
			formatSent = true
		}

		var flags ports.BufferFlag
		if au.isIDR {
			flags |= ports.FlagKeyFrame
		}
		return c.EmitOutput(ctx, annexB(au.nalus), c.popPTS(), flags)
	}

	streamErr := pump(stdout, &splitter, emit)
	stopping := ctx.Err() != nil
	if streamErr != nil {
		c.cancel()
	}
	waitErr := c.cmd.Wait()
	if stopping {
		return
	}

	switch {
	case streamErr != nil:
		c.Fail(fmt.Errorf("%w: %w", ErrEncoderFailed, streamErr))
	case waitErr != nil:
		c.Fail(fmt.Errorf("%w: %w: %s", ErrEncoderFailed, waitErr, bytes.TrimSpace(c.stderr.Bytes())))
	default:
		c.ptsMu.Lock()
		eosPTS := c.lastPTS
		c.ptsMu.Unlock()
		if err := c.EmitOutput(ctx, nil, eosPTS, ports.FlagEndOfStream); err == nil {
			c.logger.Debug("ffmpeg finished")
		}
	}
}

// pump reads r to the end and hands every complete access unit to emit.
func pump(r io.Reader, splitter *auSplitter, emit func([]byte) error) error {
	buf := make([]byte, readChunk)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			for _, unit := range splitter.push(buf[:n]) {
				if emitErr := emit(unit); emitErr != nil {
					return emitErr
				}
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}
	}

	if last := splitter.flush(); last != nil {
		return emit(last)
	}
	return nil
}

func (c *Codec) formatFromSPS(sps, pps [][]byte) ports.MediaFormat {
	format := c.defaultFormat()
	format.CodecSpecificData = append(append([][]byte(nil), sps...), pps...)

	parsed, err := avc.ParseSPSNALUnit(sps[0], false)
	if err != nil {
		c.logger.Warn("Could not parse SPS: %s", err)
		return format
	}
	format.Width = int(parsed.Width)
	format.Height = int(parsed.Height)
	return format
}

func (c *Codec) defaultFormat() ports.MediaFormat {
	return ports.MediaFormat{Mime: ports.MimeAVC, Width: c.config.Width, Height: c.config.Height}
}

func (c *Codec) pushPTS(pts int64) {
	c.ptsMu.Lock()
	defer c.ptsMu.Unlock()
	c.ptsFIFO = append(c.ptsFIFO, pts)
}

// popPTS returns the timestamp of the oldest frame without output. Without B-frames
// ffmpeg emits pictures in input order.
func (c *Codec) popPTS() int64 {
	c.ptsMu.Lock()
	defer c.ptsMu.Unlock()
	if len(c.ptsFIFO) == 0 {
		return c.lastPTS
	}
	pts := c.ptsFIFO[0]
	c.ptsFIFO = c.ptsFIFO[1:]
	c.lastPTS = pts
	return pts
}

// Stop terminates ffmpeg if it is still running and waits for the worker goroutines.
func (c *Codec) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopLocked()
}

func (c *Codec) stopLocked() error {
	if c.stopped || c.cmd == nil {
		c.stopped = true
		return nil
	}
	c.stopped = true

	c.cancel()
	c.Exchange.Close()
	c.wg.Wait()
	c.logger.Debug("ffmpeg stopped")
	return nil
}

// Release stops the codec if needed and frees the buffer pools.
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
