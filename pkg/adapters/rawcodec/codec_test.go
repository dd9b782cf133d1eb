package rawcodec

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/encode"
	"github.com/user/yuvenc/pkg/mocks"
	"github.com/user/yuvenc/pkg/pixfmt"
	"github.com/user/yuvenc/pkg/ports"
)

func rawConfig(frames int) ports.SessionConfig {
	return ports.SessionConfig{
		Mime:        ports.MimeRaw,
		Width:       32,
		Height:      16,
		FrameRate:   15,
		FrameCount:  frames,
		ColorFormat: ports.ColorFormatYUV420SemiPlanar,
	}
}

func TestCodec_Session(t *testing.T) {
	cfg := rawConfig(25)
	source := &mocks.FrameSource{}
	sink := mocks.NewStreamSink()

	session := encode.NewSession(New(logger.NewNoop()), cfg, logger.NewNoop())
	result, err := session.Run(context.Background(), source, sink, encode.WithTimeout(time.Millisecond))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.FramesSubmitted != 25 || !result.EOSReceived {
		t.Errorf("result = %+v", result)
	}
	if result.OutputUnits != 26 || result.KeyFrames != 25 {
		t.Errorf("OutputUnits/KeyFrames = %d/%d, want 26/25", result.OutputUnits, result.KeyFrames)
	}
	if result.FormatChanges != 1 || result.OutputFormat.Mime != ports.MimeRaw {
		t.Errorf("format = %d changes, %s", result.FormatChanges, result.OutputFormat)
	}

	// Rebuild the expected NV12 stream from the NV21 source.
	size := pixfmt.FrameSize(cfg.Width, cfg.Height)
	var want bytes.Buffer
	nv21 := make([]byte, size)
	nv12 := make([]byte, size)
	for i := 0; i < cfg.FrameCount; i++ {
		(&mocks.FrameSource{}).ReadFrame(i, nv21)
		pixfmt.NV21ToNV12(nv21, nv12, cfg.Width, cfg.Height)
		want.Write(nv12)
	}
	if !bytes.Equal(sink.Bytes(), want.Bytes()) {
		t.Errorf("stream of %d bytes differs from the %d expected NV12 bytes", len(sink.Bytes()), want.Len())
	}
}

func TestCodec_SingleSlots(t *testing.T) {
	cfg := rawConfig(10)
	codec := NewWithOptions(Options{InputSlots: 1, OutputSlots: 1}, logger.NewNoop())

	session := encode.NewSession(codec, cfg, logger.NewNoop())
	result, err := session.Run(context.Background(), &mocks.FrameSource{}, mocks.NewStreamSink(), encode.WithTimeout(time.Millisecond))
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.OutputUnits != 11 {
		t.Errorf("OutputUnits = %d, want 11", result.OutputUnits)
	}
}

func TestCodec_ProtocolErrors(t *testing.T) {
	codec := New(logger.NewNoop())
	if err := codec.Start(); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Start() before Configure error = %v", err)
	}
	if err := codec.Configure(rawConfig(1)); err != nil {
		t.Fatal(err)
	}
	if err := codec.Start(); err != nil {
		t.Fatal(err)
	}
	defer codec.Release()

	if err := codec.ReleaseOutputBuffer(0); err == nil {
		t.Error("releasing a free output slot should fail")
	}

	idx, err := codec.DequeueInputBuffer(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := codec.QueueInputBuffer(idx, 0, 0, 132, ports.FlagEndOfStream); err != nil {
		t.Fatal(err)
	}
	idx, err = codec.DequeueInputBuffer(time.Second)
	if err != nil {
		t.Fatal(err)
	}
	if err := codec.QueueInputBuffer(idx, 0, 0, 200, ports.FlagEndOfStream); err == nil {
		t.Error("second end of stream should be rejected")
	}
}

func TestCodec_Configure(t *testing.T) {
	cfg := rawConfig(1)
	cfg.Mime = ports.MimeAVC
	if err := New(logger.NewNoop()).Configure(cfg); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Configure() error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestCodec_Lifecycle(t *testing.T) {
	codec := New(logger.NewNoop())
	if err := codec.Configure(rawConfig(1)); err != nil {
		t.Fatal(err)
	}
	exchange := codec.Exchange

	if err := codec.Configure(rawConfig(1)); !errors.Is(err, ErrAlreadyConfigured) {
		t.Errorf("second Configure() error = %v, want ErrAlreadyConfigured", err)
	}
	if codec.Exchange != exchange {
		t.Error("second Configure() replaced the buffer exchange")
	}

	if err := codec.Start(); err != nil {
		t.Fatal(err)
	}
	if err := codec.Start(); err != nil {
		t.Errorf("second Start() error = %v, want nil", err)
	}

	codec.Release()
	if err := codec.Configure(rawConfig(1)); !errors.Is(err, ErrReleased) {
		t.Errorf("Configure() after Release error = %v, want ErrReleased", err)
	}
	if err := codec.Start(); !errors.Is(err, ErrReleased) {
		t.Errorf("Start() after Release error = %v, want ErrReleased", err)
	}
}

func TestCodec_StopAndRelease(t *testing.T) {
	codec := New(logger.NewNoop())
	if err := codec.Configure(rawConfig(1)); err != nil {
		t.Fatal(err)
	}
	if err := codec.Start(); err != nil {
		t.Fatal(err)
	}

	done := make(chan struct{})
	go func() {
		codec.Stop()
		codec.Release()
		codec.Release()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop/Release did not return")
	}

	if _, err := codec.DequeueInputBuffer(-1); err == nil {
		t.Error("dequeue after release should fail")
	}
}
