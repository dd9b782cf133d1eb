package summarizer

import (
	"errors"
	"testing"
	"time"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder_WithRun(t *testing.T) {
	summary := NewBuilder().
		WithRun("run-1", "v1.0.0").
		Build()

	if summary.RunID != "run-1" {
		t.Errorf("expected run ID 'run-1', got '%s'", summary.RunID)
	}
	if summary.Version != "v1.0.0" {
		t.Errorf("expected version 'v1.0.0', got '%s'", summary.Version)
	}
}

func TestBuilder_WithCodec(t *testing.T) {
	summary := NewBuilder().
		WithCodec("ffmpeg.avc.encoder", "video/avc").
		Build()

	if summary.Codec.Name != "ffmpeg.avc.encoder" {
		t.Errorf("expected codec name 'ffmpeg.avc.encoder', got '%s'", summary.Codec.Name)
	}
	if summary.Codec.Mime != "video/avc" {
		t.Errorf("expected mime 'video/avc', got '%s'", summary.Codec.Mime)
	}
}

func TestBuilder_WithSettings(t *testing.T) {
	settings := Settings{
		Width:          320,
		Height:         180,
		FrameRate:      15,
		IFrameInterval: 10,
		BitRate:        1728000,
		FrameCount:     342,
		TimeoutMs:      10,
	}

	summary := NewBuilder().
		WithSettings(settings).
		Build()

	if summary.Settings != settings {
		t.Errorf("expected settings %+v, got %+v", settings, summary.Settings)
	}
}

func TestBuilder_WithDuration(t *testing.T) {
	summary := NewBuilder().
		WithDuration(1500 * time.Millisecond).
		Build()

	if summary.DurationMs != 1500 {
		t.Errorf("expected DurationMs 1500, got %d", summary.DurationMs)
	}
}

func TestBuilder_WithError(t *testing.T) {
	b := NewBuilder().WithError(errors.New("sink closed"))
	if got := b.Build().Error; got != "sink closed" {
		t.Errorf("expected error 'sink closed', got '%s'", got)
	}

	b.WithError(nil)
	if got := b.Build().Error; got != "" {
		t.Errorf("expected error to be cleared, got '%s'", got)
	}
}

func TestBuilder_Chaining(t *testing.T) {
	summary := NewBuilder().
		WithRun("abc", "").
		WithCodec("go.raw.encoder", "video/raw").
		WithStream(StreamInfo{FramesSubmitted: 10, OutputUnits: 11, EOSReceived: true}).
		WithOutput(OutputInfo{Path: "out/a.yuv", Saved: true, Bytes: 1000}).
		WithSkipped(false).
		Build()

	if summary.RunID != "abc" {
		t.Error("run ID not set correctly")
	}
	if summary.Stream.FramesSubmitted != 10 || !summary.Stream.EOSReceived {
		t.Errorf("stream not set correctly: %+v", summary.Stream)
	}
	if summary.Output.Path != "out/a.yuv" || summary.Output.Bytes != 1000 {
		t.Errorf("output not set correctly: %+v", summary.Output)
	}
	if summary.Skipped {
		t.Error("expected Skipped false")
	}
}
