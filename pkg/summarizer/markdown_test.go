package summarizer

import (
	"strings"
	"testing"
	"time"
)

func completedSummary() *Summary {
	return NewBuilder().
		WithRun("0f8fad5b-d9cb-469f-a165-70867728950e", "").
		WithCodec("ffmpeg.avc.encoder", "video/avc").
		WithSettings(Settings{
			Width:          320,
			Height:         180,
			FrameRate:      15,
			IFrameInterval: 10,
			BitRate:        1728000,
			FrameCount:     342,
			TimeoutMs:      10,
		}).
		WithStream(StreamInfo{
			FramesSubmitted: 342,
			EOSSubmitted:    true,
			FirstPTSUs:      132,
			LastPTSUs:       22733465,
			OutputUnits:     344,
			ConfigUnits:     1,
			KeyFrames:       3,
			EOSReceived:     true,
			InputNotReady:   7,
			OutputNotReady:  12,
		}).
		WithOutput(OutputInfo{
			Path:   "out/encode_test/test_encode320x180.h264",
			Saved:  true,
			Bytes:  1024 * 1024,
			Width:  320,
			Height: 180,
		}).
		WithDuration(2500 * time.Millisecond).
		Build()
}

func TestMarkdownFormatter_Format(t *testing.T) {
	formatter := NewMarkdownFormatter()

	result := formatter.Format(completedSummary())

	checks := []string{
		"# Encode Summary",
		"0f8fad5b-d9cb-469f-a165-70867728950e",
		"ffmpeg.avc.encoder (video/avc)",
		"320x180",
		"15 fps",
		"1728000 bps",
		"| Frames Submitted | 342 |",
		"132 us - 22733465 us",
		"| Key Frames | 3 |",
		"7 / 12",
		"`out/encode_test/test_encode320x180.h264`",
		"1.00 MB",
		"2500 ms",
	}

	for _, check := range checks {
		if !strings.Contains(result, check) {
			t.Errorf("expected output to contain %q", check)
		}
	}
}

func TestMarkdownFormatter_Format_Skipped(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := NewBuilder().
		WithCodec("", "video/avc").
		WithSkipped(true).
		Build()

	result := formatter.Format(summary)

	if !strings.Contains(result, "Skipped") {
		t.Error("expected output to contain 'Skipped'")
	}
	if !strings.Contains(result, "No encoder available for video/avc") {
		t.Error("expected output to name the missing codec family")
	}
	if strings.Contains(result, "## Stream") {
		t.Error("skipped run should not report stream counters")
	}
}

func TestMarkdownFormatter_Format_Failed(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := completedSummary()
	summary.Error = "encode: sink write failed: disk full"

	result := formatter.Format(summary)

	if !strings.Contains(result, "**Failed**: encode: sink write failed: disk full") {
		t.Error("expected output to contain the run error")
	}
}

func TestMarkdownFormatter_Format_Discarded(t *testing.T) {
	formatter := NewMarkdownFormatter()

	summary := completedSummary()
	summary.Output = OutputInfo{Bytes: 2048}

	result := formatter.Format(summary)

	if !strings.Contains(result, "| File | Discarded |") {
		t.Error("expected output to mark the stream as discarded")
	}
	if !strings.Contains(result, "2.00 KB") {
		t.Error("expected output to contain the discarded size")
	}
}

func TestMarkdownFormatter_WithTranslator(t *testing.T) {
	translator := func(key string) string {
		translations := map[string]string{
			"Encode Summary": "エンコードサマリー",
			"Frame Rate":     "フレームレート",
			"Discarded":      "破棄",
		}
		if v, ok := translations[key]; ok {
			return v
		}
		return key
	}

	formatter := NewMarkdownFormatter(WithTranslator(translator))

	summary := completedSummary()
	summary.Output.Saved = false

	result := formatter.Format(summary)

	if !strings.Contains(result, "エンコードサマリー") {
		t.Error("expected translated 'Encode Summary'")
	}
	if !strings.Contains(result, "フレームレート") {
		t.Error("expected translated 'Frame Rate'")
	}
	if !strings.Contains(result, "破棄") {
		t.Error("expected translated 'Discarded'")
	}
}

func TestMarkdownFormatter_WithVersion(t *testing.T) {
	formatter := NewMarkdownFormatter(WithVersion("v1.2.0"))

	result := formatter.Format(completedSummary())

	if !strings.Contains(result, "v1.2.0") {
		t.Error("expected output to contain version 'v1.2.0'")
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1024 * 1024, "1.00 MB"},
		{1024 * 1024 * 1024, "1.00 GB"},
		{1536 * 1024 * 1024, "1.50 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := formatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("formatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}
