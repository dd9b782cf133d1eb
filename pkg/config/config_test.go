package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/yuvenc/pkg/ports"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Width != 320 || cfg.Height != 180 {
		t.Errorf("dimensions = %dx%d, want 320x180", cfg.Width, cfg.Height)
	}
	if cfg.FrameRate != 15 || cfg.FrameCount != 342 || cfg.IFrameInterval != 10 {
		t.Errorf("rate/frames/interval = %d/%d/%d", cfg.FrameRate, cfg.FrameCount, cfg.IFrameInterval)
	}
	if cfg.Mime != ports.MimeAVC {
		t.Errorf("Mime = %q", cfg.Mime)
	}
	if !cfg.Save {
		t.Error("saving should be on by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "yuvenc.yaml")
	content := `
width: 640
height: 360
frame_rate: 30
source: pattern
save: false
report: out/run.json
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Width != 640 || cfg.Height != 360 || cfg.FrameRate != 30 {
		t.Errorf("loaded %dx%d @ %d", cfg.Width, cfg.Height, cfg.FrameRate)
	}
	if cfg.Source != SourcePattern || cfg.Save {
		t.Errorf("Source = %q, Save = %v", cfg.Source, cfg.Save)
	}
	if cfg.ReportPath != "out/run.json" {
		t.Errorf("ReportPath = %q", cfg.ReportPath)
	}
	// Unset keys keep their defaults.
	if cfg.FrameCount != 342 || cfg.Album != "encode_test" {
		t.Errorf("FrameCount = %d, Album = %q", cfg.FrameCount, cfg.Album)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("width: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"pattern source", func(c *Config) { c.Source = SourcePattern; c.InputPattern = "" }, false},
		{"zero width", func(c *Config) { c.Width = 0 }, true},
		{"odd height", func(c *Config) { c.Height = 181 }, true},
		{"zero frame rate", func(c *Config) { c.FrameRate = 0 }, true},
		{"zero frames", func(c *Config) { c.FrameCount = 0 }, true},
		{"negative bit rate", func(c *Config) { c.BitRate = -1 }, true},
		{"negative timeout", func(c *Config) { c.TimeoutMs = -5 }, true},
		{"empty mime", func(c *Config) { c.Mime = "" }, true},
		{"unknown source", func(c *Config) { c.Source = "camera" }, true},
		{"pattern without verb", func(c *Config) { c.InputPattern = "frame.yuv" }, true},
		{"unknown log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{ports.MimeAVC, ".h264"},
		{"VIDEO/AVC", ".h264"},
		{ports.MimeRaw, ".yuv"},
		{"video/hevc", ".bin"},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			cfg := Defaults()
			cfg.Mime = tt.mime
			if got := cfg.Extension(); got != tt.want {
				t.Errorf("Extension() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.BitRate = 500000
	cfg.TimeoutMs = 25
	cfg.ReportPath = "run.md"

	oc := cfg.ToOrchestratorConfig()

	want := ports.SessionConfig{
		Mime:           ports.MimeAVC,
		Width:          320,
		Height:         180,
		FrameRate:      15,
		IFrameInterval: 10,
		BitRate:        500000,
		FrameCount:     342,
		ColorFormat:    ports.ColorFormatYUV420SemiPlanar,
	}
	if oc.Session != want {
		t.Errorf("Session = %+v, want %+v", oc.Session, want)
	}
	if oc.Timeout != 25*time.Millisecond {
		t.Errorf("Timeout = %v, want 25ms", oc.Timeout)
	}
	if oc.ReportPath != "run.md" {
		t.Errorf("ReportPath = %q", oc.ReportPath)
	}
}

func TestToSinkOptions(t *testing.T) {
	opts := Defaults().ToSinkOptions()

	want := filepath.Join("out", "encode_test", "test_encode320x180.h264")
	if got := opts.Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		hex  string
		want color.Color
	}{
		{"#1a1a2e", color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 255}},
		{"FFFFFF", color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"", color.Black},
		{"#fff", color.Black},
	}

	for _, tt := range tests {
		t.Run(tt.hex, func(t *testing.T) {
			if got := ParseColor(tt.hex); got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.hex, got, tt.want)
			}
		})
	}
}
