// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"github.com/user/yuvenc/pkg/adapters/filesink"
	"github.com/user/yuvenc/pkg/orchestrator"
	"github.com/user/yuvenc/pkg/ports"
	"gopkg.in/yaml.v3"
)

// Frame sources.
const (
	SourceYUV     = "yuv"
	SourcePattern = "pattern"
)

// Config represents the full configuration for yuvenc.
type Config struct {
	// Session
	Mime           string `yaml:"mime"`
	Width          int    `yaml:"width"`
	Height         int    `yaml:"height"`
	FrameRate      int    `yaml:"frame_rate"`
	IFrameInterval int    `yaml:"iframe_interval"`
	BitRate        int    `yaml:"bit_rate"`
	FrameCount     int    `yaml:"frame_count"`
	TimeoutMs      int    `yaml:"timeout_ms"`

	// Input
	Source            string `yaml:"source"`
	InputDir          string `yaml:"input_dir"`
	InputPattern      string `yaml:"input_pattern"`
	PatternBackground string `yaml:"pattern_background"`

	// Output
	Save      bool   `yaml:"save"`
	OutputDir string `yaml:"output_dir"`
	Album     string `yaml:"album"`
	BaseName  string `yaml:"base_name"`

	// Report
	ReportPath string `yaml:"report"`

	// Encoder
	FFmpegPath string `yaml:"ffmpeg_path"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Session
		Mime:           ports.MimeAVC,
		Width:          320,
		Height:         180,
		FrameRate:      15,
		IFrameInterval: 10,
		FrameCount:     342,
		TimeoutMs:      10,

		// Input
		Source:            SourceYUV,
		InputDir:          "assets/yuvTest",
		InputPattern:      "scaled%d.yuv",
		PatternBackground: "#000000",

		// Output
		Save:      true,
		OutputDir: "./out",
		Album:     "encode_test",
		BaseName:  "test_encode",

		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	switch {
	case c.Mime == "":
		return fmt.Errorf("mime must be set")
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("dimensions must be positive, got %dx%d", c.Width, c.Height)
	case c.Width%2 != 0 || c.Height%2 != 0:
		return fmt.Errorf("dimensions must be even, got %dx%d", c.Width, c.Height)
	case c.FrameRate <= 0:
		return fmt.Errorf("frame_rate must be positive, got %d", c.FrameRate)
	case c.FrameCount <= 0:
		return fmt.Errorf("frame_count must be positive, got %d", c.FrameCount)
	case c.IFrameInterval < 0:
		return fmt.Errorf("iframe_interval must not be negative, got %d", c.IFrameInterval)
	case c.BitRate < 0:
		return fmt.Errorf("bit_rate must not be negative, got %d", c.BitRate)
	case c.TimeoutMs < 0:
		return fmt.Errorf("timeout_ms must not be negative, got %d", c.TimeoutMs)
	case c.Source != SourceYUV && c.Source != SourcePattern:
		return fmt.Errorf("source must be %q or %q, got %q", SourceYUV, SourcePattern, c.Source)
	case c.Source == SourceYUV && strings.Count(c.InputPattern, "%d") != 1:
		return fmt.Errorf("input_pattern must contain one %%d, got %q", c.InputPattern)
	}
	if _, err := ports.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Extension returns the output file extension for the codec family.
func (c Config) Extension() string {
	switch strings.ToLower(c.Mime) {
	case ports.MimeAVC:
		return ".h264"
	case ports.MimeRaw:
		return ".yuv"
	default:
		return ".bin"
	}
}

// ToSessionConfig converts Config to the codec session parameters.
func (c Config) ToSessionConfig() ports.SessionConfig {
	return ports.SessionConfig{
		Mime:           c.Mime,
		Width:          c.Width,
		Height:         c.Height,
		FrameRate:      c.FrameRate,
		IFrameInterval: c.IFrameInterval,
		BitRate:        c.BitRate,
		FrameCount:     c.FrameCount,
		ColorFormat:    ports.ColorFormatYUV420SemiPlanar,
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() orchestrator.Config {
	return orchestrator.Config{
		Session:    c.ToSessionConfig(),
		Timeout:    time.Duration(c.TimeoutMs) * time.Millisecond,
		ReportPath: c.ReportPath,
	}
}

// ToSinkOptions places the output file.
func (c Config) ToSinkOptions() filesink.Options {
	return filesink.Options{
		OutputDir: c.OutputDir,
		Album:     c.Album,
		BaseName:  c.BaseName,
		Width:     c.Width,
		Height:    c.Height,
		Extension: c.Extension(),
	}
}

// ParseColor parses a hex color string to color.Color.
func ParseColor(hex string) color.Color {
	if len(hex) == 0 {
		return color.Black
	}

	if hex[0] == '#' {
		hex = hex[1:]
	}

	if len(hex) != 6 {
		return color.Black
	}

	r := hexValue(hex[0])<<4 | hexValue(hex[1])
	g := hexValue(hex[2])<<4 | hexValue(hex[3])
	b := hexValue(hex[4])<<4 | hexValue(hex[5])

	return color.RGBA{R: r, G: g, B: b, A: 255}
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}
