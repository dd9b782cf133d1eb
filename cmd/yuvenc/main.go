// Package main provides the CLI entry point for yuvenc.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/yuvenc/pkg/adapters/codecregistry"
	"github.com/user/yuvenc/pkg/adapters/filesink"
	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/adapters/nullsink"
	"github.com/user/yuvenc/pkg/adapters/osfilesystem"
	"github.com/user/yuvenc/pkg/adapters/patternsource"
	"github.com/user/yuvenc/pkg/adapters/streamprobe"
	"github.com/user/yuvenc/pkg/adapters/yuvsource"
	"github.com/user/yuvenc/pkg/config"
	"github.com/user/yuvenc/pkg/orchestrator"
	"github.com/user/yuvenc/pkg/ports"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Encode  EncodeCmd  `cmd:"" help:"Encode NV21 frames into an H.264 elementary stream."`
	Probe   ProbeCmd   `cmd:"" help:"Inspect an encoded stream."`
	Codecs  CodecsCmd  `cmd:"" help:"List the encoders available on this system."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// EncodeCmd defines the encode subcommand. Unset flags keep the configuration file values.
type EncodeCmd struct {
	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`

	// Session
	Mime           *string `short:"m" group:"Session" help:"Codec family (video/avc, video/raw)."`
	Width          *int    `short:"W" group:"Session" help:"Frame width (default: 320)."`
	Height         *int    `short:"H" group:"Session" help:"Frame height (default: 180)."`
	FrameRate      *int    `short:"r" group:"Session" help:"Frames per second (default: 15)."`
	IFrameInterval *int    `group:"Session" help:"Seconds between key frames (default: 10)."`
	BitRate        *int    `short:"b" group:"Session" help:"Bit rate in bits per second (0 = 2*W*H*fps)."`
	Frames         *int    `short:"n" group:"Session" help:"Number of frames to encode (default: 342)."`
	TimeoutMs      *int    `group:"Session" help:"Dequeue timeout in milliseconds (default: 10)."`

	// Input
	Source       *string `short:"s" group:"Input" help:"Frame source (yuv, pattern)."`
	InputDir     *string `short:"i" group:"Input" help:"Directory holding one NV21 file per frame."`
	InputPattern *string `group:"Input" help:"Frame file name with one %d for the 1-based frame number."`
	Background   *string `group:"Input" help:"Pattern background color (hex, e.g., #1a1a2e)."`

	// Output
	OutputDir *string `short:"o" group:"Output" help:"Output root directory (default: ./out)."`
	Album     *string `group:"Output" help:"Subdirectory of the output root."`
	BaseName  *string `group:"Output" help:"Output file name prefix."`
	NoSave    bool    `group:"Output" help:"Discard the encoded stream."`
	Report    *string `group:"Output" help:"Write a run report (.md for Markdown, otherwise JSON)."`

	FFmpegPath *string `group:"Encoder" help:"Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)."`

	// Logging options
	LogLevel *string `short:"l" group:"Logging" help:"Log level (debug, info, warn, error)."`
	Quiet    bool    `short:"Q" group:"Logging" help:"Suppress all log output."`
}

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	File string `arg:"" type:"existingfile" help:"H.264 elementary stream or MP4 file."`
}

// CodecsCmd defines the codecs subcommand.
type CodecsCmd struct {
	FFmpegPath string `help:"Path to ffmpeg (falls back to FFMPEG_PATH env, then PATH)."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("yuvenc"),
		kong.Description(l10n.T("Drive a video encoder through its buffer exchange protocol.")),
		kong.UsageOnError(),
	)

	if err := ctx.Run(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

// Run executes the encode command.
func (cmd *EncodeCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%s: %w", l10n.T("Invalid configuration"), err)
	}

	// Create logger
	var log ports.Logger
	if cmd.Quiet {
		log = logger.NewNoop()
	} else {
		level, _ := ports.ParseLogLevel(cfg.LogLevel)
		log = logger.NewConsole(level)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	registry := codecregistry.Default(codecregistry.Options{FFmpegPath: cfg.FFmpegPath}, log)
	source := newSource(cfg, fs, log)
	openSink := func() (ports.StreamSink, error) {
		if !cfg.Save {
			log.Info("Saving disabled, the encoded stream is discarded")
			return nullsink.New(), nil
		}
		sink, err := filesink.Open(fs, cfg.ToSinkOptions(), log)
		if err != nil {
			return nil, err
		}
		return sink, nil
	}

	orch := orchestrator.New(registry, source, openSink, fs, log)

	orchConfig := cfg.ToOrchestratorConfig()
	orchConfig.Version = version

	result, err := orch.Run(ctx, orchConfig)
	if err != nil {
		return err
	}

	if cmd.Quiet {
		return nil
	}
	if result.Skipped {
		printWarning(l10n.F("No encoder available for %s, nothing encoded", cfg.Mime))
		return nil
	}

	output := l10n.T("discarded")
	if result.Saved {
		output = result.Output
	}
	printBox(l10n.T("Encoding complete"), [][2]string{
		{l10n.T("Codec"), result.Codec.Name},
		{l10n.T("Frames"), strconv.Itoa(result.Stream.FramesSubmitted)},
		{l10n.T("Output units"), strconv.Itoa(result.Stream.OutputUnits)},
		{l10n.T("Key frames"), strconv.Itoa(result.Stream.KeyFrames)},
		{l10n.T("Size"), formatBytes(result.Stream.BytesWritten)},
		{l10n.T("Output"), output},
		{l10n.T("Duration"), formatDuration(result.Duration)},
		{l10n.T("Run ID"), result.RunID},
	})
	return nil
}

// buildConfig loads the configuration file, if any, and applies flag overrides.
func (cmd *EncodeCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("%s: %w", l10n.T("Failed to load configuration"), err)
		}
		cfg = loaded
	}

	setString(&cfg.Mime, cmd.Mime)
	setInt(&cfg.Width, cmd.Width)
	setInt(&cfg.Height, cmd.Height)
	setInt(&cfg.FrameRate, cmd.FrameRate)
	setInt(&cfg.IFrameInterval, cmd.IFrameInterval)
	setInt(&cfg.BitRate, cmd.BitRate)
	setInt(&cfg.FrameCount, cmd.Frames)
	setInt(&cfg.TimeoutMs, cmd.TimeoutMs)

	setString(&cfg.Source, cmd.Source)
	setString(&cfg.InputDir, cmd.InputDir)
	setString(&cfg.InputPattern, cmd.InputPattern)
	setString(&cfg.PatternBackground, cmd.Background)

	setString(&cfg.OutputDir, cmd.OutputDir)
	setString(&cfg.Album, cmd.Album)
	setString(&cfg.BaseName, cmd.BaseName)
	if cmd.NoSave {
		cfg.Save = false
	}
	setString(&cfg.ReportPath, cmd.Report)

	setString(&cfg.FFmpegPath, cmd.FFmpegPath)
	setString(&cfg.LogLevel, cmd.LogLevel)

	return cfg, nil
}

func newSource(cfg config.Config, fs ports.FileSystem, log ports.Logger) ports.FrameSource {
	if cfg.Source == config.SourcePattern {
		return patternsource.New(cfg.Width, cfg.Height, cfg.FrameRate, log,
			patternsource.WithBackground(config.ParseColor(cfg.PatternBackground)))
	}
	return yuvsource.New(fs, cfg.InputDir, cfg.InputPattern, log)
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	data, err := osfilesystem.New().ReadFile(cmd.File)
	if err != nil {
		return err
	}

	report, err := streamprobe.Probe(data)
	if errors.Is(err, streamprobe.ErrUnknownFormat) {
		return fmt.Errorf("%s: %s", l10n.T("Not an H.264 elementary stream or MP4 file"), cmd.File)
	}
	if err != nil {
		return err
	}

	fmt.Println(titleStyle.Render(cmd.File))
	rows := [][2]string{
		{l10n.T("Format"), string(report.Format)},
		{l10n.T("Size"), formatBytes(int64(report.Bytes))},
	}

	if report.Format == streamprobe.FormatMP4 {
		rows = append(rows, [2]string{l10n.T("Codec"), report.Codec})
		fmt.Println(kv(rows))
		return nil
	}

	rows = append(rows,
		[2]string{l10n.T("Resolution"), fmt.Sprintf("%dx%d", report.Width, report.Height)},
		[2]string{l10n.T("Profile / Level"), fmt.Sprintf("%d / %d", report.Profile, report.Level)},
		[2]string{l10n.T("Access units"), strconv.Itoa(report.AccessUnits)},
		[2]string{l10n.T("Pictures"), strconv.Itoa(report.Pictures)},
		[2]string{l10n.T("IDR frames"), strconv.Itoa(report.IDRFrames)},
	)
	fmt.Println(kv(rows))

	printSection(l10n.T("NAL units"))
	var naluRows [][2]string
	for _, n := range report.NALUs {
		naluRows = append(naluRows, [2]string{fmt.Sprintf("%2d %s", int(n.Type), n.Type), strconv.Itoa(n.Count)})
	}
	fmt.Println(kv(naluRows))
	return nil
}

// Run executes the codecs command.
func (cmd *CodecsCmd) Run() error {
	registry := codecregistry.Default(codecregistry.Options{FFmpegPath: cmd.FFmpegPath}, logger.NewNoop())

	fmt.Println(titleStyle.Render(l10n.T("Available encoders")))
	for _, info := range registry.Codecs() {
		printSection(info.Name)
		fmt.Println(kv([][2]string{
			{l10n.T("Types"), strings.Join(info.SupportedTypes, ", ")},
			{l10n.T("Description"), info.Description},
		}))
	}

	if _, err := codecregistry.SelectCodec(registry, ports.MimeAVC); err != nil {
		fmt.Println()
		printWarning(l10n.T("ffmpeg not found, H.264 encoding is unavailable"))
	}
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	printVersion(version)
	return nil
}
