// Package orchestrator runs one encode: codec discovery, output placement, the encode session
// and the run report.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-l10n"
	"github.com/user/yuvenc/pkg/adapters/codecregistry"
	"github.com/user/yuvenc/pkg/encode"
	"github.com/user/yuvenc/pkg/ports"
	"github.com/user/yuvenc/pkg/summarizer"
)

// Config contains all configuration for the orchestrator.
type Config struct {
	Session ports.SessionConfig

	// Timeout bounds every dequeue call of the encode loop.
	Timeout time.Duration

	// ReportPath receives the run report when set. A .md path gets Markdown, anything else JSON.
	ReportPath string

	// Version is recorded in the report.
	Version string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Session: ports.SessionConfig{
			Mime:           ports.MimeAVC,
			Width:          320,
			Height:         180,
			FrameRate:      15,
			IFrameInterval: 10,
			FrameCount:     342,
			ColorFormat:    ports.ColorFormatYUV420SemiPlanar,
		},
		Timeout: encode.DefaultTimeout,
	}
}

// SinkFactory opens the destination of the encoded stream.
type SinkFactory func() (ports.StreamSink, error)

// RunResult describes a finished run.
type RunResult struct {
	RunID    string
	Codec    ports.CodecInfo
	Skipped  bool // No encoder supports the requested codec family
	Output   string
	Saved    bool
	Stream   encode.Result
	Duration time.Duration
}

// Orchestrator coordinates codec discovery, the sink and the encode session.
type Orchestrator struct {
	codecs   ports.CodecList
	source   ports.FrameSource
	openSink SinkFactory
	fs       ports.FileSystem
	logger   ports.Logger
}

// New creates a new Orchestrator.
func New(
	codecs ports.CodecList,
	source ports.FrameSource,
	openSink SinkFactory,
	fs ports.FileSystem,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		codecs:   codecs,
		source:   source,
		openSink: openSink,
		fs:       fs,
		logger:   logger,
	}
}

// Run encodes config.Session.FrameCount frames from the source into a new sink.
//
// A missing encoder is not an error: it is logged and the result is marked Skipped. Every
// other failure is returned after the codec and the sink have been closed. Partial output is
// left in place. Every log line of the run carries its run id.
func (o *Orchestrator) Run(ctx context.Context, config Config) (result RunResult, err error) {
	started := time.Now()
	result.RunID = uuid.NewString()
	log := o.logger.WithRunID(result.RunID)
	log.Info("Starting encode run %s", result.RunID)

	defer func() {
		result.Duration = time.Since(started)
		if config.ReportPath != "" {
			o.writeReport(log, config, result, err)
		}
	}()

	if err := encode.Validate(config.Session); err != nil {
		log.Error("Invalid session configuration: %s", err)
		return result, err
	}

	// 1. Find and instantiate an encoder for the codec family
	codec, info, err := codecregistry.Open(o.codecs, config.Session.Mime)
	if err != nil {
		if info.Name == "" && errors.Is(err, codecregistry.ErrCodecUnavailable) {
			log.Error("Unable to find an appropriate codec for %s", config.Session.Mime)
			result.Skipped = true
			return result, nil
		}
		log.Error("Failed to create codec %s: %s", info.Name, err)
		return result, err
	}
	result.Codec = info
	log.Info("Found codec: %s", info.Name)

	session := encode.NewSession(codec, config.Session, log)

	// 2. Open the output
	sink, err := o.openSink()
	if err != nil {
		log.Error("Failed to open output: %s", err)
		err = fmt.Errorf("%w: open output: %w", encode.ErrSinkIO, err)
		if closeErr := session.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
		return result, err
	}
	result.Output = sink.Path()
	result.Saved = sink.Enabled()
	defer func() {
		if closeErr := sink.Close(); closeErr != nil {
			log.Error("Failed to close output: %s", closeErr)
			err = errors.Join(err, fmt.Errorf("%w: close output: %w", encode.ErrSinkIO, closeErr))
		}
	}()

	// 3. Run the encoder
	log.Info("Encoding %d frames at %dx%d, %d fps",
		config.Session.FrameCount, config.Session.Width, config.Session.Height, config.Session.FrameRate)

	stream, err := session.Run(ctx, o.source, sink, encode.WithTimeout(config.Timeout))
	result.Stream = stream
	if err != nil {
		log.Error("Encode failed after %d frames: %s", stream.FramesSubmitted, err)
		return result, fmt.Errorf("encode: %w", err)
	}

	if result.Saved {
		log.Info("Encoded %d frames, %d bytes written to %s", stream.FramesSubmitted, stream.BytesWritten, result.Output)
	} else {
		log.Info("Encoded %d frames, %d bytes discarded", stream.FramesSubmitted, stream.BytesWritten)
	}
	return result, nil
}

// writeReport formats and stores the run report. Failures are only logged.
func (o *Orchestrator) writeReport(log ports.Logger, config Config, result RunResult, runErr error) {
	summary := buildSummary(config, result, runErr)
	formatter := summarizer.FormatterFor(config.ReportPath,
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(config.Version))
	writer := summarizer.NewWriter(o.fs, formatter)
	if err := writer.Write(config.ReportPath, summary); err != nil {
		log.Warn("Failed to write report: %s", err)
		return
	}
	log.Info("Report written to %s", config.ReportPath)
}

func buildSummary(config Config, result RunResult, runErr error) *summarizer.Summary {
	s := config.Session
	st := result.Stream

	return summarizer.NewBuilder().
		WithRun(result.RunID, config.Version).
		WithCodec(result.Codec.Name, s.Mime).
		WithSettings(summarizer.Settings{
			Width:          s.Width,
			Height:         s.Height,
			FrameRate:      s.FrameRate,
			IFrameInterval: s.IFrameInterval,
			BitRate:        s.EffectiveBitRate(),
			FrameCount:     s.FrameCount,
			TimeoutMs:      config.Timeout.Milliseconds(),
		}).
		WithStream(summarizer.StreamInfo{
			FramesSubmitted: st.FramesSubmitted,
			EOSSubmitted:    st.EOSSubmitted,
			FirstPTSUs:      st.FirstPTSUs,
			LastPTSUs:       st.LastPTSUs,
			OutputUnits:     st.OutputUnits,
			ConfigUnits:     st.ConfigUnits,
			KeyFrames:       st.KeyFrames,
			EOSReceived:     st.EOSReceived,
			Iterations:      st.Iterations,
			InputNotReady:   st.InputNotReady,
			OutputNotReady:  st.OutputNotReady,
			FormatChanges:   st.FormatChanges,
			BufferChanges:   st.BufferChanges,
		}).
		WithOutput(summarizer.OutputInfo{
			Path:   result.Output,
			Saved:  result.Saved,
			Bytes:  st.BytesWritten,
			Width:  st.OutputFormat.Width,
			Height: st.OutputFormat.Height,
		}).
		WithDuration(result.Duration).
		WithSkipped(result.Skipped).
		WithError(runErr).
		Build()
}
