// Package summarizer builds and writes the report of an encode run.
package summarizer

import "time"

// Summary contains everything recorded about one encode run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time `json:"generated_at"`
	RunID       string    `json:"run_id"`
	Version     string    `json:"version,omitempty"`

	// Selected encoder
	Codec CodecInfo `json:"codec"`

	// Session configuration
	Settings Settings `json:"settings"`

	// Driver counters
	Stream StreamInfo `json:"stream"`

	// Output file
	Output OutputInfo `json:"output"`

	DurationMs int64  `json:"duration_ms"`
	Skipped    bool   `json:"skipped"`
	Error      string `json:"error,omitempty"`
}

// CodecInfo identifies the encoder used for the run.
type CodecInfo struct {
	Name string `json:"name,omitempty"`
	Mime string `json:"mime"`
}

// Settings contains the session configuration.
type Settings struct {
	Width          int   `json:"width"`
	Height         int   `json:"height"`
	FrameRate      int   `json:"frame_rate"`
	IFrameInterval int   `json:"iframe_interval"`
	BitRate        int   `json:"bit_rate"`
	FrameCount     int   `json:"frame_count"`
	TimeoutMs      int64 `json:"timeout_ms"`
}

// StreamInfo contains the counters collected by the encode loop.
type StreamInfo struct {
	FramesSubmitted int   `json:"frames_submitted"`
	EOSSubmitted    bool  `json:"eos_submitted"`
	FirstPTSUs      int64 `json:"first_pts_us"`
	LastPTSUs       int64 `json:"last_pts_us"`
	OutputUnits     int   `json:"output_units"`
	ConfigUnits     int   `json:"config_units"`
	KeyFrames       int   `json:"key_frames"`
	EOSReceived     bool  `json:"eos_received"`
	Iterations      int   `json:"iterations"`
	InputNotReady   int   `json:"input_not_ready"`
	OutputNotReady  int   `json:"output_not_ready"`
	FormatChanges   int   `json:"format_changes"`
	BufferChanges   int   `json:"buffer_changes"`
}

// OutputInfo describes where the stream went.
type OutputInfo struct {
	Path   string `json:"path,omitempty"`
	Saved  bool   `json:"saved"`
	Bytes  int64  `json:"bytes"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithRun sets the run identifier and the program version.
func (b *Builder) WithRun(runID, version string) *Builder {
	b.summary.RunID = runID
	b.summary.Version = version
	return b
}

// WithCodec sets the encoder name and codec family.
func (b *Builder) WithCodec(name, mime string) *Builder {
	b.summary.Codec = CodecInfo{
		Name: name,
		Mime: mime,
	}
	return b
}

// WithSettings sets the session configuration.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithStream sets the encode loop counters.
func (b *Builder) WithStream(stream StreamInfo) *Builder {
	b.summary.Stream = stream
	return b
}

// WithOutput sets output file information.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// WithDuration sets the wall time of the run.
func (b *Builder) WithDuration(d time.Duration) *Builder {
	b.summary.DurationMs = d.Milliseconds()
	return b
}

// WithSkipped marks a run that ended without an encoder.
func (b *Builder) WithSkipped(skipped bool) *Builder {
	b.summary.Skipped = skipped
	return b
}

// WithError records the error that ended the run. A nil error clears it.
func (b *Builder) WithError(err error) *Builder {
	if err == nil {
		b.summary.Error = ""
		return b
	}
	b.summary.Error = err.Error()
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
