package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// Translator maps a message key to its localized text.
type Translator func(key string) string

// MarkdownOption configures the Markdown formatter.
type MarkdownOption func(*markdownFormatter)

// WithTranslator localizes headings and labels.
func WithTranslator(t Translator) MarkdownOption {
	return func(f *markdownFormatter) {
		f.t = t
	}
}

// WithVersion adds the program version to the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *markdownFormatter) {
		f.version = version
	}
}

type markdownFormatter struct {
	t       Translator
	version string
}

// NewMarkdownFormatter returns a Formatter producing a Markdown report.
func NewMarkdownFormatter(opts ...MarkdownOption) Formatter {
	f := &markdownFormatter{
		t: func(key string) string { return key },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *markdownFormatter) Format(s *Summary) string {
	var b strings.Builder
	t := f.t

	fmt.Fprintf(&b, "# %s\n\n", t("Encode Summary"))

	switch {
	case s.Skipped:
		fmt.Fprintf(&b, "> **%s**: %s %s\n\n", t("Skipped"), t("No encoder available for"), s.Codec.Mime)
	case s.Error != "":
		fmt.Fprintf(&b, "> **%s**: %s\n\n", t("Failed"), s.Error)
	}

	f.header(&b, t("Run"))
	f.row(&b, t("Run ID"), s.RunID)
	codec := s.Codec.Mime
	if s.Codec.Name != "" {
		codec = fmt.Sprintf("%s (%s)", s.Codec.Name, s.Codec.Mime)
	}
	f.row(&b, t("Codec"), codec)
	if s.DurationMs > 0 {
		f.row(&b, t("Duration"), fmt.Sprintf("%d ms", s.DurationMs))
	}
	b.WriteString("\n")

	f.header(&b, t("Settings"))
	f.row(&b, t("Resolution"), fmt.Sprintf("%dx%d", s.Settings.Width, s.Settings.Height))
	f.row(&b, t("Frame Rate"), fmt.Sprintf("%d fps", s.Settings.FrameRate))
	f.row(&b, t("I-Frame Interval"), fmt.Sprintf("%d s", s.Settings.IFrameInterval))
	f.row(&b, t("Bit Rate"), fmt.Sprintf("%d bps", s.Settings.BitRate))
	f.row(&b, t("Frame Count"), fmt.Sprintf("%d", s.Settings.FrameCount))
	f.row(&b, t("Dequeue Timeout"), fmt.Sprintf("%d ms", s.Settings.TimeoutMs))
	b.WriteString("\n")

	if !s.Skipped {
		st := s.Stream
		f.header(&b, t("Stream"))
		f.row(&b, t("Frames Submitted"), fmt.Sprintf("%d", st.FramesSubmitted))
		f.row(&b, t("End of Stream"), fmt.Sprintf("%s / %s", f.yesNo(st.EOSSubmitted), f.yesNo(st.EOSReceived)))
		f.row(&b, t("Presentation Time"), fmt.Sprintf("%d us - %d us", st.FirstPTSUs, st.LastPTSUs))
		f.row(&b, t("Output Units"), fmt.Sprintf("%d", st.OutputUnits))
		f.row(&b, t("Key Frames"), fmt.Sprintf("%d", st.KeyFrames))
		f.row(&b, t("Config Units"), fmt.Sprintf("%d", st.ConfigUnits))
		f.row(&b, t("Iterations"), fmt.Sprintf("%d", st.Iterations))
		f.row(&b, t("Not Ready (input / output)"), fmt.Sprintf("%d / %d", st.InputNotReady, st.OutputNotReady))
		b.WriteString("\n")

		f.header(&b, t("Output"))
		if s.Output.Saved {
			f.row(&b, t("File"), "`"+s.Output.Path+"`")
		} else {
			f.row(&b, t("File"), t("Discarded"))
		}
		f.row(&b, t("Size"), formatBytes(s.Output.Bytes))
		if s.Output.Width > 0 && s.Output.Height > 0 {
			f.row(&b, t("Stream Resolution"), fmt.Sprintf("%dx%d", s.Output.Width, s.Output.Height))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format(time.RFC3339))
	if f.version != "" {
		footer = fmt.Sprintf("%s (yuvenc %s)", footer, f.version)
	}
	b.WriteString(footer + "\n")

	return b.String()
}

func (f *markdownFormatter) header(b *strings.Builder, title string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| %s | %s |\n", f.t("Item"), f.t("Value"))
	b.WriteString("|------|-------|\n")
}

func (f *markdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", label, value)
}

func (f *markdownFormatter) yesNo(v bool) string {
	if v {
		return f.t("Yes")
	}
	return f.t("No")
}

// formatBytes formats bytes in human-readable form.
func formatBytes(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.2f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
