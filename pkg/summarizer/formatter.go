package summarizer

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// NewJSONFormatter returns a Formatter producing indented JSON.
func NewJSONFormatter() Formatter {
	return FormatFunc(func(summary *Summary) string {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return "{}\n"
		}
		return string(data) + "\n"
	})
}

// FormatterFor picks a formatter by report file extension: Markdown for .md, JSON otherwise.
func FormatterFor(path string, opts ...MarkdownOption) Formatter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return NewMarkdownFormatter(opts...)
	default:
		return NewJSONFormatter()
	}
}
