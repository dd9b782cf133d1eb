package summarizer

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/user/yuvenc/pkg/mocks"
)

func TestJSONFormatter_Format(t *testing.T) {
	out := NewJSONFormatter().Format(completedSummary())

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}

	stream, ok := decoded["stream"].(map[string]any)
	if !ok {
		t.Fatalf("missing stream object in %s", out)
	}
	if stream["frames_submitted"] != float64(342) {
		t.Errorf("frames_submitted = %v, want 342", stream["frames_submitted"])
	}
	if decoded["run_id"] != "0f8fad5b-d9cb-469f-a165-70867728950e" {
		t.Errorf("run_id = %v", decoded["run_id"])
	}
	if _, ok := decoded["error"]; ok {
		t.Error("error should be omitted when empty")
	}
}

func TestFormatterFor(t *testing.T) {
	tests := []struct {
		path     string
		markdown bool
	}{
		{"report.json", false},
		{"report.md", true},
		{"REPORT.MD", true},
		{"notes.markdown", true},
		{"report", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			out := FormatterFor(tt.path).Format(completedSummary())
			isMarkdown := strings.HasPrefix(out, "# ")
			if isMarkdown != tt.markdown {
				t.Errorf("FormatterFor(%q) markdown = %v, want %v", tt.path, isMarkdown, tt.markdown)
			}
		})
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(fs, FormatFunc(func(*Summary) string { return "content" }))

	if err := w.Write("reports/run.json", NewSummary()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if !fs.HasDir("reports") {
		t.Error("expected parent directory to be created")
	}
	data, ok := fs.GetFile("reports/run.json")
	if !ok {
		t.Fatal("report not written")
	}
	if string(data) != "content" {
		t.Errorf("report = %q, want %q", data, "content")
	}
}

func TestWriter_WriteNoParent(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(fs, NewJSONFormatter())

	if err := w.Write("run.json", NewSummary()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if len(fs.GetAllFiles()) != 1 {
		t.Errorf("expected one file, got %d", len(fs.GetAllFiles()))
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(string, []byte) error {
		return errors.New("read-only")
	}
	w := NewWriter(fs, NewJSONFormatter())

	err := w.Write("run.json", NewSummary())
	if err == nil || !strings.Contains(err.Error(), "read-only") {
		t.Errorf("Write() error = %v, want read-only failure", err)
	}
}
