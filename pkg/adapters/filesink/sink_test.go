package filesink

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/user/yuvenc/pkg/adapters/logger"
	"github.com/user/yuvenc/pkg/mocks"
)

// testBaseDir is a platform-independent base directory for tests
var testBaseDir = filepath.Join("out")

func testOptions() Options {
	return Options{
		OutputDir: testBaseDir,
		Album:     "encode_test",
		BaseName:  "test_encode",
		Width:     320,
		Height:    180,
		Extension: ".h264",
	}
}

func TestOptions_Path(t *testing.T) {
	want := filepath.Join(testBaseDir, "encode_test", "test_encode320x180.h264")
	if got := testOptions().Path(); got != want {
		t.Errorf("Path() = %s, want %s", got, want)
	}
}

func TestSink_WriteAndClose(t *testing.T) {
	fs := mocks.NewFileSystem()
	sink, err := Open(fs, testOptions(), logger.NewNoop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if !sink.Enabled() {
		t.Error("expected Enabled to return true")
	}
	if !fs.HasDir(filepath.Join(testBaseDir, "encode_test")) {
		t.Error("expected album directory to be created")
	}

	for _, chunk := range [][]byte{{0, 0, 0, 1, 0x67}, {0, 0, 0, 1, 0x65, 0x88}} {
		if _, err := sink.Write(chunk); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	saved, ok := fs.GetFile(sink.Path())
	if !ok {
		t.Fatalf("expected file to be saved at %s", sink.Path())
	}
	if string(saved) != string([]byte{0, 0, 0, 1, 0x67, 0, 0, 0, 1, 0x65, 0x88}) {
		t.Errorf("saved % x", saved)
	}
	if sink.Written() != 11 {
		t.Errorf("Written() = %d, want 11", sink.Written())
	}

	if _, err := sink.Write([]byte{1}); err == nil {
		t.Error("Write after Close should fail")
	}
}

func TestSink_MkdirFailureIsNotFatal(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.MkdirAllFunc = func(string) error { return errors.New("read-only") }

	sink, err := Open(fs, testOptions(), logger.NewNoop())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	sink.Close()
}

func TestSink_CreateFailure(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.CreateFunc = func(string) (io.WriteCloser, error) { return nil, errors.New("permission denied") }

	if _, err := Open(fs, testOptions(), logger.NewNoop()); err == nil {
		t.Error("Open should fail when the file cannot be created")
	}
}
