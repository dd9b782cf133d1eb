// Package filesink writes the encoded elementary stream to a file.
package filesink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/user/yuvenc/pkg/ports"
)

// Options places the output file: <OutputDir>/<Album>/<BaseName><W>x<H><Extension>.
type Options struct {
	OutputDir string
	Album     string
	BaseName  string
	Width     int
	Height    int
	Extension string // Including the dot, e.g. ".h264"
}

// FileName returns the output file name without directories.
func (o Options) FileName() string {
	return fmt.Sprintf("%s%dx%d%s", o.BaseName, o.Width, o.Height, o.Extension)
}

// Path returns the full output path.
func (o Options) Path() string {
	return filepath.Join(o.OutputDir, o.Album, o.FileName())
}

// Sink appends the stream to a buffered file.
type Sink struct {
	path    string
	file    io.WriteCloser
	w       *bufio.Writer
	written int64
	closed  bool
}

// Open creates the album directory and the output file. A directory that cannot be created
// is only logged; the file creation then reports the real problem.
func Open(fs ports.FileSystem, opts Options, logger ports.Logger) (*Sink, error) {
	logger = logger.WithComponent("sink")

	dir := filepath.Join(opts.OutputDir, opts.Album)
	if err := fs.MkdirAll(dir); err != nil {
		logger.Warn("Directory not created: %s", dir)
	}

	path := opts.Path()
	file, err := fs.Create(path)
	if err != nil {
		logger.Warn("Unable to create output file %s", path)
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	logger.Info("Encoded output will be saved as %s", path)

	return &Sink{
		path: path,
		file: file,
		w:    bufio.NewWriterSize(file, 256*1024),
	}, nil
}

// Enabled returns true as this sink keeps the stream.
func (s *Sink) Enabled() bool {
	return true
}

// Path returns the output file path.
func (s *Sink) Path() string {
	return s.path
}

// Written returns the number of bytes accepted so far.
func (s *Sink) Written() int64 {
	return s.written
}

// Write appends p to the file.
func (s *Sink) Write(p []byte) (int, error) {
	if s.closed {
		return 0, fmt.Errorf("write %s: %w", s.path, io.ErrClosedPipe)
	}
	n, err := s.w.Write(p)
	s.written += int64(n)
	return n, err
}

// Close flushes buffered bytes and closes the file. Later calls do nothing.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.w.Flush(), s.file.Close())
}

// Ensure Sink implements ports.StreamSink
var _ ports.StreamSink = (*Sink)(nil)
