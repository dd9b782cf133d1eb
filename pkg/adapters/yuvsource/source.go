// Package yuvsource reads NV21 frames stored one per file.
package yuvsource

import (
	"fmt"
	"path/filepath"

	"github.com/user/yuvenc/pkg/ports"
)

// DefaultPattern names frame files by their 1-based number.
const DefaultPattern = "scaled%d.yuv"

// Source reads frame i from <dir>/<pattern % (i+1)>.
type Source struct {
	fs      ports.FileSystem
	dir     string
	pattern string
	logger  ports.Logger
}

// New creates a file-per-frame source. An empty pattern uses DefaultPattern.
func New(fs ports.FileSystem, dir, pattern string, logger ports.Logger) *Source {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Source{
		fs:      fs,
		dir:     dir,
		pattern: pattern,
		logger:  logger.WithComponent("source"),
	}
}

// Path returns the file that holds frame index.
func (s *Source) Path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf(s.pattern, index+1))
}

// ReadFrame copies the frame file into frame. A missing file leaves the frame zeroed; a
// file longer than the frame is truncated.
func (s *Source) ReadFrame(index int, frame []byte) {
	clear(frame)

	path := s.Path(index)
	data, err := s.fs.ReadFile(path)
	if err != nil {
		s.logger.Warn("Cannot read frame %d from %s: %s", index, path, err)
		return
	}

	switch {
	case len(data) > len(frame):
		s.logger.Warn("Frame %d is %d bytes, truncating to %d", index, len(data), len(frame))
	case len(data) < len(frame):
		s.logger.Debug("Frame %d is %d bytes, padding to %d", index, len(data), len(frame))
	}
	copy(frame, data)
}

var _ ports.FrameSource = (*Source)(nil)
