package ffmpegcodec

import "errors"

var (
	// ErrFFmpegNotFound is returned when no ffmpeg binary can be located.
	ErrFFmpegNotFound = errors.New("ffmpegcodec: ffmpeg not found")

	// ErrNotConfigured is returned when Start is called before Configure.
	ErrNotConfigured = errors.New("ffmpegcodec: codec not configured")

	// ErrAlreadyConfigured is returned when Configure is called a second time.
	ErrAlreadyConfigured = errors.New("ffmpegcodec: codec already configured")

	// ErrReleased is returned by Configure and Start after Release.
	ErrReleased = errors.New("ffmpegcodec: codec released")

	// ErrUnsupportedFormat is returned for a mime type or color format this codec cannot encode.
	ErrUnsupportedFormat = errors.New("ffmpegcodec: unsupported format")

	// ErrEncoderFailed is delivered through DequeueOutputBuffer when the ffmpeg process fails.
	ErrEncoderFailed = errors.New("ffmpegcodec: encoder process failed")
)
