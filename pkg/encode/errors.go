package encode

import "errors"

var (
	// ErrBufferCapacity is returned when an input slot cannot hold one frame.
	// It indicates a configuration mismatch between the session and the codec.
	ErrBufferCapacity = errors.New("encode: input buffer smaller than frame")

	// ErrUnexpectedCodecStatus is returned when the codec reports a status other than
	// a buffer index or one of the routine statuses.
	ErrUnexpectedCodecStatus = errors.New("encode: unexpected codec status")

	// ErrSinkIO is returned when writing the encoded stream fails.
	ErrSinkIO = errors.New("encode: sink write failed")

	// ErrInvalidConfig is returned for session parameters the driver cannot run with.
	ErrInvalidConfig = errors.New("encode: invalid session config")
)
