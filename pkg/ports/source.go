package ports

// FrameSource supplies raw source frames in NV21 layout.
type FrameSource interface {
	// ReadFrame fills frame with the bytes of the frame at index.
	// Missing or unreadable data leaves zeros in frame; it never fails.
	ReadFrame(index int, frame []byte)
}
