package encode

import "time"

// BasePresentationOffsetUs keeps the first frame's timestamp off zero.
const BasePresentationOffsetUs = 132

// DefaultTimeout bounds every dequeue call of the driver.
const DefaultTimeout = 10 * time.Millisecond

// PresentationTimeUs returns the presentation time of frame frameIndex in microseconds.
// It depends only on the index and the frame rate, so it strictly increases with the index.
func PresentationTimeUs(frameIndex, frameRate int) int64 {
	return BasePresentationOffsetUs + int64(frameIndex)*1_000_000/int64(frameRate)
}
