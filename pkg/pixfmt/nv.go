// Package pixfmt converts between the semi-planar 4:2:0 layouts used by frame sources
// and encoders.
//
// Both layouts store a full-resolution luma plane followed by one half-resolution plane of
// interleaved chroma pairs. NV21 orders each pair V,U; NV12 orders it U,V.
package pixfmt

// FrameSize returns the byte size of one 4:2:0 frame.
func FrameSize(width, height int) int {
	return width * height * 3 / 2
}

// NV21ToNV12 writes src (NV21) into dst as NV12.
//
// The luma plane is copied unchanged. In the chroma plane every even position takes the
// byte after it in src and every odd position the byte before it. Nothing outside the chroma
// plane is read or written. A nil or short buffer makes the call a no-op.
// width*height must be even.
func NV21ToNV12(src, dst []byte, width, height int) {
	swapChroma(src, dst, width, height)
}

// NV12ToNV21 writes src (NV12) into dst as NV21. It is the inverse of NV21ToNV12.
func NV12ToNV21(src, dst []byte, width, height int) {
	swapChroma(src, dst, width, height)
}

func swapChroma(src, dst []byte, width, height int) {
	frameSize := width * height
	total := FrameSize(width, height)
	if src == nil || dst == nil || frameSize <= 0 || len(src) < total || len(dst) < total {
		return
	}

	copy(dst[:frameSize], src[:frameSize])

	s := src[frameSize:total]
	d := dst[frameSize:total]
	for j := 0; j+1 < len(s); j += 2 {
		u, v := s[j], s[j+1]
		d[j] = v
		d[j+1] = u
	}
}
