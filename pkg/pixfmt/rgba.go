package pixfmt

import "image"

// RGBAToNV21 converts img into dst in NV21 layout using BT.601 integer coefficients.
// Chroma is sampled from the top-left pixel of each 2x2 block. dst must hold
// FrameSize(width, height) bytes for the image bounds; otherwise nothing is written.
func RGBAToNV21(img *image.RGBA, dst []byte) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if len(dst) < FrameSize(width, height) {
		return
	}

	chroma := dst[width*height:]
	for y := 0; y < height; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			r := int(row[x*4])
			g := int(row[x*4+1])
			bl := int(row[x*4+2])

			dst[y*width+x] = clamp((299*r + 587*g + 114*bl) / 1000)

			if y%2 == 0 && x%2 == 0 {
				u := (-169*r-331*g+500*bl)/1000 + 128
				v := (500*r-419*g-81*bl)/1000 + 128
				i := (y/2)*width + x
				if i+1 < len(chroma) {
					chroma[i] = clamp(v)
					chroma[i+1] = clamp(u)
				}
			}
		}
	}
}

func clamp(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
