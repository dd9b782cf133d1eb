// Package patternsource renders synthetic NV21 test frames with the gg library.
package patternsource

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font/basicfont"

	"github.com/user/yuvenc/pkg/pixfmt"
	"github.com/user/yuvenc/pkg/ports"
)

// bars are the classic 75% color bars.
var bars = []color.RGBA{
	{191, 191, 191, 255},
	{191, 191, 0, 255},
	{0, 191, 191, 255},
	{0, 191, 0, 255},
	{191, 0, 191, 255},
	{191, 0, 0, 255},
	{0, 0, 191, 255},
}

// Source draws a test card: scrolling color bars, a box bouncing across the frame and the
// frame number.
type Source struct {
	width      int
	height     int
	fps        int
	background color.Color
	logger     ports.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithBackground sets the color behind the bars and the box.
func WithBackground(c color.Color) Option {
	return func(s *Source) {
		s.background = c
	}
}

// New creates a pattern source for frames of width x height at fps.
func New(width, height, fps int, logger ports.Logger, opts ...Option) *Source {
	s := &Source{
		width:      width,
		height:     height,
		fps:        fps,
		background: color.Black,
		logger:     logger.WithComponent("pattern"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render draws frame index as an RGBA image.
func (s *Source) Render(index int) *image.RGBA {
	dc := gg.NewContext(s.width, s.height)
	dc.SetColor(s.background)
	dc.Clear()

	// Bars scroll one bar width per second.
	barWidth := float64(s.width) / float64(len(bars))
	shift := 0.0
	if s.fps > 0 {
		shift = barWidth * float64(index%s.fps) / float64(s.fps)
	}
	for i := -1; i < len(bars); i++ {
		dc.SetColor(bars[(i+len(bars))%len(bars)])
		dc.DrawRectangle(float64(i)*barWidth+shift, 0, barWidth+1, float64(s.height)*2/3)
		dc.Fill()
	}

	// Box bounces horizontally along the lower third.
	box := float64(s.height) / 6
	travel := float64(s.width) - box
	if travel > 0 {
		pos := float64(index%(2*s.width)) * 2
		for pos > 2*travel {
			pos -= 2 * travel
		}
		if pos > travel {
			pos = 2*travel - pos
		}
		dc.SetColor(color.White)
		dc.DrawRectangle(pos, float64(s.height)*2/3+box/2, box, box)
		dc.Fill()
	}

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(color.White)
	dc.DrawStringAnchored(fmt.Sprintf("frame %d", index), float64(s.width)/2, float64(s.height)-8, 0.5, 0)

	return toRGBA(dc.Image())
}

// ReadFrame renders frame index into frame as NV21. Frames of the wrong size are zeroed.
func (s *Source) ReadFrame(index int, frame []byte) {
	if len(frame) != pixfmt.FrameSize(s.width, s.height) {
		s.logger.Warn("Frame buffer is %d bytes, expected %d", len(frame), pixfmt.FrameSize(s.width, s.height))
		clear(frame)
		return
	}
	pixfmt.RGBAToNV21(s.Render(index), frame)
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

var _ ports.FrameSource = (*Source)(nil)
