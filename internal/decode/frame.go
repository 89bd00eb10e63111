// Package decode reads video frames by driving the ffmpeg executable.
//
// Sequential analysis uses a rawvideo grayscale pipe: one ffmpeg process per
// input, frames read fixed-size from stdout in presentation order. Thumbnail
// extraction uses a separate single-frame invocation that decodes at native
// resolution in full color.
package decode

import (
	"image"
)

// Frame is a single decoded grayscale frame. Pix holds one byte per pixel
// in row-major order.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
}

// Gray returns the frame as an image.Gray sharing the pixel buffer.
func (f *Frame) Gray() *image.Gray {
	return &image.Gray{
		Pix:    f.Pix,
		Stride: f.Width,
		Rect:   image.Rect(0, 0, f.Width, f.Height),
	}
}

// MeanIntensity returns the average pixel value of the frame (0-255).
func (f *Frame) MeanIntensity() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, p := range f.Pix {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(f.Pix))
}
