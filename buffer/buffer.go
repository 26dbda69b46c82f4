// Package buffer holds the rendered frame as a width x height grid of
// RGB colors. Values are post-gamma, clamped to [0, 1]; quantization to
// 8-bit integers is left to consumers via RGBA or QuantizeChannel.
package buffer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/KasumiL5x/rs-raytracer/types"
)

// A frame buffer. Row 0 is the top of the image. Pixel reads/writes are
// unsynchronized; concurrent writers must target disjoint rows.
type FrameBuffer struct {
	width  uint32
	height uint32
	pix    []float32
}

// Allocate a new frame buffer.
func NewFrameBuffer(width, height uint32) (*FrameBuffer, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("buffer: invalid frame dimensions %dx%d", width, height)
	}
	return &FrameBuffer{
		width:  width,
		height: height,
		pix:    make([]float32, width*height*3),
	}, nil
}

func (fb *FrameBuffer) Width() uint32 {
	return fb.width
}

func (fb *FrameBuffer) Height() uint32 {
	return fb.height
}

// Get the color at (x, y).
func (fb *FrameBuffer) At(x, y uint32) types.Vec3 {
	offset := (y*fb.width + x) * 3
	return types.XYZ(fb.pix[offset], fb.pix[offset+1], fb.pix[offset+2])
}

// Set the color at (x, y), clamping each channel to [0, 1].
func (fb *FrameBuffer) Set(x, y uint32, c types.Vec3) {
	offset := (y*fb.width + x) * 3
	fb.pix[offset] = clampChannel(c[0])
	fb.pix[offset+1] = clampChannel(c[1])
	fb.pix[offset+2] = clampChannel(c[2])
}

// Reset all pixels to black.
func (fb *FrameBuffer) Clear() {
	for i := range fb.pix {
		fb.pix[i] = 0
	}
}

// Convert the buffer to an 8-bit RGBA image suitable for PNG encoding
// or texture upload.
func (fb *FrameBuffer) RGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(fb.width), int(fb.height)))
	for y := uint32(0); y < fb.height; y++ {
		for x := uint32(0); x < fb.width; x++ {
			c := fb.At(x, y)
			img.SetRGBA(int(x), int(y), color.RGBA{
				R: QuantizeChannel(c[0]),
				G: QuantizeChannel(c[1]),
				B: QuantizeChannel(c[2]),
				A: 0xff,
			})
		}
	}
	return img
}

// Map a normalized channel value to an 8-bit integer. The scaling is
// floor(256 * c) capped at 255, so 1.0 maps to 255 and intervals of
// equal width map to each code point.
func QuantizeChannel(c float32) uint8 {
	q := int(256 * clampChannel(c))
	if q > 255 {
		q = 255
	}
	return uint8(q)
}

func clampChannel(c float32) float32 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
