// Package writer serializes rendered frame buffers to image files. It
// is a collaborator of the rendering core: export failures surface as
// errors and never invalidate the in-memory buffer.
package writer

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/KasumiL5x/rs-raytracer/buffer"
)

// Serialize the buffer as a plain-text PPM (P3) image: a header line
// with the magic token, the dimensions and the max channel value,
// followed by one "r g b" triple per pixel, rows top to bottom.
func WritePPM(w io.Writer, fb *buffer.FrameBuffer) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.Width(), fb.Height()); err != nil {
		return fmt.Errorf("writer: %s", err.Error())
	}

	for y := uint32(0); y < fb.Height(); y++ {
		for x := uint32(0); x < fb.Width(); x++ {
			c := fb.At(x, y)
			_, err := fmt.Fprintf(bw, "%d %d %d\n",
				buffer.QuantizeChannel(c[0]),
				buffer.QuantizeChannel(c[1]),
				buffer.QuantizeChannel(c[2]),
			)
			if err != nil {
				return fmt.Errorf("writer: %s", err.Error())
			}
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writer: %s", err.Error())
	}
	return nil
}

// Write the buffer to a PPM file.
func WritePPMFile(path string, fb *buffer.FrameBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: %s", err.Error())
	}
	defer f.Close()

	return WritePPM(f, fb)
}
