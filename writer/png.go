package writer

import (
	"fmt"
	"image/png"
	"io"
	"os"

	"github.com/KasumiL5x/rs-raytracer/buffer"
)

// Serialize the buffer as a PNG image.
func WritePNG(w io.Writer, fb *buffer.FrameBuffer) error {
	if err := png.Encode(w, fb.RGBA()); err != nil {
		return fmt.Errorf("writer: %s", err.Error())
	}
	return nil
}

// Write the buffer to a PNG file.
func WritePNGFile(path string, fb *buffer.FrameBuffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writer: %s", err.Error())
	}
	defer f.Close()

	return WritePNG(f, fb)
}
