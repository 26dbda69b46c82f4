// Package renderer drives the tracing core: it owns the output frame
// buffer, splits the frame across a pool of CPU tracers and joins the
// results. The interactive variant additionally presents the buffer in
// an opengl window.
package renderer

import "github.com/KasumiL5x/rs-raytracer/buffer"

type Renderer interface {
	// Render a frame and return the completed buffer. The buffer stays
	// owned by the renderer and is reused across frames.
	Render() (*buffer.FrameBuffer, error)

	// Get render statistics for the last completed frame.
	Stats() FrameStats

	// Shutdown renderer and any attached tracers.
	Close()
}
