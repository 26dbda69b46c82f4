// Package tracer implements the CPU ray tracing core. A Tracer renders
// contiguous blocks of frame rows; a BlockScheduler decides how rows are
// split across the tracer pool.
package tracer

import (
	"time"

	"github.com/KasumiL5x/rs-raytracer/buffer"
	"github.com/KasumiL5x/rs-raytracer/scene"
)

// A unit of work that is processed by a tracer.
type BlockRequest struct {
	// Block start row and height.
	BlockY uint32
	BlockH uint32

	// The number of emitted rays per traced pixel. 0 degenerates to a
	// single unjittered sample through each pixel center.
	SamplesPerPixel uint32

	// Maximum number of scatter events per ray path. 0 yields black.
	MaxDepth uint32

	// Base seed for the render. Tracers derive per-row streams from it
	// so output does not depend on block assignment.
	Seed int64

	// A channel to signal on block completion with the number of
	// completed rows.
	DoneChan chan<- uint32

	// A channel to signal if an error occurs.
	ErrChan chan<- error
}

// Tracer statistics.
type Stats struct {
	// The last rendered block height.
	BlockH uint32

	// The time spent rendering that block.
	RenderTime time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Get the tracer's relative speed estimate. Schedulers use it to
	// split the first frame before timing feedback exists.
	Speed() uint32

	// Attach the tracer to a scene, camera and output buffer.
	Setup(sc *scene.Scene, cam *scene.Camera, target *buffer.FrameBuffer) error

	// Enqueue block request.
	Enqueue(BlockRequest)

	// Retrieve last block statistics.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}
