package renderer

import "fmt"

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of samples per traced pixel. 0 is valid and degenerates
	// to a single centered sample.
	SamplesPerPixel uint32

	// Maximum number of scatter events per ray path. 0 is valid and
	// produces a black frame.
	MaxDepth uint32

	// Number of CPU tracers to attach. 0 selects one per logical CPU.
	NumWorkers int

	// Seed for the render's random streams. Two renders of the same
	// scene with the same seed produce identical buffers.
	Seed int64
}

// Validate render options.
func (o *Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return fmt.Errorf("renderer: invalid frame dimensions %dx%d", o.FrameW, o.FrameH)
	}
	if o.NumWorkers < 0 {
		return fmt.Errorf("renderer: negative worker count %d", o.NumWorkers)
	}
	return nil
}
