package renderer

import "time"

type TracerStat struct {
	// The tracer id.
	Id string

	// The assigned block start row and height, and the percentage of
	// total frame area the block represents.
	BlockY       uint32
	BlockH       uint32
	FramePercent float32

	// Render time for assigned block.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual tracer stats.
	Tracers []TracerStat

	// Total render time for entire frame.
	RenderTime time.Duration
}
