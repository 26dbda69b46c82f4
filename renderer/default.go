package renderer

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KasumiL5x/rs-raytracer/buffer"
	"github.com/KasumiL5x/rs-raytracer/scene"
	"github.com/KasumiL5x/rs-raytracer/tracer"
)

// The default headless renderer. It attaches a pool of CPU tracers,
// lets the scheduler split the frame into row blocks and joins the
// completed blocks into the frame buffer.
type defaultRenderer struct {
	options   Options
	sc        *scene.Scene
	cam       *scene.Camera
	fb        *buffer.FrameBuffer
	tracers   []tracer.Tracer
	scheduler tracer.BlockScheduler

	stats     FrameStats
	rendering int32
	closeOnce sync.Once
}

// Create a new headless renderer for the given scene and camera. A nil
// scheduler selects the naive equal-split scheduler.
func NewDefault(sc *scene.Scene, cam *scene.Camera, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	r, err := newDefault(sc, cam, scheduler, opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func newDefault(sc *scene.Scene, cam *scene.Camera, scheduler tracer.BlockScheduler, opts Options) (*defaultRenderer, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if cam == nil {
		return nil, ErrCameraNotDefined
	}

	fb, err := buffer.NewFrameBuffer(opts.FrameW, opts.FrameH)
	if err != nil {
		return nil, err
	}

	numWorkers := opts.NumWorkers
	if numWorkers == 0 {
		numWorkers = runtime.NumCPU()
	}
	// Never attach more tracers than there are rows to hand out.
	if uint32(numWorkers) > opts.FrameH {
		numWorkers = int(opts.FrameH)
	}

	if scheduler == nil {
		scheduler = tracer.NaiveScheduler()
	}

	r := &defaultRenderer{
		options:   opts,
		sc:        sc,
		cam:       cam,
		fb:        fb,
		scheduler: scheduler,
	}

	for i := 0; i < numWorkers; i++ {
		tr := tracer.NewCPU(fmt.Sprintf("cpu-%d", i))
		if err := tr.Setup(sc, cam, fb); err != nil {
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	return r, nil
}

// Render a frame. Overlapping render invocations are rejected; callers
// must wait for the in-flight frame before requesting another.
func (r *defaultRenderer) Render() (*buffer.FrameBuffer, error) {
	if !atomic.CompareAndSwapInt32(&r.rendering, 0, 1) {
		return nil, ErrRenderInProgress
	}
	defer atomic.StoreInt32(&r.rendering, 0)

	start := time.Now()
	assignment := r.scheduler.Schedule(r.tracers, r.options.FrameH)

	doneChan := make(chan uint32, len(r.tracers))
	errChan := make(chan error, len(r.tracers))

	tracerStats := make([]TracerStat, len(r.tracers))
	var blockY uint32
	for idx, tr := range r.tracers {
		blockH := assignment[idx]
		tracerStats[idx] = TracerStat{
			Id:           tr.Id(),
			BlockY:       blockY,
			BlockH:       blockH,
			FramePercent: 100 * float32(blockH) / float32(r.options.FrameH),
		}

		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			MaxDepth:        r.options.MaxDepth,
			Seed:            r.options.Seed,
			DoneChan:        doneChan,
			ErrChan:         errChan,
		})
		blockY += blockH
	}

	// Join: every tracer signals exactly once per block request.
	var firstErr error
	for range r.tracers {
		select {
		case err := <-errChan:
			if firstErr == nil {
				firstErr = err
			}
		case <-doneChan:
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	for idx, tr := range r.tracers {
		tracerStats[idx].RenderTime = tr.Stats().RenderTime
	}
	r.stats = FrameStats{
		Tracers:    tracerStats,
		RenderTime: time.Since(start),
	}

	return r.fb, nil
}

func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

func (r *defaultRenderer) Close() {
	r.closeOnce.Do(func() {
		for _, tr := range r.tracers {
			tr.Close()
		}
	})
}
