package tracer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/chewxy/math32"

	"github.com/KasumiL5x/rs-raytracer/buffer"
	"github.com/KasumiL5x/rs-raytracer/scene"
	"github.com/KasumiL5x/rs-raytracer/types"
)

const (
	// Lower bound for scattered-ray intersections. Suppresses shadow
	// acne from float error at freshly spawned ray origins.
	hitEpsilon float32 = 1e-3

	// Stride between per-row seed values (Knuth multiplicative hash
	// constant). Rows get decorrelated streams that depend only on
	// (seed, row), never on which tracer renders them.
	rowSeedStride int64 = 2654435761
)

// Background gradient endpoints. Cosmetic constants inherited from the
// reference scene: a vertical lerp from white at the horizon to a soft
// sky blue overhead. The gradient is the only light source.
var (
	bgHorizonColor = types.XYZ(1.0, 1.0, 1.0)
	bgSkyColor     = types.XYZ(0.5, 0.7, 1.0)
)

// The background color for a ray that escapes the scene.
func Background(r types.Ray) types.Vec3 {
	unitDir := r.Dir.Normalize()
	t := 0.5 * (unitDir[1] + 1.0)
	return bgHorizonColor.Mul(1.0 - t).Add(bgSkyColor.Mul(t))
}

// A single-threaded CPU tracer. Renderers run one per worker; each owns
// its request queue and writes only the rows it was assigned.
type cpuTracer struct {
	id    string
	queue chan BlockRequest
	stats Stats

	sc     *scene.Scene
	cam    *scene.Camera
	target *buffer.FrameBuffer
}

// Create a new CPU tracer. The tracer processes enqueued block requests
// on its own goroutine until Close is called.
func NewCPU(id string) Tracer {
	tr := &cpuTracer{
		id:    id,
		queue: make(chan BlockRequest),
	}
	go tr.worker()
	return tr
}

func (tr *cpuTracer) Id() string {
	return tr.id
}

// All CPU tracers are assumed equally fast until timing feedback says
// otherwise.
func (tr *cpuTracer) Speed() uint32 {
	return 1
}

func (tr *cpuTracer) Setup(sc *scene.Scene, cam *scene.Camera, target *buffer.FrameBuffer) error {
	if sc == nil {
		return fmt.Errorf("tracer: %s: no scene provided", tr.id)
	}
	if cam == nil {
		return fmt.Errorf("tracer: %s: no camera provided", tr.id)
	}
	if target == nil {
		return fmt.Errorf("tracer: %s: no target buffer provided", tr.id)
	}
	tr.sc = sc
	tr.cam = cam
	tr.target = target
	return nil
}

func (tr *cpuTracer) Enqueue(req BlockRequest) {
	tr.queue <- req
}

func (tr *cpuTracer) Stats() *Stats {
	return &tr.stats
}

func (tr *cpuTracer) Close() {
	close(tr.queue)
}

func (tr *cpuTracer) worker() {
	for req := range tr.queue {
		if tr.target == nil {
			req.ErrChan <- fmt.Errorf("tracer: %s: block request before setup", tr.id)
			continue
		}

		start := time.Now()
		for y := req.BlockY; y < req.BlockY+req.BlockH; y++ {
			tr.renderRow(y, req)
		}
		tr.stats.BlockH = req.BlockH
		tr.stats.RenderTime = time.Since(start)

		req.DoneChan <- req.BlockH
	}
}

// Render a single frame row. The row RNG stream is derived from the
// request seed and the row index alone, which makes renders bit-exact
// reproducible regardless of scheduling.
func (tr *cpuTracer) renderRow(y uint32, req BlockRequest) {
	rng := rand.New(rand.NewSource(req.Seed + int64(y)*rowSeedStride))

	width := tr.target.Width()
	height := tr.target.Height()
	denomX := float32(width - 1)
	if width == 1 {
		denomX = 1
	}
	denomY := float32(height - 1)
	if height == 1 {
		denomY = 1
	}

	// Buffer row 0 is the image top; the camera's t axis grows upward.
	flippedY := float32(height - 1 - y)

	samples := req.SamplesPerPixel
	centered := false
	if samples == 0 {
		samples = 1
		centered = true
	}

	for x := uint32(0); x < width; x++ {
		var sum types.Vec3
		for i := uint32(0); i < samples; i++ {
			var s, t float32
			if centered {
				s = (float32(x) + 0.5) / denomX
				t = (flippedY + 0.5) / denomY
			} else {
				s = (float32(x) + rng.Float32()) / denomX
				t = (flippedY + rng.Float32()) / denomY
			}
			ray := tr.cam.GetRay(s, t, rng)
			sum = sum.Add(tr.rayColor(ray, req.MaxDepth, rng))
		}

		avg := sum.Div(float32(samples))
		// Gamma 2 correction: sqrt each channel before storage.
		tr.target.Set(x, y, types.XYZ(
			math32.Sqrt(avg[0]),
			math32.Sqrt(avg[1]),
			math32.Sqrt(avg[2]),
		))
	}
}

// Recursive light transport. Attenuation filters the recursed color
// component-wise; absorbed rays and exhausted paths contribute black,
// escaped rays pick up the background gradient.
func (tr *cpuTracer) rayColor(r types.Ray, depth uint32, rng *rand.Rand) types.Vec3 {
	if depth == 0 {
		return types.Vec3{}
	}

	hit, ok := tr.sc.Hit(r, hitEpsilon, math32.MaxFloat32)
	if !ok {
		return Background(r)
	}

	scattered, attenuation, ok := hit.Material.Scatter(r, &hit, rng)
	if !ok {
		return types.Vec3{}
	}
	return attenuation.MulVec(tr.rayColor(scattered, depth-1, rng))
}
