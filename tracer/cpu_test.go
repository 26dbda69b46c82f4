package tracer

import (
	"testing"

	"github.com/chewxy/math32"

	"github.com/KasumiL5x/rs-raytracer/buffer"
	"github.com/KasumiL5x/rs-raytracer/scene"
	"github.com/KasumiL5x/rs-raytracer/types"
)

const testEpsilon float32 = 1e-5

func testScene(t *testing.T) *scene.Scene {
	t.Helper()
	mat, err := scene.NewLambertian(types.XYZ(0.5, 0.5, 0.5))
	if err != nil {
		t.Fatalf("failed to create material: %v", err)
	}
	sc := scene.NewScene()
	if err := sc.AddSphere(types.XYZ(0, 0, -1), 0.5, mat); err != nil {
		t.Fatalf("failed to add sphere: %v", err)
	}
	return sc
}

func testCamera(t *testing.T, aspect float32) *scene.Camera {
	t.Helper()
	cam, err := scene.NewCamera(
		types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), types.XYZ(0, 1, 0),
		90, aspect, 0, 1,
	)
	if err != nil {
		t.Fatalf("failed to create camera: %v", err)
	}
	return cam
}

// Render the rows [blockY, blockY+blockH) and wait for completion.
func renderBlock(t *testing.T, tr Tracer, blockY, blockH, spp, maxDepth uint32, seed int64) {
	t.Helper()
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(BlockRequest{
		BlockY:          blockY,
		BlockH:          blockH,
		SamplesPerPixel: spp,
		MaxDepth:        maxDepth,
		Seed:            seed,
		DoneChan:        doneChan,
		ErrChan:         errChan,
	})
	select {
	case err := <-errChan:
		t.Fatalf("block request failed: %v", err)
	case rows := <-doneChan:
		if rows != blockH {
			t.Fatalf("expected %d completed rows; got %d", blockH, rows)
		}
	}
}

func TestBackgroundGradient(t *testing.T) {
	// Straight up is the sky color, straight down is the horizon
	// color, anything between is the lerp of the two.
	up := Background(types.NewRay(types.Vec3{}, types.XYZ(0, 1, 0)))
	if up.Sub(types.XYZ(0.5, 0.7, 1.0)).Len() > testEpsilon {
		t.Fatalf("expected sky color straight up; got %v", up)
	}
	down := Background(types.NewRay(types.Vec3{}, types.XYZ(0, -1, 0)))
	if down.Sub(types.XYZ(1, 1, 1)).Len() > testEpsilon {
		t.Fatalf("expected horizon color straight down; got %v", down)
	}
	level := Background(types.NewRay(types.Vec3{}, types.XYZ(1, 0, 0)))
	if level.Sub(types.XYZ(0.75, 0.85, 1.0)).Len() > testEpsilon {
		t.Fatalf("expected midpoint color at the horizon; got %v", level)
	}
}

func TestCPUTracerDepthZeroIsBlack(t *testing.T) {
	fb, err := buffer.NewFrameBuffer(8, 4)
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}

	tr := NewCPU("cpu-0")
	defer tr.Close()
	if err := tr.Setup(testScene(t), testCamera(t, 2), fb); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	renderBlock(t, tr, 0, fb.Height(), 4, 0, 1)

	for y := uint32(0); y < fb.Height(); y++ {
		for x := uint32(0); x < fb.Width(); x++ {
			if got := fb.At(x, y); got != (types.Vec3{}) {
				t.Fatalf("expected black frame with max depth 0; pixel (%d, %d) = %v", x, y, got)
			}
		}
	}
}

func TestCPUTracerBackgroundMatchesFormula(t *testing.T) {
	// No geometry and a single centered sample per pixel: every pixel
	// must equal the gamma-corrected analytic gradient exactly.
	fb, err := buffer.NewFrameBuffer(6, 4)
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}
	cam := testCamera(t, 1.5)

	tr := NewCPU("cpu-0")
	defer tr.Close()
	if err := tr.Setup(scene.NewScene(), cam, fb); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	renderBlock(t, tr, 0, fb.Height(), 0, 5, 1)

	for y := uint32(0); y < fb.Height(); y++ {
		for x := uint32(0); x < fb.Width(); x++ {
			s := (float32(x) + 0.5) / float32(fb.Width()-1)
			tc := (float32(fb.Height()-1-y) + 0.5) / float32(fb.Height()-1)
			want := Background(cam.GetRay(s, tc, nil))
			want = types.XYZ(math32.Sqrt(want[0]), math32.Sqrt(want[1]), math32.Sqrt(want[2]))

			if got := fb.At(x, y); got != want {
				t.Fatalf("pixel (%d, %d) = %v does not match background formula %v", x, y, got, want)
			}
		}
	}
}

func TestCPUTracerDeterministicAcrossBlockSplits(t *testing.T) {
	const seed int64 = 1337
	sc := testScene(t)
	cam := testCamera(t, 2)

	fbA, err := buffer.NewFrameBuffer(16, 8)
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}
	fbB, err := buffer.NewFrameBuffer(16, 8)
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}

	// One tracer renders the whole frame.
	whole := NewCPU("cpu-whole")
	defer whole.Close()
	if err := whole.Setup(sc, cam, fbA); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	renderBlock(t, whole, 0, fbA.Height(), 8, 10, seed)

	// Two tracers split the same frame unevenly.
	top := NewCPU("cpu-top")
	defer top.Close()
	bottom := NewCPU("cpu-bottom")
	defer bottom.Close()
	if err := top.Setup(sc, cam, fbB); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := bottom.Setup(sc, cam, fbB); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	renderBlock(t, top, 0, 3, 8, 10, seed)
	renderBlock(t, bottom, 3, 5, 8, 10, seed)

	for y := uint32(0); y < fbA.Height(); y++ {
		for x := uint32(0); x < fbA.Width(); x++ {
			if fbA.At(x, y) != fbB.At(x, y) {
				t.Fatalf("pixel (%d, %d) differs across block splits: %v vs %v", x, y, fbA.At(x, y), fbB.At(x, y))
			}
		}
	}
}

func TestCPUTracerSingleSphereSilhouette(t *testing.T) {
	// The end to end scenario: a diffuse sphere dead ahead must leave a
	// non-background silhouette in the image center while untouched
	// pixels keep the analytic gradient.
	fb, err := buffer.NewFrameBuffer(21, 21)
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}
	cam := testCamera(t, 1)

	tr := NewCPU("cpu-0")
	defer tr.Close()
	if err := tr.Setup(testScene(t), cam, fb); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	renderBlock(t, tr, 0, fb.Height(), 0, 5, 7)

	center := fb.At(10, 10)
	centerRay := cam.GetRay(0.5, 0.5, nil)
	bg := Background(centerRay)
	bg = types.XYZ(math32.Sqrt(bg[0]), math32.Sqrt(bg[1]), math32.Sqrt(bg[2]))
	if center == bg {
		t.Fatal("expected the sphere silhouette to differ from the background at the image center")
	}

	// Corner rays miss the sphere (it subtends ~27 degrees of a 90
	// degree fov) and must match the gradient exactly.
	for _, p := range [][2]uint32{{0, 0}, {20, 0}, {0, 20}, {20, 20}} {
		x, y := p[0], p[1]
		s := (float32(x) + 0.5) / float32(fb.Width()-1)
		tc := (float32(fb.Height()-1-y) + 0.5) / float32(fb.Height()-1)
		want := Background(cam.GetRay(s, tc, nil))
		want = types.XYZ(math32.Sqrt(want[0]), math32.Sqrt(want[1]), math32.Sqrt(want[2]))
		if got := fb.At(x, y); got != want {
			t.Fatalf("corner pixel (%d, %d) = %v does not match background %v", x, y, got, want)
		}
	}
}

func TestCPUTracerMatchedMediaSphereInvisible(t *testing.T) {
	// A glass sphere with the same refractive index as the surrounding
	// medium bends nothing: the rendered image must stay the background,
	// up to the reflectance approximation at grazing silhouette pixels.
	const frameW, frameH = 21, 21

	cam := testCamera(t, 1)

	render := func(sc *scene.Scene) *buffer.FrameBuffer {
		fb, err := buffer.NewFrameBuffer(frameW, frameH)
		if err != nil {
			t.Fatalf("failed to create buffer: %v", err)
		}
		tr := NewCPU("cpu-0")
		defer tr.Close()
		if err := tr.Setup(sc, cam, fb); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		renderBlock(t, tr, 0, frameH, 0, 50, 42)
		return fb
	}

	glass, err := scene.NewDielectric(1.0)
	if err != nil {
		t.Fatalf("failed to create material: %v", err)
	}
	withSphere := scene.NewScene()
	if err := withSphere.AddSphere(types.XYZ(0, 0, -1), 0.5, glass); err != nil {
		t.Fatalf("failed to add sphere: %v", err)
	}

	got := render(withSphere)
	want := render(scene.NewScene())

	var meanDiff float32
	for y := uint32(0); y < frameH; y++ {
		for x := uint32(0); x < frameW; x++ {
			meanDiff += got.At(x, y).Sub(want.At(x, y)).Len()
		}
	}
	meanDiff /= float32(frameW * frameH)
	if meanDiff > 0.05 {
		t.Fatalf("expected a matched-media sphere to leave the background intact; mean pixel difference %g", meanDiff)
	}

	// A near-normal-incidence pixel passes straight through.
	if d := got.At(10, 10).Sub(want.At(10, 10)).Len(); d > 1e-3 {
		t.Fatalf("expected the central pixel to match the background; difference %g", d)
	}
}

func TestCPUTracerSamplingConvergence(t *testing.T) {
	// Renders of the same noisy scene with different seeds must agree
	// far more closely at high sample counts than at one sample per
	// pixel; the seed-to-seed spread shrinks with the sample count.
	const (
		frameW   = 9
		frameH   = 9
		numSeeds = 8
		lowSpp   = 1
		highSpp  = 256
	)

	sc := testScene(t)
	cam := testCamera(t, 1)

	renderWith := func(spp uint32, seed int64) *buffer.FrameBuffer {
		fb, err := buffer.NewFrameBuffer(frameW, frameH)
		if err != nil {
			t.Fatalf("failed to create buffer: %v", err)
		}
		tr := NewCPU("cpu-0")
		defer tr.Close()
		if err := tr.Setup(sc, cam, fb); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		renderBlock(t, tr, 0, frameH, spp, 8, seed)
		return fb
	}

	// Mean over the frame of the per-pixel red channel range across the
	// seeded renders.
	meanSpread := func(spp uint32) float32 {
		frames := make([]*buffer.FrameBuffer, numSeeds)
		for i := range frames {
			frames[i] = renderWith(spp, int64(1000+i))
		}

		var total float32
		for y := uint32(0); y < frameH; y++ {
			for x := uint32(0); x < frameW; x++ {
				lo := frames[0].At(x, y)[0]
				hi := lo
				for _, fb := range frames[1:] {
					v := fb.At(x, y)[0]
					if v < lo {
						lo = v
					}
					if v > hi {
						hi = v
					}
				}
				total += hi - lo
			}
		}
		return total / float32(frameW*frameH)
	}

	lowSpread := meanSpread(lowSpp)
	highSpread := meanSpread(highSpp)

	if lowSpread <= 0 {
		t.Fatalf("expected a non-zero seed-to-seed spread at %d spp", lowSpp)
	}
	if highSpread*4 >= lowSpread {
		t.Fatalf("expected the spread at %d spp to shrink well below the %g spread at %d spp; got %g", highSpp, lowSpread, lowSpp, highSpread)
	}
}

func TestCPUTracerRequiresSetup(t *testing.T) {
	tr := NewCPU("cpu-0")
	defer tr.Close()

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(BlockRequest{BlockY: 0, BlockH: 1, DoneChan: doneChan, ErrChan: errChan})

	select {
	case <-doneChan:
		t.Fatal("expected an error for block request before setup")
	case err := <-errChan:
		if err == nil {
			t.Fatal("expected non-nil error")
		}
	}
}

func TestCPUTracerSetupValidation(t *testing.T) {
	fb, err := buffer.NewFrameBuffer(2, 2)
	if err != nil {
		t.Fatalf("failed to create buffer: %v", err)
	}
	sc := testScene(t)
	cam := testCamera(t, 1)

	tr := NewCPU("cpu-0")
	defer tr.Close()

	if err := tr.Setup(nil, cam, fb); err == nil {
		t.Fatal("expected error for missing scene")
	}
	if err := tr.Setup(sc, nil, fb); err == nil {
		t.Fatal("expected error for missing camera")
	}
	if err := tr.Setup(sc, cam, nil); err == nil {
		t.Fatal("expected error for missing buffer")
	}
	if err := tr.Setup(sc, cam, fb); err != nil {
		t.Fatalf("expected valid setup to succeed; got %v", err)
	}
}
