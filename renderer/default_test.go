package renderer

import (
	"errors"
	"testing"

	"github.com/KasumiL5x/rs-raytracer/scene"
	"github.com/KasumiL5x/rs-raytracer/tracer"
	"github.com/KasumiL5x/rs-raytracer/types"
)

func testScene(t *testing.T) (*scene.Scene, *scene.Camera) {
	t.Helper()

	ground, err := scene.NewLambertian(types.XYZ(0.8, 0.8, 0.0))
	if err != nil {
		t.Fatalf("failed to create material: %v", err)
	}
	center, err := scene.NewLambertian(types.XYZ(0.1, 0.2, 0.5))
	if err != nil {
		t.Fatalf("failed to create material: %v", err)
	}
	metal, err := scene.NewMetal(types.XYZ(0.8, 0.6, 0.2), 0)
	if err != nil {
		t.Fatalf("failed to create material: %v", err)
	}
	glass, err := scene.NewDielectric(1.5)
	if err != nil {
		t.Fatalf("failed to create material: %v", err)
	}

	sc := scene.NewScene()
	for _, add := range []error{
		sc.AddSphere(types.XYZ(0, -100.5, -1), 100, ground),
		sc.AddSphere(types.XYZ(0, 0, -1), 0.5, center),
		sc.AddSphere(types.XYZ(1, 0, -1), 0.5, metal),
		sc.AddSphere(types.XYZ(-1, 0, -1), 0.5, glass),
	} {
		if add != nil {
			t.Fatalf("failed to add sphere: %v", add)
		}
	}

	cam, err := scene.NewCamera(
		types.XYZ(0, 0, 0), types.XYZ(0, 0, -1), types.XYZ(0, 1, 0),
		90, 2, 0, 1,
	)
	if err != nil {
		t.Fatalf("failed to create camera: %v", err)
	}
	return sc, cam
}

func TestNewDefaultValidation(t *testing.T) {
	sc, cam := testScene(t)
	opts := Options{FrameW: 8, FrameH: 4, SamplesPerPixel: 1, MaxDepth: 2}

	if _, err := NewDefault(nil, cam, nil, opts); !errors.Is(err, ErrSceneNotDefined) {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}
	if _, err := NewDefault(sc, nil, nil, opts); !errors.Is(err, ErrCameraNotDefined) {
		t.Fatalf("expected ErrCameraNotDefined; got %v", err)
	}
	if _, err := NewDefault(sc, cam, nil, Options{FrameW: 0, FrameH: 4}); err == nil {
		t.Fatal("expected error for zero frame width")
	}
	if _, err := NewDefault(sc, cam, nil, Options{FrameW: 8, FrameH: 4, NumWorkers: -1}); err == nil {
		t.Fatal("expected error for negative worker count")
	}
}

func TestRenderDeterministicAcrossWorkerCounts(t *testing.T) {
	sc, cam := testScene(t)

	render := func(workers int) renderResult {
		opts := Options{
			FrameW:          16,
			FrameH:          8,
			SamplesPerPixel: 4,
			MaxDepth:        8,
			NumWorkers:      workers,
			Seed:            99,
		}
		r, err := NewDefault(sc, cam, nil, opts)
		if err != nil {
			t.Fatalf("failed to create renderer: %v", err)
		}
		defer r.Close()

		fb, err := r.Render()
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}

		out := renderResult{w: fb.Width(), h: fb.Height()}
		for y := uint32(0); y < fb.Height(); y++ {
			for x := uint32(0); x < fb.Width(); x++ {
				out.pix = append(out.pix, fb.At(x, y))
			}
		}
		return out
	}

	single := render(1)
	multi := render(3)

	for i := range single.pix {
		if single.pix[i] != multi.pix[i] {
			t.Fatalf("pixel %d differs between 1 and 3 workers: %v vs %v", i, single.pix[i], multi.pix[i])
		}
	}
}

type renderResult struct {
	w, h uint32
	pix  []types.Vec3
}

func TestRenderDepthZeroBlackFrame(t *testing.T) {
	sc, cam := testScene(t)
	r, err := NewDefault(sc, cam, nil, Options{
		FrameW:          8,
		FrameH:          4,
		SamplesPerPixel: 2,
		MaxDepth:        0,
		NumWorkers:      2,
	})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	defer r.Close()

	fb, err := r.Render()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	for y := uint32(0); y < fb.Height(); y++ {
		for x := uint32(0); x < fb.Width(); x++ {
			if fb.At(x, y) != (types.Vec3{}) {
				t.Fatalf("expected black frame at depth 0; pixel (%d, %d) = %v", x, y, fb.At(x, y))
			}
		}
	}
}

func TestRenderStats(t *testing.T) {
	sc, cam := testScene(t)
	r, err := NewDefault(sc, cam, tracer.NaiveScheduler(), Options{
		FrameW:          8,
		FrameH:          8,
		SamplesPerPixel: 1,
		MaxDepth:        2,
		NumWorkers:      2,
	})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	defer r.Close()

	if _, err := r.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	stats := r.Stats()
	if len(stats.Tracers) != 2 {
		t.Fatalf("expected stats for 2 tracers; got %d", len(stats.Tracers))
	}
	var rows uint32
	for _, ts := range stats.Tracers {
		rows += ts.BlockH
	}
	if rows != 8 {
		t.Fatalf("expected tracer blocks to cover all 8 rows; got %d", rows)
	}
}

func TestRenderOverlapRejected(t *testing.T) {
	sc, cam := testScene(t)
	r, err := newDefault(sc, cam, nil, Options{
		FrameW:          4,
		FrameH:          4,
		SamplesPerPixel: 1,
		MaxDepth:        1,
		NumWorkers:      1,
	})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	defer r.Close()

	// Simulate an in-flight render.
	r.rendering = 1
	if _, err := r.Render(); !errors.Is(err, ErrRenderInProgress) {
		t.Fatalf("expected ErrRenderInProgress; got %v", err)
	}

	r.rendering = 0
	if _, err := r.Render(); err != nil {
		t.Fatalf("expected render to succeed after the in-flight frame completed; got %v", err)
	}
}

func TestWorkerCountClampedToRows(t *testing.T) {
	sc, cam := testScene(t)
	r, err := newDefault(sc, cam, nil, Options{
		FrameW:          8,
		FrameH:          2,
		SamplesPerPixel: 1,
		MaxDepth:        1,
		NumWorkers:      16,
	})
	if err != nil {
		t.Fatalf("failed to create renderer: %v", err)
	}
	defer r.Close()

	if len(r.tracers) != 2 {
		t.Fatalf("expected tracer pool clamped to 2 rows; got %d", len(r.tracers))
	}
	if _, err := r.Render(); err != nil {
		t.Fatalf("render failed: %v", err)
	}
}
