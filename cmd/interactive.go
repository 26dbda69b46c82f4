package cmd

import (
	"runtime"

	"github.com/urfave/cli"

	"github.com/KasumiL5x/rs-raytracer/renderer"
	"github.com/KasumiL5x/rs-raytracer/tracer"
)

func init() {
	// glfw event handling must run on the main OS thread.
	runtime.LockOSThread()
}

// Open a window and render frames on demand.
func RenderInteractive(ctx *cli.Context) error {
	setupLogging(ctx)

	opts, err := parseOptions(ctx)
	if err != nil {
		return err
	}

	aspect := float32(opts.FrameW) / float32(opts.FrameH)
	sc, cam, err := buildScene(ctx.String("scene"), aspect)
	if err != nil {
		return err
	}

	// The adaptive scheduler rebalances row blocks between frames
	// using the timings of the previous one.
	r, err := renderer.NewInteractive(sc, cam, tracer.PerfectScheduler(), opts, ctx.String("out"))
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Notice("space renders a frame, s saves a snapshot, escape quits")
	_, err = r.Render()
	return err
}
