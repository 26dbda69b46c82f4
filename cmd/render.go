package cmd

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/KasumiL5x/rs-raytracer/buffer"
	"github.com/KasumiL5x/rs-raytracer/renderer"
	"github.com/KasumiL5x/rs-raytracer/tracer"
	"github.com/KasumiL5x/rs-raytracer/writer"
)

// Build renderer options from the cli flags. The unsigned conversions
// would wrap a negative flag value into a huge one, so bogus ints are
// rejected here before the renderer sees them.
func parseOptions(ctx *cli.Context) (renderer.Options, error) {
	for _, name := range []string{"width", "height"} {
		if ctx.Int(name) <= 0 {
			return renderer.Options{}, fmt.Errorf("cmd: flag %q must be > 0; got %d", name, ctx.Int(name))
		}
	}
	for _, name := range []string{"spp", "depth", "workers"} {
		if ctx.Int(name) < 0 {
			return renderer.Options{}, fmt.Errorf("cmd: flag %q must be >= 0; got %d", name, ctx.Int(name))
		}
	}

	return renderer.Options{
		FrameW:          uint32(ctx.Int("width")),
		FrameH:          uint32(ctx.Int("height")),
		SamplesPerPixel: uint32(ctx.Int("spp")),
		MaxDepth:        uint32(ctx.Int("depth")),
		NumWorkers:      ctx.Int("workers"),
		Seed:            ctx.Int64("seed"),
	}, nil
}

// Render a still frame and write it to disk.
func RenderFrame(ctx *cli.Context) error {
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

	r, err := renderer.NewDefault(sc, cam, tracer.NaiveScheduler(), opts)
	if err != nil {
		return err
	}
	defer r.Close()

	logger.Noticef("rendering %dx%d frame at %d spp", opts.FrameW, opts.FrameH, opts.SamplesPerPixel)
	fb, err := r.Render()
	if err != nil {
		return err
	}
	displayFrameStats(r.Stats())

	out := ctx.String("out")
	if err = writeFrame(out, fb); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s", out)

	return nil
}

// Pick the export format from the output file extension.
func writeFrame(path string, fb *buffer.FrameBuffer) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return writer.WritePPMFile(path, fb)
	case ".png":
		return writer.WritePNGFile(path, fb)
	default:
		return fmt.Errorf("cmd: unsupported output format for %q; use .ppm or .png", path)
	}
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Tracer", "Block start", "Block height", "% of frame", "Render time"})
	for _, stat := range stats.Tracers {
		table.Append([]string{
			stat.Id,
			fmt.Sprintf("%d", stat.BlockY),
			fmt.Sprintf("%d", stat.BlockH),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", fmt.Sprintf("%s", stats.RenderTime)})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
