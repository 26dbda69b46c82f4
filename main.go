package main

import (
	"os"

	"github.com/urfave/cli"

	"github.com/KasumiL5x/rs-raytracer/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	renderFlags := []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 1280,
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 720,
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "spp",
			Value: 16,
			Usage: "samples per pixel",
		},
		cli.IntFlag{
			Name:  "depth",
			Value: 50,
			Usage: "maximum number of ray bounces",
		},
		cli.IntFlag{
			Name:  "workers",
			Value: 0,
			Usage: "number of tracer workers (0 selects one per cpu)",
		},
		cli.Int64Flag{
			Name:  "seed",
			Value: 1,
			Usage: "seed for the render's random streams",
		},
		cli.StringFlag{
			Name:  "scene",
			Value: "three-spheres",
			Usage: "name of the built-in scene to render",
		},
	}

	app := cli.NewApp()
	app.Name = "rs-raytracer"
	app.Usage = "render sphere scenes using ray tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "list-scenes",
			Usage:  "list built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "render",
			Usage: "render scene",
			Subcommands: []cli.Command{
				{
					Name:  "frame",
					Usage: "render single frame",
					Description: `
Render a single frame of a built-in scene and write it to a ppm or png
file selected by the output file extension.`,
					Flags: append(renderFlags, cli.StringFlag{
						Name:  "out, o",
						Value: "frame.png",
						Usage: "image filename for the rendered frame",
					}),
					Action: cmd.RenderFrame,
				},
				{
					Name:  "interactive",
					Usage: "render frames on demand in a window",
					Description: `
Open a window showing the renderer frame buffer. Space renders a frame
and updates the preview, s saves the latest frame as a ppm file and
escape quits.`,
					Flags: append(renderFlags, cli.StringFlag{
						Name:  "out, o",
						Value: "out.ppm",
						Usage: "ppm filename for saved snapshots",
					}),
					Action: cmd.RenderInteractive,
				},
			},
		},
	}

	app.Run(os.Args)
}
