package cmd

import (
	"github.com/urfave/cli"

	"github.com/KasumiL5x/rs-raytracer/log"
)

var logger = log.New("rs-raytracer")

func setupLogging(ctx *cli.Context) {
	verbosity := 0
	if ctx.GlobalBool("v") {
		verbosity = 1
	}
	if ctx.GlobalBool("vv") {
		verbosity = 2
	}
	log.SetLevel(log.LevelFromVerbosity(verbosity))
}
