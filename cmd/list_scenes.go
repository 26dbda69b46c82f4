package cmd

import (
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	setupLogging(ctx)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Description"})
	for _, entry := range sceneCatalog {
		table.Append([]string{entry.Name, entry.Description})
	}
	table.Render()

	return nil
}
