// Package main is the entry point for the cutout-api demo service.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/slipway-dev/slipway/cmd/cutout-api/app"
	"github.com/slipway-dev/slipway/internal/buildmeta"
)

func main() {
	root := &cobra.Command{
		Use:           "cutout-api",
		Short:         "Background-removal demo API",
		Version:       buildmeta.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(app.NewServeCmd())

	err := root.Execute()
	if err != nil {
		root.PrintErrln("Error:", err.Error())
		os.Exit(1)
	}
}
