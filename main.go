package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"github.com/vyPal/Cafezinho/lib/pipeline"
)

// Version is the toolchain version checked against a project's requires.
const Version = "1.0.0"

var commands []*cli.Command

func init() {
	// -v is --verbose
	cli.VersionFlag = &cli.BoolFlag{Name: "version", Usage: "print the version"}
}

func newApp() *cli.App {
	return &cli.App{
		Name:                   "cafezinho",
		Usage:                  "Interpreter for the Cafezinho teaching language",
		Version:                Version,
		ArgsUsage:              "[file]",
		EnableBashCompletion:   true,
		UseShortOptionHandling: true,
		Commands:               commands,
		Flags:                  runFlags(),
		Action:                 runAction(pipeline.All),
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
