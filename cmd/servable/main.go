package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

const (
	configKey = "config"
	outKey    = "out"
)

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "servable",
		Usage: "Inspect preference stores and run the data binding demo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    configKey,
				Aliases: []string{"c"},
				Usage:   "YAML configuration file, overridden by SERVABLE_* variables",
			},
		},
		Commands: []*cli.Command{
			prefsCommand(),
			demoCommand(),
		},
	}
}
