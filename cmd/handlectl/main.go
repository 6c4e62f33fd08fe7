package main

import (
	"fmt"
	"io"
	"os"

	"github.com/danmuck/handlectl/internal/config"
	"github.com/danmuck/handlectl/internal/logging"
	"github.com/urfave/cli/v2"
)

var Version = "0.3.0"

func main() {
	if err := newCLI(os.Stdin, os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "handlectl: %v\n", err)
		os.Exit(1)
	}
}

func newCLI(stdin *os.File, stdout io.Writer) *cli.App {
	return &cli.App{
		Name:                   "handlectl",
		Usage:                  "Inspect firmware handles and their installed protocols",
		Version:                Version,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   config.DefaultPath,
			},
			&cli.StringFlag{
				Name:    "dump",
				Aliases: []string{"d"},
				Usage:   "Handle dump path (overrides config)",
			},
			&cli.StringFlag{
				Name:    "log",
				Aliases: []string{"l"},
				Usage:   "Session log path (overrides config)",
			},
		},
		Before: func(c *cli.Context) error {
			logging.ConfigureRuntime()
			return nil
		},
		Action: func(c *cli.Context) error {
			return runInteractive(c, stdin)
		},
		Commands: []*cli.Command{
			{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Run the menu-driven console (default)",
				Action: func(c *cli.Context) error {
					return runInteractive(c, stdin)
				},
			},
			{
				Name:   "dump",
				Usage:  "Report every handle with its protocols",
				Action: runDump,
			},
			{
				Name:  "search",
				Usage: "Run one search by protocol GUID, protocol name or handle index",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "guid",
						Aliases: []string{"g"},
						Usage:   "Protocol GUID (8-4-4-4-12)",
					},
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Protocol name, case-insensitive",
					},
					&cli.StringFlag{
						Name:    "index",
						Aliases: []string{"i"},
						Usage:   "Handle index, decimal or hex (10, 0xA)",
					},
					&cli.BoolFlag{
						Name:  "detail",
						Usage: "Report full handle blocks for name matches (GUID matches always do)",
					},
				},
				Action: runSearch,
			},
			{
				Name:  "config",
				Usage: "Write or validate configuration files",
				Subcommands: []*cli.Command{
					{
						Name:  "init",
						Usage: "Write a config or sample handle dump template",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "output",
								Aliases: []string{"o"},
								Usage:   "Output path (defaults to --config, or --dump for the dump kind)",
							},
							&cli.StringFlag{
								Name:  "kind",
								Usage: "Template kind: config|dump",
								Value: "config",
							},
							&cli.BoolFlag{
								Name:    "force",
								Aliases: []string{"f"},
								Usage:   "Overwrite an existing file",
							},
						},
						Action: runConfigInit,
					},
					{
						Name:   "validate",
						Usage:  "Validate the config file and the handle dump it names",
						Action: runConfigValidate,
					},
				},
			},
		},
	}
}
