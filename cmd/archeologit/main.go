package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func main() {
	app := &cli.App{
		Name:    "archeologit",
		Usage:   "Reconstruct time-ordered analytics from a git repository's history",
		Version: version,
		Description: `Archeologit walks a branch's commit graph and derives contribution
patterns: merge/PR events, per-author stats, diff totals, folder structure
evolution, and cumulative lines of code over time.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"ARCHEOLOGIT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Value:   ".",
				Usage:   "Path to the git repository",
			},
			&cli.StringFlag{
				Name:    "branch",
				Aliases: []string{"b"},
				Usage:   "Branch to analyze (default: the repository's default branch)",
			},
			&cli.IntFlag{
				Name:    "max",
				Aliases: []string{"m"},
				Usage:   "Cap included commits per analyzer (0 = unlimited)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude-author",
				Usage: "Exclude commits by this author name (repeatable)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Report recovered per-commit anomalies on stderr",
			},
		},
		Commands: []*cli.Command{
			logCmd(),
			mergesCmd(),
			authorsCmd(),
			foldersCmd(),
			diffStatsCmd(),
			locCmd(),
			reportCmd(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
