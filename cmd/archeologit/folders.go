package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/archeologit/archeologit/internal/analyzer"
	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/output"
	"github.com/archeologit/archeologit/internal/progress"
)

func foldersCmd() *cli.Command {
	return &cli.Command{
		Name:  "folders",
		Usage: "Directory-level structure changes over time",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "depth",
				Aliases: []string{"d"},
				Value:   analyzer.DefaultFolderDepth,
				Usage:   "Directory nesting levels to track",
			},
		},
		Action: runFolders,
	}
}

func runFolders(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	repo, err := openRepo(cfg)
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Walking history...")
	commits, branch, err := newWalker(cfg, false, spinner).Walk(c.Context, repo)
	if err != nil {
		spinner.FinishError(err)
		return err
	}
	diffs, err := newDiffAnalyzer(cfg, spinner).Analyze(c.Context, repo, commits)
	spinner.FinishSuccess()
	if err != nil {
		return err
	}

	changes := analyzer.FolderChanges(commits, diffs, cfg.FolderDepth)

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var added, removed, modified int
	rows := make([][]string, 0, len(changes))
	for _, fc := range changes {
		kind := string(fc.Kind)
		switch fc.Kind {
		case models.FolderAdded:
			added++
			kind = color.GreenString(kind)
		case models.FolderRemoved:
			removed++
			kind = color.RedString(kind)
		case models.FolderModified:
			modified++
		}

		rows = append(rows, []string{
			fc.Hash[:8],
			fc.CommittedAt.Format("2006-01-02"),
			kind,
			fc.Directory,
			fmt.Sprintf("%d", fc.Depth),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Folder Changes (%s, depth %d)", branch, cfg.FolderDepth),
		[]string{"Commit", "Date", "Kind", "Directory", "Depth"},
		rows,
		[]string{
			fmt.Sprintf("Events: %d", len(changes)),
			fmt.Sprintf("Added: %d", added),
			fmt.Sprintf("Removed: %d", removed),
			fmt.Sprintf("Modified: %d", modified),
		},
		changes,
	)
	return formatter.Output(table)
}
