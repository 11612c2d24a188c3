package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/archeologit/archeologit/internal/progress"
	"github.com/archeologit/archeologit/internal/report"
)

const defaultReportFile = "report.json"

func reportCmd() *cli.Command {
	return &cli.Command{
		Name:   "report",
		Usage:  "Run every analyzer and write a combined JSON report",
		Action: runReport,
	}
}

func runReport(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	repo, err := openRepo(cfg)
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Analyzing history...")
	rep, err := report.Build(c.Context, repo, cfg, version, spinner)
	spinner.FinishSuccess()
	if err != nil {
		return err
	}

	path := c.String("output")
	if path == "" {
		path = defaultReportFile
	}
	if err := rep.Write(path); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}

	fmt.Printf("Branch %s: %d commits, %d merge events, %d contributors\n",
		rep.Metadata.Branch, len(rep.CommitLog), len(rep.Merges), len(rep.Authors))
	if n := len(rep.LOCOverTime); n > 0 {
		fmt.Printf("LOC %d → %d across %d folder change events\n",
			rep.LOCOverTime[0].CumulativeLOC, rep.LOCOverTime[n-1].CumulativeLOC, len(rep.FolderChanges))
	}
	color.Green("Full report written to %s", path)
	return nil
}
