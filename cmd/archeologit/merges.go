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

func mergesCmd() *cli.Command {
	return &cli.Command{
		Name:   "merges",
		Usage:  "Merge and squash-merge PR events on the integration branch",
		Action: runMerges,
	}
}

func runMerges(c *cli.Context) error {
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
	spinner.FinishSuccess()
	if err != nil {
		return err
	}

	merges := analyzer.DetectMerges(commits, branch, analyzer.BuildRefMap(repo))

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	var classic, squash int
	rows := make([][]string, 0, len(merges))
	for _, m := range merges {
		kind := string(m.Kind)
		if m.Kind == models.MergeClassic {
			classic++
			kind = color.CyanString(kind)
		} else {
			squash++
		}

		pr := "-"
		if m.PRNumber != nil {
			pr = fmt.Sprintf("#%d", *m.PRNumber)
		}

		rows = append(rows, []string{
			m.Hash[:8],
			m.MergedAt.Format("2006-01-02"),
			kind,
			pr,
			m.MergedBranch,
			truncate(models.Commit{Message: m.Message}.FirstLine(), 50),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Merges into %s", branch),
		[]string{"Commit", "Date", "Kind", "PR", "From", "Message"},
		rows,
		[]string{
			fmt.Sprintf("Total: %d", len(merges)),
			fmt.Sprintf("Classic: %d", classic),
			fmt.Sprintf("Squash: %d", squash),
		},
		merges,
	)
	return formatter.Output(table)
}
