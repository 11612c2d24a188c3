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

func diffStatsCmd() *cli.Command {
	return &cli.Command{
		Name:   "diffstats",
		Usage:  "Per-commit insertions, deletions, and files changed",
		Action: runDiffStats,
	}
}

func runDiffStats(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	repo, err := openRepo(cfg)
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Computing diffs...")
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

	agg := analyzer.Aggregate(diffs)

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := make([][]string, 0, len(diffs))
	for _, d := range diffs {
		ins := fmt.Sprintf("+%d", d.Insertions)
		del := fmt.Sprintf("-%d", d.Deletions)
		if d.Failed {
			ins = color.YellowString("n/a")
			del = color.YellowString("n/a")
		}
		rows = append(rows, []string{
			d.Hash[:8],
			d.CommittedAt.Format("2006-01-02"),
			ins,
			del,
			fmt.Sprintf("%d", d.FilesChanged),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Diff Stats (%s)", branch),
		[]string{"Commit", "Date", "Insertions", "Deletions", "Files"},
		rows,
		[]string{
			fmt.Sprintf("Commits: %d", agg.CommitCount),
			fmt.Sprintf("+%d", agg.TotalInsertions),
			fmt.Sprintf("-%d", agg.TotalDeletions),
			fmt.Sprintf("Files: %d", agg.TotalFilesChanged),
			fmt.Sprintf("Mean: %.1f", agg.MeanInsertions),
		},
		struct {
			Aggregate models.DiffAggregate `json:"aggregate"`
			PerCommit []models.DiffStats   `json:"per_commit"`
		}{agg, diffs},
	)
	return formatter.Output(table)
}
