package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/archeologit/archeologit/internal/analyzer"
	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/output"
	"github.com/archeologit/archeologit/internal/progress"
)

func authorsCmd() *cli.Command {
	return &cli.Command{
		Name:  "authors",
		Usage: "Per-author commit counts and line deltas",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all-branches",
				Usage: "Aggregate authors for every local branch",
			},
		},
		Action: runAuthors,
	}
}

func runAuthors(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	repo, err := openRepo(cfg)
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if c.Bool("all-branches") {
		spinner := progress.NewSpinner("Walking branches...")
		branches, err := analyzer.AllBranchAuthors(c.Context, repo,
			analyzer.WithMaxCount(cfg.MaxCount),
			analyzer.WithExcludeAuthors(cfg.ExcludeAuthors),
		)
		spinner.FinishSuccess()
		if err != nil {
			return err
		}

		var rows [][]string
		for _, ba := range branches {
			for _, a := range ba.Authors {
				rows = append(rows, authorRow(a, ba.BranchName))
			}
		}
		table := output.NewTable(
			"Authors by Branch",
			[]string{"Branch", "Author", "Commits", "Added", "Removed", "Net"},
			rows,
			[]string{fmt.Sprintf("Branches: %d", len(branches))},
			branches,
		)
		return formatter.Output(table)
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

	authors := analyzer.AggregateAuthors(commits, diffs)

	rows := make([][]string, 0, len(authors))
	for _, a := range authors {
		rows = append(rows, authorRow(a, "")[1:])
	}

	table := output.NewTable(
		fmt.Sprintf("Authors (%s)", branch),
		[]string{"Author", "Commits", "Added", "Removed", "Net"},
		rows,
		[]string{
			fmt.Sprintf("Contributors: %d", len(authors)),
			fmt.Sprintf("Commits: %d", len(commits)),
		},
		authors,
	)
	return formatter.Output(table)
}

func authorRow(a models.AuthorStats, branch string) []string {
	return []string{
		branch,
		a.AuthorName,
		fmt.Sprintf("%d", a.CommitCount),
		fmt.Sprintf("+%d", a.LinesAdded),
		fmt.Sprintf("-%d", a.LinesRemoved),
		fmt.Sprintf("%d", a.NetLines),
	}
}
