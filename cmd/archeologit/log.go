package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/archeologit/archeologit/internal/output"
	"github.com/archeologit/archeologit/internal/progress"
)

func logCmd() *cli.Command {
	return &cli.Command{
		Name:   "log",
		Usage:  "Commit log for a branch, newest first",
		Action: runLog,
	}
}

func runLog(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	repo, err := openRepo(cfg)
	if err != nil {
		return err
	}

	spinner := progress.NewSpinner("Walking history...")
	commits, branch, err := newWalker(cfg, true, spinner).Walk(c.Context, repo)
	spinner.FinishSuccess()
	if err != nil {
		return err
	}

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	rows := make([][]string, 0, len(commits))
	for _, commit := range commits {
		rows = append(rows, []string{
			commit.ShortHash,
			commit.CommittedAt.Format("2006-01-02"),
			commit.AuthorName,
			fmt.Sprintf("%d", len(commit.ChangedPaths)),
			firstLine(commit, 60),
		})
	}

	table := output.NewTable(
		fmt.Sprintf("Commit Log (%s)", branch),
		[]string{"Commit", "Date", "Author", "Files", "Message"},
		rows,
		[]string{fmt.Sprintf("Commits: %d", len(commits))},
		commits,
	)
	return formatter.Output(table)
}
