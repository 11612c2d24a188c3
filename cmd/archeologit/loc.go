package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/archeologit/archeologit/internal/analyzer"
	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/output"
	"github.com/archeologit/archeologit/internal/progress"
)

func locCmd() *cli.Command {
	return &cli.Command{
		Name:  "loc",
		Usage: "Cumulative net line count over time",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "sample",
				Value: 1,
				Usage: "Show every Nth point in text output (JSON keeps all)",
			},
		},
		Action: runLOC,
	}
}

func runLOC(c *cli.Context) error {
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

	points := analyzer.LOCOverTime(commits, diffs)
	trend := analyzer.Trend(points)

	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return err
	}
	defer formatter.Close()

	sample := c.Int("sample")
	if sample < 1 {
		sample = 1
	}

	var rows [][]string
	for i, p := range points {
		if i%sample != 0 && i != len(points)-1 {
			continue
		}
		rows = append(rows, []string{
			p.Hash[:8],
			p.CommittedAt.Format("2006-01-02"),
			fmt.Sprintf("%d", p.CumulativeLOC),
		})
	}

	footer := []string{fmt.Sprintf("Points: %d", len(points))}
	if len(points) > 0 {
		footer = append(footer,
			fmt.Sprintf("%d → %d", points[0].CumulativeLOC, points[len(points)-1].CumulativeLOC),
			fmt.Sprintf("Slope: %.1f/commit", trend.Slope),
		)
	}

	table := output.NewTable(
		fmt.Sprintf("LOC Over Time (%s)", branch),
		[]string{"Commit", "Date", "Cumulative LOC"},
		rows,
		footer,
		struct {
			Points []models.LOCPoint `json:"points"`
			Trend  models.LOCTrend   `json:"trend"`
		}{points, trend},
	)
	return formatter.Output(table)
}
