// Package report assembles every analyzer's output into one combined,
// JSON-serializable artifact.
package report

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/archeologit/archeologit/internal/analyzer"
	"github.com/archeologit/archeologit/internal/config"
	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/progress"
	"github.com/archeologit/archeologit/internal/vcs"
)

// Metadata describes the run that produced a report.
type Metadata struct {
	Repository      string    `json:"repository"`
	Branch          string    `json:"branch"`
	GeneratedAt     time.Time `json:"generated_at"`
	Version         string    `json:"version"`
	MaxCount        int       `json:"max_count,omitempty"`
	ExcludedAuthors []string  `json:"excluded_authors,omitempty"`
}

// DiffSection pairs the aggregate totals with the per-commit breakdown.
type DiffSection struct {
	Aggregate models.DiffAggregate `json:"aggregate"`
	PerCommit []models.DiffStats   `json:"per_commit"`
}

// Report is the combined output of all analyzers over one walked sequence.
type Report struct {
	Metadata      Metadata              `json:"metadata"`
	CommitLog     []models.Commit       `json:"commit_log"`
	Merges        []models.MergeEvent   `json:"merges"`
	Authors       []models.AuthorStats  `json:"authors"`
	FolderChanges []models.FolderChange `json:"folder_changes"`
	DiffStats     DiffSection           `json:"diff_stats"`
	LOCOverTime   []models.LOCPoint     `json:"loc_over_time"`
	LOCTrend      models.LOCTrend       `json:"loc_trend"`
}

// Build walks the configured branch once and runs every analyzer against the
// same commit sequence. Repository and branch resolution failures abort the
// whole run before any analyzer output is produced.
func Build(ctx context.Context, repo vcs.Repository, cfg *config.Config, version string, tracker *progress.Tracker) (*Report, error) {
	walker := analyzer.NewWalker(
		analyzer.WithBranch(cfg.Branch),
		analyzer.WithMaxCount(cfg.MaxCount),
		analyzer.WithExcludeAuthors(cfg.ExcludeAuthors),
		analyzer.WithChangedPaths(true),
		analyzer.WithWalkProgress(tracker),
	)
	commits, branch, err := walker.Walk(ctx, repo)
	if err != nil {
		return nil, err
	}

	diffAnalyzer := analyzer.NewDiffAnalyzer(analyzer.WithDiffProgress(tracker))
	diffs, err := diffAnalyzer.Analyze(ctx, repo, commits)
	if err != nil {
		return nil, err
	}
	commits = analyzer.MarkDiffFailures(commits, diffs)

	locPoints := analyzer.LOCOverTime(commits, diffs)

	return &Report{
		Metadata: Metadata{
			Repository:      repo.RepoPath(),
			Branch:          branch,
			GeneratedAt:     time.Now().UTC(),
			Version:         version,
			MaxCount:        cfg.MaxCount,
			ExcludedAuthors: cfg.ExcludeAuthors,
		},
		CommitLog:     commits,
		Merges:        analyzer.DetectMerges(commits, branch, analyzer.BuildRefMap(repo)),
		Authors:       analyzer.AggregateAuthors(commits, diffs),
		FolderChanges: analyzer.FolderChanges(commits, diffs, cfg.FolderDepth),
		DiffStats: DiffSection{
			Aggregate: analyzer.Aggregate(diffs),
			PerCommit: diffs,
		},
		LOCOverTime: locPoints,
		LOCTrend:    analyzer.Trend(locPoints),
	}, nil
}

// Write stores the report as indented JSON at the given path.
func (r *Report) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
