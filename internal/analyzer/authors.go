package analyzer

import (
	"context"
	"sort"

	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/vcs"
)

// AggregateAuthors accumulates per-author commit counts and line deltas over
// a walked sequence in one pass. The author name is the grouping key; email
// is informational only. Output is ordered by descending commit count, ties
// broken by name, so reports are deterministic.
func AggregateAuthors(commits []models.Commit, diffs []models.DiffStats) []models.AuthorStats {
	byHash := make(map[string]models.DiffStats, len(diffs))
	for _, d := range diffs {
		byHash[d.Hash] = d
	}

	totals := make(map[string]*models.AuthorStats)
	for _, c := range commits {
		entry, ok := totals[c.AuthorName]
		if !ok {
			entry = &models.AuthorStats{
				AuthorName:  c.AuthorName,
				AuthorEmail: c.AuthorEmail,
			}
			totals[c.AuthorName] = entry
		}
		entry.CommitCount++

		d := byHash[c.Hash]
		entry.LinesAdded += d.Insertions
		entry.LinesRemoved += d.Deletions
	}

	stats := make([]models.AuthorStats, 0, len(totals))
	for _, entry := range totals {
		entry.NetLines = entry.LinesAdded - entry.LinesRemoved
		stats = append(stats, *entry)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].CommitCount != stats[j].CommitCount {
			return stats[i].CommitCount > stats[j].CommitCount
		}
		return stats[i].AuthorName < stats[j].AuthorName
	})
	return stats
}

// AllBranchAuthors walks every local branch and returns author stats per
// branch. Walker options other than the branch (count cap, exclusions)
// apply to each branch's walk.
func AllBranchAuthors(ctx context.Context, repo vcs.Repository, opts ...WalkerOption) ([]models.BranchAuthors, error) {
	branches, err := repo.Branches()
	if err != nil {
		return nil, err
	}

	diffAnalyzer := NewDiffAnalyzer()
	results := make([]models.BranchAuthors, 0, len(branches))
	for _, ref := range branches {
		walker := NewWalker(append(opts, WithBranch(ref.Name()))...)
		commits, name, err := walker.Walk(ctx, repo)
		if err != nil {
			return nil, err
		}
		diffs, err := diffAnalyzer.Analyze(ctx, repo, commits)
		if err != nil {
			return nil, err
		}
		results = append(results, models.BranchAuthors{
			BranchName: name,
			Authors:    AggregateAuthors(commits, diffs),
		})
	}
	return results, nil
}
