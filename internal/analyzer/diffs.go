package analyzer

import (
	"context"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"gonum.org/v1/gonum/stat"

	"github.com/archeologit/archeologit/internal/commitproc"
	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/progress"
	"github.com/archeologit/archeologit/internal/vcs"
)

// DiffAnalyzer computes per-commit diff statistics against each commit's
// first parent (the empty tree for root commits). Per-commit diffs are
// independent, so they are computed in parallel and collected back into the
// walker's canonical order before ordering-sensitive consumers see them.
type DiffAnalyzer struct {
	workers int
	tracker *progress.Tracker
	onError func(hash string, err error)
}

// DiffOption is a functional option for configuring DiffAnalyzer.
type DiffOption func(*DiffAnalyzer)

// WithDiffWorkers sets the worker pool size. Zero or negative uses the
// default.
func WithDiffWorkers(n int) DiffOption {
	return func(a *DiffAnalyzer) {
		a.workers = n
	}
}

// WithDiffProgress sets a progress tracker ticked once per commit.
func WithDiffProgress(tracker *progress.Tracker) DiffOption {
	return func(a *DiffAnalyzer) {
		a.tracker = tracker
	}
}

// WithDiffErrorFunc sets a callback invoked for each commit whose diff
// could not be computed. Such commits are recovered as flagged zero records.
func WithDiffErrorFunc(fn func(hash string, err error)) DiffOption {
	return func(a *DiffAnalyzer) {
		a.onError = fn
	}
}

// NewDiffAnalyzer creates a diff analyzer.
func NewDiffAnalyzer(opts ...DiffOption) *DiffAnalyzer {
	a := &DiffAnalyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns one DiffStats per commit, in the same order as the input
// sequence. A commit whose diff fails contributes a Failed record with zero
// counts rather than aborting the run.
func (a *DiffAnalyzer) Analyze(ctx context.Context, repo vcs.Repository, commits []models.Commit) ([]models.DiffStats, error) {
	var onProgress commitproc.ProgressFunc
	if a.tracker != nil {
		onProgress = a.tracker.Tick
	}

	stats, err := commitproc.MapOrdered(ctx, commits, a.workers,
		func(c models.Commit) (models.DiffStats, error) {
			return diffCommit(repo, c)
		},
		onProgress,
		func(i int, err error) {
			if a.onError != nil {
				a.onError(commits[i].Hash, err)
			}
		},
	)
	if err != nil {
		return nil, err
	}

	// Failed slots come back zero-valued; rebuild them as flagged records so
	// every commit stays represented in walk order.
	for i := range stats {
		if stats[i].Hash == "" {
			stats[i] = models.DiffStats{
				Hash:        commits[i].Hash,
				CommittedAt: commits[i].CommittedAt,
				Failed:      true,
			}
		}
	}
	return stats, nil
}

// diffCommit derives insertions, deletions, and files-changed for one
// commit. Binary files count toward files-changed only; their line counts
// are undefined.
func diffCommit(repo vcs.Repository, c models.Commit) (models.DiffStats, error) {
	commit, err := repo.CommitObject(hashOf(c))
	if err != nil {
		return models.DiffStats{}, err
	}
	changes, err := vcs.DiffWithParent(commit)
	if err != nil {
		return models.DiffStats{}, err
	}

	ds := models.DiffStats{
		Hash:        c.Hash,
		CommittedAt: c.CommittedAt,
	}
	for _, change := range changes {
		fc := models.FileChange{Path: change.ToName()}
		switch {
		case change.FromName() == "":
			fc.Kind = models.FileAdded
		case change.ToName() == "":
			fc.Kind = models.FileRemoved
			fc.Path = change.FromName()
		default:
			fc.Kind = models.FileModified
		}

		patch, err := change.Patch()
		if err != nil {
			return models.DiffStats{}, err
		}
		for _, fp := range patch.FilePatches() {
			if fp.IsBinary() {
				fc.Binary = true
				continue
			}
			for _, chunk := range fp.Chunks() {
				switch chunk.Type() {
				case vcs.ChunkAdd:
					fc.Insertions += countLines(chunk.Content())
				case vcs.ChunkDelete:
					fc.Deletions += countLines(chunk.Content())
				}
			}
		}

		ds.Insertions += fc.Insertions
		ds.Deletions += fc.Deletions
		ds.FilesChanged++
		ds.Files = append(ds.Files, fc)
	}
	return ds, nil
}

// Aggregate sums per-commit diff stats in one pass. Addition is commutative,
// so the result does not depend on input order.
func Aggregate(stats []models.DiffStats) models.DiffAggregate {
	agg := models.DiffAggregate{CommitCount: len(stats)}
	insertions := make([]float64, 0, len(stats))
	for _, s := range stats {
		agg.TotalInsertions += s.Insertions
		agg.TotalDeletions += s.Deletions
		agg.TotalFilesChanged += s.FilesChanged
		insertions = append(insertions, float64(s.Insertions))
	}
	if len(insertions) > 0 {
		agg.MeanInsertions = stat.Mean(insertions, nil)
	}
	if len(insertions) > 1 {
		agg.StdDevInsertions = stat.StdDev(insertions, nil)
	}
	return agg
}

// MarkDiffFailures returns a copy of the commit sequence with DiffFailed set
// on commits whose diff was recovered as a zero record. The input is not
// mutated.
func MarkDiffFailures(commits []models.Commit, stats []models.DiffStats) []models.Commit {
	failed := make(map[string]bool, len(stats))
	for _, s := range stats {
		if s.Failed {
			failed[s.Hash] = true
		}
	}

	marked := make([]models.Commit, len(commits))
	copy(marked, commits)
	for i := range marked {
		if failed[marked[i].Hash] {
			marked[i].DiffFailed = true
		}
	}
	return marked
}

func hashOf(c models.Commit) plumbing.Hash {
	return plumbing.NewHash(c.Hash)
}

// countLines counts the number of newlines in content. A trailing partial
// line still counts.
func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
