package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archeologit/archeologit/internal/config"
	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/vcs"
)

type fixtureRepo struct {
	t    *testing.T
	repo *git.Repository
	path string
	now  time.Time
}

func initFixture(t *testing.T) *fixtureRepo {
	t.Helper()

	path := filepath.Join(t.TempDir(), "repo")
	repo, err := git.PlainInit(path, false)
	require.NoError(t, err)
	return &fixtureRepo{
		t:    t,
		repo: repo,
		path: path,
		now:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (f *fixtureRepo) commit(message, author string, write map[string]string, remove []string, extraParents ...plumbing.Hash) plumbing.Hash {
	f.t.Helper()

	w, err := f.repo.Worktree()
	require.NoError(f.t, err)

	for name, content := range write {
		full := filepath.Join(f.path, name)
		require.NoError(f.t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(f.t, os.WriteFile(full, []byte(content), 0o644))
		_, err = w.Add(name)
		require.NoError(f.t, err)
	}
	for _, name := range remove {
		require.NoError(f.t, os.Remove(filepath.Join(f.path, name)))
		_, err = w.Remove(name)
		require.NoError(f.t, err)
	}

	opts := &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: author + "@example.com",
			When:  f.now,
		},
	}
	if len(extraParents) > 0 {
		head, err := f.repo.Head()
		require.NoError(f.t, err)
		opts.Parents = append([]plumbing.Hash{head.Hash()}, extraParents...)
	}
	f.now = f.now.Add(time.Minute)

	hash, err := w.Commit(message, opts)
	require.NoError(f.t, err)
	return hash
}

func (f *fixtureRepo) open() vcs.Repository {
	f.t.Helper()

	repo, err := vcs.DefaultOpener().PlainOpen(f.path)
	require.NoError(f.t, err)
	return repo
}

// seedHistory builds a small history exercising every analyzer: a plain add,
// an empty topic tip, a classic merge with churn, and a squash-style removal.
func seedHistory(t *testing.T) *fixtureRepo {
	t.Helper()

	tenLines := "one\ntwo\nthree\nfour\nfive\nsix\nseven\neight\nnine\nten\n"
	editedTen := "one\ntwo\nthree\nfour\nFIVE\nSIX\nseven\neight\nnine\nten\n"

	f := initFixture(t)
	seed := f.commit("Add analytics module", "alice", map[string]string{"src/a.py": tenLines}, nil)
	f.commit("Note for topic branch", "bob", map[string]string{"side.txt": ""}, nil)
	f.commit("Merge pull request #42 from team/topic", "alice", map[string]string{
		"src/b.py": "b1\nb2\nb3\n",
		"src/a.py": editedTen,
	}, nil, seed)
	f.commit("Remove legacy module (#17)", "bob", nil, []string{"src/a.py"})
	return f
}

func TestBuild(t *testing.T) {
	f := seedHistory(t)
	cfg := config.DefaultConfig()
	cfg.Repo = f.path

	rep, err := Build(context.Background(), f.open(), cfg, "test", nil)
	require.NoError(t, err)

	assert.Equal(t, "master", rep.Metadata.Branch)
	assert.Equal(t, "test", rep.Metadata.Version)
	require.Len(t, rep.CommitLog, 4)

	// Newest first, with changed paths collected.
	assert.Equal(t, "Remove legacy module (#17)", rep.CommitLog[0].Message)
	assert.Equal(t, []string{"src/a.py"}, rep.CommitLog[0].ChangedPaths)
	for _, c := range rep.CommitLog {
		assert.False(t, c.DiffFailed, "commit %s flagged failed", c.ShortHash)
	}

	// Diff totals equal the per-commit sums.
	agg := rep.DiffStats.Aggregate
	assert.Equal(t, 4, agg.CommitCount)
	assert.Equal(t, 15, agg.TotalInsertions)
	assert.Equal(t, 12, agg.TotalDeletions)
	assert.Equal(t, 5, agg.TotalFilesChanged)
	sumIns, sumDel := 0, 0
	for _, d := range rep.DiffStats.PerCommit {
		sumIns += d.Insertions
		sumDel += d.Deletions
	}
	assert.Equal(t, agg.TotalInsertions, sumIns)
	assert.Equal(t, agg.TotalDeletions, sumDel)

	// One classic and one squash merge, newest first.
	require.Len(t, rep.Merges, 2)
	assert.Equal(t, models.MergeSquash, rep.Merges[0].Kind)
	require.NotNil(t, rep.Merges[0].PRNumber)
	assert.Equal(t, 17, *rep.Merges[0].PRNumber)
	assert.Equal(t, models.MergeClassic, rep.Merges[1].Kind)
	require.NotNil(t, rep.Merges[1].PRNumber)
	assert.Equal(t, 42, *rep.Merges[1].PRNumber)

	// Both authors made two commits; alice wins the tie alphabetically.
	require.Len(t, rep.Authors, 2)
	assert.Equal(t, "alice", rep.Authors[0].AuthorName)
	assert.Equal(t, 2, rep.Authors[0].CommitCount)
	assert.Equal(t, 13, rep.Authors[0].NetLines)
	assert.Equal(t, "bob", rep.Authors[1].AuthorName)
	assert.Equal(t, -10, rep.Authors[1].NetLines)

	// src is added once, then modified by the merge and again by the
	// removal (src/b.py keeps it alive).
	require.Len(t, rep.FolderChanges, 3)
	for _, e := range rep.FolderChanges {
		assert.Equal(t, "src", e.Directory)
	}
	assert.Equal(t, models.FolderAdded, rep.FolderChanges[0].Kind)
	assert.Equal(t, models.FolderModified, rep.FolderChanges[1].Kind)
	assert.Equal(t, models.FolderModified, rep.FolderChanges[2].Kind)

	// Cumulative LOC runs oldest to newest.
	require.Len(t, rep.LOCOverTime, 4)
	got := make([]int, len(rep.LOCOverTime))
	for i, p := range rep.LOCOverTime {
		got[i] = p.CumulativeLOC
	}
	assert.Equal(t, []int{10, 10, 13, 3}, got)
}

func TestBuild_ExclusionAndCap(t *testing.T) {
	f := seedHistory(t)
	cfg := config.DefaultConfig()
	cfg.Repo = f.path
	cfg.ExcludeAuthors = []string{"Bob"}
	cfg.MaxCount = 1

	rep, err := Build(context.Background(), f.open(), cfg, "test", nil)
	require.NoError(t, err)

	require.Len(t, rep.CommitLog, 1)
	assert.Equal(t, "alice", rep.CommitLog[0].AuthorName)
	assert.Equal(t, 1, rep.Metadata.MaxCount)
	assert.Equal(t, []string{"Bob"}, rep.Metadata.ExcludedAuthors)
}

func TestBuild_EmptyRepository(t *testing.T) {
	f := initFixture(t)
	cfg := config.DefaultConfig()
	cfg.Repo = f.path

	rep, err := Build(context.Background(), f.open(), cfg, "test", nil)
	require.NoError(t, err)

	assert.Empty(t, rep.CommitLog)
	assert.Empty(t, rep.Merges)
	assert.Empty(t, rep.Authors)
	assert.Empty(t, rep.LOCOverTime)
	assert.Equal(t, "", rep.Metadata.Branch)
}

func TestReport_Write(t *testing.T) {
	f := seedHistory(t)
	cfg := config.DefaultConfig()
	cfg.Repo = f.path

	rep, err := Build(context.Background(), f.open(), cfg, "test", nil)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, rep.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var decoded Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, rep.Metadata.Branch, decoded.Metadata.Branch)
	assert.Len(t, decoded.CommitLog, len(rep.CommitLog))
	assert.Equal(t, rep.DiffStats.Aggregate, decoded.DiffStats.Aggregate)
}
