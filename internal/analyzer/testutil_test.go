package analyzer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/vcs"
)

// testClock hands out strictly increasing commit timestamps so walk order
// is deterministic across the whole test repo.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) next() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

type testRepo struct {
	t     *testing.T
	repo  *git.Repository
	path  string
	clock *testClock
}

func initTestRepo(t *testing.T) *testRepo {
	t.Helper()

	path := filepath.Join(t.TempDir(), "repo")
	repo, err := git.PlainInit(path, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	return &testRepo{t: t, repo: repo, path: path, clock: newTestClock()}
}

func (r *testRepo) open() vcs.Repository {
	r.t.Helper()

	repo, err := vcs.DefaultOpener().PlainOpen(r.path)
	if err != nil {
		r.t.Fatalf("Failed to open test repo: %v", err)
	}
	return repo
}

func (r *testRepo) writeFile(filename, content string) {
	r.t.Helper()

	path := filepath.Join(r.path, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		r.t.Fatalf("Failed to create dir for %s: %v", filename, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		r.t.Fatalf("Failed to write file %s: %v", filename, err)
	}
}

func (r *testRepo) commit(message, author string, write map[string]string, remove []string) plumbing.Hash {
	r.t.Helper()

	w, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("Failed to get worktree: %v", err)
	}

	for filename, content := range write {
		r.writeFile(filename, content)
		if _, err := w.Add(filename); err != nil {
			r.t.Fatalf("Failed to add %s: %v", filename, err)
		}
	}
	for _, filename := range remove {
		if err := os.Remove(filepath.Join(r.path, filename)); err != nil {
			r.t.Fatalf("Failed to delete %s: %v", filename, err)
		}
		if _, err := w.Remove(filename); err != nil {
			r.t.Fatalf("Failed to remove %s from index: %v", filename, err)
		}
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: author + "@example.com",
			When:  r.clock.next(),
		},
	})
	if err != nil {
		r.t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

// mergeCommit creates a two-parent commit on the current branch whose tree
// contains the given writes.
func (r *testRepo) mergeCommit(message, author string, write map[string]string, secondParent plumbing.Hash) plumbing.Hash {
	r.t.Helper()

	w, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("Failed to get worktree: %v", err)
	}

	head, err := r.repo.Head()
	if err != nil {
		r.t.Fatalf("Failed to resolve HEAD: %v", err)
	}

	for filename, content := range write {
		r.writeFile(filename, content)
		if _, err := w.Add(filename); err != nil {
			r.t.Fatalf("Failed to add %s: %v", filename, err)
		}
	}

	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  author,
			Email: author + "@example.com",
			When:  r.clock.next(),
		},
		Parents:           []plumbing.Hash{head.Hash(), secondParent},
		AllowEmptyCommits: true,
	})
	if err != nil {
		r.t.Fatalf("Failed to create merge commit: %v", err)
	}
	return hash
}

// makeCommit builds an in-memory commit record for pure analyzer tests that
// do not need a real repository.
func makeCommit(hash, author, message string, at time.Time, parents ...string) models.Commit {
	return models.Commit{
		Hash:         hash,
		ShortHash:    hash[:min(len(hash), shortHashLen)],
		AuthorName:   author,
		AuthorEmail:  author + "@example.com",
		CommittedAt:  at,
		Message:      message,
		ParentHashes: parents,
	}
}
