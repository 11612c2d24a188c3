// Package analyzer derives time-ordered analytics from a repository's
// commit history: merge classification, diff and author aggregation, folder
// structure changes, and cumulative LOC.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/progress"
	"github.com/archeologit/archeologit/internal/vcs"
)

// ErrHistoryRead wraps backend failures that occur mid-walk.
var ErrHistoryRead = errors.New("history read error")

// UnknownAuthor is substituted when a commit carries no parseable author.
const UnknownAuthor = "unknown"

const shortHashLen = 8

// Walker enumerates commits on a branch, newest-first, applying author
// exclusion before the count cap so the cap always yields included commits.
type Walker struct {
	branch         string
	maxCount       int
	excludeAuthors []string
	includePaths   bool
	tracker        *progress.Tracker
}

// WalkerOption is a functional option for configuring a Walker.
type WalkerOption func(*Walker)

// WithBranch sets the branch to walk. Empty means the default branch.
func WithBranch(name string) WalkerOption {
	return func(w *Walker) {
		w.branch = name
	}
}

// WithMaxCount caps the number of included commits. Zero means unlimited.
func WithMaxCount(n int) WalkerOption {
	return func(w *Walker) {
		if n > 0 {
			w.maxCount = n
		}
	}
}

// WithExcludeAuthors filters out commits by the named authors
// (case-insensitive) before the count cap applies.
func WithExcludeAuthors(names []string) WalkerOption {
	return func(w *Walker) {
		w.excludeAuthors = names
	}
}

// WithChangedPaths controls whether each commit's changed file paths are
// collected during the walk. Path collection requires a tree diff per
// commit, so it is off unless requested.
func WithChangedPaths(on bool) WalkerOption {
	return func(w *Walker) {
		w.includePaths = on
	}
}

// WithWalkProgress sets a progress spinner for the walk.
func WithWalkProgress(tracker *progress.Tracker) WalkerOption {
	return func(w *Walker) {
		w.tracker = tracker
	}
}

// NewWalker creates a walker with the given options.
func NewWalker(opts ...WalkerOption) *Walker {
	w := &Walker{}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Walk enumerates commits from the branch tip in the backend's native
// newest-first order and returns them with the resolved branch name. An
// empty repository yields an empty slice and an empty branch name.
func (w *Walker) Walk(ctx context.Context, repo vcs.Repository) ([]models.Commit, string, error) {
	ref, err := w.resolveBranch(repo)
	if err != nil {
		if errors.Is(err, vcs.ErrNoBranches) {
			return nil, "", nil
		}
		return nil, "", err
	}

	iter, err := repo.Log(&vcs.LogOptions{From: ref.Hash()})
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrHistoryRead, err)
	}
	defer iter.Close()

	var commits []models.Commit
	err = iter.ForEach(func(c vcs.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if w.tracker != nil {
			w.tracker.Tick()
		}

		info := w.commitInfo(c)
		if w.excluded(info.AuthorName) {
			return nil
		}

		commits = append(commits, info)
		if w.maxCount > 0 && len(commits) >= w.maxCount {
			return vcs.ErrStop
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("%w: %w", ErrHistoryRead, err)
	}

	return commits, ref.Name(), nil
}

func (w *Walker) resolveBranch(repo vcs.Repository) (vcs.Reference, error) {
	if w.branch != "" {
		return repo.Branch(w.branch)
	}
	return vcs.DefaultBranch(repo)
}

func (w *Walker) commitInfo(c vcs.Commit) models.Commit {
	author := c.Author()
	name := author.Name
	if name == "" {
		name = author.Email
	}
	if name == "" {
		name = UnknownAuthor
	}

	hash := c.Hash().String()
	parents := make([]string, 0, c.NumParents())
	for _, p := range c.ParentHashes() {
		parents = append(parents, p.String())
	}

	var paths []string
	if w.includePaths {
		paths = changedPaths(c)
	}

	return models.Commit{
		Hash:         hash,
		ShortHash:    hash[:shortHashLen],
		AuthorName:   name,
		AuthorEmail:  author.Email,
		CommittedAt:  c.Committer().When,
		Message:      strings.TrimSpace(c.Message()),
		ChangedPaths: paths,
		ParentHashes: parents,
	}
}

func (w *Walker) excluded(author string) bool {
	for _, name := range w.excludeAuthors {
		if strings.EqualFold(name, author) {
			return true
		}
	}
	return false
}

// changedPaths lists the file paths touched by a commit relative to its
// first parent. Failures degrade to an empty list; the commit itself stays
// in the log.
func changedPaths(c vcs.Commit) []string {
	changes, err := vcs.DiffWithParent(c)
	if err != nil {
		return nil
	}
	paths := make([]string, 0, len(changes))
	for _, change := range changes {
		name := change.ToName()
		if name == "" {
			name = change.FromName()
		}
		if name != "" {
			paths = append(paths, name)
		}
	}
	return paths
}
