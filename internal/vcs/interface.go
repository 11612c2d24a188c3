// Package vcs provides read-only access to a git repository's history.
package vcs

import (
	"errors"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

var (
	// ErrRepositoryNotFound is returned when the path is not a git repository.
	ErrRepositoryNotFound = errors.New("repository not found")
	// ErrBranchNotFound is returned when the named branch does not exist.
	ErrBranchNotFound = errors.New("branch not found")
	// ErrNoBranches is returned when no default branch can be resolved.
	ErrNoBranches = errors.New("repository has no branches")
	// ErrStop terminates a commit iteration early without error.
	ErrStop = errors.New("stop iteration")
)

// Repository provides read-only git repository operations. Implementations
// never mutate the underlying object store.
type Repository interface {
	// Branch resolves a local branch name to its tip reference.
	Branch(name string) (Reference, error)
	// Branches returns all local branches.
	Branches() ([]Reference, error)
	// References returns every resolvable reference, including remote
	// tracking refs. Used to map commit hashes back to branch names.
	References() ([]Reference, error)
	// Log returns a commit iterator in the backend's native order
	// (newest-first) starting from the given hash.
	Log(opts *LogOptions) (CommitIterator, error)
	// CommitObject returns the commit with the given hash.
	CommitObject(hash plumbing.Hash) (Commit, error)
	// RepoPath returns the root path of the repository.
	RepoPath() string
}

// Reference is a resolved named reference (branch, tag, HEAD).
type Reference interface {
	// Name returns the short reference name (e.g. "main").
	Name() string
	Hash() plumbing.Hash
}

// LogOptions configures the commit log query.
type LogOptions struct {
	From plumbing.Hash
}

// CommitIterator iterates over commits.
type CommitIterator interface {
	ForEach(fn func(Commit) error) error
	Close()
}

// Commit represents a git commit.
type Commit interface {
	Hash() plumbing.Hash
	NumParents() int
	ParentHashes() []plumbing.Hash
	// Parent returns the nth parent commit.
	Parent(n int) (Commit, error)
	Tree() (Tree, error)
	Author() object.Signature
	Committer() object.Signature
	Message() string
}

// Tree represents a git tree object.
type Tree interface {
	// Diff computes the changes from this tree to another.
	Diff(to Tree) (Changes, error)
}

// Changes is a collection of per-file changes between two trees.
type Changes []Change

// Change represents a single file change.
type Change interface {
	// FromName returns the source file name (empty for new files).
	FromName() string
	// ToName returns the destination file name (empty for deleted files).
	ToName() string
	Patch() (Patch, error)
}

// Patch represents a computed diff patch.
type Patch interface {
	FilePatches() []FilePatch
}

// FilePatch represents changes to a single file.
type FilePatch interface {
	IsBinary() bool
	Chunks() []Chunk
}

// Chunk is a run of equal, added, or deleted lines within a file patch.
type Chunk interface {
	Type() ChunkType
	Content() string
}

// ChunkType represents the type of change in a chunk.
type ChunkType int

const (
	ChunkEqual ChunkType = iota
	ChunkAdd
	ChunkDelete
)

// Opener opens git repositories.
type Opener interface {
	// PlainOpen opens an existing git repository.
	PlainOpen(path string) (Repository, error)
	// PlainOpenWithDetect opens a git repository, detecting .git in parent
	// directories.
	PlainOpenWithDetect(path string) (Repository, error)
}

// DiffWithParent computes the changes introduced by a commit relative to its
// first parent, or relative to the empty tree for a root commit. Merge
// commits are diffed against their first parent only.
func DiffWithParent(c Commit) (Changes, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	if c.NumParents() == 0 {
		return EmptyTree().Diff(tree)
	}
	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	return parentTree.Diff(tree)
}
