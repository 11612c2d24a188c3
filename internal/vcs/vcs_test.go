package vcs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func initRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "repo")
	repo, err := git.PlainInit(path, false)
	if err != nil {
		t.Fatalf("Failed to init git repo: %v", err)
	}
	return repo, path
}

func addCommit(t *testing.T, repo *git.Repository, path, filename, content, message string) plumbing.Hash {
	t.Helper()

	full := filepath.Join(path, filename)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}
	if _, err := w.Add(filename); err != nil {
		t.Fatalf("Failed to add: %v", err)
	}
	hash, err := w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "alice",
			Email: "alice@example.com",
			When:  time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
	return hash
}

func TestGitOpener_PlainOpen(t *testing.T) {
	_, path := initRepo(t)

	repo, err := NewGitOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	if repo.RepoPath() != path {
		t.Errorf("RepoPath() = %q, want %q", repo.RepoPath(), path)
	}
}

func TestGitOpener_PlainOpen_NotFound(t *testing.T) {
	_, err := NewGitOpener().PlainOpen(t.TempDir())
	if !errors.Is(err, ErrRepositoryNotFound) {
		t.Errorf("PlainOpen() error = %v, want ErrRepositoryNotFound", err)
	}
}

func TestGitOpener_PlainOpenWithDetect(t *testing.T) {
	_, path := initRepo(t)
	sub := filepath.Join(path, "deep", "inside")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	if _, err := NewGitOpener().PlainOpenWithDetect(sub); err != nil {
		t.Errorf("PlainOpenWithDetect() from subdir error = %v", err)
	}
	if _, err := NewGitOpener().PlainOpen(sub); !errors.Is(err, ErrRepositoryNotFound) {
		t.Errorf("PlainOpen() from subdir error = %v, want ErrRepositoryNotFound", err)
	}
}

func TestRepository_Branch(t *testing.T) {
	gitRepo, path := initRepo(t)
	addCommit(t, gitRepo, path, "a.txt", "x\n", "first")

	repo, err := DefaultOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}

	ref, err := repo.Branch("master")
	if err != nil {
		t.Fatalf("Branch(master) error = %v", err)
	}
	if ref.Name() != "master" {
		t.Errorf("Name() = %q, want master", ref.Name())
	}
	if ref.Hash().IsZero() {
		t.Errorf("Hash() is zero")
	}

	if _, err := repo.Branch("nope"); !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("Branch(nope) error = %v, want ErrBranchNotFound", err)
	}
}

func TestDefaultBranch(t *testing.T) {
	gitRepo, path := initRepo(t)
	hash := addCommit(t, gitRepo, path, "a.txt", "x\n", "first")

	repo, err := DefaultOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}

	ref, err := DefaultBranch(repo)
	if err != nil {
		t.Fatalf("DefaultBranch() error = %v", err)
	}
	if ref.Name() != "master" {
		t.Errorf("Name() = %q, want master", ref.Name())
	}

	// A "main" branch takes precedence once it exists.
	main := plumbing.NewHashReference(plumbing.NewBranchReferenceName("main"), hash)
	if err := gitRepo.Storer.SetReference(main); err != nil {
		t.Fatalf("Failed to create main branch: %v", err)
	}
	ref, err = DefaultBranch(repo)
	if err != nil {
		t.Fatalf("DefaultBranch() error = %v", err)
	}
	if ref.Name() != "main" {
		t.Errorf("Name() = %q, want main", ref.Name())
	}
}

func TestDefaultBranch_NoBranches(t *testing.T) {
	_, path := initRepo(t)

	repo, err := DefaultOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	if _, err := DefaultBranch(repo); !errors.Is(err, ErrNoBranches) {
		t.Errorf("DefaultBranch() error = %v, want ErrNoBranches", err)
	}
}

func TestBranchForHash(t *testing.T) {
	gitRepo, path := initRepo(t)
	hash := addCommit(t, gitRepo, path, "a.txt", "x\n", "first")

	repo, err := DefaultOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}

	name, ok := BranchForHash(repo, hash)
	if !ok || name != "master" {
		t.Errorf("BranchForHash() = %q, %v, want master, true", name, ok)
	}

	if _, ok := BranchForHash(repo, plumbing.NewHash("deadbeefdeadbeefdeadbeefdeadbeefdeadbeef")); ok {
		t.Errorf("BranchForHash() found a branch for an unknown hash")
	}
}

func TestDiffWithParent_RootCommit(t *testing.T) {
	gitRepo, path := initRepo(t)
	hash := addCommit(t, gitRepo, path, "src/a.txt", "one\ntwo\n", "first")

	repo, err := DefaultOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		t.Fatalf("CommitObject() error = %v", err)
	}

	changes, err := DiffWithParent(commit)
	if err != nil {
		t.Fatalf("DiffWithParent() error = %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("len(changes) = %d, want 1", len(changes))
	}
	if changes[0].FromName() != "" {
		t.Errorf("FromName() = %q, want empty for a new file", changes[0].FromName())
	}
	if changes[0].ToName() != "src/a.txt" {
		t.Errorf("ToName() = %q, want src/a.txt", changes[0].ToName())
	}
}

func TestDiffWithParent_AgainstFirstParent(t *testing.T) {
	gitRepo, path := initRepo(t)
	addCommit(t, gitRepo, path, "a.txt", "one\n", "first")
	hash := addCommit(t, gitRepo, path, "a.txt", "one\ntwo\n", "second")

	repo, err := DefaultOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	commit, err := repo.CommitObject(hash)
	if err != nil {
		t.Fatalf("CommitObject() error = %v", err)
	}

	changes, err := DiffWithParent(commit)
	if err != nil {
		t.Fatalf("DiffWithParent() error = %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("len(changes) = %d, want 1", len(changes))
	}

	patch, err := changes[0].Patch()
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}
	added := 0
	for _, fp := range patch.FilePatches() {
		for _, chunk := range fp.Chunks() {
			if chunk.Type() == ChunkAdd {
				added++
			}
		}
	}
	if added == 0 {
		t.Errorf("no added chunks in a grow-by-one-line diff")
	}
}

func TestCommitIterator_Stop(t *testing.T) {
	gitRepo, path := initRepo(t)
	addCommit(t, gitRepo, path, "a.txt", "1\n", "first")
	addCommit(t, gitRepo, path, "a.txt", "2\n", "second")
	head := addCommit(t, gitRepo, path, "a.txt", "3\n", "third")

	repo, err := DefaultOpener().PlainOpen(path)
	if err != nil {
		t.Fatalf("PlainOpen() error = %v", err)
	}
	iter, err := repo.Log(&LogOptions{From: head})
	if err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	defer iter.Close()

	seen := 0
	err = iter.ForEach(func(Commit) error {
		seen++
		if seen == 2 {
			return ErrStop
		}
		return nil
	})
	if err != nil {
		t.Errorf("ForEach() with ErrStop error = %v, want nil", err)
	}
	if seen != 2 {
		t.Errorf("seen = %d, want 2", seen)
	}
}
