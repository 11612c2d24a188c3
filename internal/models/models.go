// Package models defines the value records produced by the history analyzers.
// All records are immutable once constructed and serialize directly to JSON.
package models

import "time"

// MergeKind classifies how a pull request landed on the target branch.
type MergeKind string

const (
	// MergeClassic is a commit with two or more parents (git merge).
	MergeClassic MergeKind = "classic"
	// MergeSquash is a single-parent commit whose first message line ends
	// with a GitHub-style "(#NNN)" PR reference.
	MergeSquash MergeKind = "squash"
)

// FolderChangeKind describes a directory-level structural event.
type FolderChangeKind string

const (
	FolderAdded    FolderChangeKind = "added"
	FolderRemoved  FolderChangeKind = "removed"
	FolderModified FolderChangeKind = "modified"
)

// FileChangeKind describes a single file change within one commit's diff.
type FileChangeKind string

const (
	FileAdded    FileChangeKind = "added"
	FileRemoved  FileChangeKind = "removed"
	FileModified FileChangeKind = "modified"
)

// Commit is one commit as read from the walked branch, newest-first order.
type Commit struct {
	Hash         string    `json:"hash"`
	ShortHash    string    `json:"short_hash"`
	AuthorName   string    `json:"author_name"`
	AuthorEmail  string    `json:"author_email"`
	CommittedAt  time.Time `json:"committed_at"`
	Message      string    `json:"message"`
	ChangedPaths []string  `json:"changed_paths"`
	ParentHashes []string  `json:"parent_hashes"`
	// DiffFailed marks a commit whose diff could not be computed. The commit
	// stays in the log but contributes zero to diff and LOC aggregates.
	DiffFailed bool `json:"diff_failed,omitempty"`
}

// IsMerge reports whether the commit has two or more parents.
func (c Commit) IsMerge() bool {
	return len(c.ParentHashes) >= 2
}

// FirstLine returns the first line of the commit message.
func (c Commit) FirstLine() string {
	for i := 0; i < len(c.Message); i++ {
		if c.Message[i] == '\n' {
			return c.Message[:i]
		}
	}
	return c.Message
}

// MergeEvent is a commit classified as a completed PR merge.
type MergeEvent struct {
	Hash     string    `json:"hash"`
	Kind     MergeKind `json:"kind"`
	PRNumber *int      `json:"pr_number"`
	// Branch is the target (integration) branch that was walked.
	Branch string `json:"branch"`
	// MergedBranch names the merged source: a resolved branch name or the
	// second parent's short hash for classic merges, "PR #N" for squash.
	MergedBranch string    `json:"merged_branch"`
	MergedAt     time.Time `json:"merged_at"`
	AuthorName   string    `json:"author_name"`
	Message      string    `json:"message"`
}

// AuthorStats accumulates one author's contributions over the walked range.
type AuthorStats struct {
	AuthorName   string `json:"author_name"`
	AuthorEmail  string `json:"author_email"`
	CommitCount  int    `json:"commit_count"`
	LinesAdded   int    `json:"lines_added"`
	LinesRemoved int    `json:"lines_removed"`
	NetLines     int    `json:"net_lines"`
}

// BranchAuthors groups author stats for one branch.
type BranchAuthors struct {
	BranchName string        `json:"branch_name"`
	Authors    []AuthorStats `json:"authors"`
}

// FolderChange is one directory-level structural event.
type FolderChange struct {
	Hash        string           `json:"hash"`
	CommittedAt time.Time        `json:"committed_at"`
	Directory   string           `json:"directory"`
	Kind        FolderChangeKind `json:"kind"`
	Depth       int              `json:"depth"`
}

// FileChange is one file's contribution to a commit diff.
type FileChange struct {
	Path       string         `json:"path"`
	Kind       FileChangeKind `json:"kind"`
	Insertions int            `json:"insertions"`
	Deletions  int            `json:"deletions"`
	Binary     bool           `json:"binary,omitempty"`
}

// DiffStats holds one commit's diff against its first parent (or the empty
// tree for a root commit). Binary files count toward FilesChanged only.
type DiffStats struct {
	Hash         string       `json:"hash"`
	CommittedAt  time.Time    `json:"committed_at"`
	Insertions   int          `json:"insertions"`
	Deletions    int          `json:"deletions"`
	FilesChanged int          `json:"files_changed"`
	Files        []FileChange `json:"files,omitempty"`
	// Failed marks a diff that could not be computed; all counts are zero.
	Failed bool `json:"failed,omitempty"`
}

// Net returns insertions minus deletions.
func (d DiffStats) Net() int {
	return d.Insertions - d.Deletions
}

// DiffAggregate sums diff stats across every walked commit.
type DiffAggregate struct {
	TotalInsertions   int `json:"total_insertions"`
	TotalDeletions    int `json:"total_deletions"`
	TotalFilesChanged int `json:"total_files_changed"`
	CommitCount       int `json:"commit_count"`
	// Distribution of per-commit insertions, for the report summary.
	MeanInsertions   float64 `json:"mean_insertions"`
	StdDevInsertions float64 `json:"stddev_insertions"`
}

// LOCPoint is one sample of the cumulative net line count time series.
type LOCPoint struct {
	Hash          string    `json:"hash"`
	CommittedAt   time.Time `json:"committed_at"`
	CumulativeLOC int       `json:"cumulative_loc"`
}

// LOCTrend holds regression statistics over the LOC series, indexed by
// walk position.
type LOCTrend struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	RSquared    float64 `json:"r_squared"`
	Correlation float64 `json:"correlation"`
}
