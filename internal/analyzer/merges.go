package analyzer

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/vcs"
)

// prTokenRe matches a GitHub "#123" PR reference anywhere in a line, with or
// without surrounding parentheses. GitHub's generated classic-merge message
// ("Merge pull request #123 from ...") uses the bare form.
var prTokenRe = regexp.MustCompile(`#(\d+)`)

// squashRe matches the GitHub squash-merge convention: free text followed by
// a trailing "(#123)" at the end of the first message line.
var squashRe = regexp.MustCompile(`^.+\s\(#(\d+)\)$`)

// DetectMerges scans a walked sequence and emits one MergeEvent per commit
// that represents a completed PR merge into the target branch, preserving
// walk order. Parent count is the primary discriminant: a commit with two or
// more parents is a classic merge even when its message also matches the
// squash pattern.
func DetectMerges(commits []models.Commit, branch string, refNames map[string]string) []models.MergeEvent {
	var events []models.MergeEvent
	for _, c := range commits {
		switch {
		case c.IsMerge():
			events = append(events, models.MergeEvent{
				Hash:         c.Hash,
				Kind:         models.MergeClassic,
				PRNumber:     extractPRNumber(c.FirstLine()),
				Branch:       branch,
				MergedBranch: mergedBranchName(c, refNames),
				MergedAt:     c.CommittedAt,
				AuthorName:   c.AuthorName,
				Message:      c.Message,
			})
		case len(c.ParentHashes) == 1:
			pr := squashPRNumber(c.FirstLine())
			if pr == nil {
				continue
			}
			events = append(events, models.MergeEvent{
				Hash:         c.Hash,
				Kind:         models.MergeSquash,
				PRNumber:     pr,
				Branch:       branch,
				MergedBranch: fmt.Sprintf("PR #%d", *pr),
				MergedAt:     c.CommittedAt,
				AuthorName:   c.AuthorName,
				Message:      c.Message,
			})
		}
	}
	return events
}

// BuildRefMap maps commit hashes to reference names, used to resolve a
// classic merge's second parent back to the branch it came from.
func BuildRefMap(repo vcs.Repository) map[string]string {
	refs, err := repo.References()
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(refs))
	for _, ref := range refs {
		names[ref.Hash().String()] = shortRefName(ref.Name())
	}
	return names
}

func shortRefName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			return name[i+1:]
		}
	}
	return name
}

// mergedBranchName resolves a classic merge's source: the second parent's
// branch name where a ref still points at it, otherwise its short hash.
func mergedBranchName(c models.Commit, refNames map[string]string) string {
	if len(c.ParentHashes) < 2 {
		return ""
	}
	tip := c.ParentHashes[1]
	if name, ok := refNames[tip]; ok {
		return name
	}
	return tip[:shortHashLen]
}

// extractPRNumber parses the first "(#NNN)" token in a line. Malformed or
// overflowing numbers are treated as absent rather than erroring.
func extractPRNumber(line string) *int {
	m := prTokenRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return parsePRNumber(m[1])
}

// squashPRNumber parses a PR number only when the line follows the squash
// convention (trailing "(#NNN)" with text before it).
func squashPRNumber(line string) *int {
	m := squashRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return parsePRNumber(m[1])
}

func parsePRNumber(digits string) *int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}
