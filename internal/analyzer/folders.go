package analyzer

import (
	"sort"
	"strings"

	"github.com/archeologit/archeologit/internal/models"
)

// DefaultFolderDepth is the directory nesting limit when none is configured.
const DefaultFolderDepth = 2

// FolderChanges detects directory-level structural evolution across a walked
// sequence, bounded by a depth limit: directories nested deeper are rolled up
// into their ancestor at the limit.
//
// The walk is an explicit left-fold in chronological order (oldest to
// newest), the reverse of the walker's native output. A running set of known
// folders starts empty at the oldest walked commit; each folder path emits
// `added` at most once (its first appearance), `modified` whenever it is
// touched and still holds files afterward, and `removed` when the last file
// the fold has seen under it disappears.
func FolderChanges(commits []models.Commit, diffs []models.DiffStats, depth int) []models.FolderChange {
	if depth <= 0 {
		depth = DefaultFolderDepth
	}

	byHash := make(map[string]models.DiffStats, len(diffs))
	for _, d := range diffs {
		byHash[d.Hash] = d
	}

	// live files per known folder; everAdded enforces one `added` per path
	// per walk even across remove/re-add cycles.
	known := make(map[string]map[string]struct{})
	everAdded := make(map[string]bool)

	var events []models.FolderChange
	for _, c := range chronological(commits) {
		d, ok := byHash[c.Hash]
		if !ok || d.Failed {
			continue
		}

		touched := make(map[string]bool)
		wasKnown := make(map[string]bool)
		for _, fc := range d.Files {
			for _, dir := range ancestorDirs(fc.Path, depth) {
				if !touched[dir] {
					touched[dir] = true
					wasKnown[dir] = len(known[dir]) > 0
				}
				switch fc.Kind {
				case models.FileRemoved:
					delete(known[dir], fc.Path)
				default:
					if known[dir] == nil {
						known[dir] = make(map[string]struct{})
					}
					known[dir][fc.Path] = struct{}{}
				}
			}
		}

		dirs := make([]string, 0, len(touched))
		for dir := range touched {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)

		for _, dir := range dirs {
			live := len(known[dir]) > 0
			var kind models.FolderChangeKind
			switch {
			case !wasKnown[dir] && live && !everAdded[dir]:
				kind = models.FolderAdded
				everAdded[dir] = true
			case !wasKnown[dir] && live:
				// re-appearance after removal
				kind = models.FolderModified
			case wasKnown[dir] && !live:
				kind = models.FolderRemoved
				delete(known, dir)
			case wasKnown[dir] && live:
				kind = models.FolderModified
			default:
				// deletion-only touch of a folder the fold never saw
				continue
			}
			events = append(events, models.FolderChange{
				Hash:        c.Hash,
				CommittedAt: c.CommittedAt,
				Directory:   dir,
				Kind:        kind,
				Depth:       strings.Count(dir, "/") + 1,
			})
		}
	}
	return events
}

// chronological returns a reversed copy of the walker's newest-first output.
// The reversal is explicit so order-sensitive folds are tested against it
// rather than relying on iteration direction.
func chronological(commits []models.Commit) []models.Commit {
	out := make([]models.Commit, len(commits))
	for i, c := range commits {
		out[len(commits)-1-i] = c
	}
	return out
}

// ancestorDirs decomposes a file path into its ancestor directories up to
// the depth limit. "a/b/c/f.go" with depth 2 yields ["a", "a/b"].
func ancestorDirs(path string, depth int) []string {
	parts := strings.Split(path, "/")
	if len(parts) < 2 {
		return nil
	}
	levels := len(parts) - 1
	if levels > depth {
		levels = depth
	}
	dirs := make([]string, 0, levels)
	for i := 1; i <= levels; i++ {
		dirs = append(dirs, strings.Join(parts[:i], "/"))
	}
	return dirs
}
