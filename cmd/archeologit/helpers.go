package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/archeologit/archeologit/internal/analyzer"
	"github.com/archeologit/archeologit/internal/config"
	"github.com/archeologit/archeologit/internal/models"
	"github.com/archeologit/archeologit/internal/output"
	"github.com/archeologit/archeologit/internal/progress"
	"github.com/archeologit/archeologit/internal/vcs"
)

// loadConfig merges command-line flags over the file-based configuration.
// Flags win whenever they are set explicitly.
func loadConfig(c *cli.Context) (*config.Config, error) {
	var cfg *config.Config
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading config %s: %w", path, err)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if c.IsSet("repo") || cfg.Repo == "" {
		cfg.Repo = c.String("repo")
	}
	if c.IsSet("branch") {
		cfg.Branch = c.String("branch")
	}
	if c.IsSet("max") {
		cfg.MaxCount = c.Int("max")
	}
	if c.IsSet("exclude-author") {
		cfg.ExcludeAuthors = c.StringSlice("exclude-author")
	}
	if c.IsSet("depth") {
		cfg.FolderDepth = c.Int("depth")
	}
	if c.IsSet("format") {
		cfg.Output.Format = c.String("format")
	}
	if c.IsSet("verbose") {
		cfg.Output.Verbose = c.Bool("verbose")
	}
	return cfg, nil
}

// openRepo opens the configured repository, detecting .git in parent
// directories.
func openRepo(cfg *config.Config) (vcs.Repository, error) {
	return vcs.DefaultOpener().PlainOpenWithDetect(cfg.Repo)
}

// newWalker builds a walker from the run configuration.
func newWalker(cfg *config.Config, includePaths bool, tracker *progress.Tracker) *analyzer.Walker {
	return analyzer.NewWalker(
		analyzer.WithBranch(cfg.Branch),
		analyzer.WithMaxCount(cfg.MaxCount),
		analyzer.WithExcludeAuthors(cfg.ExcludeAuthors),
		analyzer.WithChangedPaths(includePaths),
		analyzer.WithWalkProgress(tracker),
	)
}

// newDiffAnalyzer builds a diff analyzer that surfaces recovered per-commit
// anomalies on stderr when verbose output is on.
func newDiffAnalyzer(cfg *config.Config, tracker *progress.Tracker) *analyzer.DiffAnalyzer {
	opts := []analyzer.DiffOption{analyzer.WithDiffProgress(tracker)}
	if cfg.Output.Verbose {
		opts = append(opts, analyzer.WithDiffErrorFunc(func(hash string, err error) {
			fmt.Fprintf(os.Stderr, "  diff skipped for %.8s: %v\n", hash, err)
		}))
	}
	return analyzer.NewDiffAnalyzer(opts...)
}

// newFormatter builds the output formatter from flags.
func newFormatter(c *cli.Context, cfg *config.Config) (*output.Formatter, error) {
	return output.NewFormatter(output.ParseFormat(cfg.Output.Format), c.String("output"), cfg.Output.Color)
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen < 4 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// firstLine returns the first message line, truncated for table display.
func firstLine(c models.Commit, maxLen int) string {
	return truncate(c.FirstLine(), maxLen)
}
