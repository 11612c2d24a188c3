// Package config holds the run configuration for a history analysis.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config enumerates every recognized option of a run. Command-line flags
// override values loaded from a config file.
type Config struct {
	// Repo is the path to the repository to analyze.
	Repo string `koanf:"repo"`
	// Branch to walk; empty means the repository's default branch.
	Branch string `koanf:"branch"`
	// MaxCount caps walked commits per analyzer; 0 means unlimited. The cap
	// counts included commits, after author exclusion.
	MaxCount int `koanf:"max_count"`
	// ExcludeAuthors lists author names whose commits are filtered out of
	// the walk (case-insensitive match).
	ExcludeAuthors []string `koanf:"exclude_authors"`
	// FolderDepth is the directory nesting limit for folder change tracking.
	FolderDepth int `koanf:"folder_depth"`

	Output OutputConfig `koanf:"output"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Repo:        ".",
		FolderDepth: 2,
		Output: OutputConfig{
			Format: "text",
			Color:  true,
		},
	}
}

// Load loads configuration from a file, with the parser chosen by extension.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries standard config locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"archeologit.toml",
		"archeologit.yaml",
		"archeologit.yml",
		"archeologit.json",
		".archeologit.toml",
		".archeologit.yaml",
		".archeologit.yml",
		".archeologit.json",
	}

	for _, name := range configNames {
		if _, err := os.Stat(name); err == nil {
			if cfg, err := Load(name); err == nil {
				return cfg
			}
		}
	}

	return DefaultConfig()
}

// ExcludesAuthor reports whether commits by the named author are filtered
// out. Matching is case-insensitive, per the exclusion list semantics.
func (c *Config) ExcludesAuthor(name string) bool {
	for _, excluded := range c.ExcludeAuthors {
		if strings.EqualFold(excluded, name) {
			return true
		}
	}
	return false
}
