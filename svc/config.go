package svc

import (
	"fmt"
	"strings"
	"time"

	"github.com/fardream/gitsquash"
)

const (
	// DefaultSquashWindowSeconds is 14 days.
	DefaultSquashWindowSeconds = 14 * 24 * 60 * 60
	// DefaultAgeLimitSeconds is 14 days, the threshold of the optional
	// age filter.
	DefaultAgeLimitSeconds = 14 * 24 * 60 * 60
	// DefaultBranchTimeoutSeconds bounds the backend work for one branch.
	DefaultBranchTimeoutSeconds = 300
)

// Config is the immutable configuration of one run. It is constructed
// once, validated at startup, and passed by reference; nothing reads it as
// ambient state.
type Config struct {
	// RepoPath is the path of the repository to rewrite.
	RepoPath string `yaml:"repo_path"`

	// DbPath is the path of the squash journal database. Empty means a
	// temporary file that is removed on close.
	DbPath string `yaml:"db_path"`

	// Aliases maps developer identifiers to canonical identities.
	Aliases []gitsquash.Alias `yaml:"aliases"`

	// StopCommits lists full hex hashes of already-published commits.
	// History reading stops at them: they and everything older are never
	// read, grouped, or rewritten.
	StopCommits []string `yaml:"stop_commits"`

	// SquashWindowSeconds is the maximum positive gap between adjacent
	// commits for them to be mergeable. 0 means the default of 14 days.
	SquashWindowSeconds int64 `yaml:"squash_window_seconds"`

	// EnableAgeFilter excludes commits older than AgeLimitSeconds from
	// grouping entirely. Off by default.
	EnableAgeFilter bool `yaml:"enable_age_filter"`

	// AgeLimitSeconds only applies when EnableAgeFilter is set. 0 means
	// the default of 14 days.
	AgeLimitSeconds int64 `yaml:"age_limit_seconds"`

	// BoundaryKeywords override the message substrings that mark a commit
	// as a boundary. Empty means revert, merge, pull.
	BoundaryKeywords []string `yaml:"boundary_keywords"`

	// BranchTimeoutSeconds bounds the processing of one branch. 0 means
	// the default of 300 seconds.
	BranchTimeoutSeconds int64 `yaml:"branch_timeout_seconds"`

	// DryRun reports the groups that would be squashed without rewriting
	// anything.
	DryRun bool `yaml:"dry_run"`
}

// DefaultConfig returns the embedded defaults: current directory,
// temporary journal, no aliases, 14 day window, age filter off.
func DefaultConfig() *Config {
	return &Config{
		RepoPath:            ".",
		SquashWindowSeconds: DefaultSquashWindowSeconds,
		AgeLimitSeconds:     DefaultAgeLimitSeconds,
	}
}

// Validate checks the alias table and the numeric fields. Any error here
// is fatal at startup.
func (c *Config) Validate() error {
	if c.RepoPath == "" {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrEmptyRepoPath)
	}
	if c.SquashWindowSeconds < 0 {
		return fmt.Errorf("%w: negative squash_window_seconds", ErrInvalidConfig)
	}
	if c.AgeLimitSeconds < 0 {
		return fmt.Errorf("%w: negative age_limit_seconds", ErrInvalidConfig)
	}
	if _, err := gitsquash.NewHashSetFromStrings(c.StopCommits...); err != nil {
		return fmt.Errorf("%w: bad stop_commits: %w", ErrInvalidConfig, err)
	}

	seen := make(map[string]string)
	for _, a := range c.Aliases {
		if a.Canonical == "" {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, ErrEmptyCanonical)
		}
		for _, id := range a.Identifiers {
			lowered := strings.ToLower(id)
			if lowered == "" {
				return fmt.Errorf("%w: empty identifier for %q", ErrInvalidConfig, a.Canonical)
			}
			if prev, found := seen[lowered]; found && prev != a.Canonical {
				return fmt.Errorf("%w: %w: %q maps to both %q and %q",
					ErrInvalidConfig, ErrDuplicateAlias, id, prev, a.Canonical)
			}
			seen[lowered] = a.Canonical
		}
	}

	return nil
}

// StopSet decodes StopCommits into a [gitsquash.HashSet].
func (c *Config) StopSet() (gitsquash.HashSet, error) {
	return gitsquash.NewHashSetFromStrings(c.StopCommits...)
}

// SquashWindow returns the window as a [time.Duration].
func (c *Config) SquashWindow() time.Duration {
	if c.SquashWindowSeconds == 0 {
		return gitsquash.DefaultSquashWindow
	}
	return time.Duration(c.SquashWindowSeconds) * time.Second
}

// AgeLimit returns the age filter threshold as a [time.Duration].
func (c *Config) AgeLimit() time.Duration {
	if c.AgeLimitSeconds == 0 {
		return gitsquash.DefaultAgeLimit
	}
	return time.Duration(c.AgeLimitSeconds) * time.Second
}

// BranchTimeout returns the per-branch deadline.
func (c *Config) BranchTimeout() time.Duration {
	if c.BranchTimeoutSeconds <= 0 {
		return DefaultBranchTimeoutSeconds * time.Second
	}
	return time.Duration(c.BranchTimeoutSeconds) * time.Second
}
