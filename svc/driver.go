package svc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/fardream/gitsquash"
)

// Driver iterates the branches of one repository and squashes every
// eligible group on each of them. Execution is strictly sequential: each
// rewrite mutates the one shared branch tip that every following step
// depends on.
type Driver struct {
	config  *Config
	session *Session
	journal *Journal

	aliases gitsquash.AliasTable
	grouper *gitsquash.Grouper
	stops   gitsquash.HashSet
}

// New validates the config, opens the repository session and the journal,
// and builds the grouping engine.
func New(cfg *Config) (*Driver, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	session, err := OpenSession(cfg.RepoPath)
	if err != nil {
		return nil, err
	}

	return NewWithSession(cfg, session)
}

// NewWithSession is [New] over an already opened session.
func NewWithSession(cfg *Config, session *Session) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	stops, err := cfg.StopSet()
	if err != nil {
		return nil, err
	}

	journal, err := OpenJournal(cfg.DbPath)
	if err != nil {
		return nil, err
	}

	return &Driver{
		config:  cfg,
		session: session,
		journal: journal,
		stops:   stops,
		aliases: gitsquash.NewAliasTable(cfg.Aliases),
		grouper: &gitsquash.Grouper{
			Classifier:      gitsquash.NewBoundaryClassifier(cfg.BoundaryKeywords),
			Window:          cfg.SquashWindow(),
			EnableAgeFilter: cfg.EnableAgeFilter,
			AgeLimit:        cfg.AgeLimit(),
		},
	}, nil
}

// Journal exposes the squash journal.
func (d *Driver) Journal() *Journal {
	return d.journal
}

// Close releases the journal, removing it if it was temporary.
func (d *Driver) Close() error {
	if d.journal == nil {
		return nil
	}

	return d.journal.DeleteTmp()
}

// RunReport is the cumulative outcome of one run.
type RunReport struct {
	// Branches is the number of branches the run looked at.
	Branches int
	// SkippedBranches failed to check out and were skipped.
	SkippedBranches []string
	// AbortedBranches failed during read or classification; later
	// branches still ran.
	AbortedBranches []string
	// Results lists every performed squash.
	Results []*SquashResult
	// Aborted is set when a rewrite failure ended the whole run.
	Aborted bool
}

// Run processes every branch in order. A checkout failure skips the
// branch, a read failure aborts the branch, and a rewrite failure rolls
// the branch back and aborts the entire run, since repository integrity is
// no longer trusted.
func (d *Driver) Run(ctx context.Context) (*RunReport, error) {
	branches, err := d.session.Branches()
	if err != nil {
		return nil, err
	}

	tagged, err := d.session.TaggedSet(ctx)
	if err != nil {
		return nil, err
	}

	report := &RunReport{}

	for _, branch := range branches {
		report.Branches++

		bctx, cancel := context.WithTimeout(ctx, d.config.BranchTimeout())
		err := d.processBranch(bctx, branch, tagged, report)
		cancel()

		switch {
		case err == nil:
		case errors.Is(err, ErrCheckoutFailed):
			logger.Warn("skipping branch", "branch", branch, "error", err)
			report.SkippedBranches = append(report.SkippedBranches, branch)
		case errors.Is(err, ErrRewriteFailed):
			logger.Error("run aborted", "branch", branch, "error", err)
			report.Aborted = true
			return report, err
		default:
			logger.Error("aborting branch", "branch", branch, "error", err)
			report.AbortedBranches = append(report.AbortedBranches, branch)
		}
	}

	return report, nil
}

func (d *Driver) processBranch(
	ctx context.Context,
	branch string,
	tagged gitsquash.HashSet,
	report *RunReport,
) error {
	head, err := d.session.Checkout(branch)
	if err != nil {
		return err
	}

	hist, err := gitsquash.FirstParentHistory(ctx, head, d.stops, 0)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBranchReadFailed, branch, err)
	}

	// the walk includes the stop commit itself; it is published and must
	// not enter any group.
	if len(hist) > 0 {
		if _, isstop := d.stops[hist[0].Hash]; isstop {
			hist = hist[1:]
		}
	}

	commits, err := gitsquash.NewCommits(hist, d.aliases, tagged)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrBranchReadFailed, branch, err)
	}

	result := d.grouper.Run(commits)

	logger.Info("grouped branch",
		"branch", branch,
		"commits", len(commits),
		"groups", len(result.Groups),
		"boundaries", result.Boundaries,
		"filtered", result.Filtered)

	// Groups are rewritten newest-first: replaying the descendants of a
	// range changes every hash above it, while the commits below it, and
	// with them the members of the older groups, keep theirs.
	for i := len(result.Groups) - 1; i >= 0; i-- {
		group := result.Groups[i]
		if group.Size() < 2 {
			continue
		}

		if d.config.DryRun {
			logger.Info("would squash commits",
				"branch", branch,
				"commits", group.Hashes(),
				"author", group.Last().CanonicalAuthor)
			continue
		}

		sr, err := d.rewriteGroup(ctx, branch, group)
		if err != nil {
			return err
		}

		report.Results = append(report.Results, sr)
	}

	return nil
}

// rewriteGroup collapses one group and flips the branch ref. Any failure
// restores the head recorded before the attempt and surfaces
// [ErrRewriteFailed].
func (d *Driver) rewriteGroup(
	ctx context.Context,
	branch string,
	group *gitsquash.Group,
) (*SquashResult, error) {
	prevhead, err := d.session.Checkout(branch)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRewriteFailed, branch, err)
	}

	hist, err := gitsquash.FirstParentHistory(ctx, prevhead, d.stops, 0)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRewriteFailed, branch, err)
	}

	result, err := gitsquash.SquashGroup(ctx, d.session.Storage(), hist, group)
	if err != nil {
		// only unreachable objects were written, the ref is untouched
		d.rollback(branch, prevhead)
		return nil, fmt.Errorf("%w: %s: %w", ErrRewriteFailed, branch, err)
	}

	if err := d.session.UpdateBranch(branch, prevhead.Hash, result.NewHead.Hash); err != nil {
		d.rollback(branch, prevhead)
		return nil, fmt.Errorf("%w: %s: %w", ErrRewriteFailed, branch, err)
	}

	sr := &SquashResult{
		Branch:    branch,
		Squashed:  group.Hashes(),
		Authors:   canonicalAuthors(group),
		NewCommit: result.NewCommit.Hash.String(),
		Message:   result.NewCommit.Message,
		When:      time.Now(),
	}

	if err := d.journal.Append(sr); err != nil {
		logger.Warn("failed to journal squash", "branch", branch, "new", sr.NewCommit, "error", err)
	}

	logger.Info("squashed commits",
		"branch", branch,
		"commits", sr.Squashed,
		"new", sr.NewCommit,
		"message", sr.Message)

	return sr, nil
}

func (d *Driver) rollback(branch string, prevhead *object.Commit) {
	if err := d.session.Rollback(branch, prevhead.Hash); err != nil {
		logger.Error("failed to roll back branch", "branch", branch, "head", prevhead.Hash, "error", err)
	}
}

func canonicalAuthors(group *gitsquash.Group) []string {
	seen := make(map[string]empty)
	result := make([]string, 0, 1)

	for _, c := range group.Commits {
		if _, found := seen[c.CanonicalAuthor]; found {
			continue
		}
		seen[c.CanonicalAuthor] = empty{}
		result = append(result, c.CanonicalAuthor)
	}

	return result
}
