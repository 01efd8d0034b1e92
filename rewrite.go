package gitsquash

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// RewriteResult describes one successful squash: the commits that were
// collapsed, the commit that replaced them, and the new head of the
// rewritten history.
type RewriteResult struct {
	// Squashed are the original member commits, oldest-first.
	Squashed []*Commit
	// NewCommit is the single commit replacing the range. Its tree equals
	// the last member's tree and its parents are the original parents of
	// the first member.
	NewCommit *object.Commit
	// NewHead is the branch head after replaying the commits that
	// followed the range. Equal to NewCommit when the range ended the
	// history.
	NewHead *object.Commit
}

// SquashGroup collapses a group of two or more contiguous commits in hist
// into a single commit and replays every later commit of hist on top of
// it. hist must be the full oldest-first first-parent history the group
// was derived from.
//
// Only objects are written; no reference is touched. The caller owns the
// branch ref flip, which is what makes the rewrite atomic: on any error
// the repository references are unchanged and the orphaned objects are
// unreachable.
//
// Replayed commits keep their author, committer, message and tree. GPG
// signatures are dropped, since re-parenting invalidates them.
func SquashGroup(
	ctx context.Context,
	s storer.EncodedObjectStorer,
	hist []*object.Commit,
	group *Group,
) (*RewriteResult, error) {
	if len(hist) == 0 {
		return nil, ErrEmptyHistory
	}
	if group == nil || group.Size() < 2 {
		return nil, ErrGroupTooSmall
	}

	first, err := rangeStart(hist, group)
	if err != nil {
		return nil, err
	}

	last := first + group.Size() - 1
	combined := CombineMessages(group.Commits)

	lastobj := group.Last().Object()

	squash := &object.Commit{
		TreeHash:     lastobj.TreeHash,
		Author:       lastobj.Author,
		Committer:    lastobj.Committer,
		Message:      combined,
		ParentHashes: hist[first].ParentHashes,
	}

	newcommit, err := saveCommit(ctx, squash, s)
	if err != nil {
		return nil, fmt.Errorf("failed to save squash commit: %w", err)
	}

	// replay everything after the range onto the squash commit.
	head := newcommit
	for i := last + 1; i < len(hist); i++ {
		orig := hist[i]

		parents := make([]plumbing.Hash, 0, len(orig.ParentHashes))
		parents = append(parents, head.Hash)
		// merge commits keep their other parents.
		parents = append(parents, orig.ParentHashes[1:]...)

		replayed := &object.Commit{
			TreeHash:     orig.TreeHash,
			Author:       orig.Author,
			Committer:    orig.Committer,
			Message:      orig.Message,
			ParentHashes: parents,
		}

		head, err = saveCommit(ctx, replayed, s)
		if err != nil {
			return nil, fmt.Errorf("failed to replay commit %s: %w", orig.Hash, err)
		}
	}

	return &RewriteResult{
		Squashed:  group.Commits,
		NewCommit: newcommit,
		NewHead:   head,
	}, nil
}

// rangeStart locates the group inside hist and verifies the members form a
// contiguous single-parent run there.
func rangeStart(hist []*object.Commit, group *Group) (int, error) {
	firsthash := group.First().Hash

	first := -1
	for i, c := range hist {
		if c.Hash == firsthash {
			first = i
			break
		}
	}
	if first < 0 || first+group.Size() > len(hist) {
		return 0, ErrNotContiguous
	}

	for j, member := range group.Commits {
		orig := hist[first+j]
		if orig.Hash != member.Hash {
			return 0, ErrNotContiguous
		}
		if orig.NumParents() > 1 {
			return 0, ErrMergeInGroup
		}
	}

	return first, nil
}

// CombineMessages concatenates the full message body of each commit in
// chronological order, separated by one blank line.
func CombineMessages(commits []*Commit) string {
	parts := make([]string, 0, len(commits))
	for _, c := range commits {
		parts = append(parts, strings.TrimRight(c.Message, "\n"))
	}

	return strings.Join(parts, "\n\n") + "\n"
}
