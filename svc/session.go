package svc

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage"

	"github.com/fardream/gitsquash"
)

const remoteName = "origin"

// Session exclusively owns the backend access to one repository for its
// lifetime. Every read and every ref flip goes through it; nothing else
// touches the repository while a session is live.
type Session struct {
	repo    *git.Repository
	storage storage.Storer
}

// OpenSession opens the repository at path.
func OpenSession(path string) (*Session, error) {
	if path == "" {
		return nil, ErrEmptyRepoPath
	}

	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	return NewSession(repo)
}

// NewSession wraps an already opened repository.
func NewSession(repo *git.Repository) (*Session, error) {
	if repo == nil {
		return nil, ErrNilRepo
	}

	return &Session{repo: repo, storage: repo.Storer}, nil
}

// Storage exposes the object storage for the rewriter.
func (s *Session) Storage() storage.Storer {
	return s.storage
}

// Branches lists the branch names to process: the remote-tracking branches
// of origin when there are any (the histories that will be republished),
// local branches otherwise. Names are sorted and deduplicated.
func (s *Session) Branches() ([]string, error) {
	iter, err := s.storage.IterReferences()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	defer iter.Close()

	remote := make(map[string]empty)
	local := make(map[string]empty)

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name()
		switch {
		case name.IsRemote():
			short := strings.TrimPrefix(name.Short(), remoteName+"/")
			// symbolic origin/HEAD is not a branch
			if ref.Type() == plumbing.HashReference && short != "HEAD" {
				remote[short] = empty{}
			}
		case name.IsBranch():
			local[name.Short()] = empty{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	chosen := remote
	if len(chosen) == 0 {
		chosen = local
	}
	if len(chosen) == 0 {
		return nil, ErrNoBranches
	}

	result := make([]string, 0, len(chosen))
	for name := range chosen {
		result = append(result, name)
	}
	sort.Strings(result)

	return result, nil
}

// Checkout resolves the branch to its head commit, creating the local
// branch ref from the remote-tracking ref when it does not exist yet.
func (s *Session) Checkout(branch string) (*object.Commit, error) {
	if branch == "" {
		return nil, ErrEmptyBranchName
	}

	localref := plumbing.NewBranchReferenceName(branch)

	ref, err := s.storage.Reference(localref)
	if err != nil {
		remote, rerr := s.storage.Reference(plumbing.NewRemoteReferenceName(remoteName, branch))
		if rerr != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCheckoutFailed, branch, err)
		}

		ref = plumbing.NewHashReference(localref, remote.Hash())
		if err := s.storage.SetReference(ref); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCheckoutFailed, branch, err)
		}
	}

	head, err := object.GetCommit(s.storage, ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCheckoutFailed, branch, err)
	}

	return head, nil
}

// History reads the oldest-first first-parent history of the branch.
func (s *Session) History(ctx context.Context, branch string) ([]*object.Commit, error) {
	head, err := s.Checkout(branch)
	if err != nil {
		return nil, err
	}

	return gitsquash.FirstParentHistory(ctx, head, nil, 0)
}

// TaggedSet collects the commits reachable from any tag.
func (s *Session) TaggedSet(ctx context.Context) (gitsquash.HashSet, error) {
	return gitsquash.TagReachableSet(ctx, s.storage)
}

// UpdateBranch flips the branch ref from one head to another. The check
// against the old head is what keeps a rewrite atomic: the flip either
// happens completely or the branch is untouched.
func (s *Session) UpdateBranch(branch string, from, to plumbing.Hash) error {
	if branch == "" {
		return ErrEmptyBranchName
	}

	name := plumbing.NewBranchReferenceName(branch)

	return s.storage.CheckAndSetReference(
		plumbing.NewHashReference(name, to),
		plumbing.NewHashReference(name, from),
	)
}

// Rollback forces the branch ref back to the given head.
func (s *Session) Rollback(branch string, head plumbing.Hash) error {
	if branch == "" {
		return ErrEmptyBranchName
	}

	return s.storage.SetReference(
		plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), head))
}

type empty = struct{}
