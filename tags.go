package gitsquash

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage"
)

// TagReachableSet walks the full ancestry of every tag in the repository
// and collects the reachable commit hashes into a [HashSet]. Membership in
// the set answers "is this commit reachable from any tag" without running
// one reachability query per commit.
func TagReachableSet(ctx context.Context, s storage.Storer) (HashSet, error) {
	result := make(HashSet)

	iter, err := s.IterReferences()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	defer iter.Close()

	err = iter.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsTag() {
			return nil
		}

		commit, err := tagCommit(s, ref.Hash())
		if err != nil {
			logger.Warn("skipping unresolvable tag", "tag", ref.Name().Short(), "error", err)
			return nil
		}

		return markAncestry(ctx, commit, result)
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// tagCommit resolves a tag ref target to a commit, peeling an annotated
// tag object if there is one.
func tagCommit(s storage.Storer, h plumbing.Hash) (*object.Commit, error) {
	if tag, err := object.GetTag(s, h); err == nil {
		return tag.Commit()
	}

	return object.GetCommit(s, h)
}

func markAncestry(ctx context.Context, head *object.Commit, seen HashSet) error {
	stack := []*object.Commit{head}

	for len(stack) > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if _, done := seen[current.Hash]; done {
			continue
		}
		seen[current.Hash] = empty{}

		for i := 0; i < current.NumParents(); i++ {
			p, err := current.Parent(i)
			if err != nil {
				return fmt.Errorf("cannot get parent %d for %s: %w", i, current.Hash, err)
			}
			stack = append(stack, p)
		}
	}

	return nil
}
