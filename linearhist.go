package gitsquash

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// FirstParentHistory walks from the head commit along first parents until a
// root commit and returns the commits oldest-first, the order the grouping
// engine consumes. This is the same history git produces with
// "--first-parent": second and later parents of merge commits are not
// followed, merge commits themselves stay in the sequence (the classifier
// turns them into boundaries).
//
// stops can optionally be set so the walk ends when one of those commits is
// seen; the stop commit itself is included. maxDepth limits the number of
// commits returned and can be turned off by setting it to 0 or negative.
func FirstParentHistory(
	ctx context.Context,
	head *object.Commit,
	stops HashSet,
	maxDepth int,
) ([]*object.Commit, error) {
	if head == nil {
		return nil, ErrNilCommit
	}

	result := make([]*object.Commit, 0)

	current := head
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		result = append(result, current)

		if maxDepth > 0 && len(result) >= maxDepth {
			break
		}
		if _, isstop := stops[current.Hash]; isstop {
			break
		}
		if current.NumParents() == 0 {
			break
		}

		p, err := current.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("cannot get first parent of %s: %w", current.Hash, err)
		}

		current = p
	}

	// reverse into oldest-first
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return result, nil
}
