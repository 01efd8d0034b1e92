package gitsquash

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// saveCommit encodes the commit into the storer, sets its hash, and
// returns the stored copy. The returned commit is re-read from the storer
// so its Parent and Tree methods work.
func saveCommit(ctx context.Context, c *object.Commit, s storer.EncodedObjectStorer) (*object.Commit, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	obj := s.NewEncodedObject()
	if err := c.Encode(obj); err != nil {
		return nil, fmt.Errorf("failed to encode commit: %w", err)
	}

	hash, err := s.SetEncodedObject(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to save commit: %w", err)
	}

	saved, err := object.GetCommit(s, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to read back commit %s: %w", hash, err)
	}

	return saved, nil
}
