package gitsquash

import (
	"fmt"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Commit is the read-only record the grouping engine operates on. It is a
// flat snapshot of one [object.Commit] plus derived fields, created fresh
// for each branch pass and never mutated afterwards.
type Commit struct {
	Hash plumbing.Hash

	// RawAuthor is the identity as reported by the backend, "Name <email>".
	RawAuthor string
	// CanonicalAuthor is RawAuthor resolved through the [AliasTable].
	CanonicalAuthor string

	When       time.Time
	Message    string
	NumParents int
	// Tagged is true if any tag can reach this commit.
	Tagged bool

	object *object.Commit
}

// Object returns the underlying [object.Commit].
func (c *Commit) Object() *object.Commit {
	return c.object
}

// NewCommit builds the flat record for one commit. The raw author identity
// is resolved through aliases, and tagged tells whether the commit is
// reachable from any tag.
func NewCommit(c *object.Commit, aliases AliasTable, tagged HashSet) (*Commit, error) {
	if c == nil {
		return nil, ErrNilCommit
	}

	raw := rawIdentity(c.Author)
	if raw == "" {
		return nil, fmt.Errorf("commit %s: %w", c.Hash, ErrMalformedAuthor)
	}

	_, istagged := tagged[c.Hash]

	return &Commit{
		Hash:            c.Hash,
		RawAuthor:       raw,
		CanonicalAuthor: aliases.ResolveSignature(c.Author),
		When:            c.Author.When,
		Message:         c.Message,
		NumParents:      c.NumParents(),
		Tagged:          istagged,

		object: c,
	}, nil
}

// NewCommits maps [NewCommit] over an oldest-first history.
func NewCommits(hist []*object.Commit, aliases AliasTable, tagged HashSet) ([]*Commit, error) {
	result := make([]*Commit, 0, len(hist))

	for _, c := range hist {
		r, err := NewCommit(c, aliases, tagged)
		if err != nil {
			return nil, err
		}

		result = append(result, r)
	}

	return result, nil
}

func rawIdentity(sig object.Signature) string {
	switch {
	case sig.Name == "" && sig.Email == "":
		return ""
	case sig.Name == "":
		return fmt.Sprintf("<%s>", sig.Email)
	case sig.Email == "":
		return sig.Name
	default:
		return fmt.Sprintf("%s <%s>", sig.Name, sig.Email)
	}
}
