package svc

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/fardream/gitsquash"
)

// Contributor is one unique author identity found in the repository.
type Contributor struct {
	Name  string
	Email string
	// Canonical is the identity after alias resolution.
	Canonical string
}

// Contributors collects the unique contributors across every commit in the
// repository, resolved through the alias table, sorted by canonical
// identity then email.
func (s *Session) Contributors(aliases gitsquash.AliasTable) ([]Contributor, error) {
	iter, err := s.repo.CommitObjects()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}
	defer iter.Close()

	seen := make(map[string]empty)
	result := make([]Contributor, 0)

	err = iter.ForEach(func(c *object.Commit) error {
		key := c.Author.Name + " <" + c.Author.Email + ">"
		if _, found := seen[key]; found {
			return nil
		}
		seen[key] = empty{}

		result = append(result, Contributor{
			Name:      c.Author.Name,
			Email:     c.Author.Email,
			Canonical: aliases.ResolveSignature(c.Author),
		})

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Canonical != result[j].Canonical {
			return result[i].Canonical < result[j].Canonical
		}
		return result[i].Email < result[j].Email
	})

	return result, nil
}
