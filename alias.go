package gitsquash

import (
	"strings"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// Alias declares one developer: the canonical identity and the identifiers
// (full "Name <email>" strings, bare emails, or bare names) that should all
// resolve to it.
type Alias struct {
	Canonical   string   `yaml:"canonical"`
	Identifiers []string `yaml:"identifiers"`
}

// AliasTable maps lower-cased identifiers to a canonical identity. It is
// built once from configuration and is read-only afterwards.
type AliasTable map[string]string

// NewAliasTable builds the lookup table. Identifiers are lower-cased, and
// the canonical identity itself is also registered as an identifier.
func NewAliasTable(aliases []Alias) AliasTable {
	result := make(AliasTable)

	for _, a := range aliases {
		if a.Canonical == "" {
			continue
		}

		result[strings.ToLower(a.Canonical)] = a.Canonical
		for _, id := range a.Identifiers {
			if id == "" {
				continue
			}
			result[strings.ToLower(id)] = a.Canonical
		}
	}

	return result
}

// Resolve maps an identifier to its canonical identity. Lookup is
// case-insensitive; an identifier absent from the table resolves to itself
// unchanged.
func (t AliasTable) Resolve(identifier string) string {
	if canonical, found := t[strings.ToLower(identifier)]; found {
		return canonical
	}

	return identifier
}

// ResolveSignature resolves a commit signature, trying the full
// "Name <email>" identity first, then the bare email, then the bare name,
// so alias tables may be keyed by any of the three.
func (t AliasTable) ResolveSignature(sig object.Signature) string {
	full := rawIdentity(sig)

	if canonical, found := t[strings.ToLower(full)]; found {
		return canonical
	}
	if canonical, found := t[strings.ToLower(sig.Email)]; found && sig.Email != "" {
		return canonical
	}
	if canonical, found := t[strings.ToLower(sig.Name)]; found && sig.Name != "" {
		return canonical
	}

	return full
}
