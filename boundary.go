package gitsquash

import "strings"

// DefaultBoundaryKeywords are the message substrings that mark a commit as
// a boundary: reverts and merge/pull commits record publication points or
// already-resolved conflicts, and rewriting across them risks losing
// externally visible history.
var DefaultBoundaryKeywords = []string{"revert", "merge", "pull"}

// BoundaryClassifier decides, per commit, whether it is a non-mergeable
// boundary. Boundary commits never join a group: they flush whatever group
// is open and are themselves discarded.
type BoundaryClassifier struct {
	keywords []string
}

// NewBoundaryClassifier creates a classifier for the given message
// keywords. Nil or empty keywords fall back to [DefaultBoundaryKeywords].
func NewBoundaryClassifier(keywords []string) *BoundaryClassifier {
	if len(keywords) == 0 {
		keywords = DefaultBoundaryKeywords
	}

	lowered := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k == "" {
			continue
		}
		lowered = append(lowered, strings.ToLower(k))
	}

	return &BoundaryClassifier{keywords: lowered}
}

// IsBoundary reports whether c is a boundary: its message contains one of
// the keywords (case-insensitive), it has more than one parent, or it is
// reachable from a tag.
func (b *BoundaryClassifier) IsBoundary(c *Commit) bool {
	if c.NumParents > 1 || c.Tagged {
		return true
	}

	msg := strings.ToLower(c.Message)
	for _, k := range b.keywords {
		if strings.Contains(msg, k) {
			return true
		}
	}

	return false
}
