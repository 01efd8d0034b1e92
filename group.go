package gitsquash

import "time"

const (
	// DefaultSquashWindow is the maximum positive gap between two adjacent
	// commits for them to be mergeable, 14 days.
	DefaultSquashWindow = 14 * 24 * time.Hour
	// DefaultAgeLimit is the threshold of the optional age filter, 14 days.
	DefaultAgeLimit = 14 * 24 * time.Hour
)

// Group is an ordered, non-empty, contiguous sub-sequence of one branch's
// history whose adjacent members all satisfy the mergeability rule. A
// group never contains a boundary commit, and its members are never
// separated by a skipped commit. Only groups with two or more members are
// rewritten.
type Group struct {
	Commits []*Commit

	// Key is the group's effective correlation key: the first non-empty
	// key among the members, or "" if no member carries one.
	Key string
}

// Size returns the number of member commits.
func (g *Group) Size() int {
	return len(g.Commits)
}

// First returns the oldest member commit.
func (g *Group) First() *Commit {
	return g.Commits[0]
}

// Last returns the newest member commit.
func (g *Group) Last() *Commit {
	return g.Commits[len(g.Commits)-1]
}

// Hashes returns the member hashes oldest-first as hex strings.
func (g *Group) Hashes() []string {
	result := make([]string, 0, len(g.Commits))
	for _, c := range g.Commits {
		result = append(result, c.Hash.String())
	}
	return result
}

// GroupResult is the outcome of one grouping pass over a branch.
type GroupResult struct {
	// Groups partitions the non-boundary, non-filtered commits into
	// maximal contiguous mergeable runs, oldest-first. Size-1 groups are
	// included so the partition is complete.
	Groups []*Group
	// Boundaries counts the commits discarded by the classifier.
	Boundaries int
	// Filtered counts the commits excluded by the age filter.
	Filtered int
}

// Skipped returns the total number of commits excluded from grouping.
func (r *GroupResult) Skipped() int {
	return r.Boundaries + r.Filtered
}

// Grouper walks an oldest-first commit sequence once and produces maximal
// groups of mergeable commits. Two adjacent commits are mergeable iff they
// resolve to the same canonical author, the newer one follows the older by
// a strictly positive gap of at most Window, and their correlation keys do
// not conflict.
type Grouper struct {
	Classifier *BoundaryClassifier

	// Window is the squash window; 0 or negative means
	// [DefaultSquashWindow].
	Window time.Duration

	// EnableAgeFilter excludes commits older than AgeLimit from grouping
	// entirely, treating them as already published and untouchable.
	EnableAgeFilter bool
	// AgeLimit applies only when EnableAgeFilter is set; 0 or negative
	// means [DefaultAgeLimit].
	AgeLimit time.Duration

	// Now is the clock for the age filter, for tests. Nil means
	// [time.Now].
	Now func() time.Time
}

// Run performs the single linear pass. commits must be oldest-first.
func (g *Grouper) Run(commits []*Commit) *GroupResult {
	window := g.Window
	if window <= 0 {
		window = DefaultSquashWindow
	}

	var cutoff time.Time
	if g.EnableAgeFilter {
		limit := g.AgeLimit
		if limit <= 0 {
			limit = DefaultAgeLimit
		}
		now := time.Now
		if g.Now != nil {
			now = g.Now
		}
		cutoff = now().Add(-limit)
	}

	result := &GroupResult{}

	var current []*Commit
	key := ""

	flush := func() {
		if len(current) > 0 {
			result.Groups = append(result.Groups, &Group{Commits: current, Key: key})
		}
		current = nil
		key = ""
	}

	for i, c := range commits {
		// boundary and filtered commits break contiguity: they flush the
		// open group and never join any group themselves.
		if g.Classifier.IsBoundary(c) {
			flush()
			result.Boundaries++
			continue
		}
		if g.filtered(c, cutoff) {
			flush()
			result.Filtered++
			continue
		}

		current = append(current, c)
		if key == "" {
			key = CorrelationKey(c.Message)
		}

		if i+1 >= len(commits) {
			continue
		}

		next := commits[i+1]
		if g.Classifier.IsBoundary(next) || g.filtered(next, cutoff) {
			// next iteration flushes
			continue
		}

		if !mergeable(c, next, window) || !compatibleKeys(key, CorrelationKey(next.Message)) {
			flush()
		}
	}

	flush()

	return result
}

func (g *Grouper) filtered(c *Commit, cutoff time.Time) bool {
	return g.EnableAgeFilter && c.When.Before(cutoff)
}

// mergeable reports whether two chronologically adjacent commits may share
// a group: same canonical author, and a strictly positive time gap no
// larger than the window. Out-of-order timestamps never merge.
func mergeable(c, next *Commit, window time.Duration) bool {
	if c.CanonicalAuthor != next.CanonicalAuthor {
		return false
	}

	delta := next.When.Sub(c.When)

	return delta > 0 && delta <= window
}

// compatibleKeys reports whether a candidate's correlation key fits the
// group's effective key: equal, or at least one of the two absent.
func compatibleKeys(groupKey, nextKey string) bool {
	return groupKey == "" || nextKey == "" || groupKey == nextKey
}
