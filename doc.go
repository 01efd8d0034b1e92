// gitsquash collapses runs of consecutive commits on a linear git history
// into single commits, driven by canonical author identity, temporal
// proximity, and optional issue-tracker correlation. Its intended use is
// history cleanup before republishing a repository to a new remote, without
// losing authorship attribution or issue traceability.
//
// See [Grouper] for the grouping rules and [SquashGroup] for the rewrite.
//
// See [AliasTable] and [BoundaryClassifier] for how author identities and
// non-mergeable commits are handled.
package gitsquash
