// errors

package svc

import "errors"

var (
	ErrNilRepo          = errors.New("nil repo")
	ErrNilDB            = errors.New("nil db")
	ErrEmptyRepoPath    = errors.New("empty repo path")
	ErrEmptyBranchName  = errors.New("empty branch name")
	ErrNoBranches       = errors.New("no branches found")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrEmptyCanonical   = errors.New("alias with empty canonical identity")
	ErrDuplicateAlias   = errors.New("identifier mapped to multiple canonical identities")
	ErrRewriteFailed    = errors.New("rewrite failed, run aborted")
	ErrBranchReadFailed = errors.New("failed to read branch history")
	ErrCheckoutFailed   = errors.New("failed to check out branch")
)
