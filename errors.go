// errors

package gitsquash

import "errors"

var (
	ErrHexStringTooShort = errors.New("hex encoded byte slice is too short for hash")
	ErrEmptyHistory      = errors.New("empty history")
	ErrNilCommit         = errors.New("nil commit")
	ErrGroupTooSmall     = errors.New("group must contain at least two commits")
	ErrNotContiguous     = errors.New("group is not a contiguous range of the history")
	ErrMergeInGroup      = errors.New("group contains a commit with multiple parents")
	ErrMalformedAuthor   = errors.New("malformed author identity")
)
