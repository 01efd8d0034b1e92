package gitsquash

import "regexp"

// correlationKeyRe matches an issue-tracker identifier: an uppercase
// project prefix followed by a hyphen and one to five digits, e.g. ABC-123.
var correlationKeyRe = regexp.MustCompile(`\b[A-Z]+-\d{1,5}\b`)

// CorrelationKey extracts the first issue-tracker identifier from a commit
// message, or "" if the message carries none. Commits with conflicting
// keys belong to unrelated tracked issues and are never merged together.
func CorrelationKey(message string) string {
	return correlationKeyRe.FindString(message)
}
