package domain

import (
	"regexp"
	"strings"
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize canonicalizes free text for matching: lowercases, replaces every
// run of characters outside [a-z0-9 ] with a single space, collapses
// whitespace, and trims. It is total and idempotent, and is applied
// identically to note names and incoming queries so matching is
// case- and punctuation-insensitive.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumPattern.ReplaceAllString(s, " ")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Tokens splits a normalized string into its whitespace-separated tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}
