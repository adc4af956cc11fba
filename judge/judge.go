// judge/judge.go

// Package judge decides whether a typed answer matches the reference
// response. The comparison is deliberately forgiving: Jeopardy-style
// phrasing ("what is mars?") and small misspellings should not cost points.
package judge

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// similarityThreshold is the minimum levenshtein similarity ratio for a
// non-exact match to count as correct.
const similarityThreshold = 0.8

var prefixes = []string{
	"what is ", "who is ", "what are ", "who are ",
	"what's ", "whats ", "who's ", "whos ",
	"the ", "a ", "an ",
}

var punctuation = []string{".", "?", "!", ",", ";", ":", "\"", "'"}

// Normalize lowercases, trims, strips question-form prefixes and leading
// articles, and drops punctuation.
func Normalize(answer string) string {
	result := strings.ToLower(strings.TrimSpace(answer))
	for _, p := range prefixes {
		result = strings.TrimSpace(strings.TrimPrefix(result, p))
	}
	for _, p := range punctuation {
		result = strings.ReplaceAll(result, p, "")
	}
	return strings.TrimSpace(result)
}

// Matches reports whether a submitted answer should be accepted for the
// reference answer. Both sides are normalized first; then the answers must
// be equal, close in edit distance, or the reference must appear whole
// inside the submission ("it's mars, obviously" matches "Mars").
func Matches(submitted, reference string) bool {
	sub := Normalize(submitted)
	ref := Normalize(reference)

	if ref == "" {
		return false
	}
	if sub == ref {
		return true
	}
	if similarity(sub, ref) >= similarityThreshold {
		return true
	}
	if len(ref) >= 3 && strings.Contains(sub, ref) {
		return true
	}
	return false
}

// similarity converts edit distance into a 0..1 ratio over the longer
// string, mirroring the usual fuzzy-ratio definition.
func similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}
