// Package normalize provides Spanish text canonicalization for query parsing.
package normalize

import (
	"regexp"
	"strings"
)

var (
	accentReplacer = strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	)
	strictPattern = regexp.MustCompile(`[^a-z0-9\s]`)
	softPattern   = regexp.MustCompile(`[^a-z0-9\s.,]`)
)

// Strict lowercases, strips Spanish diacritics and replaces every character
// outside [a-z0-9 whitespace] with a space.
func Strict(s string) string {
	return strictPattern.ReplaceAllString(fold(s), " ")
}

// Soft is like Strict but preserves digits, '.' and ',' so that numeric
// patterns like "4,6" survive normalization.
func Soft(s string) string {
	return softPattern.ReplaceAllString(fold(s), " ")
}

func fold(s string) string {
	return accentReplacer.Replace(strings.ToLower(s))
}

// Tokens splits a normalized string into whitespace-separated tokens.
func Tokens(s string) []string {
	return strings.Fields(s)
}

// WordSet returns the set of word tokens in s after strict normalization.
func WordSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Tokens(Strict(s)) {
		set[w] = struct{}{}
	}
	return set
}
