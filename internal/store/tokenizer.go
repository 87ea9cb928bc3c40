// Package store provides the in-memory lexical index for rule documents:
// a hand-rolled inverted index scored with BM25.
package store

import (
	"regexp"
	"strings"
)

// tokenRegex matches alphanumeric runs; everything else is a separator.
var tokenRegex = regexp.MustCompile(`[a-zA-Z0-9]+`)

// Tokenize lowercases text, strips non-alphanumeric characters, and drops
// tokens of length one or less. Documents and queries must go through the
// same tokenizer so term matching is symmetric.
func Tokenize(text string) []string {
	words := tokenRegex.FindAllString(text, -1)

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		lower := strings.ToLower(w)
		if len(lower) > 1 {
			tokens = append(tokens, lower)
		}
	}
	return tokens
}

// TokenSet returns the distinct tokens of text as a set.
func TokenSet(text string) map[string]struct{} {
	tokens := Tokenize(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
