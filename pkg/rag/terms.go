package rag

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// nonWordPattern matches every character that is neither a letter, digit,
// underscore nor whitespace.
var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// ExtractTerms splits free text into lowercase search terms. Punctuation is
// replaced with spaces, the text is split on whitespace and only tokens
// longer than three runes are kept. Order is preserved and duplicates are
// not removed.
func ExtractTerms(text string) []string {
	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")

	var terms []string
	for _, word := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(word) > 3 {
			terms = append(terms, word)
		}
	}

	return terms
}

// anyTermIn reports whether any of the terms occurs as a case-insensitive
// substring of text. Terms are expected to be lowercase already, as
// returned by ExtractTerms.
func anyTermIn(terms []string, text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lowered, term) {
			return true
		}
	}

	return false
}
