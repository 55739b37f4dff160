// Package segment splits a passage into sentences and sentences into word tokens.
//
// Whitespace follows the ECMAScript `\s` class (ASCII controls, every Unicode
// space separator and the byte order mark), so text pasted from web pages with
// non-breaking or ideographic spaces segments the same way it reads.
package segment

import (
	"regexp"
	"strings"
	"unicode"
)

const byteOrderMark = '\uFEFF'

// Regex patterns for segmentation.
const (
	whitespaceClass        = `\t\n\v\f\r \p{Z}\x{FEFF}`
	boundaryRegexPattern   = `[.!?][` + whitespaceClass + `]+`
	whitespaceRegexPattern = `[` + whitespaceClass + `]+`
	nonLetterRegexPattern  = `[^a-zA-Z]`
)

// Segmenter holds the precompiled patterns used for segmentation.
// It is immutable and safe for concurrent use.
type Segmenter struct {
	boundaryPattern   *regexp.Regexp
	whitespacePattern *regexp.Regexp
	nonLetterPattern  *regexp.Regexp
}

// NewSegmenter creates a segmenter with compiled patterns.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		boundaryPattern:   regexp.MustCompile(boundaryRegexPattern),
		whitespacePattern: regexp.MustCompile(whitespaceRegexPattern),
		nonLetterPattern:  regexp.MustCompile(nonLetterRegexPattern),
	}
}

// Split cuts text after every '.', '!' or '?' that is followed by whitespace.
// The whitespace belongs to neither side. Pieces are trimmed and empty pieces
// are dropped, so whitespace-only input yields no sentences and input without
// a boundary yields the whole trimmed text.
//
// Abbreviations such as "Mr." end a sentence.
func (s *Segmenter) Split(text string) []string {
	sentences := make([]string, 0)
	start := 0

	for _, loc := range s.boundaryPattern.FindAllStringIndex(text, -1) {
		// The terminator is a single ASCII byte at loc[0].
		sentences = appendTrimmed(sentences, text[start:loc[0]+1])
		start = loc[1]
	}

	return appendTrimmed(sentences, text[start:])
}

// Tokens splits a sentence on whitespace runs.
func (s *Segmenter) Tokens(sentence string) []string {
	return s.whitespacePattern.Split(sentence, -1)
}

// CleanToken strips every character that is not an ASCII letter.
func (s *Segmenter) CleanToken(token string) string {
	return s.nonLetterPattern.ReplaceAllString(token, "")
}

// Trim removes leading and trailing whitespace in the same class Split uses.
func Trim(text string) string {
	return strings.TrimFunc(text, IsSpace)
}

// IsSpace reports whether r is whitespace for segmentation purposes.
func IsSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', byteOrderMark:
		return true
	}

	return unicode.Is(unicode.Z, r)
}

func appendTrimmed(sentences []string, piece string) []string {
	trimmed := Trim(piece)
	if trimmed == "" {
		return sentences
	}

	return append(sentences, trimmed)
}
