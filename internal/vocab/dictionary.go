// Package vocab holds the glossing dictionary and extracts vocabulary from sentences.
package vocab

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyWord indicates a dictionary entry without a word.
	ErrEmptyWord = errors.New("dictionary word cannot be empty")
	// ErrDuplicateWord indicates the same word declared twice.
	ErrDuplicateWord = errors.New("duplicate dictionary word")
)

// Entry is one dictionary row. Word keeps its original casing and may contain spaces.
type Entry struct {
	Word        string `toml:"word"`
	Translation string `toml:"translation"`
}

// Dictionary is an ordered, read-only word table. Declaration order is the
// order in which words are tried during extraction.
type Dictionary struct {
	entries    []Entry
	lowerWords []string
}

// New builds a dictionary from entries in declaration order.
func New(entries []Entry) (*Dictionary, error) {
	dictionary := &Dictionary{
		entries:    make([]Entry, 0, len(entries)),
		lowerWords: make([]string, 0, len(entries)),
	}

	declared := make(map[string]struct{}, len(entries))

	for i, entry := range entries {
		if entry.Word == "" {
			return nil, fmt.Errorf("%w: entry %d", ErrEmptyWord, i)
		}

		if _, exists := declared[entry.Word]; exists {
			return nil, fmt.Errorf("%w: '%s'", ErrDuplicateWord, entry.Word)
		}

		declared[entry.Word] = struct{}{}
		dictionary.entries = append(dictionary.entries, entry)
		dictionary.lowerWords = append(dictionary.lowerWords, strings.ToLower(entry.Word))
	}

	return dictionary, nil
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Entries returns a copy of the entries in declaration order.
func (d *Dictionary) Entries() []Entry {
	entries := make([]Entry, len(d.entries))
	copy(entries, d.entries)

	return entries
}

// Lookup returns the translation for an exact (case-sensitive) word.
func (d *Dictionary) Lookup(word string) (string, bool) {
	for _, entry := range d.entries {
		if entry.Word == word {
			return entry.Translation, true
		}
	}

	return "", false
}

// firstMatch returns the index of the first declared word contained in
// lowerText, or -1. Matching is literal substring, not word-boundary.
func (d *Dictionary) firstMatch(lowerText string) int {
	for i, lowerWord := range d.lowerWords {
		if strings.Contains(lowerText, lowerWord) {
			return i
		}
	}

	return -1
}
