package vocab

import (
	"strings"

	"github.com/book-expert/tts-reader/internal/core"
	"github.com/book-expert/tts-reader/internal/segment"
)

// MaxWords caps the number of vocabulary entries per document.
const MaxWords = 10

// Extractor finds dictionary words in sentences.
type Extractor struct {
	dictionary *Dictionary
	segmenter  *segment.Segmenter
}

// NewExtractor creates an extractor over an injected dictionary.
func NewExtractor(dictionary *Dictionary, segmenter *segment.Segmenter) *Extractor {
	return &Extractor{
		dictionary: dictionary,
		segmenter:  segmenter,
	}
}

// Dictionary returns the dictionary the extractor glosses against.
func (e *Extractor) Dictionary() *Dictionary {
	return e.dictionary
}

// Extract returns at most MaxWords entries in the order their sentences appear.
//
// A sentence is scanned only if one of its tokens, stripped to ASCII letters,
// is non-empty and not already an emitted word (case-insensitive). The scan
// credits the first declared dictionary word contained anywhere in the
// lower-cased sentence, and at most one word per sentence. A word already
// emitted is not repeated.
func (e *Extractor) Extract(sentences []string) []core.VocabularyEntry {
	words := make([]core.VocabularyEntry, 0)
	emitted := make(map[string]struct{})

	for _, sentence := range sentences {
		if len(words) >= MaxWords {
			break
		}

		if !e.hasUnseenToken(sentence, emitted) {
			continue
		}

		index := e.dictionary.firstMatch(strings.ToLower(sentence))
		if index < 0 {
			continue
		}

		lowerWord := e.dictionary.lowerWords[index]
		if _, seen := emitted[lowerWord]; seen {
			continue
		}

		entry := e.dictionary.entries[index]
		words = append(words, core.VocabularyEntry{Word: entry.Word, Translation: entry.Translation})
		emitted[lowerWord] = struct{}{}
	}

	return words
}

func (e *Extractor) hasUnseenToken(sentence string, emitted map[string]struct{}) bool {
	for _, token := range e.segmenter.Tokens(sentence) {
		cleaned := e.segmenter.CleanToken(token)
		if cleaned == "" {
			continue
		}

		if _, seen := emitted[strings.ToLower(cleaned)]; !seen {
			return true
		}
	}

	return false
}
