package core

// Sentence is one segment of the input passage.
// ID is the zero-based position in the produced sequence, not a stable identity.
type Sentence struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// VocabularyEntry is a dictionary word found in the passage together with its gloss.
type VocabularyEntry struct {
	Word        string `json:"word"`
	Translation string `json:"translation"`
}

// ProcessedDocument is the complete response payload for one processing request.
type ProcessedDocument struct {
	Summary   string            `json:"summary"`
	Sentences []Sentence        `json:"sentences"`
	Words     []VocabularyEntry `json:"words"`
}

// NewSentences numbers the split pieces in order.
// An empty input yields an empty, non-nil slice so it encodes as [].
func NewSentences(texts []string) []Sentence {
	sentences := make([]Sentence, 0, len(texts))

	for id, text := range texts {
		sentences = append(sentences, Sentence{ID: id, Text: text})
	}

	return sentences
}
