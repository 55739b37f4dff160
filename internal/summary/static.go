// Package summary provides Summarizer implementations for processed passages.
package summary

import "context"

// ReferenceSummary is the canned summary returned by the static summarizer.
const ReferenceSummary = "本文报道了伊朗总统马苏德·佩泽什基安表示，伊朗将继续与美国进行核谈判，但不会屈服于外部压力。"

// Static returns the same summary for every input.
type Static struct {
	text string
}

// NewStatic creates a static summarizer. An empty text selects ReferenceSummary.
func NewStatic(text string) *Static {
	if text == "" {
		text = ReferenceSummary
	}

	return &Static{text: text}
}

// Summarize ignores its input.
func (s *Static) Summarize(_ context.Context, _ string) (string, error) {
	return s.text, nil
}
